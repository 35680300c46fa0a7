package tui

import (
	"fmt"

	"github.com/atotto/clipboard"

	"github.com/scottbass3/regtags/internal/registry"
)

var writeClipboard = clipboard.WriteAll
var clipboardWriteAll = clipboard.WriteAll

func (m *Model) copySelectedTagReference() bool {
	ref, ok := m.selectedPullReference()
	if !ok {
		m.status = "No tag selected to copy"
		return false
	}
	if err := writeClipboard(ref); err != nil {
		m.status = fmt.Sprintf("Failed to copy %s: %v", ref, err)
		return false
	}
	m.status = fmt.Sprintf("Copied %s", ref)
	return true
}

func (m Model) selectedPullReference() (string, bool) {
	tag, ok := m.selectedTag()
	if !ok || m.ref.Repository == "" {
		return "", false
	}
	ref, err := registry.PullReference(m.ref, tag)
	if err != nil {
		return "", false
	}
	return ref, true
}
