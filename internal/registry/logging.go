package registry

import (
	"net/http"

	"github.com/scottbass3/regtags/internal/httpcache"
)

type RequestLog struct {
	Method  string
	URL     string
	Headers map[string][]string
	Status  int
	Cached  bool
}

type RequestLogger func(RequestLog)

func logRequestWithLogger(logger RequestLogger, req *http.Request, resp *http.Response) {
	if logger == nil {
		return
	}
	status := 0
	if resp != nil {
		status = resp.StatusCode
	}
	logger(RequestLog{
		Method:  req.Method,
		URL:     req.URL.String(),
		Headers: redactHeaders(cloneHeader(req.Header)),
		Status:  status,
		Cached:  httpcache.IsHit(resp),
	})
}
