package httpcache

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/rs/zerolog"
)

// HitHeader marks responses replayed from the store.
const HitHeader = "X-Regtags-Cache"

// DefaultTTL is how long a stored response stays valid.
const DefaultTTL = time.Hour

// Transport caches successful GET and POST responses.
type Transport struct {
	base   http.RoundTripper
	store  Store
	ttl    time.Duration
	logger zerolog.Logger
	now    func() time.Time
}

// NewTransport wraps base (http.DefaultTransport when nil). A nil store
// disables caching; ttl <= 0 selects DefaultTTL.
func NewTransport(base http.RoundTripper, store Store, ttl time.Duration, logger zerolog.Logger) *Transport {
	if base == nil {
		base = http.DefaultTransport
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Transport{
		base:   base,
		store:  store,
		ttl:    ttl,
		logger: logger,
		now:    time.Now,
	}
}

// IsHit reports whether resp was served from a cache store.
func IsHit(resp *http.Response) bool {
	return resp != nil && resp.Header.Get(HitHeader) == "hit"
}

// Key identifies a request by method, URL and body.
func Key(method, url string, body []byte) string {
	h := sha256.New()
	h.Write([]byte(method))
	h.Write([]byte{'\n'})
	h.Write([]byte(url))
	h.Write([]byte{'\n'})
	h.Write(body)
	return hex.EncodeToString(h.Sum(nil))
}

func cacheable(method string) bool {
	return method == http.MethodGet || method == http.MethodPost
}

func (t *Transport) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.store == nil || !cacheable(req.Method) {
		return t.base.RoundTrip(req)
	}

	outgoing := req
	var body []byte
	if req.Body != nil && req.Body != http.NoBody {
		data, err := io.ReadAll(req.Body)
		_ = req.Body.Close()
		if err != nil {
			return nil, err
		}
		body = data
		outgoing = req.Clone(req.Context())
		outgoing.Body = io.NopCloser(bytes.NewReader(body))
		outgoing.GetBody = func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(body)), nil
		}
		outgoing.ContentLength = int64(len(body))
	}

	ctx := req.Context()
	key := Key(req.Method, req.URL.String(), body)
	log := t.logger.With().Str("method", req.Method).Str("url", req.URL.String()).Logger()

	entry, ok, err := t.store.Get(ctx, key)
	if err != nil {
		log.Warn().Err(err).Msg("cache lookup failed")
	}
	if ok && !entry.Expired(t.now()) {
		log.Debug().Time("stored_at", entry.StoredAt).Msg("cache hit")
		return replay(req, entry), nil
	}

	resp, err := t.base.RoundTrip(outgoing)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return resp, nil
	}

	data, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return nil, err
	}
	resp.Body = io.NopCloser(bytes.NewReader(data))

	now := t.now()
	stored := Entry{
		StatusCode: resp.StatusCode,
		Header:     resp.Header.Clone(),
		Body:       data,
		StoredAt:   now,
		ExpiresAt:  now.Add(t.ttl),
	}
	if err := t.store.Set(ctx, key, stored); err != nil {
		log.Warn().Err(err).Msg("cache store failed")
	} else {
		log.Debug().Dur("ttl", t.ttl).Msg("cache stored")
	}
	return resp, nil
}

func replay(req *http.Request, entry Entry) *http.Response {
	header := entry.Header.Clone()
	if header == nil {
		header = http.Header{}
	}
	header.Set(HitHeader, "hit")
	header.Set("Content-Length", strconv.Itoa(len(entry.Body)))
	return &http.Response{
		Status:        strconv.Itoa(entry.StatusCode) + " " + http.StatusText(entry.StatusCode),
		StatusCode:    entry.StatusCode,
		Proto:         "HTTP/1.1",
		ProtoMajor:    1,
		ProtoMinor:    1,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(entry.Body)),
		ContentLength: int64(len(entry.Body)),
		Request:       req,
	}
}
