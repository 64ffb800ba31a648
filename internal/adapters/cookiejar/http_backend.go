package cookiejar

import (
	"net/http"
)

// HTTPBackend adapts the jar to one HTTP request/response cycle. Reads
// come from the request's cookies overlaid with buffered writes; Commit
// emits Set-Cookie headers on the response.
type HTTPBackend struct {
	w       http.ResponseWriter
	r       *http.Request
	domain  string
	maxAge  int // seconds
	secure  bool
	pending map[string]*pendingWrite
}

type pendingWrite struct {
	value   string
	deleted bool
}

// NewHTTPBackend creates a backend bound to one request/response pair.
// expDays controls the cookie Max-Age; domain scopes the cookies.
func NewHTTPBackend(w http.ResponseWriter, r *http.Request, domain string, expDays int, secure bool) *HTTPBackend {
	return &HTTPBackend{
		w:       w,
		r:       r,
		domain:  domain,
		maxAge:  expDays * 24 * 60 * 60,
		secure:  secure,
		pending: make(map[string]*pendingWrite),
	}
}

// Get returns the cookie value, preferring writes buffered this cycle.
func (b *HTTPBackend) Get(name string) (string, bool) {
	if p, ok := b.pending[name]; ok {
		if p.deleted {
			return "", false
		}
		return p.value, true
	}
	c, err := b.r.Cookie(name)
	if err != nil || c.Value == "" {
		return "", false
	}
	return c.Value, true
}

// Set buffers a cookie write for this cycle.
func (b *HTTPBackend) Set(name, value string) {
	b.pending[name] = &pendingWrite{value: value}
}

// Delete buffers a cookie removal for this cycle.
func (b *HTTPBackend) Delete(name string) {
	b.pending[name] = &pendingWrite{deleted: true}
}

// Commit writes all buffered mutations as Set-Cookie headers.
// POST: pending buffer is empty
func (b *HTTPBackend) Commit() error {
	for name, p := range b.pending {
		cookie := &http.Cookie{
			Name:     name,
			Path:     "/",
			Domain:   b.domain,
			HttpOnly: true,
			Secure:   b.secure,
			SameSite: http.SameSiteLaxMode,
		}
		if p.deleted {
			cookie.Value = ""
			cookie.MaxAge = -1
		} else {
			cookie.Value = p.value
			cookie.MaxAge = b.maxAge
		}
		http.SetCookie(b.w, cookie)
	}
	b.pending = make(map[string]*pendingWrite)
	return nil
}

// Ready reports whether the backend has a response to write to.
func (b *HTTPBackend) Ready() bool {
	return b.w != nil && b.r != nil
}
