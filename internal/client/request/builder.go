// Package request provides the fluent builder for outbound HTTP requests.
package request

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/yndnr/famcheck-go/internal/core/domain"
)

// Header names set by the builder.
const (
	HeaderAuthorization = "Authorization"
	HeaderContentType   = "Content-Type"

	ContentTypeJSON = "application/json"
)

// Builder is a stateful, fluent request builder.
// A Builder is not safe for concurrent use; build one per request.
type Builder struct {
	baseURL string
	path    string
	method  string
	headers map[string]string
	body    []byte
	err     error
}

// New creates a builder for path relative to baseURL.
// The default method is GET and no headers are set.
func New(baseURL, path string) *Builder {
	return &Builder{
		baseURL: baseURL,
		path:    path,
		method:  http.MethodGet,
		headers: make(map[string]string),
	}
}

// Method sets the HTTP method.
func (b *Builder) Method(method string) *Builder {
	b.method = method
	return b
}

// Header sets a header, replacing any previous value for the same name.
func (b *Builder) Header(name, value string) *Builder {
	b.headers[http.CanonicalHeaderKey(name)] = value
	return b
}

// Authorization sets the Authorization header verbatim.
// The caller supplies any scheme prefix (e.g. "Bearer ").
func (b *Builder) Authorization(token string) *Builder {
	return b.Header(HeaderAuthorization, token)
}

// JSONBody encodes v as the request body and sets Content-Type.
// An encoding failure is kept and reported by Build.
func (b *Builder) JSONBody(v any) *Builder {
	data, err := json.Marshal(v)
	if err != nil {
		if b.err == nil {
			b.err = domain.ErrSerialization.WithCause(err)
		}
		return b
	}
	b.body = data
	return b.Header(HeaderContentType, ContentTypeJSON)
}

// Build resolves the final URL and returns the immutable descriptor.
// Build has no side effects and may be called more than once.
func (b *Builder) Build() (*Descriptor, error) {
	if b.err != nil {
		return nil, b.err
	}

	resolved, err := resolve(b.baseURL, b.path)
	if err != nil {
		return nil, domain.ErrInvalidURL.WithDetails(b.baseURL + b.path).WithCause(err)
	}

	headers := make(map[string]string, len(b.headers))
	for k, v := range b.headers {
		headers[k] = v
	}

	var body []byte
	if b.body != nil {
		body = append([]byte(nil), b.body...)
	}

	return &Descriptor{
		baseURL: b.baseURL,
		path:    b.path,
		method:  b.method,
		url:     resolved,
		headers: headers,
		body:    body,
	}, nil
}

// MustBuild is like Build but panics on error.
// It is meant for fixed call sites where a failure is a programming defect.
func (b *Builder) MustBuild() *Descriptor {
	d, err := b.Build()
	if err != nil {
		panic(fmt.Sprintf("request: %v", err))
	}
	return d
}

// resolve joins base and path, replacing any path on the base URL.
func resolve(base, path string) (*url.URL, error) {
	u, err := url.Parse(base)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("unsupported scheme %q", u.Scheme)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("missing host")
	}

	ref, err := url.Parse(path)
	if err != nil {
		return nil, err
	}
	if ref.IsAbs() || ref.Host != "" {
		return nil, fmt.Errorf("path %q must be relative", path)
	}

	resolved := *u
	resolved.Path = "/" + strings.TrimPrefix(ref.Path, "/")
	resolved.RawPath = ""
	resolved.RawQuery = ref.RawQuery
	resolved.Fragment = ""
	return &resolved, nil
}
