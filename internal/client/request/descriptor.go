// Package request provides the fluent builder for outbound HTTP requests.
package request

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/url"
)

// Descriptor is the fully specified, immutable representation of an
// outbound request. Accessors return copies.
type Descriptor struct {
	baseURL string
	path    string
	method  string
	url     *url.URL
	headers map[string]string
	body    []byte
}

// BaseURL returns the base URL the descriptor was built from.
func (d *Descriptor) BaseURL() string { return d.baseURL }

// Path returns the request path.
func (d *Descriptor) Path() string { return d.path }

// Method returns the HTTP method.
func (d *Descriptor) Method() string { return d.method }

// URL returns the resolved request URL.
func (d *Descriptor) URL() string { return d.url.String() }

// Header returns the value of a header and whether it is set.
func (d *Descriptor) Header(name string) (string, bool) {
	v, ok := d.headers[http.CanonicalHeaderKey(name)]
	return v, ok
}

// Headers returns a copy of all headers.
func (d *Descriptor) Headers() map[string]string {
	out := make(map[string]string, len(d.headers))
	for k, v := range d.headers {
		out[k] = v
	}
	return out
}

// Body returns a copy of the body, or nil when the request has none.
func (d *Descriptor) Body() []byte {
	if d.body == nil {
		return nil
	}
	return append([]byte(nil), d.body...)
}

// HTTPRequest materializes a fresh *http.Request bound to ctx.
func (d *Descriptor) HTTPRequest(ctx context.Context) (*http.Request, error) {
	var body io.Reader
	if d.body != nil {
		body = bytes.NewReader(d.body)
	}

	req, err := http.NewRequestWithContext(ctx, d.method, d.url.String(), body)
	if err != nil {
		return nil, err
	}
	for k, v := range d.headers {
		req.Header.Set(k, v)
	}
	return req, nil
}
