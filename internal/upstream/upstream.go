// Package upstream forwards admitted API requests to the backend that owns
// entry creation, encryption, OAuth exchange and site configuration.
package upstream

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httputil"
	"net/url"

	"github.com/gin-gonic/gin"

	"staticman-gateway/pkg/log"
	"staticman-gateway/pkg/response"
)

const (
	codeNotConfigured = "NOT_CONFIGURED"
	codeUnavailable   = "UPSTREAM_UNAVAILABLE"
)

var ErrInvalidURL = errors.New("upstream: url must be absolute http(s)")

// Proxy is the opaque handler behind every gated API route.
type Proxy struct {
	l      log.Logger
	target *url.URL
	proxy  *httputil.ReverseProxy
}

// New parses rawURL. An empty rawURL yields a Proxy that answers 501.
func New(l log.Logger, rawURL string) (*Proxy, error) {
	p := &Proxy{l: l}
	if rawURL == "" {
		return p, nil
	}

	target, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidURL, err)
	}
	if (target.Scheme != "http" && target.Scheme != "https") || target.Host == "" {
		return nil, ErrInvalidURL
	}

	p.target = target
	p.proxy = &httputil.ReverseProxy{
		Rewrite: func(r *httputil.ProxyRequest) {
			r.SetURL(target)
			r.SetXForwarded()
		},
	}
	return p, nil
}

// Configured reports whether requests are forwarded anywhere.
func (p *Proxy) Configured() bool {
	return p.proxy != nil
}

// Handle forwards the request unchanged.
func (p *Proxy) Handle(c *gin.Context) {
	if p.proxy == nil {
		response.Reject(c, http.StatusNotImplemented, codeNotConfigured, nil)
		return
	}

	rp := *p.proxy
	rp.ErrorHandler = p.handleError(c)
	rp.ServeHTTP(c.Writer, c.Request)
}

func (p *Proxy) handleError(c *gin.Context) func(http.ResponseWriter, *http.Request, error) {
	return func(_ http.ResponseWriter, r *http.Request, err error) {
		p.l.Errorf(r.Context(), "upstream.Handle: %s %s: %v", r.Method, r.URL.Path, err)
		response.Reject(c, http.StatusBadGateway, codeUnavailable, nil)
	}
}
