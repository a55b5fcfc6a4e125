package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"staticman-gateway/internal/gate"
	"staticman-gateway/internal/model"
	"staticman-gateway/pkg/log"
	"staticman-gateway/pkg/response"
)

// Router installs version-gated routes on a gin engine. Each route runs
// version prefix match, the pre-admission middlewares (brute-force guard),
// gate.Evaluate and finally its handler.
type Router struct {
	l      log.Logger
	routes []compiledRoute
}

// New compiles routes. It fails on malformed patterns and on two routes that
// would occupy the same method and path shape.
func New(l log.Logger, routes []Route) (*Router, error) {
	seen := make(map[string]string, len(routes))
	compiled := make([]compiledRoute, 0, len(routes))

	for _, rt := range routes {
		cr, err := compile(rt)
		if err != nil {
			return nil, err
		}
		key := rt.Method + " " + cr.ginPath
		if prev, ok := seen[key]; ok {
			return nil, fmt.Errorf("%w: %s %s and %s", ErrDuplicateRoute, rt.Method, rt.Pattern, prev)
		}
		seen[key] = rt.Pattern
		compiled = append(compiled, cr)
	}

	return &Router{l: l, routes: compiled}, nil
}

// Register adds every route to r. pre runs after the version prefix matched
// and before admission checks.
func (rt *Router) Register(r gin.IRoutes, pre ...gin.HandlerFunc) {
	ctx := context.Background()
	for _, cr := range rt.routes {
		chain := make([]gin.HandlerFunc, 0, len(pre)+3)
		chain = append(chain, requireVersionPrefix)
		chain = append(chain, pre...)
		chain = append(chain, rt.admit(cr), cr.Handler)

		r.Handle(cr.Method, cr.ginPath, chain...)
		rt.l.Debugf(ctx, "gateway.Register: %s %s (versions %v)", cr.Method, cr.Pattern, cr.Versions)
	}
}

func compile(rt Route) (compiledRoute, error) {
	segments := strings.Split(strings.TrimPrefix(rt.Pattern, "/"), "/")
	if len(segments) == 0 || segments[0] != versionSegment {
		return compiledRoute{}, fmt.Errorf("%w: %q", ErrInvalidPattern, rt.Pattern)
	}

	names := make(map[string]string, len(segments))
	parts := make([]string, len(segments))
	parts[0] = ":" + versionParam

	for i, seg := range segments[1:] {
		pos := i + 1
		name, isParam := strings.CutPrefix(seg, ":")
		if !isParam {
			parts[pos] = seg
			continue
		}
		if name == "" || name == versionParam {
			return compiledRoute{}, fmt.Errorf("%w: bad parameter in %q", ErrInvalidPattern, rt.Pattern)
		}
		ginName := "p" + strconv.Itoa(pos)
		names[ginName] = name
		parts[pos] = ":" + ginName
	}

	return compiledRoute{
		Route:   rt,
		ginPath: "/" + strings.Join(parts, "/"),
		names:   names,
	}, nil
}

// requireVersionPrefix answers 404 for paths whose first segment is not
// v<something>, as they match no declared route.
func requireVersionPrefix(c *gin.Context) {
	if !strings.HasPrefix(c.Param(versionParam), "v") {
		c.AbortWithStatus(http.StatusNotFound)
		return
	}
	c.Next()
}

func (rt *Router) admit(cr compiledRoute) gin.HandlerFunc {
	checks := []gate.Check{gate.RequireAPIVersion(cr.Versions...)}
	if len(cr.Services) > 0 {
		checks = append(checks, gate.RequireService(cr.Services...))
	}
	if len(cr.Params) > 0 {
		checks = append(checks, gate.RequireParams(cr.Params...))
	}

	return func(c *gin.Context) {
		ctx := c.Request.Context()

		pathParams := make(map[string]string, len(cr.names))
		for ginName, name := range cr.names {
			pathParams[name] = c.Param(ginName)
		}

		body, err := readBody(c.Writer, c.Request)
		if errors.Is(err, ErrBodyTooLarge) {
			rt.l.Warnf(ctx, "gateway.admit: %s %s: %v", cr.Method, c.Request.URL.Path, err)
			response.Reject(c, http.StatusRequestEntityTooLarge, codePayloadTooLarge, nil)
			return
		}
		if err != nil {
			rt.l.Warnf(ctx, "gateway.admit: %s %s read body: %v", cr.Method, c.Request.URL.Path, err)
		}

		in := gate.Input{
			Version: strings.TrimPrefix(c.Param(versionParam), "v"),
			Service: pathParams[serviceParam],
			Query:   c.Request.URL.Query(),
			Form:    body.form,
			Body:    body.json,
		}

		res := gate.Evaluate(in, checks...)
		if !res.Accepted() {
			rej := res.Rejection
			rt.l.Infof(ctx, "gateway.admit: %s %s rejected: %s %v", cr.Method, c.Request.URL.Path, rej.Code, rej.Data)
			response.Reject(c, rej.Status, string(rej.Code), rej.Data)
			return
		}

		version, _ := strconv.Atoi(in.Version)
		service := model.ServiceGitHub
		if s := model.Service(in.Service); s.IsValid() {
			service = s
		}

		c.Set(requestKey, model.GatedRequest{
			APIVersion: version,
			Service:    service,
			Username:   pathParams["username"],
			Repository: pathParams["repository"],
			Branch:     pathParams["branch"],
			Property:   pathParams["property"],
			PathParams: pathParams,
			Query:      in.Query,
			Form:       in.Form,
			Body:       in.Body,
		})
		c.Next()
	}
}

// RequestFrom returns the admitted request. ok is false outside a gated
// route.
func RequestFrom(c *gin.Context) (model.GatedRequest, bool) {
	v, exists := c.Get(requestKey)
	if !exists {
		return model.GatedRequest{}, false
	}
	req, ok := v.(model.GatedRequest)
	return req, ok
}
