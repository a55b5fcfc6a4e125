package gateway

import (
	"errors"

	"github.com/gin-gonic/gin"

	"staticman-gateway/internal/model"
)

const (
	versionSegment = "v:version"
	versionParam   = "version"
	serviceParam   = "service"

	requestKey   = "gateway.request"
	maxBodyBytes = 10 << 20
	maxFormMem   = 32 << 20

	codePayloadTooLarge = "PAYLOAD_TOO_LARGE"
)

var (
	ErrInvalidPattern = errors.New("gateway: pattern must start with /v:version")
	ErrDuplicateRoute = errors.New("gateway: duplicate route")
	ErrBodyTooLarge   = errors.New("gateway: request body too large")
)

// Route is one version-gated API endpoint.
type Route struct {
	Method   string
	Pattern  string // e.g. /v:version/entry/:service/:username
	Versions []int
	Services []model.Service // empty: the route has no service segment
	Params   []string        // dotted paths required in query or body
	Handler  gin.HandlerFunc
}

// compiledRoute is a Route with its gin path. Path parameters are registered
// under positional names (p2, p3, ...) so that routes naming the same
// position differently can share the gin tree.
type compiledRoute struct {
	Route
	ginPath string
	names   map[string]string // gin param -> declared name
}
