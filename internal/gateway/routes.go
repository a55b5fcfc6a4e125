package gateway

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"staticman-gateway/internal/model"
)

var bothServices = []model.Service{model.ServiceGitHub, model.ServiceGitLab}

// APIRoutes is the public API surface. Every route dispatches to h once
// admitted.
func APIRoutes(h gin.HandlerFunc) []Route {
	return []Route{
		{
			Method:   http.MethodGet,
			Pattern:  "/v:version/connect/:username/:repository",
			Versions: []int{1, 2},
			Handler:  h,
		},
		{
			Method:   http.MethodPost,
			Pattern:  "/v:version/entry/:username/:repository/:branch",
			Versions: []int{1, 2},
			Params:   []string{"fields"},
			Handler:  h,
		},
		{
			Method:   http.MethodPost,
			Pattern:  "/v:version/entry/:username/:repository/:branch/:property",
			Versions: []int{2},
			Params:   []string{"fields"},
			Handler:  h,
		},
		{
			Method:   http.MethodPost,
			Pattern:  "/v:version/entry/:service/:username/:repository/:branch/:property",
			Versions: []int{3},
			Services: bothServices,
			Params:   []string{"fields"},
			Handler:  h,
		},
		{
			Method:   http.MethodGet,
			Pattern:  "/v:version/encrypt/:text",
			Versions: []int{2, 3},
			Handler:  h,
		},
		{
			Method:   http.MethodGet,
			Pattern:  "/v:version/auth/:service/:username/:repository/:branch/:property",
			Versions: []int{2, 3},
			Services: bothServices,
			Handler:  h,
		},
	}
}
