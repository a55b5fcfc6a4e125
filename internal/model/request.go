package model

import "net/url"

// GatedRequest is the admitted view of an API request: path segments by
// name plus every parameter source the validators consult.
type GatedRequest struct {
	APIVersion int
	Service    Service
	Username   string
	Repository string
	Branch     string
	Property   string

	PathParams map[string]string
	Query      url.Values
	Form       url.Values     // urlencoded / multipart body
	Body       map[string]any // JSON body
}
