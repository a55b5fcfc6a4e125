package response

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
)

// RejectResp is the body of an admission error on the public API.
type RejectResp struct {
	Success   bool     `json:"success"`
	ErrorCode string   `json:"errorCode"`
	Data      []string `json:"data,omitempty"`
}

// RateLimitResp is the body returned when a client exceeds its allowance.
type RateLimitResp struct {
	Error RateLimitError `json:"error"`
}

type RateLimitError struct {
	Text                 string    `json:"text"`
	NextValidRequestDate time.Time `json:"nextValidRequestDate"`
}

const tooManyRequestsText = "Too many requests in this time frame."

// Reject aborts the request with {success: false, errorCode, data}.
func Reject(c *gin.Context, status int, code string, data []string) {
	c.AbortWithStatusJSON(status, RejectResp{
		Success:   false,
		ErrorCode: code,
		Data:      data,
	})
}

// TooManyRequests aborts the request with 429 and tells the client when it
// may retry.
func TooManyRequests(c *gin.Context, retryAfter time.Duration) {
	secs := int(retryAfter.Round(time.Second) / time.Second)
	if secs < 1 {
		secs = 1
	}
	c.Header("Retry-After", strconv.Itoa(secs))
	c.AbortWithStatusJSON(http.StatusTooManyRequests, RateLimitResp{
		Error: RateLimitError{
			Text:                 tooManyRequestsText,
			NextValidRequestDate: time.Now().Add(retryAfter).UTC(),
		},
	})
}
