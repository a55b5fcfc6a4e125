package gateway_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"staticman-gateway/internal/bruteforce"
	"staticman-gateway/internal/gateway"
	"staticman-gateway/internal/middleware"
	"staticman-gateway/internal/model"
	"staticman-gateway/pkg/log"
)

type recorder struct {
	calls int
	req   model.GatedRequest
	body  string
}

func (r *recorder) handle(c *gin.Context) {
	r.calls++
	r.req, _ = gateway.RequestFrom(c)
	b, _ := io.ReadAll(c.Request.Body)
	r.body = string(b)
	c.Status(http.StatusOK)
}

type rejectBody struct {
	Success   bool     `json:"success"`
	ErrorCode string   `json:"errorCode"`
	Data      []string `json:"data"`
}

func setup(t *testing.T, pre ...gin.HandlerFunc) (*gin.Engine, *recorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	rec := &recorder{}
	router, err := gateway.New(log.NewNop(), gateway.APIRoutes(rec.handle))
	if err != nil {
		t.Fatalf("gateway.New: %v", err)
	}

	r := gin.New()
	r.POST("/v1/webhook", func(c *gin.Context) { c.Status(http.StatusAccepted) })
	router.Register(r, pre...)
	return r, rec
}

func do(r http.Handler, method, target, contentType string, body io.Reader) (*httptest.ResponseRecorder, rejectBody) {
	req := httptest.NewRequest(method, target, body)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var rb rejectBody
	json.Unmarshal(w.Body.Bytes(), &rb)
	return w, rb
}

func TestRouter_InvalidVersion(t *testing.T) {
	r, rec := setup(t)

	tcs := []struct {
		method, target string
	}{
		{http.MethodPost, "/v3/entry/johndoe/foobar/master"},
		{http.MethodPost, "/v1/entry/johndoe/foobar/master/comments"},
		{http.MethodPost, "/v2/entry/github/johndoe/foobar/master/comments"},
		{http.MethodGet, "/v1/encrypt/secret"},
		{http.MethodGet, "/v3/connect/johndoe/foobar"},
		{http.MethodGet, "/vfoo/connect/johndoe/foobar"},
		{http.MethodGet, "/v02/connect/johndoe/foobar"},
	}

	for _, tc := range tcs {
		t.Run(tc.method+" "+tc.target, func(t *testing.T) {
			w, rb := do(r, tc.method, tc.target+"?fields[name]=x", "", nil)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", w.Code)
			}
			if rb.Success || rb.ErrorCode != "INVALID_VERSION" {
				t.Errorf("body = %+v", rb)
			}
		})
	}

	if rec.calls != 0 {
		t.Errorf("handler invoked %d times for rejected versions", rec.calls)
	}
}

func TestRouter_VersionPrefix(t *testing.T) {
	r, rec := setup(t)

	w, _ := do(r, http.MethodGet, "/2/connect/johndoe/foobar", "", nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", w.Code)
	}
	if rec.calls != 0 {
		t.Error("handler must not run")
	}
}

func TestRouter_InvalidServiceBeforeParams(t *testing.T) {
	r, rec := setup(t)

	w, rb := do(r, http.MethodPost, "/v3/entry/bitbucket/johndoe/foobar/master/comments", "", nil)
	if w.Code != http.StatusBadRequest || rb.ErrorCode != "INVALID_SERVICE" {
		t.Errorf("status = %d, body = %+v; want 400 INVALID_SERVICE", w.Code, rb)
	}

	w, rb = do(r, http.MethodGet, "/v3/auth/bitbucket/johndoe/foobar/master/comments", "", nil)
	if w.Code != http.StatusBadRequest || rb.ErrorCode != "INVALID_SERVICE" {
		t.Errorf("auth: status = %d, body = %+v", w.Code, rb)
	}

	if rec.calls != 0 {
		t.Error("handler must not run")
	}
}

func TestRouter_MissingParams(t *testing.T) {
	r, rec := setup(t)

	w, rb := do(r, http.MethodPost, "/v2/entry/johndoe/foobar/master", "application/json", strings.NewReader(`{"options":{"slug":"x"}}`))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if rb.ErrorCode != "MISSING_PARAMS" || len(rb.Data) != 1 || rb.Data[0] != "fields" {
		t.Errorf("body = %+v, want MISSING_PARAMS [fields]", rb)
	}
	if rec.calls != 0 {
		t.Error("handler must not run")
	}
}

func TestRouter_BodyTooLarge(t *testing.T) {
	r, rec := setup(t)

	body := `{"fields":{"message":"` + strings.Repeat("a", 10<<20) + `"}}`
	w, rb := do(r, http.MethodPost, "/v2/entry/johndoe/foobar/master", "application/json", strings.NewReader(body))

	if w.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("status = %d, want 413", w.Code)
	}
	if rb.ErrorCode != "PAYLOAD_TOO_LARGE" {
		t.Errorf("body = %+v, want PAYLOAD_TOO_LARGE", rb)
	}
	if rec.calls != 0 {
		t.Error("handler must not run")
	}
}

func TestRouter_Admits(t *testing.T) {
	multipartBody := func() (string, io.Reader) {
		var buf bytes.Buffer
		mw := multipart.NewWriter(&buf)
		mw.WriteField("fields[name]", "John")
		mw.WriteField("options[slug]", "hello")
		mw.Close()
		return mw.FormDataContentType(), &buf
	}

	tcs := map[string]struct {
		target string
		body   func() (string, io.Reader)
		check  func(t *testing.T, req model.GatedRequest)
	}{
		"json body": {
			target: "/v3/entry/gitlab/johndoe/foobar/master/comments",
			body: func() (string, io.Reader) {
				return "application/json; charset=utf-8", strings.NewReader(`{"fields":{"name":"John"}}`)
			},
			check: func(t *testing.T, req model.GatedRequest) {
				if req.APIVersion != 3 || req.Service != model.ServiceGitLab || req.Property != "comments" {
					t.Errorf("req = %+v", req)
				}
				fields, _ := req.Body["fields"].(map[string]any)
				if fields["name"] != "John" {
					t.Errorf("body = %v", req.Body)
				}
			},
		},
		"urlencoded body": {
			target: "/v2/entry/johndoe/foobar/master/comments",
			body: func() (string, io.Reader) {
				return "application/x-www-form-urlencoded", strings.NewReader(url.Values{"fields[name]": {"John"}}.Encode())
			},
			check: func(t *testing.T, req model.GatedRequest) {
				if req.APIVersion != 2 || req.Service != model.ServiceGitHub || req.Branch != "master" {
					t.Errorf("req = %+v", req)
				}
				if req.Form.Get("fields[name]") != "John" {
					t.Errorf("form = %v", req.Form)
				}
			},
		},
		"multipart body": {
			target: "/v1/entry/johndoe/foobar/master",
			body:   multipartBody,
			check: func(t *testing.T, req model.GatedRequest) {
				if req.Username != "johndoe" || req.Repository != "foobar" || req.Property != "" {
					t.Errorf("req = %+v", req)
				}
			},
		},
		"query string": {
			target: "/v1/entry/johndoe/foobar/master?fields=1",
			body:   func() (string, io.Reader) { return "", nil },
			check: func(t *testing.T, req model.GatedRequest) {
				if req.Query.Get("fields") != "1" {
					t.Errorf("query = %v", req.Query)
				}
			},
		},
	}

	for name, tc := range tcs {
		t.Run(name, func(t *testing.T) {
			r, rec := setup(t)
			ct, body := tc.body()

			var raw string
			if body != nil {
				b, _ := io.ReadAll(body)
				raw = string(b)
				body = strings.NewReader(raw)
			}

			w, rb := do(r, http.MethodPost, tc.target, ct, body)
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d, body = %+v", w.Code, rb)
			}
			if rec.calls != 1 {
				t.Fatalf("handler calls = %d, want 1", rec.calls)
			}
			if rec.body != raw {
				t.Errorf("handler saw body %q, want %q", rec.body, raw)
			}
			tc.check(t, rec.req)
		})
	}
}

func TestRouter_GetRoutes(t *testing.T) {
	r, rec := setup(t)

	w, _ := do(r, http.MethodGet, "/v2/encrypt/s3cr3t", "", nil)
	if w.Code != http.StatusOK || rec.req.PathParams["text"] != "s3cr3t" {
		t.Errorf("encrypt: status = %d, params = %v", w.Code, rec.req.PathParams)
	}

	w, _ = do(r, http.MethodGet, "/v3/auth/github/johndoe/foobar/master/comments", "", nil)
	if w.Code != http.StatusOK || rec.req.Service != model.ServiceGitHub || rec.req.Username != "johndoe" {
		t.Errorf("auth: status = %d, req = %+v", w.Code, rec.req)
	}

	w, _ = do(r, http.MethodGet, "/v1/connect/johndoe/foobar", "", nil)
	if w.Code != http.StatusOK || rec.req.Repository != "foobar" {
		t.Errorf("connect: status = %d, req = %+v", w.Code, rec.req)
	}

	w, _ = do(r, http.MethodPost, "/v1/webhook", "", nil)
	if w.Code != http.StatusAccepted {
		t.Errorf("static route shadowed: status = %d", w.Code)
	}
}

func TestRouter_BruteForce(t *testing.T) {
	cfg := bruteforce.Config{Limit: 1, Window: time.Minute}
	guard := bruteforce.NewGuard(bruteforce.NewMemoryStore(cfg), cfg, log.NewNop())
	mw := middleware.New(log.NewNop(), guard)

	r, rec := setup(t, mw.BruteForce())

	w, _ := do(r, http.MethodGet, "/v2/encrypt/a", "", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("first request status = %d", w.Code)
	}

	// the guard runs before admission, so a rejected version still counts
	w, _ = do(r, http.MethodGet, "/v9/encrypt/a", "", nil)
	if w.Code != http.StatusTooManyRequests {
		t.Errorf("second request status = %d, want 429", w.Code)
	}
	if rec.calls != 1 {
		t.Errorf("handler calls = %d, want 1", rec.calls)
	}
}

func TestNew_Errors(t *testing.T) {
	h := func(c *gin.Context) {}

	_, err := gateway.New(log.NewNop(), []gateway.Route{{Method: http.MethodGet, Pattern: "/entry/:x", Handler: h}})
	if !errors.Is(err, gateway.ErrInvalidPattern) {
		t.Errorf("error = %v, want ErrInvalidPattern", err)
	}

	_, err = gateway.New(log.NewNop(), []gateway.Route{
		{Method: http.MethodGet, Pattern: "/v:version/a/:x", Handler: h},
		{Method: http.MethodGet, Pattern: "/v:version/a/:y", Handler: h},
	})
	if !errors.Is(err, gateway.ErrDuplicateRoute) {
		t.Errorf("error = %v, want ErrDuplicateRoute", err)
	}
}
