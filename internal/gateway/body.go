package gateway

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
)

type parsedBody struct {
	json map[string]any
	form url.Values
}

// readBody parses the request body for parameter checks and leaves
// r.Body rewound so the handler can read it again. Bodies over maxBodyBytes
// fail with ErrBodyTooLarge.
func readBody(w http.ResponseWriter, r *http.Request) (parsedBody, error) {
	if r.Body == nil || r.Body == http.NoBody {
		return parsedBody{}, nil
	}

	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	r.Body.Close()
	r.Body = io.NopCloser(bytes.NewReader(raw))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return parsedBody{}, fmt.Errorf("%w: limit %d bytes", ErrBodyTooLarge, tooLarge.Limit)
		}
		return parsedBody{}, err
	}
	if len(raw) == 0 {
		return parsedBody{}, nil
	}

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	switch mediaType {
	case "application/json":
		var obj map[string]any
		if err := json.Unmarshal(raw, &obj); err != nil {
			return parsedBody{}, err
		}
		return parsedBody{json: obj}, nil

	case "application/x-www-form-urlencoded", "multipart/form-data":
		clone := r.Clone(r.Context())
		clone.Body = io.NopCloser(bytes.NewReader(raw))
		clone.Form, clone.PostForm, clone.MultipartForm = nil, nil, nil

		if mediaType == "multipart/form-data" {
			err = clone.ParseMultipartForm(maxFormMem)
			if clone.MultipartForm != nil {
				defer clone.MultipartForm.RemoveAll()
			}
		} else {
			err = clone.ParseForm()
		}
		if err != nil {
			return parsedBody{}, err
		}
		return parsedBody{form: clone.PostForm}, nil
	}

	return parsedBody{}, nil
}
