// Package marker embeds a notification payload in a pull request description
// and recovers it later.
//
// The marker is an HTML comment, so it stays invisible when the description
// is rendered:
//
//	<!--staticman_notification:{"parameters":{...},"fields":{...},"options":{...}}-->
package marker

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"staticman-gateway/internal/model"
)

const (
	prefix = "<!--staticman_notification:"
	suffix = "-->"
)

var (
	ErrMalformed         = errors.New("marker: malformed payload")
	ErrMissingParameters = errors.New("marker: payload has no parameters")
)

var pattern = regexp.MustCompile(`(?s)<!--staticman_notification:(.+?)-->`)

// Extract returns the raw text enclosed by the first marker in body. ok is
// false when body carries no marker at all.
func Extract(body string) (raw string, ok bool) {
	m := pattern.FindStringSubmatch(body)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// envelope is the top level of a marker. Only its keys are strict: the
// parameters object carries whatever route parameters the entry was
// submitted with.
type envelope struct {
	Parameters json.RawMessage `json:"parameters"`
	Fields     map[string]any  `json:"fields"`
	Options    map[string]any  `json:"options"`
}

// Decode parses the text returned by Extract. Unknown top-level keys and
// trailing data are rejected.
func Decode(raw string) (model.NotificationPayload, error) {
	var env envelope

	dec := json.NewDecoder(strings.NewReader(strings.TrimSpace(raw)))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&env); err != nil {
		return model.NotificationPayload{}, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return model.NotificationPayload{}, fmt.Errorf("%w: trailing data after payload", ErrMalformed)
	}
	if len(env.Parameters) == 0 || string(env.Parameters) == "null" {
		return model.NotificationPayload{}, ErrMissingParameters
	}

	payload := model.NotificationPayload{Fields: env.Fields, Options: env.Options}
	if err := json.Unmarshal(env.Parameters, &payload.Parameters); err != nil {
		return model.NotificationPayload{}, fmt.Errorf("%w: parameters: %v", ErrMalformed, err)
	}

	p := payload.Parameters
	if p.Username == "" || p.Repository == "" {
		return model.NotificationPayload{}, ErrMissingParameters
	}

	return payload, nil
}

// Encode renders payload as a marker ready to be appended to a pull request
// description.
func Encode(payload model.NotificationPayload) (string, error) {
	// json.Marshal escapes '>' as \u003e, so no value can close the comment early.
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marker: encode payload: %w", err)
	}
	return prefix + string(body) + suffix, nil
}
