package model

// NotificationParameters are the routing parameters of the entry that opened
// the pull request.
type NotificationParameters struct {
	Branch     string `json:"branch"`
	Property   string `json:"property,omitempty"`
	Repository string `json:"repository"`
	Service    string `json:"service,omitempty"`
	Username   string `json:"username"`
	Version    string `json:"version"`
}

// NotificationPayload is embedded in a pull request description when the
// entry is submitted and recovered once the pull request is merged.
type NotificationPayload struct {
	Parameters NotificationParameters `json:"parameters"`
	Fields     map[string]any         `json:"fields"`
	Options    map[string]any         `json:"options"`
}
