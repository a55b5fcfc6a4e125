package gate

import (
	"net/url"
	"strings"
)

// lookupJSON resolves a dotted path ("fields.name") in a decoded JSON object.
// A key that is present with a null value still counts as defined.
func lookupJSON(body map[string]any, path string) bool {
	if body == nil || path == "" {
		return false
	}

	var cur any = body
	for _, key := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return false
		}
		next, ok := obj[key]
		if !ok {
			return false
		}
		cur = next
	}
	return true
}

// lookupValues resolves a dotted path in form-encoded values. Nested keys use
// bracket notation, so "fields.name" matches "fields[name]" and "fields"
// matches any "fields[...]" key.
func lookupValues(values url.Values, path string) bool {
	if len(values) == 0 || path == "" {
		return false
	}

	keys := strings.Split(path, ".")
	exact := keys[0]
	for _, k := range keys[1:] {
		exact += "[" + k + "]"
	}

	for key := range values {
		if key == exact || key == path || strings.HasPrefix(key, exact+"[") || strings.HasPrefix(key, path+".") {
			return true
		}
	}
	return false
}
