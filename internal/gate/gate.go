package gate

import (
	"net/http"
	"strconv"

	"staticman-gateway/internal/model"
)

// RequireAPIVersion accepts requests whose version segment is one of versions.
func RequireAPIVersion(versions ...int) Check {
	allowed := make(map[int]struct{}, len(versions))
	for _, v := range versions {
		allowed[v] = struct{}{}
	}

	return func(in Input) *Rejection {
		v, err := strconv.Atoi(in.Version)
		if err != nil || strconv.Itoa(v) != in.Version {
			return reject(CodeInvalidVersion, http.StatusBadRequest, nil)
		}
		if _, ok := allowed[v]; !ok {
			return reject(CodeInvalidVersion, http.StatusBadRequest, nil)
		}
		return nil
	}
}

// RequireService accepts requests whose service segment is one of services.
func RequireService(services ...model.Service) Check {
	allowed := make(map[string]struct{}, len(services))
	for _, s := range services {
		allowed[string(s)] = struct{}{}
	}

	return func(in Input) *Rejection {
		if _, ok := allowed[in.Service]; !ok {
			return reject(CodeInvalidService, http.StatusBadRequest, nil)
		}
		return nil
	}
}

// RequireParams accepts requests in which every dotted path resolves in the
// query string or in the body. All missing paths are reported together.
func RequireParams(paths ...string) Check {
	return func(in Input) *Rejection {
		var missing []string
		for _, p := range paths {
			if lookupValues(in.Query, p) || lookupValues(in.Form, p) || lookupJSON(in.Body, p) {
				continue
			}
			missing = append(missing, p)
		}
		if len(missing) > 0 {
			return reject(CodeMissingParams, statusMissingParams, missing)
		}
		return nil
	}
}

// Evaluate runs checks in order and stops at the first rejection.
func Evaluate(in Input, checks ...Check) Result {
	for _, check := range checks {
		if r := check(in); r != nil {
			return Result{Rejection: r}
		}
	}
	return Result{}
}
