package middleware

import (
	"context"
	"net/http"
	"net/url"

	"marma_admin/internal/common"
	"marma_admin/internal/common/validate"

	"github.com/go-chi/chi/v5"
)

const (
	MsgValidationFailed      = "Validation failed"
	MsgQueryValidationFailed = "Query validation failed"
	MsgParamValidationFailed = "Parameter validation failed"
)

func contextWithBody(r *http.Request, body map[string]any) context.Context {
	return context.WithValue(r.Context(), bodyCtxKey, body)
}

// bodyFields returns the sanitized JSON object or the parsed form of r.
func bodyFields(r *http.Request) map[string]any {
	if body, ok := r.Context().Value(bodyCtxKey).(map[string]any); ok {
		return body
	}
	if r.PostForm != nil {
		return firstValues(r.PostForm)
	}
	return nil
}

func firstValues(values url.Values) map[string]any {
	out := make(map[string]any, len(values))
	for k := range values {
		out[k] = values.Get(k)
	}
	return out
}

func routeParams(r *http.Request) map[string]any {
	out := map[string]any{}
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		for i, key := range rctx.URLParams.Keys {
			out[key] = rctx.URLParams.Values[i]
		}
	}
	return out
}

// Validate checks body, query string and route parameters against rules, in
// that order, and stops at the first part that fails.
func Validate(rules validate.Rules) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(rules.Body) > 0 {
				if ok, errs := validate.ValidateObject(bodyFields(r), rules.Body); !ok {
					common.RespondWithErrors(w, http.StatusBadRequest, MsgValidationFailed, errs)
					return
				}
			}
			if len(rules.Query) > 0 {
				if ok, errs := validate.ValidateObject(firstValues(r.URL.Query()), rules.Query); !ok {
					common.RespondWithErrors(w, http.StatusBadRequest, MsgQueryValidationFailed, errs)
					return
				}
			}
			if len(rules.Params) > 0 {
				if ok, errs := validate.ValidateObject(routeParams(r), rules.Params); !ok {
					common.RespondWithErrors(w, http.StatusBadRequest, MsgParamValidationFailed, errs)
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}
