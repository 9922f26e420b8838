package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"net/url"

	"marma_admin/internal/common"
	"marma_admin/internal/common/sanitize"

	"github.com/go-chi/chi/v5"
)

const (
	MaxBodyBytes   int64 = 1 << 20
	MaxUploadBytes int64 = 512 << 20
)

// multipartMemory is how much of a multipart form is held in memory before
// file parts spill to temporary files.
var multipartMemory int64 = 32 << 20

const bodyCtxKey contextKey = "body"

func mediaType(r *http.Request) string {
	mt, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if err != nil {
		return ""
	}
	return mt
}

func isMultipart(r *http.Request) bool {
	return mediaType(r) == "multipart/form-data"
}

// LimitBody caps the request body. Multipart uploads get the larger limit.
func LimitBody(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		limit := MaxBodyBytes
		if isMultipart(r) {
			limit = MaxUploadBytes
		}
		if r.Body != nil {
			r.Body = http.MaxBytesReader(w, r.Body, limit)
		}
		next.ServeHTTP(w, r)
	})
}

// Sanitize cleans the query string, route parameters and the JSON or form body
// before any handler sees them. JSON bodies are re-encoded so handlers decode
// the cleaned values. Temporary files of a parsed multipart form are removed
// once the rest of the chain returns, whatever its outcome.
func Sanitize(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.URL.RawQuery = sanitize.Values(r.URL.Query()).Encode()

		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			for i, key := range rctx.URLParams.Keys {
				rctx.URLParams.Values[i] = sanitize.Field(key, rctx.URLParams.Values[i])
			}
		}

		r, err := sanitizeBody(r)
		if r.MultipartForm != nil {
			defer r.MultipartForm.RemoveAll()
		}
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				common.RespondWithError(w, http.StatusRequestEntityTooLarge, "Request body too large")
				return
			}
			common.RespondWithError(w, http.StatusBadRequest, "Invalid request payload")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func sanitizeBody(r *http.Request) (*http.Request, error) {
	switch mediaType(r) {
	case "application/json":
		return sanitizeJSON(r)
	case "multipart/form-data":
		if err := r.ParseMultipartForm(multipartMemory); err != nil {
			return r, err
		}
		clean := sanitize.Values(url.Values(r.MultipartForm.Value))
		r.MultipartForm.Value = clean
		setForm(r, clean)
	case "application/x-www-form-urlencoded":
		if err := r.ParseForm(); err != nil {
			return r, err
		}
		setForm(r, sanitize.Values(r.PostForm))
	}
	return r, nil
}

func sanitizeJSON(r *http.Request) (*http.Request, error) {
	if r.Body == nil {
		return r, nil
	}
	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return r, err
	}
	if len(bytes.TrimSpace(raw)) == 0 {
		r.Body = io.NopCloser(bytes.NewReader(raw))
		return r, nil
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var payload any
	if err := dec.Decode(&payload); err != nil {
		return r, err
	}

	obj, ok := payload.(map[string]any)
	if !ok {
		r.Body = io.NopCloser(bytes.NewReader(raw))
		return r, nil
	}
	clean := sanitize.Object(obj)
	out, err := json.Marshal(clean)
	if err != nil {
		return r, err
	}
	r = r.WithContext(contextWithBody(r, clean))
	r.Body = io.NopCloser(bytes.NewReader(out))
	r.ContentLength = int64(len(out))
	return r, nil
}

// setForm replaces the parsed form with post values followed by the query.
func setForm(r *http.Request, post url.Values) {
	r.PostForm = post
	form := make(url.Values, len(post))
	for k, vs := range post {
		form[k] = append([]string(nil), vs...)
	}
	for k, vs := range r.URL.Query() {
		form[k] = append(form[k], vs...)
	}
	r.Form = form
}
