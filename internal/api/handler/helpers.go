package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"marma_admin/internal/app/service"
	"marma_admin/internal/common"
	"marma_admin/internal/domain/model"

	"github.com/go-chi/chi/v5"
)

func decodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return common.BadRequest("Invalid request payload")
	}
	return nil
}

func pathID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, common.BadRequest("Invalid id")
	}
	return id, nil
}

func queryInt(r *http.Request, key string) int {
	n, _ := strconv.Atoi(r.URL.Query().Get(key))
	return n
}

func pagination(r *http.Request) model.Pagination {
	return model.NewPagination(queryInt(r, "page"), queryInt(r, "limit"))
}

func isForm(r *http.Request) bool {
	ct := r.Header.Get("Content-Type")
	return strings.HasPrefix(ct, "multipart/form-data") || strings.HasPrefix(ct, "application/x-www-form-urlencoded")
}

// formString returns nil when key was not sent at all.
func formString(r *http.Request, key string) *string {
	if r.PostForm == nil {
		if err := r.ParseMultipartForm(32 << 20); err != nil && !errors.Is(err, http.ErrNotMultipart) {
			return nil
		}
	}
	vs, ok := r.PostForm[key]
	if !ok || len(vs) == 0 {
		return nil
	}
	return &vs[0]
}

// formUpload returns the file sent as field, or nil when there is none. The
// caller closes the returned upload's body.
func formUpload(r *http.Request, field string) (*service.Upload, func(), error) {
	file, header, err := r.FormFile(field)
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, func() {}, nil
		}
		return nil, func() {}, common.BadRequest("Invalid file upload")
	}
	u := &service.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	}
	return u, func() { file.Close() }, nil
}
