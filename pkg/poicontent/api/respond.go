package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/render"

	"github.com/archeomap/poi-content/pkg/poicontent"
)

// errorResponse is the body of every failed request.
type errorResponse struct {
	Message string `json:"message"`
}

// statusForError maps the domain error taxonomy to HTTP statuses. Ownership
// failures map to 401 on the content endpoints, mirroring the contract the
// front-end was built against; the upload endpoint overrides them to 403.
func statusForError(err error) int {
	switch {
	case errors.Is(err, poicontent.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, poicontent.ErrForbidden),
		errors.Is(err, poicontent.ErrFieldNotModifiable):
		return http.StatusUnauthorized
	case errors.Is(err, poicontent.ErrUnexpectedUpload):
		return http.StatusForbidden
	case errors.Is(err, poicontent.ErrMissingContent),
		errors.Is(err, poicontent.ErrInvalidEmail),
		errors.Is(err, poicontent.ErrInvalidRegistration),
		errors.Is(err, poicontent.ErrUnsupportedFileType):
		return http.StatusBadRequest
	case errors.Is(err, poicontent.ErrPayloadTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, poicontent.ErrContentNotFound),
		errors.Is(err, poicontent.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, poicontent.ErrUserExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError renders the error with its mapped status.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	respondErrorStatus(w, r, err, statusForError(err))
}

// respondErrorStatus renders the error with an explicit status, for endpoints
// that override the default mapping.
func respondErrorStatus(w http.ResponseWriter, r *http.Request, err error, status int) {
	if status == http.StatusInternalServerError {
		requestID, _ := r.Context().Value(RequestIDKey).(string)
		slog.Error("request failed", "request_id", requestID, "path", r.URL.Path, "err", err)
	}

	render.Status(r, status)
	render.JSON(w, r, errorResponse{Message: err.Error()})
}

// credentials extracts the caller's Basic credentials. Absent credentials
// yield a zero value, which the guard rejects as unauthenticated.
func credentials(r *http.Request) poicontent.Credentials {
	name, password, _ := r.BasicAuth()
	return poicontent.Credentials{Name: name, Password: password}
}
