package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/archeomap/poi-content/pkg/poicontent"
)

// BindUpload receives the file for a previously announced upload. The {token}
// path segment must be a token issued by CreateContent; anything else is
// refused the same way an unknown token is.
func (s *Server) BindUpload(w http.ResponseWriter, r *http.Request) {
	token, err := strconv.ParseInt(chi.URLParam(r, "token"), 10, 64)
	if err != nil {
		respondError(w, r, poicontent.ErrUnexpectedUpload)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.config.MaxUploadBytes)

	open := func() (string, io.ReadCloser, error) {
		file, header, err := r.FormFile("file")
		if err != nil {
			var maxErr *http.MaxBytesError
			if errors.As(err, &maxErr) {
				return "", nil, fmt.Errorf("multipart body: %w", poicontent.ErrPayloadTooLarge)
			}
			return "", nil, fmt.Errorf("multipart body: %w: %v", poicontent.ErrMissingContent, err)
		}
		return header.Filename, file, nil
	}

	if _, err := s.service.BindUpload(r.Context(), credentials(r), token, open); err != nil {
		// Uploading against someone else's announcement is refused with
		// 403 here, unlike the content endpoints.
		if errors.Is(err, poicontent.ErrForbidden) {
			respondErrorStatus(w, r, err, http.StatusForbidden)
			return
		}
		respondError(w, r, err)
		return
	}

	render.JSON(w, r, "Photo uploaded!")
}
