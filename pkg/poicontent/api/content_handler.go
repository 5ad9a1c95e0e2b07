package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"github.com/archeomap/poi-content/pkg/poicontent"
)

// contentID parses the {id} route parameter.
func contentID(r *http.Request) (int64, error) {
	return strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
}

// CreateContent creates a content row for the authenticated caller. The
// response carries the issued upload token when an upload was announced.
func (s *Server) CreateContent(w http.ResponseWriter, r *http.Request) {
	var req poicontent.CreateContentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorStatus(w, r, err, http.StatusBadRequest)
		return
	}

	content, err := s.service.CreateContent(r.Context(), credentials(r), req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, content)
}

// GetContent fetches a single content row.
func (s *Server) GetContent(w http.ResponseWriter, r *http.Request) {
	id, err := contentID(r)
	if err != nil {
		respondError(w, r, poicontent.ErrContentNotFound)
		return
	}

	content, err := s.service.GetContent(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}

	render.JSON(w, r, content)
}

// ListContent returns a page of content enriched with like tallies.
func (s *Server) ListContent(w http.ResponseWriter, r *http.Request) {
	req := poicontent.ListContentRequest{}
	if v := r.URL.Query().Get("page"); v != "" {
		req.Page, _ = strconv.Atoi(v)
	}
	if v := r.URL.Query().Get("results_per_page"); v != "" {
		req.PerPage, _ = strconv.Atoi(v)
	}

	page, err := s.service.ListContent(r.Context(), req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	render.JSON(w, r, page)
}

// UpdateContent modifies the mutable fields of a content row. The body is
// decoded into a raw map first so fields outside the mutable schema are seen
// and rejected rather than silently dropped.
func (s *Server) UpdateContent(w http.ResponseWriter, r *http.Request) {
	id, err := contentID(r)
	if err != nil {
		respondError(w, r, poicontent.ErrContentNotFound)
		return
	}

	var raw map[string]json.RawMessage
	if err := json.NewDecoder(r.Body).Decode(&raw); err != nil {
		respondErrorStatus(w, r, err, http.StatusBadRequest)
		return
	}

	req := poicontent.UpdateContentRequest{ContentID: id}
	for field, value := range raw {
		req.Fields = append(req.Fields, field)
		switch field {
		case "comment":
			var v string
			if err := json.Unmarshal(value, &v); err != nil {
				respondErrorStatus(w, r, err, http.StatusBadRequest)
				return
			}
			req.Comment = &v
		case "file_description":
			var v string
			if err := json.Unmarshal(value, &v); err != nil {
				respondErrorStatus(w, r, err, http.StatusBadRequest)
				return
			}
			req.FileDescription = &v
		}
	}

	content, err := s.service.UpdateContent(r.Context(), credentials(r), req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	render.JSON(w, r, content)
}

// DeleteContent removes a content row, its likes and any bound file.
func (s *Server) DeleteContent(w http.ResponseWriter, r *http.Request) {
	id, err := contentID(r)
	if err != nil {
		respondError(w, r, poicontent.ErrContentNotFound)
		return
	}

	if err := s.service.DeleteContent(r.Context(), credentials(r), id); err != nil {
		respondError(w, r, err)
		return
	}

	render.JSON(w, r, true)
}

// RecordLike upserts the caller's vote for a content id.
func (s *Server) RecordLike(w http.ResponseWriter, r *http.Request) {
	var req poicontent.RecordLikeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondErrorStatus(w, r, err, http.StatusBadRequest)
		return
	}

	like, err := s.service.RecordLike(r.Context(), credentials(r), req)
	if err != nil {
		respondError(w, r, err)
		return
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, like)
}
