package server

import (
	"encoding/json"
	"net/http"

	"github.com/vibecoding/devlog/internal/model"
	"github.com/vibecoding/devlog/internal/service"
)

func (s *Server) handleListTags(w http.ResponseWriter, r *http.Request) {
	var (
		tags []model.TechTag
		err  error
	)

	q := r.URL.Query()
	switch {
	case q.Get("category") != "":
		tags, err = s.tags.FindByCategory(r.Context(), q.Get("category"))
	case q.Get("keyword") != "":
		tags, err = s.tags.Search(r.Context(), q.Get("keyword"))
	default:
		tags, err = s.tags.FindAll(r.Context())
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tags)
}

func (s *Server) handleGetTag(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeBadRequest(w, "invalid tag id")
		return
	}

	t, err := s.tags.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handlePopularTags(w http.ResponseWriter, r *http.Request) {
	tags, err := s.tags.FindPopular(r.Context(), queryInt(r, "limit", 0))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tags)
}

func (s *Server) handleSearchTags(w http.ResponseWriter, r *http.Request) {
	keyword := r.URL.Query().Get("q")
	if keyword == "" {
		writeBadRequest(w, "query parameter q is required")
		return
	}

	tags, err := s.tags.Search(r.Context(), keyword)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, tags)
}

func (s *Server) handleCreateTag(w http.ResponseWriter, r *http.Request) {
	var in service.TechTagInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	t, err := s.tags.Create(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) handleUpdateTag(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeBadRequest(w, "invalid tag id")
		return
	}

	var in service.TechTagInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	t, err := s.tags.Update(r.Context(), id, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleDeleteTag(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeBadRequest(w, "invalid tag id")
		return
	}

	if err := s.tags.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleIncrementTag(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeBadRequest(w, "invalid tag id")
		return
	}

	t, err := s.tags.IncrementUsage(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleDecrementTag(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeBadRequest(w, "invalid tag id")
		return
	}

	t, err := s.tags.DecrementUsage(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, t)
}

func (s *Server) handleTagSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := s.tags.Summary(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}
