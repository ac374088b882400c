package server

import (
	"encoding/json"
	"net/http"

	"github.com/vibecoding/devlog/internal/model"
	"github.com/vibecoding/devlog/internal/service"
)

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	var (
		projects []model.Project
		err      error
	)

	q := r.URL.Query()
	switch {
	case q.Get("status") != "":
		projects, err = s.projects.FindByStatus(r.Context(), q.Get("status"))
	case q.Get("keyword") != "":
		projects, err = s.projects.Search(r.Context(), q.Get("keyword"))
	default:
		projects, err = s.projects.FindAll(r.Context())
	}
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeBadRequest(w, "invalid project id")
		return
	}

	p, err := s.projects.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var in service.ProjectInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	p, err := s.projects.Create(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeBadRequest(w, "invalid project id")
		return
	}

	var in service.ProjectInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	p, err := s.projects.Update(r.Context(), id, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeBadRequest(w, "invalid project id")
		return
	}

	if err := s.projects.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleUpdateProjectProgress(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeBadRequest(w, "invalid project id")
		return
	}

	var body struct {
		Progress int `json:"progress"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	p, err := s.projects.UpdateProgress(r.Context(), id, body.Progress)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleUpdateProjectStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeBadRequest(w, "invalid project id")
		return
	}

	var body struct {
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	p, err := s.projects.UpdateStatus(r.Context(), id, body.Status)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleProjectSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := s.projects.Summary(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}
