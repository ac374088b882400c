package server

import (
	"encoding/json"
	"net/http"

	"github.com/vibecoding/devlog/internal/service"
)

func (s *Server) handleListLogs(w http.ResponseWriter, r *http.Request) {
	if keyword := r.URL.Query().Get("keyword"); keyword != "" {
		logs, err := s.logs.Search(r.Context(), keyword)
		if err != nil {
			writeError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, logs)
		return
	}

	projectID := queryInt64(r, "projectId")
	startDate := queryDate(r, "startDate")
	endDate := queryDate(r, "endDate")

	logs, err := s.logs.FindAll(r.Context(), projectID, startDate, endDate)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

func (s *Server) handleGetLog(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeBadRequest(w, "invalid log id")
		return
	}

	d, err := s.logs.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleSearchLogs(w http.ResponseWriter, r *http.Request) {
	keyword := r.URL.Query().Get("q")
	if keyword == "" {
		writeBadRequest(w, "query parameter q is required")
		return
	}

	logs, err := s.logs.Search(r.Context(), keyword)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

func (s *Server) handleRecentLogs(w http.ResponseWriter, r *http.Request) {
	logs, err := s.logs.FindRecent(r.Context(), queryInt(r, "limit", 0))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, logs)
}

func (s *Server) handleLogCalendar(w http.ResponseWriter, r *http.Request) {
	year := queryInt(r, "year", 0)
	month := queryInt(r, "month", 0)

	counts, err := s.logs.CalendarData(r.Context(), year, month)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, counts)
}

func (s *Server) handleCreateLog(w http.ResponseWriter, r *http.Request) {
	var in service.DevLogInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	d, err := s.logs.Create(r.Context(), in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, d)
}

func (s *Server) handleUpdateLog(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeBadRequest(w, "invalid log id")
		return
	}

	var in service.DevLogInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeBadRequest(w, "invalid request body")
		return
	}

	d, err := s.logs.Update(r.Context(), id, in)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

func (s *Server) handleDeleteLog(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		writeBadRequest(w, "invalid log id")
		return
	}

	if err := s.logs.Delete(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusNoContent, nil)
}

func (s *Server) handleLogSummary(w http.ResponseWriter, r *http.Request) {
	sum, err := s.logs.Summary(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sum)
}
