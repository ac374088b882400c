package server

import (
	"net/http"
)

func (s *Server) handleWeeklyStats(w http.ResponseWriter, r *http.Request) {
	start := queryDate(r, "startDate")

	stats, err := s.stats.WeeklyStats(r.Context(), start)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleLastWeekStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.stats.LastWeekStats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleMonthlyStats(w http.ResponseWriter, r *http.Request) {
	year := queryInt(r, "year", 0)
	month := queryInt(r, "month", 0)

	stats, err := s.stats.MonthlyStats(r.Context(), year, month)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleLastMonthStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.stats.LastMonthStats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleProjectStats(w http.ResponseWriter, r *http.Request) {
	projectID, ok := pathID(r, "projectId")
	if !ok {
		writeBadRequest(w, "invalid project id")
		return
	}

	stats, err := s.stats.ProjectStats(r.Context(), projectID)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleTechStackStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.stats.TechStackStats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleDashboardStats(w http.ResponseWriter, r *http.Request) {
	stats, err := s.stats.DashboardStats(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}
