/* handlers.go
 * Contains the JSON handlers for the web surface. Each one is a thin wrapper over the api facade:
 * decode the request, call one facade method, encode the result
 */

package web

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"

	"cptracker/api/api"
	"cptracker/api/logic"
	"cptracker/api/shared"

	"go.mongodb.org/mongo-driver/mongo"
)

// routes builds the request mux. Method and path matching is left to the stdlib patterns.
func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /scrape/{username}", s.ScrapeHandler)
	mux.HandleFunc("POST /refresh", s.RefreshHandler)
	mux.HandleFunc("GET /progress", s.ProgressHandler)
	mux.HandleFunc("GET /leaderboard", s.OverallLeaderboardHandler)
	mux.HandleFunc("GET /leaderboard/{platform}", s.PlatformLeaderboardHandler)
	mux.HandleFunc("GET /weekly", s.WeeklyHandler)
	mux.HandleFunc("POST /snapshots/daily", s.DailySnapshotHandler)
	mux.HandleFunc("GET /admin/weekly", s.WeeklyReportHandler)
	mux.HandleFunc("POST /admin/weekly", s.GenerateWeeklyReportHandler)
	return mux
}

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Println("failed to encode response:", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// limitParam reads the optional ?limit= query parameter, 0 means no limit
func limitParam(r *http.Request) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return 0
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit < 0 {
		return 0
	}
	return limit
}

// ScrapeHandler runs a synchronous single-student scrape and returns the merged result.
// Preconditions: receives HTTP ResponseWriter and Request with a username path value
// Postconditions: the student's stored stats have been refreshed, or an error status is returned
func (s *Server) ScrapeHandler(w http.ResponseWriter, r *http.Request) {
	username := r.PathValue("username")

	result, err := s.api.ScrapeStudent(r.Context(), username)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			writeError(w, http.StatusNotFound, "student not found")
			return
		}
		if errors.Is(err, api.ErrNoAccounts) {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		log.Printf("scrape of %s failed: %v", username, err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// RefreshHandler starts a bulk refresh over every student, or one department when the
// ?department= query parameter is set. The run happens in the background; poll /progress for its
// state.
func (s *Server) RefreshHandler(w http.ResponseWriter, r *http.Request) {
	department := r.URL.Query().Get("department")

	var err error
	if department == "" {
		err = s.api.RefreshAll(r.Context())
	} else {
		err = s.api.RefreshDepartment(r.Context(), department)
	}

	if err != nil {
		if errors.Is(err, api.ErrBulkConflict) {
			writeError(w, http.StatusConflict, "a bulk refresh is already running")
			return
		}
		if department != "" {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		log.Println("failed to start bulk refresh:", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusAccepted, map[string]string{"status": "started"})
}

// ProgressHandler returns the pollable state of the current (or last) bulk refresh.
func (s *Server) ProgressHandler(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.api.GetProgress())
}

// OverallLeaderboardHandler returns the overall leaderboard, truncated to ?limit= entries.
func (s *Server) OverallLeaderboardHandler(w http.ResponseWriter, r *http.Request) {
	board, err := s.api.GetOverallLeaderboard(limitParam(r))
	if err != nil {
		log.Println("failed to fetch overall leaderboard:", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if board == nil {
		writeError(w, http.StatusNotFound, "leaderboard has not been computed yet")
		return
	}

	writeJSON(w, http.StatusOK, board)
}

// PlatformLeaderboardHandler returns one rated platform's leaderboard, truncated to ?limit=
// entries.
func (s *Server) PlatformLeaderboardHandler(w http.ResponseWriter, r *http.Request) {
	platform, ok := shared.ParsePlatform(r.PathValue("platform"))
	if !ok {
		writeError(w, http.StatusBadRequest, "unknown platform '"+r.PathValue("platform")+"'")
		return
	}

	board, err := s.api.GetPlatformLeaderboard(platform, limitParam(r))
	if err != nil {
		log.Printf("failed to fetch %s leaderboard: %v", platform, err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if board == nil {
		writeError(w, http.StatusNotFound, "leaderboard has not been computed yet")
		return
	}

	writeJSON(w, http.StatusOK, board)
}

// WeeklyHandler returns this week's ranked impact metrics, truncated to ?limit= entries. An empty
// list means no student passed the eligibility gate.
func (s *Server) WeeklyHandler(w http.ResponseWriter, r *http.Request) {
	ranked, err := s.api.GetWeeklyLeaderboard(limitParam(r))
	if err != nil {
		log.Println("failed to compute weekly leaderboard:", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if ranked == nil {
		ranked = []logic.WeeklyMetrics{}
	}

	writeJSON(w, http.StatusOK, ranked)
}

// WeeklyReportHandler returns the most recently generated cohort-wide weekly report.
func (s *Server) WeeklyReportHandler(w http.ResponseWriter, r *http.Request) {
	report, err := s.api.GetWeeklyReport()
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			writeError(w, http.StatusNotFound, "no weekly report has been generated yet")
			return
		}
		log.Println("failed to fetch weekly report:", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// GenerateWeeklyReportHandler builds and stores a fresh cohort-wide weekly report. Normally driven
// by the scheduler; exposed here so a report can be regenerated by hand.
func (s *Server) GenerateWeeklyReportHandler(w http.ResponseWriter, r *http.Request) {
	report, err := s.api.CreateAdminWeeklySnapshot()
	if err != nil {
		log.Println("weekly report generation failed:", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, report)
}

// DailySnapshotHandler captures a point-in-time snapshot of every student and prunes expired
// history. Normally driven by the scheduler; exposed here so a missed run can be triggered by
// hand.
func (s *Server) DailySnapshotHandler(w http.ResponseWriter, r *http.Request) {
	result, err := s.api.CreateDailySnapshot()
	if err != nil {
		log.Println("daily snapshot run failed:", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, result)
}
