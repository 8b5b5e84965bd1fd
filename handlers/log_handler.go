package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"habitStopperAPI/internal/calendar"
	"habitStopperAPI/internal/habitlog"
	"habitStopperAPI/middleware"
	"habitStopperAPI/services"
)

type LogHandler struct {
	logService *services.LogService
}

func NewLogHandler(logService *services.LogService) *LogHandler {
	return &LogHandler{
		logService: logService,
	}
}

// GetLogs returns the caller's full log set as [{date, status}, ...].
func (h *LogHandler) GetLogs(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Login required")
		return
	}

	logs, err := h.logService.ListLogs(ctx, clerkID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			respondWithError(w, http.StatusNotFound, "User not found")
			return
		}
		log.Printf("GetLogs Handler: Service error: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to load logs")
		return
	}

	respondWithJSON(w, http.StatusOK, logs)
}

// SetStatus upserts the caller's record for one calendar day and returns the
// stored {date, status}.
func (h *LogHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Login required")
		return
	}

	var req habitlog.SetStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondWithError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	entry, err := h.logService.SetStatus(ctx, clerkID, req.Date, req.Status)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidArgument):
			respondWithError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, services.ErrUserNotFound):
			respondWithError(w, http.StatusNotFound, "User not found")
		default:
			log.Printf("SetStatus Handler: Service error: %v", err)
			respondWithError(w, http.StatusInternalServerError, "Failed to write log")
		}
		return
	}

	middleware.RecordLogWrite(string(entry.Status))
	respondWithJSON(w, http.StatusOK, entry)
}

// GetCalendar materializes one month server-side. Defaults to the current
// month when year/month query params are absent.
func (h *LogHandler) GetCalendar(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	clerkID, ok := middleware.GetClerkID(ctx)
	if !ok {
		respondWithError(w, http.StatusUnauthorized, "Login required")
		return
	}

	now := time.Now()
	year := now.Year()
	month := int(now.Month())

	var err error
	if v := r.URL.Query().Get("year"); v != "" {
		if year, err = strconv.Atoi(v); err != nil {
			respondWithError(w, http.StatusBadRequest, "Invalid year")
			return
		}
	}
	if v := r.URL.Query().Get("month"); v != "" {
		if month, err = strconv.Atoi(v); err != nil || month < 1 || month > 12 {
			respondWithError(w, http.StatusBadRequest, "Invalid month, expected 1-12")
			return
		}
	}

	logs, err := h.logService.ListLogs(ctx, clerkID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			respondWithError(w, http.StatusNotFound, "User not found")
			return
		}
		log.Printf("GetCalendar Handler: Service error: %v", err)
		respondWithError(w, http.StatusInternalServerError, "Failed to load calendar")
		return
	}

	grid := calendar.MonthGrid{
		Year:  year,
		Month: month,
		Cells: calendar.Materialize(year, time.Month(month), logs, now),
	}
	respondWithJSON(w, http.StatusOK, grid)
}
