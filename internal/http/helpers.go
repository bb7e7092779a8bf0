package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"garasi/internal/core"
	applog "garasi/internal/log"
)

const dayLayout = "2006-01-02"

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}

// writeDomainError maps domain sentinels onto HTTP statuses: missing
// records are 404, the room conflict is 409, every other validation
// sentinel is 422.
func writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrNotFound):
		writeError(w, http.StatusNotFound, "record not found")
	case errors.Is(err, core.ErrRoomOccupied):
		writeError(w, http.StatusConflict, "room already occupied")
	case isValidationError(err):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		logger := applog.FromContext(r.Context())
		logger.ErrorContext(r.Context(), "Request failed",
			applog.FieldPath, r.URL.Path,
			applog.FieldError, err.Error())
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func isValidationError(err error) bool {
	for _, sentinel := range []error{
		core.ErrEmptyNama,
		core.ErrEmptyNoHP,
		core.ErrEmptyJenisMobil,
		core.ErrEmptyNoKendaraan,
		core.ErrInvalidRoom,
		core.ErrInvalidStartDate,
		core.ErrInvalidAmount,
		core.ErrEmptyDeskripsi,
		core.ErrDeskripsiTooLong,
		core.ErrInvalidTanggal,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}

func decodeBody(r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, 4<<20))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// jsonAmount accepts an amount either as a JSON number of whole rupiah
// or as a formatted string ("Rp 1.500.000", "1500000").
type jsonAmount struct {
	core.Money
}

func (a *jsonAmount) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if len(s) >= 2 && s[0] == '"' {
		var raw string
		if err := json.Unmarshal(data, &raw); err != nil {
			return core.ErrInvalidAmount
		}
		m, err := core.ParseAmount(raw)
		if err != nil {
			return err
		}
		a.Money = m
		return nil
	}

	var v int64
	if err := json.Unmarshal(data, &v); err != nil {
		return core.ErrInvalidAmount
	}
	a.Money = core.Money{Rupiah: v}
	return nil
}

// parseDay accepts the ISO day format the clients send.
func parseDay(s string) (time.Time, error) {
	return time.Parse(dayLayout, strings.TrimSpace(s))
}

// sanitizeInput removes control characters and trims whitespace.
func sanitizeInput(s string) string {
	s = strings.TrimSpace(s)
	return strings.Map(func(r rune) rune {
		if r < 32 && r != 9 && r != 10 && r != 13 {
			return -1
		}
		return r
	}, s)
}
