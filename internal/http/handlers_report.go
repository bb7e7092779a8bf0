package http

import (
	"net/http"

	applog "garasi/internal/log"
	"garasi/internal/services"
)

// handleReport streams the monthly financial report as a plain-text
// download named after the generation date.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	customers, err := s.customers.List(ctx)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}
	expenses, err := s.expenses.List(ctx)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	now := s.now()
	report := services.BuildReport(customers, expenses, now)
	filename := services.ReportFilename(now)

	applog.FromContext(ctx).InfoContext(ctx, "Report generated",
		"filename", filename,
		"customers", len(customers))

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(report))
}
