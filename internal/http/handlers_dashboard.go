package http

import (
	"net/http"

	"garasi/internal/core"
	applog "garasi/internal/log"
	"garasi/internal/services"
)

const recentExpensesLimit = 10

// dashboardResponse bundles everything the dashboard view needs in one
// round trip.
type dashboardResponse struct {
	Summary        services.Summary        `json:"summary"`
	DueSoon        []services.DueSoonEntry `json:"dueSoon"`
	RecentExpenses []core.Expense          `json:"recentExpenses"`
	Rooms          []services.RoomStatus   `json:"rooms"`
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	if data, found := s.dashboardCache.Get(dashboardCacheKey); found {
		applog.FromContext(r.Context()).DebugContext(r.Context(), "Dashboard cache hit")
		writeJSON(w, http.StatusOK, data)
		return
	}

	data, err := s.buildDashboard(r)
	if err != nil {
		writeDomainError(w, r, err)
		return
	}

	s.dashboardCache.Set(dashboardCacheKey, data)
	writeJSON(w, http.StatusOK, data)
}

func (s *Server) buildDashboard(r *http.Request) (dashboardResponse, error) {
	ctx := r.Context()

	customers, err := s.customers.List(ctx)
	if err != nil {
		return dashboardResponse{}, err
	}
	expenses, err := s.expenses.List(ctx)
	if err != nil {
		return dashboardResponse{}, err
	}

	now := s.now()
	data := dashboardResponse{
		Summary:        services.BuildSummary(customers, expenses, now),
		DueSoon:        services.DueSoon(customers, now),
		RecentExpenses: services.RecentExpenses(expenses, recentExpensesLimit),
		Rooms:          services.RoomStatuses(customers),
	}
	if data.DueSoon == nil {
		data.DueSoon = []services.DueSoonEntry{}
	}
	if data.RecentExpenses == nil {
		data.RecentExpenses = []core.Expense{}
	}
	return data, nil
}
