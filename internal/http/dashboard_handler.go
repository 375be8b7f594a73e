package http

import (
	"net/http"
)

const (
	defaultLowStockThreshold = 10
	defaultRecentLimit       = 5
)

func (s *Service) dashboard(w http.ResponseWriter, r *http.Request) {
	threshold, ok := s.intQueryParam(w, r, "low_stock_threshold", defaultLowStockThreshold)
	if !ok {
		return
	}
	recentLimit, ok := s.intQueryParam(w, r, "recent_limit", defaultRecentLimit)
	if !ok {
		return
	}

	summary, err := s.catalogSvc.Dashboard(r.Context(), threshold, recentLimit)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	s.respondJSON(w, r, http.StatusOK, newDashboardResponse(summary))
}
