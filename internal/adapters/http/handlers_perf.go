package web

import (
	"net/http"
	"strconv"
	"time"
)

// handlePerf returns timing stats for the requested window (default 15 minutes).
func handlePerf(w http.ResponseWriter, r *http.Request) {
	if !exposePerf || perfCollector == nil {
		http.NotFound(w, r)
		return
	}
	window := 15 * time.Minute
	if v := r.URL.Query().Get("window"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			http.Error(w, "invalid window", http.StatusBadRequest)
			return
		}
		window = d
	}
	topN := 10
	if v := r.URL.Query().Get("top"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			http.Error(w, "invalid top", http.StatusBadRequest)
			return
		}
		topN = n
	}
	writeJSON(w, http.StatusOK, perfCollector.Snapshot(timeNow().Add(-window), topN))
}
