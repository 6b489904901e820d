package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/cbodonnell/afterglow/pkg/log"
	"github.com/cbodonnell/afterglow/pkg/state"
)

// HandleDaily serves the shared daily challenge. An optional date query
// parameter (YYYY-MM-DD) asks for a specific day instead of today.
func HandleDaily(manager state.Manager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var daily *state.Daily
		var err error
		if date := r.URL.Query().Get("date"); date != "" {
			daily, err = manager.For(r.Context(), date)
			if err != nil {
				http.Error(w, "Invalid date", http.StatusBadRequest)
				return
			}
		} else {
			daily, err = manager.Current(r.Context())
			if err != nil {
				log.Error("failed to get daily challenge: %v", err)
				http.Error(w, "Failed to get daily challenge", http.StatusInternalServerError)
				return
			}
		}

		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(daily); err != nil {
			log.Error("failed to encode daily challenge: %v", err)
			http.Error(w, "Failed to encode daily challenge", http.StatusInternalServerError)
			return
		}
	}
}
