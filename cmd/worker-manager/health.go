// cmd/worker-manager/health.go
package main

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"time"
)

// readinessCheck reports whether one dependency is usable.
type readinessCheck func(ctx context.Context) error

func healthHandler(w http.ResponseWriter, _ *http.Request) {
	writeStatus(w, http.StatusOK, map[string]interface{}{
		"status": "healthy",
		"time":   time.Now().Format(time.RFC3339),
	})
}

// readinessHandler runs every check with a shared deadline. The response lists
// each failing dependency; any failure makes the service not ready.
func readinessHandler(checks map[string]readinessCheck, modelVersion string) http.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
		defer cancel()

		failures := make(map[string]string)
		for _, name := range names {
			if err := checks[name](ctx); err != nil {
				failures[name] = err.Error()
			}
		}

		body := map[string]interface{}{
			"status":       "ready",
			"modelVersion": modelVersion,
			"time":         time.Now().Format(time.RFC3339),
		}
		status := http.StatusOK
		if len(failures) > 0 {
			body["status"] = "not_ready"
			body["failures"] = failures
			status = http.StatusServiceUnavailable
		}
		writeStatus(w, status, body)
	}
}

func writeStatus(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
