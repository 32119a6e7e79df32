package handlers

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/shrimpsizemoose/trekker/logger"

	"github.com/shrimpsizemoose/checkmark/internal/app"
	"github.com/shrimpsizemoose/checkmark/internal/metrics"
)

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

// instrument times the request and rejects callers missing the required
// headers.
func instrument(service *app.Service, pattern string, next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		defer func() {
			metrics.APIRequestDuration.WithLabelValues(
				pattern,
				r.Method,
				strconv.Itoa(rec.status),
			).Observe(time.Since(start).Seconds())
		}()

		if !service.ValidateHeaders(r.Header) {
			http.Error(rec, "these are not the droids you are looking for", http.StatusForbidden)
			return
		}
		next(rec, r)
	}
}

// Register mounts every API route on the mux.
func Register(mux *http.ServeMux, service *app.Service) {
	privacy := NewPrivacyHandler(service)
	completion := NewCompletionHandler(service)

	routes := []struct {
		pattern string
		handler http.HandlerFunc
	}{
		{"GET /api/v1/privacy/metadata", privacy.HandleMetadata},
		{"GET /api/v1/privacy/users/{user}/contexts", privacy.HandleContextsForUser},
		{"GET /api/v1/privacy/contexts/{context}/users", privacy.HandleUsersInContext},
		{"POST /api/v1/privacy/export", privacy.HandleExport},
		{"GET /api/v1/privacy/users/{user}/preferences", privacy.HandlePreferences},
		{"POST /api/v1/privacy/delete/user", privacy.HandleDeleteForUser},
		{"POST /api/v1/privacy/delete/users", privacy.HandleDeleteForUsers},
		{"DELETE /api/v1/privacy/contexts/{context}/data", privacy.HandleDeleteContext},
		{"GET /api/v1/checkmarks/{checkmark}/completion/{user}", completion.HandleState},
	}
	for _, route := range routes {
		mux.HandleFunc(route.pattern, instrument(service, route.pattern, route.handler))
	}
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

// decodeBody reads a JSON payload and validates it.
func decodeBody(service *app.Service, r *http.Request, v interface{}) error {
	body, err := io.ReadAll(r.Body)
	if err != nil {
		return err
	}
	logger.Debug.Printf("Received request body: %s", string(body))

	if err := json.NewDecoder(bytes.NewReader(body)).Decode(v); err != nil {
		return err
	}
	return service.Validate(v)
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Debug.Printf("Error encoding response: %v", err)
		http.Error(w, "Failed to encode response", http.StatusInternalServerError)
	}
}
