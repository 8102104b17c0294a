package api

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/sirupsen/logrus"
)

// Envelope wraps every JSON response
type Envelope struct {
	Success   bool   `json:"success"`
	Data      any    `json:"data,omitempty"`
	Count     *int   `json:"count,omitempty"`
	Query     string `json:"query,omitempty"`
	Error     string `json:"error,omitempty"`
	Timestamp string `json:"timestamp"`
}

func timestamp() string {
	return time.Now().Format(time.RFC3339)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logrus.Errorf("Failed to encode response: %v", err)
	}
}

func respondOK(w http.ResponseWriter, data any) {
	writeJSON(w, http.StatusOK, Envelope{Success: true, Data: data, Timestamp: timestamp()})
}

// respondList adds the item count next to the data
func respondList[T any](w http.ResponseWriter, items []T) {
	n := len(items)
	writeJSON(w, http.StatusOK, Envelope{Success: true, Data: items, Count: &n, Timestamp: timestamp()})
}

func respondError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, Envelope{Success: false, Error: message, Timestamp: timestamp()})
}
