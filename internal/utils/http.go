package utils

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
)

// WriteJSON serializes the given data to JSON and writes it to the HTTP
// response with the provided status code. The "Content-Type" header is set to
// "application/json" before the body is sent.
//
// If marshaling fails, it responds with 500 Internal Server Error and returns
// a wrapped error.
func WriteJSON(w http.ResponseWriter, data any, statusCode int) (int, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		http.Error(w, "error writing data to JSON", http.StatusInternalServerError)
		return 0, fmt.Errorf("error writing data to JSON: %w", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	return w.Write(jsonData)
}

// ClientIP returns the remote address of the request with the port stripped.
// The service runs behind the internal reverse proxy, which sets
// X-Real-IP; that header wins when present.
func ClientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
