package httpapi

import (
	"encoding/json"
	"net/http"
)

// Response is the envelope for single-object results.
type Response struct {
	Success bool     `json:"success"`
	Message string   `json:"message"`
	Object  any      `json:"object"`
	Errors  []string `json:"errors"`
}

// PageResponse is the envelope for paged results.
type PageResponse struct {
	Success    bool     `json:"success"`
	Message    string   `json:"message"`
	Object     any      `json:"object"`
	PageNumber int      `json:"page_number"`
	PageSize   int      `json:"page_size"`
	TotalSize  int      `json:"total_size"`
	Errors     []string `json:"errors"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeOK(w http.ResponseWriter, status int, message string, object any) {
	writeJSON(w, status, Response{Success: true, Message: message, Object: object})
}
