package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strings"

	"iqt/internal/schema"
)

// maxQueryBytes limits the size of a query request body
const maxQueryBytes = 1 << 20

// CapabilityLister reports the capabilities an agent serves
type CapabilityLister interface {
	Names() []string
	Enabled(name string) bool
}

// QueryHandler serves query requests against a schema
type QueryHandler struct {
	schema *schema.Schema
	caps   CapabilityLister
}

// NewQueryHandler creates a new query handler
func NewQueryHandler(s *schema.Schema, caps CapabilityLister) *QueryHandler {
	return &QueryHandler{schema: s, caps: caps}
}

// ErrorResponse is the body of a rejected request
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

// QueryRequest is the body of a query request
type QueryRequest struct {
	Query         string         `json:"query"`
	Variables     map[string]any `json:"variables,omitempty"`
	OperationName string         `json:"operationName,omitempty"`
}

// HealthResponse is the body of GET /healthz
type HealthResponse struct {
	Status       string   `json:"status"`
	Capabilities []string `json:"capabilities"`
}

// Query executes the query document in the request body
func (h *QueryHandler) Query(w http.ResponseWriter, r *http.Request) {
	var req QueryRequest
	body := http.MaxBytesReader(w, r.Body, maxQueryBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, "Request too large", err.Error(), http.StatusRequestEntityTooLarge)
			return
		}
		if errors.Is(err, io.EOF) {
			writeError(w, "Invalid request body", "body is empty", http.StatusBadRequest)
			return
		}
		writeError(w, "Invalid request body", err.Error(), http.StatusBadRequest)
		return
	}

	if strings.TrimSpace(req.Query) == "" {
		writeError(w, "Invalid request body", "query is required", http.StatusBadRequest)
		return
	}

	result := h.schema.Execute(r.Context(), req.Query, req.Variables, req.OperationName)
	if result.HasErrors() {
		log.Printf("Query from %s finished with %d field error(s)", r.RemoteAddr, len(result.Errors))
	}
	writeJSON(w, result, http.StatusOK)
}

// Health reports that the agent is up and which capabilities it serves
func (h *QueryHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "ok", Capabilities: []string{}}
	if h.caps != nil {
		for _, name := range h.caps.Names() {
			if h.caps.Enabled(name) {
				resp.Capabilities = append(resp.Capabilities, name)
			}
		}
	}
	writeJSON(w, resp, http.StatusOK)
}

func writeJSON(w http.ResponseWriter, data interface{}, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("Failed to encode JSON: %v", err)
	}
}

func writeError(w http.ResponseWriter, error, details string, statusCode int) {
	writeJSON(w, ErrorResponse{Error: error, Details: details}, statusCode)
}
