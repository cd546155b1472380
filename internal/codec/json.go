package codec

import (
	"encoding/json"
	"fmt"
	"io"
)

// JSONCodec writes one JSON Lines record per endpoint
type JSONCodec struct{}

// NewJSONCodec creates a new JSON codec
func NewJSONCodec() *JSONCodec {
	return &JSONCodec{}
}

// Format returns the codec format identifier
func (c *JSONCodec) Format() string {
	return "json"
}

type jsonRecord struct {
	Endpoint   string          `json:"endpoint"`
	Status     int             `json:"status,omitempty"`
	DurationMS int64           `json:"duration_ms"`
	Response   json.RawMessage `json:"response,omitempty"`
	Error      string          `json:"error,omitempty"`
}

// Encode writes rec as a single line
func (c *JSONCodec) Encode(w io.Writer, rec Record) error {
	jr := jsonRecord{
		Endpoint:   rec.Endpoint,
		Status:     rec.Status,
		DurationMS: rec.Duration.Milliseconds(),
		Error:      rec.Error,
	}
	if rec.Error == "" && json.Valid(rec.Response) {
		jr.Response = rec.Response
	}

	if err := json.NewEncoder(w).Encode(jr); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
