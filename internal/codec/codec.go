// Package codec encodes per-endpoint broadcast results for output.
package codec

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"
)

// Record is the outcome of querying one endpoint
type Record struct {
	Endpoint string
	Status   int
	Duration time.Duration
	// Response is the agent's response document; nil when Error is set
	Response json.RawMessage
	Error    string
}

// Encoder writes records to an output stream, one call per endpoint
type Encoder interface {
	Encode(w io.Writer, rec Record) error
	Format() string
}

var encoders = map[string]func() Encoder{
	"text": func() Encoder { return NewTextCodec() },
	"json": func() Encoder { return NewJSONCodec() },
	"yaml": func() Encoder { return NewYAMLCodec() },
}

// Formats returns the supported format names, sorted
func Formats() []string {
	names := make([]string, 0, len(encoders))
	for name := range encoders {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// ForFormat returns the encoder registered under name
func ForFormat(name string) (Encoder, error) {
	newEncoder, ok := encoders[strings.ToLower(name)]
	if !ok {
		return nil, fmt.Errorf("unknown output format %q (want one of %s)", name, strings.Join(Formats(), ", "))
	}
	return newEncoder(), nil
}
