package codec

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"time"
)

// TextCodec writes a header line per endpoint followed by the indented response
type TextCodec struct{}

// NewTextCodec creates a new text codec
func NewTextCodec() *TextCodec {
	return &TextCodec{}
}

// Format returns the codec format identifier
func (c *TextCodec) Format() string {
	return "text"
}

// Encode writes rec for a terminal
func (c *TextCodec) Encode(w io.Writer, rec Record) error {
	if rec.Error != "" {
		_, err := fmt.Fprintf(w, "== %s error: %s\n", rec.Endpoint, rec.Error)
		return err
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "== %s (%d, %s)\n", rec.Endpoint, rec.Status, rec.Duration.Round(time.Millisecond))
	if err := json.Indent(&buf, rec.Response, "", "  "); err != nil {
		// Not JSON; print as received
		buf.Write(rec.Response)
	}
	buf.WriteByte('\n')

	_, err := buf.WriteTo(w)
	return err
}
