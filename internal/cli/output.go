package cli

import (
	"fmt"
	"io"

	"iqt/internal/broadcast"
	"iqt/internal/codec"
)

// renderer prints dispatcher results as they arrive
type renderer struct {
	enc    codec.Encoder
	stdout io.Writer
	stderr io.Writer
}

func newRenderer(enc codec.Encoder, stdout, stderr io.Writer) *renderer {
	return &renderer{enc: enc, stdout: stdout, stderr: stderr}
}

func (r *renderer) render(res broadcast.Result) {
	rec := codec.Record{
		Endpoint: res.Endpoint.URL,
		Status:   res.Status,
		Duration: res.Duration,
		Response: res.Body,
	}
	if res.Err != nil {
		// Text output keeps stdout for responses only
		if r.enc.Format() == "text" {
			fmt.Fprintf(r.stderr, "iqt: %v\n", res.Err)
			return
		}
		rec.Error = res.Err.Error()
		rec.Response = nil
	}

	if err := r.enc.Encode(r.stdout, rec); err != nil {
		fmt.Fprintf(r.stderr, "iqt: %v\n", err)
	}
}
