package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"iqt/internal/broadcast"
	"iqt/internal/history"
)

// recordHistory stores the run. Failing to record never changes the exit code.
func recordHistory(ctx context.Context, path, query string, endpoints int, report *broadcast.Report, started, finished time.Time, stderr io.Writer) {
	store, err := history.Open(path)
	if err != nil {
		fmt.Fprintf(stderr, "iqt: warning: history: %v\n", err)
		return
	}
	defer store.Close()

	run := &history.Run{
		StartedAt:  started,
		FinishedAt: finished,
		Query:      query,
		State:      report.State.String(),
		Endpoints:  endpoints,
		Failed:     report.Failed(),
	}
	if report.Err != nil {
		run.Error = report.Err.Error()
	}
	for _, res := range report.Results {
		hr := history.Result{
			Endpoint: res.Endpoint.URL,
			Status:   res.Status,
			Duration: res.Duration,
			Body:     string(res.Body),
		}
		if res.Err != nil {
			hr.Error = res.Err.Error()
		}
		run.Results = append(run.Results, hr)
	}

	// The broadcast may have been interrupted; the record should still land
	if _, err := store.Record(context.WithoutCancel(ctx), run); err != nil {
		fmt.Fprintf(stderr, "iqt: warning: history: %v\n", err)
	}
}

// listHistory prints the newest runs as a table
func listHistory(ctx context.Context, path string, limit int, stdout, stderr io.Writer) int {
	if path == "" {
		fmt.Fprintf(stderr, "iqt: -history-list needs -history or history.path\n")
		return ExitUsage
	}

	store, err := history.Open(path)
	if err != nil {
		fmt.Fprintf(stderr, "iqt: history: %v\n", err)
		return ExitUsage
	}
	defer store.Close()

	runs, err := store.List(ctx, limit)
	if err != nil {
		fmt.Fprintf(stderr, "iqt: history: %v\n", err)
		return ExitUsage
	}

	tw := tabwriter.NewWriter(stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTARTED\tSTATE\tENDPOINTS\tFAILED\tQUERY")
	for _, run := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\n",
			run.ID,
			run.StartedAt.Local().Format(time.DateTime),
			run.State,
			run.Endpoints,
			run.Failed,
			summarizeQuery(run.Query),
		)
	}
	tw.Flush()
	return ExitOK
}

// summarizeQuery collapses whitespace and truncates for table display
func summarizeQuery(q string) string {
	const width = 48
	s := strings.Join(strings.Fields(q), " ")
	if len(s) > width {
		return s[:width-3] + "..."
	}
	return s
}
