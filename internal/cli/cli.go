// Package cli implements the iqt operator command: it resolves targets,
// broadcasts one query to every agent and prints the responses.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"time"

	"iqt/internal/broadcast"
	"iqt/internal/config"
	"iqt/internal/domain"
	"iqt/internal/probe"
	"iqt/internal/schema"
	"iqt/internal/target"
)

// Exit codes
const (
	ExitOK         = 0
	ExitUsage      = 1
	ExitInventory  = 2
	ExitValidation = 3
	ExitTransport  = 4
)

// Run executes the command line and returns the process exit code
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if errors.Is(err, flag.ErrHelp) {
		return ExitOK
	}
	if err != nil {
		fmt.Fprintf(stderr, "iqt: %v\n", err)
		return ExitUsage
	}

	cfg, _, err := config.Load(opts.configPath)
	if err != nil {
		fmt.Fprintf(stderr, "iqt: %v\n", err)
		return ExitUsage
	}
	client := applyFlags(cfg.Client, opts)

	if opts.historyList > 0 {
		return listHistory(ctx, client.History.Path, opts.historyList, stdout, stderr)
	}

	policy, err := broadcast.ParseFailurePolicy(client.FailurePolicy)
	if err != nil {
		fmt.Fprintf(stderr, "iqt: %v\n", err)
		return ExitUsage
	}
	enumeration, err := target.ParsePolicy(client.Enumeration)
	if err != nil {
		fmt.Fprintf(stderr, "iqt: %v\n", err)
		return ExitUsage
	}
	if client.Concurrency < 1 {
		fmt.Fprintf(stderr, "iqt: -concurrency must be at least 1\n")
		return ExitUsage
	}

	var inv *target.Inventory
	if opts.inventory != "" {
		inv, err = target.LoadInventory(opts.inventory)
		if err != nil {
			fmt.Fprintf(stderr, "iqt: %v\n", err)
			return ExitInventory
		}
	}

	resolver := target.NewResolver(target.Options{Policy: enumeration, MaxAddresses: client.MaxAddresses})
	res := resolver.Resolve(opts.subnets, inv)
	for _, d := range res.Diagnostics {
		fmt.Fprintf(stderr, "iqt: warning: %v\n", d)
	}

	targets := res.Targets
	if client.Probe.Enabled && targets.Len() > 0 {
		targets = probeTargets(ctx, client, targets, stderr)
	}

	hostnames := append([]string(nil), opts.hosts...)
	hostnames = append(hostnames, res.Hostnames...)
	endpoints := target.BuildEndpoints(targets, hostnames, client.Port)
	if len(endpoints) == 0 {
		fmt.Fprintf(stderr, "iqt: warning: no targets to query\n")
	}

	validator, err := schema.NewValidator()
	if err != nil {
		fmt.Fprintf(stderr, "iqt: %v\n", err)
		return ExitUsage
	}

	out := newRenderer(opts.encoder, stdout, stderr)
	dispatcher := broadcast.NewDispatcher(validator, broadcast.Options{
		Timeout:     client.Timeout.Duration(),
		Concurrency: client.Concurrency,
		Policy:      policy,
		OnResult:    out.render,
	})

	started := time.Now()
	report, err := dispatcher.Run(ctx, domain.NewQueryRequest(opts.query, endpoints))
	finished := time.Now()

	if errors.Is(err, broadcast.ErrInvalidQuery) {
		printValidation(stderr, err)
		return ExitValidation
	}

	if client.History.Path != "" {
		recordHistory(ctx, client.History.Path, opts.query, len(endpoints), report, started, finished, stderr)
	}

	if failed := report.Failed(); failed > 0 {
		fmt.Fprintf(stderr, "iqt: %d of %d endpoints failed\n", failed, len(endpoints))
	}
	if cancelled := report.Cancelled(); cancelled > 0 {
		fmt.Fprintf(stderr, "iqt: %d requests cancelled by the abort\n", cancelled)
	}
	if err != nil {
		fmt.Fprintf(stderr, "iqt: %v\n", err)
		return ExitTransport
	}
	return ExitOK
}

// applyFlags overrides config values with flags given on the command line
func applyFlags(c config.ClientConfig, opts *options) config.ClientConfig {
	if opts.set["timeout"] {
		c.Timeout = config.Duration(opts.timeout)
	}
	if opts.set["concurrency"] {
		c.Concurrency = opts.concurrency
	}
	if opts.set["policy"] {
		c.FailurePolicy = opts.policy
	}
	if opts.set["enumeration"] {
		c.Enumeration = opts.enumeration
	}
	if opts.set["port"] {
		c.Port = opts.port
	}
	if opts.set["probe"] {
		c.Probe.Enabled = opts.probe
	}
	if opts.set["probe-method"] {
		c.Probe.Method = opts.probeMethod
	}
	if opts.set["history"] {
		c.History.Path = opts.historyPath
	}
	return c
}

// probeTargets drops addresses with no agent listening. A probe that cannot
// run leaves the target set unchanged.
func probeTargets(ctx context.Context, c config.ClientConfig, targets domain.TargetSet, stderr io.Writer) domain.TargetSet {
	prober, err := probe.New(c.Probe.Method, c.Probe.Timeout.Duration(), c.Probe.MaxConcurrent)
	if err != nil {
		fmt.Fprintf(stderr, "iqt: warning: %v, querying every address\n", err)
		return targets
	}

	alive, err := prober.Probe(ctx, targets, c.Port)
	if err != nil {
		fmt.Fprintf(stderr, "iqt: warning: probe failed, querying every address: %v\n", err)
		return targets
	}
	if skipped := targets.Len() - alive.Len(); skipped > 0 {
		fmt.Fprintf(stderr, "iqt: probe: skipping %d of %d addresses with no agent\n", skipped, targets.Len())
	}
	return alive
}

// printValidation writes one line per validation diagnostic
func printValidation(w io.Writer, err error) {
	var verr *schema.ValidationError
	if !errors.As(err, &verr) {
		fmt.Fprintf(w, "iqt: %v\n", err)
		return
	}
	for _, d := range verr.Diagnostics {
		fmt.Fprintf(w, "iqt: invalid query: %s\n", d)
	}
}
