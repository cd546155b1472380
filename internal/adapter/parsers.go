package adapter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"iqt/internal/domain"
)

// ParseHostname returns the trimmed output of the hostname command
func ParseHostname(stdout []byte) (domain.HostnameResult, error) {
	return domain.HostnameResult{Name: strings.TrimSpace(string(stdout))}, nil
}

// ParseDiskUsage parses `df -h` output.
// The first line is the header. Every other non-blank line must split into
// exactly six fields; one bad row fails the whole call.
func ParseDiskUsage(stdout []byte) ([]domain.DiskUsage, error) {
	lines := strings.Split(string(stdout), "\n")
	if len(lines) > 0 {
		lines = lines[1:]
	}

	usages := make([]domain.DiskUsage, 0, len(lines))
	for i, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		usage, err := parseDiskUsageLine(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+2, err)
		}
		usages = append(usages, usage)
	}
	return usages, nil
}

// parseDiskUsageLine parses one row, e.g. "devtmpfs 790M 0 790M 0% /dev"
func parseDiskUsageLine(line string) (domain.DiskUsage, error) {
	parts := strings.Fields(line)
	if len(parts) != 6 {
		return domain.DiskUsage{}, fmt.Errorf("expected 6 fields, got %d", len(parts))
	}

	percent, err := parsePercent(parts[4])
	if err != nil {
		return domain.DiskUsage{}, err
	}

	return domain.DiskUsage{
		FileSystem: parts[0],
		Size:       parts[1],
		Used:       parts[2],
		Available:  parts[3],
		UsePercent: percent,
		MountPoint: parts[5],
	}, nil
}

// parsePercent parses "42%" into 42. The value must be 0..100.
func parsePercent(s string) (int, error) {
	digits, ok := strings.CutSuffix(s, "%")
	if !ok {
		return 0, fmt.Errorf("use percent %q does not end in %%", s)
	}
	n, err := strconv.ParseUint(digits, 10, 8)
	if err != nil || n > 100 {
		return 0, fmt.Errorf("invalid use percent %q", s)
	}
	return int(n), nil
}

// ParseDockerPS parses `docker ps --format '{{json .}}'` output, one JSON
// object per line. One bad line fails the whole call.
func ParseDockerPS(stdout []byte) ([]domain.DockerProcess, error) {
	var processes []domain.DockerProcess
	for i, line := range bytes.Split(stdout, []byte("\n")) {
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			continue
		}
		var p domain.DockerProcess
		if err := json.Unmarshal(line, &p); err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		processes = append(processes, p)
	}
	if processes == nil {
		processes = []domain.DockerProcess{}
	}
	return processes, nil
}

// ParseRoutes parses `ip -j route` output
func ParseRoutes(stdout []byte) ([]domain.RouteEntry, error) {
	return parseJSONArray[domain.RouteEntry](stdout)
}

// ParseAddresses parses `ip -j address show` output
func ParseAddresses(stdout []byte) ([]domain.AddressInfo, error) {
	return parseJSONArray[domain.AddressInfo](stdout)
}

// ParseLinks parses `ip -j link show` output
func ParseLinks(stdout []byte) ([]domain.LinkInfo, error) {
	return parseJSONArray[domain.LinkInfo](stdout)
}

// parseJSONArray decodes a whole JSON array document; there is no partial result
func parseJSONArray[T any](stdout []byte) ([]T, error) {
	var out []T
	if err := json.Unmarshal(stdout, &out); err != nil {
		return nil, err
	}
	if out == nil {
		return nil, fmt.Errorf("expected a JSON array")
	}
	return out, nil
}
