package adapter

import (
	"fmt"
	"strings"
)

// Capability names served by the agent
const (
	CapHostname  = "hostname"
	CapDisk      = "disk"
	CapDocker    = "docker"
	CapIPRoute   = "ip.route"
	CapIPAddress = "ip.address"
	CapIPLink    = "ip.link"
)

// Argument names understood by the built-in capabilities
const (
	ArgFlag      = "flag"
	ArgPath      = "path"
	ArgIPAddress = "ipAddress"
	ArgLink      = "link"
)

// dockerFormat makes docker print one JSON object per container
const dockerFormat = "{{json .}}"

// DefaultCapabilities returns a fresh instance of every built-in capability
func DefaultCapabilities() []Capability {
	return []Capability{
		NewCommandAdapter(CapHostname, []string{"name"}, buildHostname, ParseHostname),
		NewCommandAdapter(CapDisk, []string{"usage"}, buildDisk, ParseDiskUsage),
		NewCommandAdapter(CapDocker, []string{"ps"}, buildDocker, ParseDockerPS),
		NewCommandAdapter(CapIPRoute, []string{"list", "get"}, buildIPRoute, ParseRoutes),
		NewCommandAdapter(CapIPAddress, []string{"show"}, buildIPObject("address"), ParseAddresses),
		NewCommandAdapter(CapIPLink, []string{"show"}, buildIPObject("link"), ParseLinks),
	}
}

// buildHostname: hostname [--short|--long], long by default
func buildHostname(op string, args Args) (Command, error) {
	if op != "name" {
		return Command{}, unknownOperation(op)
	}
	switch flag := strings.ToLower(args.Get(ArgFlag)); flag {
	case "", "long":
		return Command{Program: "hostname", Args: []string{"--long"}}, nil
	case "short":
		return Command{Program: "hostname", Args: []string{"--short"}}, nil
	default:
		return Command{}, fmt.Errorf("invalid hostname flag %q", flag)
	}
}

// buildDisk: df -h [path]
func buildDisk(op string, args Args) (Command, error) {
	if op != "usage" {
		return Command{}, unknownOperation(op)
	}
	cmd := Command{Program: "df", Args: []string{"-h"}}
	if path := args.Get(ArgPath); path != "" {
		cmd.Args = append(cmd.Args, path)
	}
	return cmd, nil
}

// buildDocker: docker ps --format '{{json .}}'
func buildDocker(op string, args Args) (Command, error) {
	if op != "ps" {
		return Command{}, unknownOperation(op)
	}
	return Command{Program: "docker", Args: []string{"ps", "--format", dockerFormat}}, nil
}

// buildIPRoute: ip -j route list | ip -j route get <ipAddress>
func buildIPRoute(op string, args Args) (Command, error) {
	switch op {
	case "list":
		return Command{Program: "ip", Args: []string{"-j", "route", "list"}}, nil
	case "get":
		target := args.Get(ArgIPAddress)
		if target == "" {
			return Command{}, fmt.Errorf("%s is required", ArgIPAddress)
		}
		return Command{Program: "ip", Args: []string{"-j", "route", "get", target}}, nil
	default:
		return Command{}, unknownOperation(op)
	}
}

// buildIPObject: ip -j <object> show [link]
func buildIPObject(object string) BuildFunc {
	return func(op string, args Args) (Command, error) {
		if op != "show" {
			return Command{}, unknownOperation(op)
		}
		cmd := Command{Program: "ip", Args: []string{"-j", object, "show"}}
		if link := args.Get(ArgLink); link != "" {
			cmd.Args = append(cmd.Args, link)
		}
		return cmd, nil
	}
}

func unknownOperation(op string) error {
	return fmt.Errorf("unknown operation %q", op)
}
