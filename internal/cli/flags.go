package cli

import (
	"flag"
	"fmt"
	"io"
	"strings"
	"time"

	"iqt/internal/codec"
)

// stringList is a repeatable string flag
type stringList []string

func (s *stringList) String() string {
	return strings.Join(*s, ",")
}

func (s *stringList) Set(v string) error {
	*s = append(*s, v)
	return nil
}

// options holds the parsed command line
type options struct {
	subnets     stringList
	hosts       stringList
	inventory   string
	configPath  string
	timeout     time.Duration
	concurrency int
	policy      string
	enumeration string
	port        int
	probe       bool
	probeMethod string
	output      string
	encoder     codec.Encoder
	historyPath string
	historyList int
	query       string

	// set records which flags appeared on the command line
	set map[string]bool
}

const usageHeader = `usage: iqt [flags] QUERY

Sends QUERY to the agent on every host resolved from -subnet, -inventory and -host.

Flags:
`

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	opts := &options{set: make(map[string]bool)}

	fs := flag.NewFlagSet("iqt", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprint(stderr, usageHeader)
		fs.PrintDefaults()
	}

	fs.Var(&opts.subnets, "subnet", "CIDR block or address to query (repeatable)")
	fs.Var(&opts.hosts, "host", "hostname to query (repeatable)")
	fs.StringVar(&opts.inventory, "inventory", "", "inventory file: plain text (addresses, CIDR blocks, hostnames) or Ansible YAML")
	fs.StringVar(&opts.configPath, "config", "", "config file (default: discovered)")
	fs.DurationVar(&opts.timeout, "timeout", 0, "per-request timeout (default 1m)")
	fs.IntVar(&opts.concurrency, "concurrency", 0, "requests in flight; 1 is sequential (default 1)")
	fs.StringVar(&opts.policy, "policy", "", "transport failure policy: fail-fast or isolate")
	fs.StringVar(&opts.enumeration, "enumeration", "", "CIDR enumeration: all or hosts-only")
	fs.IntVar(&opts.port, "port", 0, "agent port (default 4807)")
	fs.BoolVar(&opts.probe, "probe", false, "skip addresses whose agent port is closed")
	fs.StringVar(&opts.probeMethod, "probe-method", "", "probe method: tcp or nmap")
	fs.StringVar(&opts.output, "output", "text", "output format: "+strings.Join(codec.Formats(), ", "))
	fs.StringVar(&opts.historyPath, "history", "", "record the run in this SQLite database")
	fs.IntVar(&opts.historyList, "history-list", 0, "print the last N recorded runs and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })

	enc, err := codec.ForFormat(opts.output)
	if err != nil {
		return nil, err
	}
	opts.encoder = enc
	if opts.historyList < 0 {
		return nil, fmt.Errorf("-history-list must not be negative")
	}

	if opts.historyList > 0 {
		if fs.NArg() > 0 {
			return nil, fmt.Errorf("-history-list takes no query")
		}
		return opts, nil
	}

	switch fs.NArg() {
	case 0:
		fs.Usage()
		return nil, fmt.Errorf("missing query")
	case 1:
		opts.query = fs.Arg(0)
	default:
		return nil, fmt.Errorf("expected one query argument, got %d", fs.NArg())
	}
	return opts, nil
}
