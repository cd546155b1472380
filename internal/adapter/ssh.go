package adapter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/ssh"
)

// SSHConfig describes the host an SSHRunner executes commands on
type SSHConfig struct {
	Host       string
	Port       int
	User       string
	KeyPath    string
	Passphrase string
	Password   string
	Timeout    time.Duration
}

// SSHRunner executes commands on a remote host over SSH.
// Every Run dials its own connection; nothing is shared between invocations.
type SSHRunner struct {
	addr   string
	config *ssh.ClientConfig
}

// NewSSHRunner builds a runner from cfg, loading the private key if one is set
func NewSSHRunner(cfg SSHConfig) (*SSHRunner, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("ssh host is required")
	}
	if cfg.User == "" {
		return nil, fmt.Errorf("ssh user is required")
	}
	if cfg.Port == 0 {
		cfg.Port = 22
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}

	var auth []ssh.AuthMethod
	if cfg.KeyPath != "" {
		signer, err := loadSigner(cfg.KeyPath, cfg.Passphrase)
		if err != nil {
			return nil, err
		}
		auth = append(auth, ssh.PublicKeys(signer))
	}
	if cfg.Password != "" {
		auth = append(auth, ssh.Password(cfg.Password))
	}
	if len(auth) == 0 {
		return nil, fmt.Errorf("ssh key_path or password is required")
	}

	return &SSHRunner{
		addr: net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		config: &ssh.ClientConfig{
			User:            cfg.User,
			Auth:            auth,
			HostKeyCallback: ssh.InsecureIgnoreHostKey(),
			Timeout:         cfg.Timeout,
		},
	}, nil
}

// loadSigner reads and parses a private key, decrypting it when a passphrase is set
func loadSigner(path, passphrase string) (ssh.Signer, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ssh key: %w", err)
	}

	var signer ssh.Signer
	if passphrase != "" {
		signer, err = ssh.ParsePrivateKeyWithPassphrase(data, []byte(passphrase))
	} else {
		signer, err = ssh.ParsePrivateKey(data)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse private key: %w", err)
	}
	return signer, nil
}

// Addr returns the host:port the runner connects to
func (r *SSHRunner) Addr() string {
	return r.addr
}

// Run executes cmd in a new session on the remote host
func (r *SSHRunner) Run(ctx context.Context, cmd Command) (CommandResult, error) {
	dialer := &net.Dialer{Timeout: r.config.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", r.addr)
	if err != nil {
		return CommandResult{}, fmt.Errorf("failed to dial: %w", err)
	}

	sshConn, chans, reqs, err := ssh.NewClientConn(conn, r.addr, r.config)
	if err != nil {
		conn.Close()
		return CommandResult{}, fmt.Errorf("failed to establish SSH connection: %w", err)
	}
	client := ssh.NewClient(sshConn, chans, reqs)
	defer client.Close()

	session, err := client.NewSession()
	if err != nil {
		return CommandResult{}, fmt.Errorf("failed to create session: %w", err)
	}
	defer session.Close()

	var stdout, stderr bytes.Buffer
	session.Stdout = &stdout
	session.Stderr = &stderr

	done := make(chan error, 1)
	go func() {
		done <- session.Run(shellJoin(cmd))
	}()

	select {
	case err := <-done:
		if err != nil {
			var exitErr *ssh.ExitError
			if !errors.As(err, &exitErr) {
				return CommandResult{}, fmt.Errorf("command failed: %w", err)
			}
			return CommandResult{
				ExitCode: exitErr.ExitStatus(),
				Stdout:   stdout.Bytes(),
				Stderr:   stderr.Bytes(),
			}, nil
		}
		return CommandResult{Stdout: stdout.Bytes(), Stderr: stderr.Bytes()}, nil
	case <-ctx.Done():
		session.Signal(ssh.SIGKILL)
		return CommandResult{}, ctx.Err()
	}
}

// shellJoin renders cmd as a single POSIX shell command line.
// Every word is single-quoted so arguments are never interpreted by the remote shell.
func shellJoin(cmd Command) string {
	words := make([]string, 0, len(cmd.Args)+1)
	words = append(words, shellQuote(cmd.Program))
	for _, arg := range cmd.Args {
		words = append(words, shellQuote(arg))
	}
	return strings.Join(words, " ")
}

func shellQuote(s string) string {
	if s == "" {
		return "''"
	}
	return "'" + strings.ReplaceAll(s, "'", `'\''`) + "'"
}
