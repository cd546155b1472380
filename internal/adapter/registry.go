package adapter

import (
	"context"
	"fmt"
	"log"
	"slices"
	"sync"
	"time"

	"iqt/internal/domain"
)

// DefaultCommandTimeout bounds every command the registry runs
const DefaultCommandTimeout = 5 * time.Second

// Registry holds the capabilities an agent serves and the runner they execute on
type Registry struct {
	mu       sync.RWMutex
	caps     map[string]Capability
	runner   Runner
	timeout  time.Duration
	disabled map[string]bool
}

// NewRegistry creates a registry with the built-in capabilities registered
func NewRegistry(runner Runner) *Registry {
	r := NewEmptyRegistry(runner)
	for _, c := range DefaultCapabilities() {
		if err := r.Register(c); err != nil {
			log.Printf("Failed to register capability %s: %v", c.Name(), err)
		}
	}
	return r
}

// NewEmptyRegistry creates a registry without any capabilities
func NewEmptyRegistry(runner Runner) *Registry {
	if runner == nil {
		runner = NewLocalRunner()
	}
	return &Registry{
		caps:     make(map[string]Capability),
		runner:   runner,
		timeout:  DefaultCommandTimeout,
		disabled: make(map[string]bool),
	}
}

// Register adds a capability to the registry
func (r *Registry) Register(c Capability) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	name := c.Name()
	if _, exists := r.caps[name]; exists {
		return fmt.Errorf("capability %s already registered", name)
	}
	r.caps[name] = c
	log.Printf("Registered capability: %s (operations=%v)", name, c.Operations())
	return nil
}

// Names returns the registered capability names, sorted
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.caps))
	for name := range r.caps {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Enabled reports whether name is registered and not disabled
func (r *Registry) Enabled(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.caps[name]
	return ok && !r.disabled[name]
}

// SetRunner swaps the runner used for subsequent invocations
func (r *Registry) SetRunner(runner Runner) {
	if runner == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.runner = runner
}

// SetTimeout changes the per-command timeout; zero restores the default
func (r *Registry) SetTimeout(d time.Duration) {
	if d <= 0 {
		d = DefaultCommandTimeout
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.timeout != d {
		log.Printf("Command timeout set to %s", d)
	}
	r.timeout = d
}

// SetDisabled replaces the set of disabled capabilities
func (r *Registry) SetDisabled(names []string) {
	disabled := make(map[string]bool, len(names))
	for _, name := range names {
		disabled[name] = true
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.disabled = disabled
	if len(names) > 0 {
		log.Printf("Disabled capabilities: %v", names)
	}
}

// Resolve invokes one operation of a capability.
// The command outlives ctx cancellation but is bounded by the registry timeout.
func (r *Registry) Resolve(ctx context.Context, name, op string, args Args) domain.FieldOutcome[any] {
	r.mu.RLock()
	c, ok := r.caps[name]
	disabled := r.disabled[name]
	runner := r.runner
	timeout := r.timeout
	r.mu.RUnlock()

	if !ok {
		return domain.Fail[any](fmt.Errorf("unknown capability %q", name))
	}
	if disabled {
		return domain.Fail[any](fmt.Errorf("capability %s is disabled", name))
	}

	runCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), timeout)
	defer cancel()

	start := time.Now()
	outcome := c.Invoke(runCtx, runner, op, args)
	if err := outcome.Err(); err != nil {
		log.Printf("Capability %s.%s failed after %s: %v", name, op, time.Since(start).Round(time.Millisecond), err)
	}
	return outcome
}
