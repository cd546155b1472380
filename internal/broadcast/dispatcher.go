package broadcast

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"iqt/internal/domain"
)

// DefaultTimeout bounds a single endpoint request. It must exceed the agent's
// worst case of one command timeout per field.
const DefaultTimeout = 60 * time.Second

// maxErrorBody limits how much of a non-2xx response ends up in an error message
const maxErrorBody = 256

// Validator checks a query document before it is sent anywhere
type Validator interface {
	Validate(query string) error
}

// Options configures a Dispatcher
type Options struct {
	Client *http.Client
	// Timeout bounds each endpoint request; 0 selects DefaultTimeout
	Timeout time.Duration
	// Concurrency is the number of requests in flight; 1 or less is sequential
	Concurrency int
	Policy      FailurePolicy
	// OnResult is called once per finished endpoint, in endpoint order
	OnResult func(Result)
}

// Result is the outcome of querying one endpoint
type Result struct {
	Endpoint domain.Endpoint
	Status   int
	// Body is the complete response document
	Body     json.RawMessage
	Duration time.Duration
	// Err is a *TransportError when the endpoint could not be queried
	Err error
	// Cancelled is set when the request was stopped by a fail-fast abort
	// triggered by another endpoint; Err then wraps ErrCancelled
	Cancelled bool
}

// Report summarizes a broadcast
type Report struct {
	State State
	// Results holds one entry per endpoint that was queried, in endpoint order
	Results []Result
	Err     error
}

// Failed returns the number of endpoints that failed on their own
func (r *Report) Failed() int {
	n := 0
	for _, res := range r.Results {
		if res.Err != nil && !res.Cancelled {
			n++
		}
	}
	return n
}

// Cancelled returns the number of requests stopped by a fail-fast abort
func (r *Report) Cancelled() int {
	n := 0
	for _, res := range r.Results {
		if res.Cancelled {
			n++
		}
	}
	return n
}

// Dispatcher runs broadcasts
type Dispatcher struct {
	validator   Validator
	client      *http.Client
	timeout     time.Duration
	concurrency int
	policy      FailurePolicy
	onResult    func(Result)

	mu    sync.Mutex
	state State
}

// NewDispatcher creates a dispatcher that validates queries with v
func NewDispatcher(v Validator, opts Options) *Dispatcher {
	if opts.Client == nil {
		opts.Client = &http.Client{}
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	if opts.Policy == "" {
		opts.Policy = PolicyFailFast
	}
	return &Dispatcher{
		validator:   v,
		client:      opts.Client,
		timeout:     opts.Timeout,
		concurrency: opts.Concurrency,
		policy:      opts.Policy,
		onResult:    opts.OnResult,
	}
}

// State returns the current lifecycle state
func (d *Dispatcher) State() State {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.state
}

func (d *Dispatcher) setState(s State) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.state = s
}

// Run validates the query and sends it to every endpoint of req.
// The returned error wraps ErrInvalidQuery or ErrAborted; the report is
// returned in every case and holds the results gathered so far.
func (d *Dispatcher) Run(ctx context.Context, req domain.QueryRequest) (*Report, error) {
	d.setState(StateIdle)
	report := &Report{State: StateIdle}

	if err := d.validator.Validate(req.Query); err != nil {
		return d.abort(report, fmt.Errorf("%w: %w", ErrInvalidQuery, err))
	}
	d.setState(StateValidated)

	body, err := json.Marshal(struct {
		Query string `json:"query"`
	}{Query: req.Query})
	if err != nil {
		return d.abort(report, fmt.Errorf("%w: encode request: %w", ErrAborted, err))
	}

	d.setState(StateDispatching)
	endpoints := req.Endpoints()

	var results []Result
	if d.concurrency == 1 || len(endpoints) <= 1 {
		results, err = d.sequential(ctx, endpoints, body)
	} else {
		results, err = d.parallel(ctx, endpoints, body)
	}
	report.Results = results
	if err != nil {
		return d.abort(report, fmt.Errorf("%w: %w", ErrAborted, err))
	}

	d.setState(StateDone)
	report.State = StateDone
	return report, nil
}

func (d *Dispatcher) abort(report *Report, err error) (*Report, error) {
	d.setState(StateAborted)
	report.State = StateAborted
	report.Err = err
	return report, err
}

// sequential queries endpoints one at a time in order
func (d *Dispatcher) sequential(ctx context.Context, endpoints []domain.Endpoint, body []byte) ([]Result, error) {
	results := make([]Result, 0, len(endpoints))
	for _, ep := range endpoints {
		if err := ctx.Err(); err != nil {
			return results, err
		}
		res := d.send(ctx, ep, body)
		results = append(results, res)
		d.emit(res)
		if res.Err != nil && d.policy == PolicyFailFast {
			return results, res.Err
		}
	}
	return results, nil
}

// parallel queries up to d.concurrency endpoints at once. Under fail-fast the
// first transport failure cancels in-flight requests and no new ones start.
func (d *Dispatcher) parallel(ctx context.Context, endpoints []domain.Endpoint, body []byte) ([]Result, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(d.concurrency)

	results := make([]Result, len(endpoints))
	issued := make([]bool, len(endpoints))
	out := newOrderedEmitter(len(endpoints), d.emit)

	for i, ep := range endpoints {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if gctx.Err() != nil {
				out.skip(i)
				return nil
			}
			res := d.send(gctx, ep, body)
			if res.Err != nil && errors.Is(res.Err, context.Canceled) && gctx.Err() != nil && ctx.Err() == nil {
				res.Err = &TransportError{Endpoint: ep, Err: ErrCancelled}
				res.Cancelled = true
			}
			results[i] = res
			issued[i] = true
			out.deliver(i, res)
			if res.Err != nil && !res.Cancelled && d.policy == PolicyFailFast {
				return res.Err
			}
			return nil
		})
	}
	err := g.Wait()
	out.flush()

	gathered := make([]Result, 0, len(endpoints))
	for i, ok := range issued {
		if ok {
			gathered = append(gathered, results[i])
		}
	}
	if err == nil {
		err = ctx.Err()
	}
	return gathered, err
}

func (d *Dispatcher) emit(res Result) {
	if d.onResult != nil {
		d.onResult(res)
	}
}

// send posts body to one endpoint and reads the whole response
func (d *Dispatcher) send(ctx context.Context, ep domain.Endpoint, body []byte) Result {
	start := time.Now()
	res := Result{Endpoint: ep}
	fail := func(err error) Result {
		res.Duration = time.Since(start)
		res.Err = &TransportError{Endpoint: ep, Err: err}
		return res
	}

	reqCtx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, ep.URL, bytes.NewReader(body))
	if err != nil {
		return fail(err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := d.client.Do(req)
	if err != nil {
		return fail(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fail(fmt.Errorf("read response: %w", err))
	}
	res.Status = resp.StatusCode

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fail(fmt.Errorf("unexpected status %s: %s", resp.Status, snippet(data)))
	}
	if !json.Valid(data) {
		return fail(errors.New("malformed response: not a JSON document"))
	}

	res.Body = data
	res.Duration = time.Since(start)
	return res
}

func snippet(data []byte) string {
	data = bytes.TrimSpace(data)
	if len(data) > maxErrorBody {
		return string(data[:maxErrorBody]) + "..."
	}
	return string(data)
}

// orderedEmitter releases results in endpoint order as they complete
type orderedEmitter struct {
	mu      sync.Mutex
	next    int
	pending []*Result
	skipped []bool
	emit    func(Result)
}

func newOrderedEmitter(n int, emit func(Result)) *orderedEmitter {
	return &orderedEmitter{
		pending: make([]*Result, n),
		skipped: make([]bool, n),
		emit:    emit,
	}
}

func (o *orderedEmitter) deliver(i int, res Result) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.pending[i] = &res
	o.drain()
}

func (o *orderedEmitter) skip(i int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.skipped[i] = true
	o.drain()
}

// drain emits every result at the head of the queue; caller holds o.mu
func (o *orderedEmitter) drain() {
	for o.next < len(o.pending) {
		switch {
		case o.pending[o.next] != nil:
			o.emit(*o.pending[o.next])
			o.pending[o.next] = nil
		case o.skipped[o.next]:
		default:
			return
		}
		o.next++
	}
}

// flush emits whatever is left once no more results can arrive
func (o *orderedEmitter) flush() {
	o.mu.Lock()
	defer o.mu.Unlock()
	for ; o.next < len(o.pending); o.next++ {
		if r := o.pending[o.next]; r != nil {
			o.emit(*r)
			o.pending[o.next] = nil
		}
	}
}
