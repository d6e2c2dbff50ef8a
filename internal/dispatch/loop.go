package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/watershed117/eventloop/internal/registry"
	"github.com/watershed117/eventloop/internal/validate"
)

// State is the dispatch loop's lifecycle state.
type State int32

const (
	// StateRunning accepts submissions; the worker drains the queue.
	StateRunning State = iota + 1
	// StateStopping is the transient state after the stop sentinel is
	// dequeued; no further items are drained.
	StateStopping
	// StateStopped is terminal. Submissions fail fast with ErrStopped.
	StateStopped
)

// String returns the lower-case state name.
func (s State) String() string {
	switch s {
	case StateRunning:
		return "running"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Loop is the single-consumer event dispatch loop.
//
// N producer goroutines submit events; exactly one worker goroutine (the
// caller of Run) executes them in FIFO submission order. One event executes
// at a time, so a slow task delays everything queued behind it - this is
// the deliberate trade of throughput for a trivial ordering argument.
//
// Thread-safety model:
//   - Submit/SubmitCall/SubmitStop/Get: safe from any goroutine
//   - Run: must be called from exactly one goroutine
//
// The queue and the result store are the only shared mutable state, each
// behind its own synchronization. The worker is the sole writer of terminal
// outcomes; producers are the sole writers of pending entries.
type Loop struct {
	registry *registry.Registry
	queue    *eventQueue
	results  *ResultStore
	clock    *Clock
	idGen    IDGenerator
	recorder Recorder
	logger   *slog.Logger

	validateArgs bool
	resultTTL    time.Duration

	state atomic.Int32
}

// Option configures a Loop.
type Option func(*Loop)

// WithIDGenerator replaces the default UUIDv7 event id generator.
// Tests use this with a fixed generator for deterministic ids.
func WithIDGenerator(gen IDGenerator) Option {
	return func(l *Loop) {
		l.idGen = gen
	}
}

// WithRecorder attaches an audit recorder (typically a journal.Journal).
// Recording is best-effort; recorder errors are logged, never propagated.
func WithRecorder(rec Recorder) Option {
	return func(l *Loop) {
		l.recorder = rec
	}
}

// WithLogger replaces the default slog logger.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loop) {
		l.logger = logger
	}
}

// WithValidation toggles argument validation. When disabled, arguments are
// still bound to parameter positions (arity and names must match) but type
// mismatches surface at execution time as EXECUTION_ERROR instead of being
// rejected up front.
func WithValidation(enabled bool) Option {
	return func(l *Loop) {
		l.validateArgs = enabled
	}
}

// WithResultTTL bounds the lifetime of unconsumed outcomes. While Run is
// active, a janitor evicts non-pending entries older than ttl. Zero (the
// default) disables eviction and leaves abandoned entries to the caller.
func WithResultTTL(ttl time.Duration) Option {
	return func(l *Loop) {
		l.resultTTL = ttl
	}
}

// New creates a Loop that resolves symbolic targets against reg.
//
// The loop is Running from construction: events may be submitted before Run
// is called and are buffered in arrival order.
func New(reg *registry.Registry, opts ...Option) *Loop {
	l := &Loop{
		registry:     reg,
		queue:        newEventQueue(),
		results:      NewResultStore(),
		clock:        NewClock(),
		idGen:        UUIDv7Generator{},
		logger:       slog.Default(),
		validateArgs: true,
	}
	for _, opt := range opts {
		opt(l)
	}
	l.state.Store(int32(StateRunning))
	return l
}

// State returns the loop's current lifecycle state.
func (l *Loop) State() State {
	return State(l.state.Load())
}

// QueueLen returns the number of queued, not-yet-dequeued events.
// Useful for monitoring and testing.
func (l *Loop) QueueLen() int {
	return l.queue.Len()
}

// Results returns the loop's result store.
func (l *Loop) Results() *ResultStore {
	return l.results
}

// Submit enqueues a symbolic method call and returns its event id
// immediately. args are bound positionally, kwargs by parameter name; both
// may be nil. Fails fast with ErrStopped once the loop has stopped.
func (l *Loop) Submit(method string, args []any, kwargs map[string]any) (uuid.UUID, error) {
	if method == "" {
		return uuid.Nil, fmt.Errorf("method name must not be empty")
	}
	return l.submit(Event{
		Type:   EventTypeCall,
		Method: method,
		Args:   args,
		Kwargs: kwargs,
	})
}

// SubmitCall enqueues a direct callable with arguments. The callable's own
// declared signature is used for validation; the registry is not consulted.
func (l *Loop) SubmitCall(call *registry.Callable, args []any, kwargs map[string]any) (uuid.UUID, error) {
	if call == nil {
		return uuid.Nil, fmt.Errorf("callable must not be nil")
	}
	return l.submit(Event{
		Type:   EventTypeCall,
		Call:   call,
		Args:   args,
		Kwargs: kwargs,
	})
}

func (l *Loop) submit(ev Event) (uuid.UUID, error) {
	if l.State() == StateStopped {
		return uuid.Nil, ErrStopped
	}

	ev.ID = l.idGen.New()
	ev.Seq = l.clock.Next()
	ev.SubmittedAt = time.Now()

	// Pending entry first, so a Get racing with the worker never observes
	// a missing id for an accepted event.
	l.results.PutPending(ev.ID)

	if !l.queue.Enqueue(ev) {
		l.results.Discard(ev.ID)
		return uuid.Nil, ErrStopped
	}

	l.record(context.Background(), func(ctx context.Context) error {
		return l.recorder.RecordSubmitted(ctx, SubmittedRecord{
			ID:          ev.ID,
			Seq:         ev.Seq,
			Method:      ev.TargetName(),
			Args:        ev.Args,
			Kwargs:      ev.Kwargs,
			SubmittedAt: ev.SubmittedAt,
		})
	})

	l.logger.Debug("event submitted",
		"event_id", ev.ID,
		"method", ev.TargetName(),
		"seq", ev.Seq,
	)
	return ev.ID, nil
}

// SubmitStop enqueues the stop sentinel. The sentinel is processed only
// after everything queued ahead of it drains, then the loop transitions
// Stopping -> Stopped and Run returns.
//
// Idempotent: extra stops after the loop exits are no-ops, since nothing is
// reading the queue anymore. A caller must not rely on a stop being
// observed if the loop already exited.
func (l *Loop) SubmitStop() {
	l.queue.Enqueue(Event{Type: EventTypeStop})
}

// Get blocks until the outcome for id is ready, consumes it, and returns
// it. See ResultStore.Get for timeout and consume-once semantics.
func (l *Loop) Get(id uuid.UUID, timeout time.Duration) (Outcome, error) {
	return l.results.Get(id, timeout)
}

// Discard drops an outcome the caller no longer wants. See
// ResultStore.Discard.
func (l *Loop) Discard(id uuid.UUID) bool {
	return l.results.Discard(id)
}

// Run starts the worker. Blocks until the stop sentinel is processed or the
// context is cancelled.
//
// Must be called from exactly ONE goroutine. All target execution happens
// in this goroutine, which is what guarantees FIFO side-effect ordering.
//
// ERROR HANDLING: every per-task failure is converted to a Failed outcome
// and published; the loop itself never terminates because a task failed.
func (l *Loop) Run(ctx context.Context) error {
	l.logger.Info("dispatch loop starting")

	if l.resultTTL > 0 {
		done := make(chan struct{})
		defer close(done)
		go l.sweepResults(done)
	}

	for {
		ev, ok := l.queue.TryDequeue()
		if ok {
			if ev.Type == EventTypeStop {
				l.state.Store(int32(StateStopping))
				l.logger.Info("dispatch loop stopping: stop sentinel")
				l.queue.Close()
				l.state.Store(int32(StateStopped))
				return nil
			}
			l.process(ctx, ev)
			continue
		}

		// No event ready - wait for signal or context cancellation
		select {
		case <-ctx.Done():
			l.logger.Info("dispatch loop stopping: context cancelled")
			l.queue.Close()
			l.state.Store(int32(StateStopped))
			return ctx.Err()

		case <-l.queue.Wait():
			// Signal received - loop back to TryDequeue. The signal
			// channel closes when the queue is closed, which makes this
			// case fire immediately.
			if l.State() == StateStopped {
				return nil
			}
		}
	}
}

// process executes one event and publishes exactly one outcome for its id.
// Called only from the Run goroutine.
func (l *Loop) process(ctx context.Context, ev Event) {
	outcome := l.execute(ev)

	l.results.SetOutcome(ev.ID, outcome)

	rec := OutcomeRecord{
		ID:         ev.ID,
		Status:     outcome.Status,
		Value:      outcome.Value,
		FinishedAt: time.Now(),
	}
	if outcome.Err != nil {
		rec.FailureKind = outcome.Err.Kind
		rec.Message = outcome.Err.Message
	}
	l.record(ctx, func(ctx context.Context) error {
		return l.recorder.RecordOutcome(ctx, rec)
	})

	if outcome.Status == StatusFailed {
		l.logger.Error("event failed",
			"event_id", ev.ID,
			"method", ev.TargetName(),
			"seq", ev.Seq,
			"failure_kind", string(outcome.Err.Kind),
			"error", outcome.Err.Message,
		)
		return
	}
	l.logger.Info("event completed",
		"event_id", ev.ID,
		"method", ev.TargetName(),
		"seq", ev.Seq,
	)
}

// execute resolves the target, validates arguments, and runs the call.
// Every failure path returns a Failed outcome; nothing escapes.
func (l *Loop) execute(ev Event) Outcome {
	call := ev.Call
	if call == nil {
		resolved, ok := l.registry.Resolve(ev.Method)
		if !ok {
			return failed(NewMethodNotFoundError(ev.Method))
		}
		call = resolved
	}

	var (
		bound []any
		err   error
	)
	if l.validateArgs {
		bound, err = validate.Bind(call.Signature(), ev.Args, ev.Kwargs)
	} else {
		bound, err = validate.BindUnchecked(call.Signature(), ev.Args, ev.Kwargs)
	}
	if err != nil {
		var verr *validate.Error
		param := ""
		if errors.As(err, &verr) {
			param = verr.Param
		}
		return failed(NewInvalidArgumentsError(call.Name(), param, err.Error()))
	}

	value, callErr := l.invoke(call, bound)
	if callErr != nil {
		return failed(callErr)
	}
	return completed(value)
}

// invoke runs the call on the worker goroutine, converting a returned
// error or a recovered panic into an EXECUTION_ERROR.
func (l *Loop) invoke(call *registry.Callable, bound []any) (value any, failure *Error) {
	defer func() {
		if r := recover(); r != nil {
			failure = NewExecutionError(call.Name(), fmt.Errorf("panic: %v", r))
		}
	}()

	v, err := call.Call(bound)
	if err != nil {
		return nil, NewExecutionError(call.Name(), err)
	}
	return v, nil
}

// record runs a recorder call if a recorder is attached, logging and
// swallowing any error: the journal observes the loop, it does not gate it.
func (l *Loop) record(ctx context.Context, fn func(ctx context.Context) error) {
	if l.recorder == nil {
		return
	}
	if err := fn(ctx); err != nil {
		l.logger.Warn("journal record failed", "error", err)
	}
}

// sweepResults periodically evicts unconsumed outcomes older than the TTL.
// Runs until the Run loop exits.
func (l *Loop) sweepResults(done <-chan struct{}) {
	ticker := time.NewTicker(l.resultTTL)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if n := l.results.evictOlderThan(time.Now().Add(-l.resultTTL)); n > 0 {
				l.logger.Info("evicted expired outcomes", "count", n)
			}
		}
	}
}
