// Package dispatcher implements the single-threaded scheduler that
// couples a deduplicating admission queue to a pool of operator slots
// and a time-ordered set of in-flight calls, per call-center.h /
// call-center.cpp in original_source, generalized to support live
// reconfiguration of every tunable under concurrent ingress.
package dispatcher

import (
	"container/heap"
	"context"
	"math"
	"sync"
	"sync/atomic"
	"time"

	"github.com/KrolPaul/call-center/internal/cdr"
	"github.com/KrolPaul/call-center/internal/clock"
	"github.com/KrolPaul/call-center/internal/logger"
	"github.com/KrolPaul/call-center/internal/operator"
	"github.com/KrolPaul/call-center/internal/queue"
	"github.com/KrolPaul/call-center/internal/randgen"
)

// idlePollInterval bounds how long the scheduler sleeps when it has
// neither a pending CDR nor an in-flight call to wake for — it still
// needs to notice a newly queued call. The source spins with no sleep
// at all; this is the "yield briefly" behavior spec.md §4.3 calls for.
const idlePollInterval = 20 * time.Millisecond

// Observer receives a snapshot after every scheduler tick. Used by
// internal/metrics to keep Prometheus gauges current without coupling
// the dispatcher to a specific metrics backend.
type Observer interface {
	ObserveTick(queueSize, poolFree int, poolCapacity uint64, inFlight int, hasPending bool)
}

type noopObserver struct{}

func (noopObserver) ObserveTick(int, int, uint64, int, bool) {}

// Config seeds the initial tunables a Dispatcher is constructed with.
// Call durations are drawn from [MinCallDuration, MaxCallDuration],
// inclusive. A pending call is dispatched once its wait exceeds
// MinResponseTime and timed out once it exceeds MaxResponseTime.
type Config struct {
	MinResponseTime time.Duration
	MaxResponseTime time.Duration
	MinCallDuration time.Duration
	MaxCallDuration time.Duration
	NOperators      uint64
	MaxQueueSize    int
	RejectRepeated  bool
}

// Dispatcher owns configuration, the operator pool, the admission
// queue, and the in-flight set, and runs one scheduler loop on a
// dedicated goroutine started by Run.
type Dispatcher struct {
	queue *queue.UniqueQueue[cdr.CDR, string]
	pool  *operator.Pool
	clk   clock.Clock
	rng   randgen.Source
	sink  cdr.Sink

	configMu sync.RWMutex
	cfg      windowConfig

	idsMu         sync.Mutex
	activeCallIDs map[uint64]struct{}

	// Scheduler-owned state: touched only by the Run goroutine, per
	// spec.md §3's ownership rule, so it needs no lock of its own.
	pending  *cdr.CDR
	inFlight inFlightHeap

	observer Observer
	ready    atomic.Bool
}

// New constructs a Dispatcher. q and pool are owned exclusively by the
// returned Dispatcher from this point on.
func New(cfg Config, q *queue.UniqueQueue[cdr.CDR, string], pool *operator.Pool, clk clock.Clock, rng randgen.Source, sink cdr.Sink) *Dispatcher {
	d := &Dispatcher{
		queue: q,
		pool:  pool,
		clk:   clk,
		rng:   rng,
		sink:  sink,
		cfg: windowConfig{
			minResponseTime: cfg.MinResponseTime,
			maxResponseTime: cfg.MaxResponseTime,
			minCallDuration: cfg.MinCallDuration,
			maxCallDuration: cfg.MaxCallDuration,
		},
		activeCallIDs: make(map[uint64]struct{}),
		observer:      noopObserver{},
	}
	return d
}

// SetObserver installs a tick observer. Not safe to call concurrently
// with Run; call it before starting the scheduler goroutine.
func (d *Dispatcher) SetObserver(o Observer) {
	if o == nil {
		o = noopObserver{}
	}
	d.observer = o
}

// Ready reports whether the scheduler loop has completed at least one
// tick, for use by an HTTP readiness probe.
func (d *Dispatcher) Ready() bool {
	return d.ready.Load()
}

// Enqueue admits phoneNumber into the dispatch queue, assigning a
// random callId and mapping the queue's admission result onto a CDR
// status, per spec.md §4.3's Enqueue table.
func (d *Dispatcher) Enqueue(phoneNumber string, receiveDT time.Time) cdr.CDR {
	c := cdr.CDR{
		PhoneNumber: phoneNumber,
		ReceiveDT:   receiveDT,
		CallID:      d.newCallID(),
	}

	replaced, hadReplaced := d.queue.Get(phoneNumber)

	switch d.queue.Push(c) {
	case queue.Inserted:
		c.CallStatus = cdr.StatusOK
	case queue.Reassigned:
		c.CallStatus = cdr.StatusOK
		if hadReplaced {
			d.forgetCallID(replaced.CallID)
		}
	case queue.Overload:
		c.CallStatus = cdr.StatusOverload
		d.forgetCallID(c.CallID)
	case queue.AlreadyInQueue:
		c.CallStatus = cdr.StatusAlreadyInQueue
		d.forgetCallID(c.CallID)
	}

	logger.Debug("call enqueued",
		logger.KeyCallID, c.CallID,
		logger.KeyPhoneNumber, c.PhoneNumber,
		logger.KeyCallStatus, c.CallStatus.String(),
	)
	return c
}

// newCallID draws a uniform id in [1, UINT64_MAX], regenerating on
// collision against ids currently live anywhere in the system — the
// hardening spec.md §9 allows as an improvement over the source's
// unguarded draw.
func (d *Dispatcher) newCallID() uint64 {
	d.idsMu.Lock()
	defer d.idsMu.Unlock()
	for {
		id := d.rng.UniformUint64(1, math.MaxUint64)
		if _, collides := d.activeCallIDs[id]; !collides {
			d.activeCallIDs[id] = struct{}{}
			return id
		}
	}
}

func (d *Dispatcher) forgetCallID(id uint64) {
	d.idsMu.Lock()
	delete(d.activeCallIDs, id)
	d.idsMu.Unlock()
}

// Run drives the scheduler loop until ctx is canceled. It must be
// called from exactly one goroutine.
func (d *Dispatcher) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}

		d.Step(d.clk.Now())
		d.observer.ObserveTick(d.queue.Size(), d.pool.Free(), d.pool.Capacity(), d.inFlight.Len(), d.pending != nil)
		d.ready.Store(true)

		select {
		case <-ctx.Done():
			return
		case <-d.clk.After(d.nextWakeup(d.clk.Now())):
		}
	}
}

// Step runs exactly one scheduler iteration as of the given instant:
// end any calls whose time has come, admit a pending CDR if the
// scheduler isn't already holding one, and evaluate the pending CDR
// against the response-time window. Exported so tests can drive the
// scheduler deterministically without a real or simulated sleep loop
// (see spec.md's "pending slot" design note).
func (d *Dispatcher) Step(now time.Time) {
	d.endCompletedCalls(now)
	d.admitPending()
	if d.pending != nil {
		d.serveOrTimeoutPending(now)
	}
}

// endCompletedCalls releases operators and emits CDRs for every
// in-flight call whose endDT has arrived, earliest first (I5).
func (d *Dispatcher) endCompletedCalls(now time.Time) {
	for d.inFlight.Len() > 0 && !d.inFlight[0].EndDT.After(now) {
		done := heap.Pop(&d.inFlight).(cdr.CDR)
		d.pool.Release(done.OperatorID)
		d.forgetCallID(done.CallID)
		d.sink.Emit(done)
		logger.Info("call ended",
			logger.KeyCallID, done.CallID,
			logger.KeyOperatorID, done.OperatorID,
		)
	}
}

// admitPending pulls one CDR off the queue into the pending slot if
// the scheduler isn't already holding one, letting it age toward
// minResponseTime before dispatch is attempted.
func (d *Dispatcher) admitPending() {
	if d.pending != nil {
		return
	}
	if c, ok := d.queue.TryPop(); ok {
		d.pending = &c
	}
}

// serveOrTimeoutPending evaluates the pending CDR against the
// response-time window and either times it out, dispatches it to a
// free operator, or leaves it to age further.
func (d *Dispatcher) serveOrTimeoutPending(now time.Time) {
	minRT, maxRT := d.responseWindow()
	elapsed := now.Sub(d.pending.ReceiveDT)

	switch {
	case elapsed > maxRT:
		c := *d.pending
		c.CallStatus = cdr.StatusTimeout
		c.EndDT = now
		d.forgetCallID(c.CallID)
		d.sink.Emit(c)
		logger.Info("call timed out",
			logger.KeyCallID, c.CallID,
			logger.KeyPhoneNumber, c.PhoneNumber,
		)
		d.pending = nil

	case elapsed > minRT:
		id, ok := d.pool.TryAcquire()
		if !ok {
			return // all operators busy; retry next tick
		}
		minDur, maxDur := d.durationWindow()
		duration := time.Duration(d.rng.UniformUint64(uint64(minDur/time.Second), uint64(maxDur/time.Second))) * time.Second

		c := *d.pending
		c.CallStatus = cdr.StatusOK
		c.OperatorID = id
		c.ResponseDT = now
		c.CallDuration = duration
		// endDT is computed from receiveDT, not responseDT — preserved
		// intentionally from the source (see spec.md §4.3, §9).
		c.EndDT = c.ReceiveDT.Add(duration)
		heap.Push(&d.inFlight, c)
		logger.Debug("call dispatched",
			logger.KeyCallID, c.CallID,
			logger.KeyOperatorID, c.OperatorID,
		)
		d.pending = nil

	default:
		// still within minResponseTime; keep aging
	}
}

// nextWakeup computes how long the scheduler can sleep before it next
// has useful work: an in-flight call ending, the pending CDR crossing
// minResponseTime or maxResponseTime, or the idle poll floor so a
// freshly queued call is never starved of attention.
func (d *Dispatcher) nextWakeup(now time.Time) time.Duration {
	wake := idlePollInterval

	if d.inFlight.Len() > 0 {
		if until := d.inFlight[0].EndDT.Sub(now); until < wake {
			wake = until
		}
	}

	if d.pending != nil {
		minRT, maxRT := d.responseWindow()
		if until := d.pending.ReceiveDT.Add(minRT).Sub(now); until < wake {
			wake = until
		}
		if until := d.pending.ReceiveDT.Add(maxRT).Sub(now); until < wake {
			wake = until
		}
	}

	if wake < 0 {
		wake = 0
	}
	return wake
}
