package dispatcher

import "time"

// windowConfig holds the tunable response-time and call-duration
// windows, guarded by Dispatcher.configMu. Paired setters (min/max)
// commit both fields in a single critical section so no reader ever
// observes min > max (spec invariant I6 / property P9).
type windowConfig struct {
	minResponseTime time.Duration
	maxResponseTime time.Duration
	minCallDuration time.Duration
	maxCallDuration time.Duration
}

// SetMinResponseTime sets the minimum response-time window edge.
// Rejected if it would make min > max.
func (d *Dispatcher) SetMinResponseTime(v time.Duration) bool {
	d.configMu.Lock()
	defer d.configMu.Unlock()
	if v > d.cfg.maxResponseTime {
		return false
	}
	d.cfg.minResponseTime = v
	return true
}

// SetMaxResponseTime sets the maximum response-time window edge.
// Rejected if it would make max < min.
func (d *Dispatcher) SetMaxResponseTime(v time.Duration) bool {
	d.configMu.Lock()
	defer d.configMu.Unlock()
	if v < d.cfg.minResponseTime {
		return false
	}
	d.cfg.maxResponseTime = v
	return true
}

// SetMinMaxResponseTime commits both edges atomically. Rejected if lo > hi.
func (d *Dispatcher) SetMinMaxResponseTime(lo, hi time.Duration) bool {
	d.configMu.Lock()
	defer d.configMu.Unlock()
	if lo > hi {
		return false
	}
	d.cfg.minResponseTime = lo
	d.cfg.maxResponseTime = hi
	return true
}

// GetMinResponseTime returns the current minimum response-time window edge.
func (d *Dispatcher) GetMinResponseTime() time.Duration {
	d.configMu.RLock()
	defer d.configMu.RUnlock()
	return d.cfg.minResponseTime
}

// GetMaxResponseTime returns the current maximum response-time window edge.
func (d *Dispatcher) GetMaxResponseTime() time.Duration {
	d.configMu.RLock()
	defer d.configMu.RUnlock()
	return d.cfg.maxResponseTime
}

// SetMinCallDuration sets the minimum service-duration window edge.
// Rejected if v < 1 second or it would make min > max.
func (d *Dispatcher) SetMinCallDuration(v time.Duration) bool {
	d.configMu.Lock()
	defer d.configMu.Unlock()
	if v < time.Second || v > d.cfg.maxCallDuration {
		return false
	}
	d.cfg.minCallDuration = v
	return true
}

// SetMaxCallDuration sets the maximum service-duration window edge.
// Rejected if v < 1 second or it would make max < min.
func (d *Dispatcher) SetMaxCallDuration(v time.Duration) bool {
	d.configMu.Lock()
	defer d.configMu.Unlock()
	if v < time.Second || v < d.cfg.minCallDuration {
		return false
	}
	d.cfg.maxCallDuration = v
	return true
}

// SetMinMaxCallDuration commits both edges atomically. Rejected if
// lo < 1 second or lo > hi.
func (d *Dispatcher) SetMinMaxCallDuration(lo, hi time.Duration) bool {
	d.configMu.Lock()
	defer d.configMu.Unlock()
	if lo < time.Second || lo > hi {
		return false
	}
	d.cfg.minCallDuration = lo
	d.cfg.maxCallDuration = hi
	return true
}

// GetMinCallDuration returns the current minimum service-duration window edge.
func (d *Dispatcher) GetMinCallDuration() time.Duration {
	d.configMu.RLock()
	defer d.configMu.RUnlock()
	return d.cfg.minCallDuration
}

// GetMaxCallDuration returns the current maximum service-duration window edge.
func (d *Dispatcher) GetMaxCallDuration() time.Duration {
	d.configMu.RLock()
	defer d.configMu.RUnlock()
	return d.cfg.maxCallDuration
}

// SetNOperators resizes the operator pool. Rejected if n < 1.
func (d *Dispatcher) SetNOperators(n uint64) bool {
	if n < 1 {
		return false
	}
	d.configMu.Lock()
	defer d.configMu.Unlock()
	return d.pool.Resize(n)
}

// GetNOperators returns the configured operator pool capacity.
func (d *Dispatcher) GetNOperators() uint64 {
	return d.pool.Capacity()
}

// SetMaxQueueSize resizes the admission queue bound.
func (d *Dispatcher) SetMaxQueueSize(n int) bool {
	d.configMu.Lock()
	defer d.configMu.Unlock()
	return d.queue.SetMaxSize(n)
}

// GetMaxQueueSize returns the current admission queue bound.
func (d *Dispatcher) GetMaxQueueSize() int {
	return d.queue.MaxSize()
}

// SetRejectRepeatedCalls sets the duplicate-admission policy.
func (d *Dispatcher) SetRejectRepeatedCalls(reject bool) bool {
	d.configMu.Lock()
	defer d.configMu.Unlock()
	d.queue.SetRejectRepeated(reject)
	return true
}

// GetRejectRepeatedCalls returns the current duplicate-admission policy.
func (d *Dispatcher) GetRejectRepeatedCalls() bool {
	return d.queue.RejectRepeated()
}

// responseWindow returns a consistent snapshot of the response-time
// window under a single read lock, per spec.md §5: "the shared lock is
// taken for the minimum span required to copy the values into locals."
func (d *Dispatcher) responseWindow() (min, max time.Duration) {
	d.configMu.RLock()
	defer d.configMu.RUnlock()
	return d.cfg.minResponseTime, d.cfg.maxResponseTime
}

// durationWindow returns a consistent snapshot of the call-duration window.
func (d *Dispatcher) durationWindow() (min, max time.Duration) {
	d.configMu.RLock()
	defer d.configMu.RUnlock()
	return d.cfg.minCallDuration, d.cfg.maxCallDuration
}
