// Package cdr defines the Call Detail Record data model that flows
// between the HTTP ingress, the dispatch queue, and the scheduler.
package cdr

import "time"

// CallStatus is the outcome of a call as observed by the caller or the
// CDR sink.
type CallStatus int

const (
	// StatusUnknown is the zero value; never observed outside of a CDR
	// that has not yet been admitted.
	StatusUnknown CallStatus = iota
	// StatusOK means the call was (or will be) dispatched to an operator.
	StatusOK
	// StatusOverload means the admission queue was full.
	StatusOverload
	// StatusAlreadyInQueue means the phone number was already queued
	// under the reject-repeated policy.
	StatusAlreadyInQueue
	// StatusCallDuplication is reserved for external producers; the
	// dispatch core itself never returns it (spec §7).
	StatusCallDuplication
	// StatusTimeout means the call aged past maxResponseTime before an
	// operator was assigned.
	StatusTimeout
)

var callStatusNames = map[CallStatus]string{
	StatusUnknown:         "unknown",
	StatusOK:              "ok",
	StatusOverload:        "overload",
	StatusAlreadyInQueue:  "alreadyInQueue",
	StatusCallDuplication: "callDuplication",
	StatusTimeout:         "timeout",
}

// String renders the wire representation used in HTTP responses and logs.
func (s CallStatus) String() string {
	if name, ok := callStatusNames[s]; ok {
		return name
	}
	return "unknown"
}

// MarshalJSON renders CallStatus as its string form.
func (s CallStatus) MarshalJSON() ([]byte, error) {
	return []byte(`"` + s.String() + `"`), nil
}

// CDR is a Call Detail Record tracking one call through admission,
// dispatch, and completion.
//
// receiveDT/responseDT/endDT are zero time.Time values until set, matching
// the "unset" semantics of the source's default-constructed steady_clock
// time_point fields.
type CDR struct {
	PhoneNumber  string
	CallID       uint64
	ReceiveDT    time.Time
	ResponseDT   time.Time
	EndDT        time.Time
	CallDuration time.Duration
	OperatorID   uint64
	CallStatus   CallStatus
}

// QueueID returns the deduplication key used by internal/queue.UniqueQueue.
func (c CDR) QueueID() string {
	return c.PhoneNumber
}

// Sink consumes CDRs once the dispatcher is done with them: on normal
// completion, when they leave the in-flight set, or on timeout, when
// they leave the pending slot.
type Sink interface {
	Emit(CDR)
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(CDR)

// Emit implements Sink.
func (f SinkFunc) Emit(c CDR) { f(c) }
