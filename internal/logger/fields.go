package logger

// Structured field keys shared by log call sites across the dispatcher,
// queue, and HTTP ingress so grep'ing a single key finds every log line
// about a given call.
const (
	KeyRequestID   = "request_id"
	KeyCallID      = "call_id"
	KeyPhoneNumber = "phone_number"
	KeyOperatorID  = "operator_id"
	KeyClientIP    = "client_ip"
	KeyCallStatus  = "call_status"
)
