package cdr

import "github.com/KrolPaul/call-center/internal/logger"

// LogSink logs every completed CDR (ok or timeout) at Info level with
// structured fields, grounded on the teacher's request-logging idiom.
type LogSink struct{}

// NewLogSink returns the default Sink used by cmd/callcenter.
func NewLogSink() LogSink {
	return LogSink{}
}

// Emit implements Sink.
func (LogSink) Emit(c CDR) {
	logger.Info("call completed",
		logger.KeyCallID, c.CallID,
		logger.KeyPhoneNumber, c.PhoneNumber,
		logger.KeyCallStatus, c.CallStatus.String(),
		logger.KeyOperatorID, c.OperatorID,
		"call_duration", c.CallDuration.String(),
	)
}
