package processor

import "github.com/arjunmehta/go-disruptor/logging"

// ErrorSink is the idiomatic Go stand-in for the source design's exception
// hierarchy: three hooks, one per place a handler can fail, each reporting
// back whether the processor should treat the failure as fatal (true) or
// absorb it and keep running (false).
type ErrorSink[T any] interface {
	// HandleEventException is called when a handler's OnEvent returns an
	// error. It reports whether the processor should stop.
	HandleEventException(cause error, seq int64, slot *T) (halt bool)

	// HandleOnStartException is called when a StartHandler's OnStart
	// returns an error.
	HandleOnStartException(cause error) (halt bool)

	// HandleOnShutdownException is called when a ShutdownHandler's
	// OnShutdown returns an error.
	HandleOnShutdownException(cause error) (halt bool)
}

// DefaultErrorSink logs every failure via the package's default logger and
// treats all three as fatal, matching the design's default broadcast
// policy: "by default they are fatal and rethrown".
type DefaultErrorSink[T any] struct{}

func (DefaultErrorSink[T]) HandleEventException(cause error, seq int64, slot *T) bool {
	logging.Default().Errorf("disruptor: handler failed at sequence %d: %v", seq, cause)
	return true
}

func (DefaultErrorSink[T]) HandleOnStartException(cause error) bool {
	logging.Default().Errorf("disruptor: OnStart failed: %v", cause)
	return true
}

func (DefaultErrorSink[T]) HandleOnShutdownException(cause error) bool {
	logging.Default().Errorf("disruptor: OnShutdown failed: %v", cause)
	return true
}

// LoggingErrorSink logs every failure but never halts the processor,
// matching the alternative policy the design calls out: "an alternative
// sink logs and continues".
type LoggingErrorSink[T any] struct{}

func (LoggingErrorSink[T]) HandleEventException(cause error, seq int64, slot *T) bool {
	logging.Default().Warnf("disruptor: handler failed at sequence %d, continuing: %v", seq, cause)
	return false
}

func (LoggingErrorSink[T]) HandleOnStartException(cause error) bool {
	logging.Default().Warnf("disruptor: OnStart failed, continuing: %v", cause)
	return false
}

func (LoggingErrorSink[T]) HandleOnShutdownException(cause error) bool {
	logging.Default().Warnf("disruptor: OnShutdown failed, continuing: %v", cause)
	return false
}

// logDropped records a swallowed work-queue handler failure. Work
// processors have no error sink of their own (the design's handler failure
// policy for work queues is fixed: swallow to preserve liveness), so this
// goes straight to the package default logger rather than through the
// ErrorSink indirection broadcast processors use.
func logDropped(cause error, seq int64) {
	logging.Default().Warnf("disruptor: work handler failed at sequence %d, dropped: %v", seq, cause)
}
