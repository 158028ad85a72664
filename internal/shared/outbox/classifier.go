package outbox

// RetryClassifier reports whether a publish error is permanent. Permanent
// errors short-circuit the attempt ceiling and move the record straight to
// FAILED; everything else is retried with backoff.
type RetryClassifier interface {
	IsNonRetryable(err error) bool
}

// RetryClassifierFunc adapts a function to the RetryClassifier interface.
type RetryClassifierFunc func(err error) bool

func (fn RetryClassifierFunc) IsNonRetryable(err error) bool {
	if fn == nil {
		return false
	}
	return fn(err)
}
