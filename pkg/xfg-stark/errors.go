package xfgstark

import "fmt"

// ErrorCode represents an xfg-stark error code
type ErrorCode int

const (
	// ErrUnknown represents an unknown error
	ErrUnknown ErrorCode = iota

	// ErrInvalidConfig represents an invalid configuration error
	ErrInvalidConfig

	// ErrInvalidAir represents an invalid AIR definition error
	ErrInvalidAir

	// ErrTraceGeneration represents a trace generation error
	ErrTraceGeneration

	// ErrProofGeneration represents a proof generation error
	ErrProofGeneration

	// ErrProofVerification represents a proof verification error
	ErrProofVerification

	// ErrInvalidProof represents an invalid proof error
	ErrInvalidProof

	// ErrSerialization represents a proof serialization error
	ErrSerialization

	// ErrInvalidInput represents an invalid input error
	ErrInvalidInput
)

// StarkError represents an xfg-stark error
type StarkError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error returns the error message
func (e *StarkError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("xfg-stark error [%d]: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("xfg-stark error [%d]: %s", e.Code, e.Message)
}

// Unwrap returns the cause of the error
func (e *StarkError) Unwrap() error {
	return e.Cause
}

// Is checks if the error matches the target error
func (e *StarkError) Is(target error) bool {
	t, ok := target.(*StarkError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func newError(code ErrorCode, message string, cause error) *StarkError {
	return &StarkError{Code: code, Message: message, Cause: cause}
}
