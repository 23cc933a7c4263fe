// Package fault defines the error kinds shared by the ctproof protocol engine.
//
// Every package in the engine reports failures as *Error values carrying one
// of the codes below. Callers match on the kind with errors.Is against the
// package-level sentinels:
//
//	if errors.Is(err, fault.ErrBadPoint) { ... }
//
// The kinds are flat. The verifier collapses everything that is
// not a pure predicate reject into MALFORMED_ENVELOPE before it reaches the
// wire-facing boolean.
package fault

import (
	"errors"
	"fmt"
)

// Error codes used throughout the protocol engine.
const (
	CodeMalformedEnvelope = "MALFORMED_ENVELOPE" // Envelope or wire value failed to parse
	CodeBadScalar         = "BAD_SCALAR"         // Scalar encoding is zero, >= n, or wrong length
	CodeBadPoint          = "BAD_POINT"          // Encoding does not decode to a curve point
	CodeGroupFailure      = "GROUP_FAILURE"      // Group operation produced the identity
	CodeEmptyAggregation  = "EMPTY_AGGREGATION"  // Aggregation over an empty vector
	CodeRngFailure        = "RNG_FAILURE"        // Randomness source failed
	CodeSignFailure       = "SIGN_FAILURE"       // Schnorr signing failed
	CodeBadAmount         = "BAD_AMOUNT"         // Amount is not representable as u64
	CodeBadProof          = "BAD_PROOF"          // Range predicate rejected
	CodeBadSignature      = "BAD_SIGNATURE"      // Signature predicate rejected
	CodeInvalid           = "INVALID"            // Verification rejected, kind withheld
)

// Error is a protocol engine failure.
type Error struct {
	Code    string // One of the Code* constants
	Message string // Human-readable error message
	Cause   error  // Underlying error (if any)
}

func (e *Error) Error() string {
	if e.Message == "" && e.Cause == nil {
		return fmt.Sprintf("ctproof [%s]", e.Code)
	}
	if e.Cause != nil {
		return fmt.Sprintf("ctproof [%s]: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("ctproof [%s]: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target is an *Error with the same code. This lets the
// sentinels below match any error of their kind regardless of message.
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return t.Code == e.Code
}

// Sentinels for errors.Is matching.
var (
	ErrMalformedEnvelope = &Error{Code: CodeMalformedEnvelope}
	ErrBadScalar         = &Error{Code: CodeBadScalar}
	ErrBadPoint          = &Error{Code: CodeBadPoint}
	ErrGroupFailure      = &Error{Code: CodeGroupFailure}
	ErrEmptyAggregation  = &Error{Code: CodeEmptyAggregation}
	ErrRngFailure        = &Error{Code: CodeRngFailure}
	ErrSignFailure       = &Error{Code: CodeSignFailure}
	ErrBadAmount         = &Error{Code: CodeBadAmount}
	ErrBadProof          = &Error{Code: CodeBadProof}
	ErrBadSignature      = &Error{Code: CodeBadSignature}
	ErrInvalid           = &Error{Code: CodeInvalid}
)

// New creates an error of the given kind.
func New(code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates an error of the given kind around cause.
func Wrap(code string, cause error, format string, args ...interface{}) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...), Cause: cause}
}

// CodeOf returns the code of the first *Error in err's chain, or "" if none.
func CodeOf(err error) string {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return ""
}
