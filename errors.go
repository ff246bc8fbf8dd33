package fastsets

import (
	"errors"
	"fmt"
)

var (
	// ErrNotADomain is returned when a transform is constructed without a domain.
	ErrNotADomain = errors.New("first argument must be a domain instance")

	// ErrNilFunction is returned when a transform is constructed without a mapping function.
	ErrNilFunction = errors.New("mapping function must not be nil")

	// ErrDomainMismatch indicates a value that belongs to a different domain instance.
	ErrDomainMismatch = errors.New("domain mismatch")

	// ErrUninitializedMember indicates a member whose index has not been assigned.
	ErrUninitializedMember = errors.New("uninitialized domain member")

	// ErrUnsupportedArgument is returned when a transform is applied to a
	// domain-bearing value that is not a set.
	ErrUnsupportedArgument = errors.New("unsupported argument type")

	// ErrInvalidIndex indicates an index that does not refer to a live member.
	ErrInvalidIndex = errors.New("index does not refer to a live domain member")

	// ErrTransformClosed is returned when a closed transform is used.
	ErrTransformClosed = errors.New("transform is closed")

	// ErrDomainClosed is returned when a closed domain is used.
	ErrDomainClosed = errors.New("domain is closed")

	// ErrDomainInUse is returned when closing a domain that transforms still reference.
	ErrDomainInUse = errors.New("domain is still referenced")

	// ErrDomainFull is returned when a domain has no index left to assign.
	ErrDomainFull = errors.New("domain is full")

	// ErrAlreadyRegistered is returned when registering a member twice.
	ErrAlreadyRegistered = errors.New("member is already registered")

	// ErrRetiredMember is returned when registering a member that was removed.
	ErrRetiredMember = errors.New("member was removed from its domain")
)

// MismatchError reports a value that does not belong to the expected domain.
//
// It matches ErrDomainMismatch via errors.Is.
type MismatchError struct {
	// Op names the failing operation ("transform", "apply", "union", ...).
	Op string
	// Index is the source index being processed, or -1 if not applicable.
	Index int
}

func (e *MismatchError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("%s: value for index %d is not compatible with domain", e.Op, e.Index)
	}
	return fmt.Sprintf("%s: argument is from a different domain", e.Op)
}

func (e *MismatchError) Unwrap() error { return ErrDomainMismatch }

// UninitializedError reports a member without an assigned index.
//
// It matches ErrUninitializedMember via errors.Is.
type UninitializedError struct {
	Op    string
	Index int
}

func (e *UninitializedError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("%s: value for index %d is an uninitialized domain member", e.Op, e.Index)
	}
	return fmt.Sprintf("%s: uninitialized domain member", e.Op)
}

func (e *UninitializedError) Unwrap() error { return ErrUninitializedMember }

// FunctionError wraps a failure returned by a mapping function during
// transform construction.
//
// The original error can be accessed via errors.Unwrap.
type FunctionError struct {
	// Index is the source index whose mapping failed.
	Index int
	cause error
}

func (e *FunctionError) Error() string {
	return fmt.Sprintf("mapping function failed for index %d: %v", e.Index, e.cause)
}

func (e *FunctionError) Unwrap() error { return e.cause }
