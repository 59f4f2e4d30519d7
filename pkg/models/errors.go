package models

import "errors"

// Sentinel errors for the three failure classes of a digest run.
// Match with errors.Is; use errors.As to get the Reason.
var (
	// ErrDecode indicates malformed or inconsistent input.
	ErrDecode = errors.New("decode error")

	// ErrCluster indicates an invalid clustering configuration or empty input.
	ErrCluster = errors.New("cluster error")

	// ErrSelection indicates an internal label/index inconsistency.
	ErrSelection = errors.New("selection error")
)

// DecodeError reports a payload that cannot be turned into a valid
// matrix/message pair.
type DecodeError struct {
	Err    error
	Reason string
}

func (e *DecodeError) Error() string {
	return formatError(ErrDecode, e.Reason, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// Is reports whether target is ErrDecode.
func (e *DecodeError) Is(target error) bool { return target == ErrDecode }

// ClusterError reports an empty matrix or an invalid clustering parameter.
type ClusterError struct {
	Err    error
	Reason string
}

func (e *ClusterError) Error() string {
	return formatError(ErrCluster, e.Reason, e.Err)
}

func (e *ClusterError) Unwrap() error { return e.Err }

// Is reports whether target is ErrCluster.
func (e *ClusterError) Is(target error) bool { return target == ErrCluster }

// SelectionError reports a broken invariant between labels, embeddings
// and messages. It indicates a bug upstream, not bad user input.
type SelectionError struct {
	Err    error
	Reason string
}

func (e *SelectionError) Error() string {
	return formatError(ErrSelection, e.Reason, e.Err)
}

func (e *SelectionError) Unwrap() error { return e.Err }

// Is reports whether target is ErrSelection.
func (e *SelectionError) Is(target error) bool { return target == ErrSelection }

func formatError(kind error, reason string, wrapped error) string {
	msg := kind.Error()
	if reason != "" {
		msg += ": " + reason
	}
	if wrapped != nil {
		msg += ": " + wrapped.Error()
	}
	return msg
}
