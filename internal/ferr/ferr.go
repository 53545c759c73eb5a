// Package ferr defines the single error-Kind enum spanning every
// failure category spec §7 names, so callers across subsystems
// (buffer edits, config I/O, LSP, plugins, the remote-agent protocol)
// can classify an error without depending on each other's sentinel
// error variables.
//
// Grounded on internal/engine/buffer's sentinel errors
// (ErrOffsetOutOfRange, ErrRangeInvalid, ErrEditsOverlap) and
// internal/lsp/errors.go's sentinel-plus-wrapped-error style, unified
// here into one Kind tag rather than one sentinel per subsystem, since
// spec §7 treats the kinds as a single flat list callers switch on.
package ferr

import (
	"errors"
	"fmt"
)

// Kind is one of spec §7's error categories.
type Kind int

const (
	OutOfRange Kind = iota
	OverlappingEdits
	Io
	DecodeError
	SchemaMigrationFailure
	LspTransport
	LspProtocol
	PluginFault
	RemoteTransport
	RemoteProtocol
	Cancelled
	Timeout
	PermissionDenied
	NotFound
	ReadOnlyLayer
)

func (k Kind) String() string {
	switch k {
	case OutOfRange:
		return "out_of_range"
	case OverlappingEdits:
		return "overlapping_edits"
	case Io:
		return "io"
	case DecodeError:
		return "decode_error"
	case SchemaMigrationFailure:
		return "schema_migration_failure"
	case LspTransport:
		return "lsp_transport"
	case LspProtocol:
		return "lsp_protocol"
	case PluginFault:
		return "plugin_fault"
	case RemoteTransport:
		return "remote_transport"
	case RemoteProtocol:
		return "remote_protocol"
	case Cancelled:
		return "cancelled"
	case Timeout:
		return "timeout"
	case PermissionDenied:
		return "permission_denied"
	case NotFound:
		return "not_found"
	case ReadOnlyLayer:
		return "read_only_layer"
	default:
		return "unknown"
	}
}

// Error is a Kind-tagged error wrapping an underlying cause, the way
// the teacher's ServerError/RPCError wrap a lifecycle error with
// %w — except unified under one Kind field instead of one struct
// type per subsystem.
type Error struct {
	Kind Kind
	Op   string // the operation that failed, e.g. "ApplyBulkEdits"
	Err  error
}

func (e *Error) Error() string {
	if e.Op != "" {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// New wraps err with kind and op in an *Error whose Unwrap returns err,
// matching the teacher's convention of wrapping rather than discarding
// the cause.
func New(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// Is reports whether err is (or wraps) an *Error of kind.
func Is(err error, kind Kind) bool {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind == kind
	}
	return false
}
