package lame

import (
	"errors"
	"fmt"

	"github.com/opd-ai/lame/backend"
)

// ErrAllocFailed indicates the engine could not allocate a new encoder
// context. The engine signals this with a null handle rather than a
// status code, so it is a sentinel error rather than an Error variant.
var ErrAllocFailed = errors.New("lame: engine could not allocate encoder context")

// ErrorKind classifies a configuration or lifecycle failure. The set is
// closed except for KindUnknown, which absorbs undocumented engine codes
// for forward compatibility.
type ErrorKind int

const (
	// KindGenericError is the engine's catch-all rejection (code -1).
	KindGenericError ErrorKind = iota
	// KindNoMem indicates the engine ran out of memory (code -10).
	KindNoMem
	// KindBadBitRate indicates a rejected bitrate setting (code -11).
	KindBadBitRate
	// KindBadSampleFreq indicates a rejected sample rate setting (code -12).
	KindBadSampleFreq
	// KindInternalError indicates an engine-internal failure (code -13).
	KindInternalError
	// KindUnknown covers any other non-zero code.
	KindUnknown
)

// String returns the human-readable failure class.
func (k ErrorKind) String() string {
	switch k {
	case KindGenericError:
		return "generic error"
	case KindNoMem:
		return "no memory"
	case KindBadBitRate:
		return "bad bitrate"
	case KindBadSampleFreq:
		return "bad sample frequency"
	case KindInternalError:
		return "internal error"
	default:
		return "unknown error"
	}
}

// Error is a configuration or lifecycle failure reported by the engine.
// Kind is the classified failure and Code the raw engine status code, so
// undocumented codes stay observable through KindUnknown.
type Error struct {
	Kind ErrorKind
	Code int32
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Kind == KindUnknown {
		return fmt.Sprintf("lame: unknown error (code %d)", e.Code)
	}
	return "lame: " + e.Kind.String()
}

// configResult translates a lifecycle status code into a typed result.
// The mapping is total: 0 is success, every other value yields exactly
// one Error.
func configResult(code int32) error {
	if code == backend.StatusOK {
		return nil
	}

	var kind ErrorKind
	switch code {
	case backend.StatusGenericError:
		kind = KindGenericError
	case backend.StatusNoMem:
		kind = KindNoMem
	case backend.StatusBadBitRate:
		kind = KindBadBitRate
	case backend.StatusBadSampleFreq:
		kind = KindBadSampleFreq
	case backend.StatusInternalError:
		kind = KindInternalError
	default:
		kind = KindUnknown
	}
	return &Error{Kind: kind, Code: code}
}

// EncodeErrorKind classifies an encode failure. The encode entry points
// use their own negative-ordinal convention, disjoint from the lifecycle
// family even where the numeric values collide, so the two taxonomies are
// deliberately separate types.
type EncodeErrorKind int

const (
	// KindOutputBufferTooSmall indicates the output buffer cannot hold
	// the frames due (code -1).
	KindOutputBufferTooSmall EncodeErrorKind = iota
	// KindEncodeNoMem indicates the engine ran out of memory (code -2).
	KindEncodeNoMem
	// KindInitParamsNotCalled indicates encoding was attempted before a
	// successful InitParams (code -3).
	KindInitParamsNotCalled
	// KindPsychoAcousticError indicates a failure inside the
	// psychoacoustic model (code -4).
	KindPsychoAcousticError
	// KindEncodeUnknown covers any other negative code.
	KindEncodeUnknown
)

// String returns the human-readable failure class.
func (k EncodeErrorKind) String() string {
	switch k {
	case KindOutputBufferTooSmall:
		return "output buffer too small"
	case KindEncodeNoMem:
		return "no memory"
	case KindInitParamsNotCalled:
		return "init params not called"
	case KindPsychoAcousticError:
		return "psychoacoustic error"
	default:
		return "unknown error"
	}
}

// EncodeError is an encode failure reported by the engine.
type EncodeError struct {
	Kind EncodeErrorKind
	Code int32
}

// Error implements the error interface.
func (e *EncodeError) Error() string {
	if e.Kind == KindEncodeUnknown {
		return fmt.Sprintf("lame: encode: unknown error (code %d)", e.Code)
	}
	return "lame: encode: " + e.Kind.String()
}

// encodeResult translates an encode result code. Non-negative codes are
// byte counts and never errors; negative codes yield exactly one
// EncodeError.
func encodeResult(code int32) (int, error) {
	if code >= 0 {
		return int(code), nil
	}

	var kind EncodeErrorKind
	switch code {
	case backend.EncodeBufferTooSmall:
		kind = KindOutputBufferTooSmall
	case backend.EncodeNoMem:
		kind = KindEncodeNoMem
	case backend.EncodeInitParamsNotCalled:
		kind = KindInitParamsNotCalled
	case backend.EncodePsychoAcoustic:
		kind = KindPsychoAcousticError
	default:
		kind = KindEncodeUnknown
	}
	return 0, &EncodeError{Kind: kind, Code: code}
}
