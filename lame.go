package lame

import (
	"fmt"
	"math"
	"runtime"

	"github.com/sirupsen/logrus"

	"github.com/opd-ai/lame/backend"
)

// Encoder is a stateful MP3 encoder context.
//
// An Encoder exclusively owns one engine handle. All parameter truth
// lives in the engine; the wrapper keeps no shadow copies. Configure the
// scalar parameters with the setters, commit them with InitParams, then
// feed PCM through Encode or EncodeInterleaved in the order the audio
// should appear in the stream. The engine buffers samples across calls at
// frame granularity, so zero-byte results are normal.
//
// An Encoder is not safe for concurrent use; the underlying engine is
// not reentrant and the wrapper adds no locking. Independent streams get
// independent Encoders, which may then run on separate goroutines with no
// coordination.
type Encoder struct {
	engine backend.Interface
	handle backend.Handle
	closed bool
}

// Config carries the scalar encoder parameters for options-style
// construction. Construct with DefaultConfig and override fields.
type Config struct {
	// SampleRate is the input PCM sample rate in Hz.
	SampleRate uint32
	// Channels is the input channel count (1 or 2).
	Channels uint8
	// Quality trades fidelity for speed: 0 is best and slowest, 9 is
	// worst and fastest.
	Quality uint8
	// Kilobitrate is the target output bitrate in kbps.
	Kilobitrate int32
}

// DefaultConfig returns the engine defaults: 44100 Hz stereo at quality 5
// and 128 kbps.
func DefaultConfig() Config {
	return Config{
		SampleRate:  44100,
		Channels:    2,
		Quality:     5,
		Kilobitrate: 128,
	}
}

// New creates an encoder context on the default engine with default
// parameters. Returns ErrAllocFailed when the engine cannot allocate its
// internal structures.
func New() (*Encoder, error) {
	return NewWithBackend(defaultEngine)
}

// NewWithBackend creates an encoder context on an explicit engine. This
// is the injection point for test doubles and alternative builds of the
// same ABI.
func NewWithBackend(b backend.Interface) (*Encoder, error) {
	h := b.Init()
	if h == 0 {
		logrus.WithFields(logrus.Fields{
			"function": "NewWithBackend",
		}).Error("Engine failed to allocate encoder context")
		return nil, ErrAllocFailed
	}

	e := &Encoder{engine: b, handle: h}
	// Backstop release for contexts that leak out of scope unclosed.
	// Explicit Close remains the supported path.
	runtime.SetFinalizer(e, (*Encoder).Close)

	logrus.WithFields(logrus.Fields{
		"function": "NewWithBackend",
		"handle":   h,
	}).Info("Created encoder context")

	return e, nil
}

// NewWithConfig creates an encoder context, applies every field of cfg,
// and commits the configuration. The returned encoder is ready to encode.
// On any failure the partially configured context is released before the
// error is returned.
func NewWithConfig(cfg Config) (*Encoder, error) {
	e, err := New()
	if err != nil {
		return nil, err
	}

	if err := e.applyConfig(cfg); err != nil {
		e.Close()
		return nil, err
	}
	return e, nil
}

func (e *Encoder) applyConfig(cfg Config) error {
	if err := e.SetSampleRate(cfg.SampleRate); err != nil {
		return err
	}
	if err := e.SetChannels(cfg.Channels); err != nil {
		return err
	}
	if err := e.SetQuality(cfg.Quality); err != nil {
		return err
	}
	if err := e.SetKilobitrate(cfg.Kilobitrate); err != nil {
		return err
	}
	return e.InitParams()
}

// ref returns the live handle. Using an encoder after Close is a
// contract violation by the caller and aborts immediately.
func (e *Encoder) ref() backend.Handle {
	if e.closed {
		panic("lame: use of closed encoder")
	}
	return e.handle
}

// SampleRate returns the configured input sample rate in Hz.
// Defaults to 44100 before any setter runs.
func (e *Encoder) SampleRate() uint32 {
	return uint32(e.engine.InSampleRate(e.ref()))
}

// SetSampleRate configures the input PCM sample rate. The engine is the
// authority on which rates are acceptable; rejections surface as an
// *Error. Call before InitParams.
func (e *Encoder) SetSampleRate(hz uint32) error {
	err := configResult(e.engine.SetInSampleRate(e.ref(), int32(hz)))
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function":    "Encoder.SetSampleRate",
			"sample_rate": hz,
			"error":       err.Error(),
		}).Error("Engine rejected sample rate")
	}
	return err
}

// Channels returns the configured input channel count. Defaults to 2
// before any setter runs.
func (e *Encoder) Channels() uint8 {
	return uint8(e.engine.NumChannels(e.ref()))
}

// SetChannels configures the input channel count. Call before
// InitParams.
func (e *Encoder) SetChannels(n uint8) error {
	err := configResult(e.engine.SetNumChannels(e.ref(), int32(n)))
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "Encoder.SetChannels",
			"channels": n,
			"error":    err.Error(),
		}).Error("Engine rejected channel count")
	}
	return err
}

// Quality returns the configured quality ordinal.
func (e *Encoder) Quality() uint8 {
	return uint8(e.engine.Quality(e.ref()))
}

// SetQuality configures the quality ordinal: a value from 0 to 9 where 0
// selects the best and slowest algorithms and 9 the worst and fastest.
// True fidelity is still governed by the bitrate. Out-of-range values are
// forwarded unclamped and rejected by the engine. Call before InitParams.
func (e *Encoder) SetQuality(q uint8) error {
	err := configResult(e.engine.SetQuality(e.ref(), int32(q)))
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "Encoder.SetQuality",
			"quality":  q,
			"error":    err.Error(),
		}).Error("Engine rejected quality")
	}
	return err
}

// Kilobitrate returns the configured target output bitrate in kbps.
func (e *Encoder) Kilobitrate() int32 {
	return e.engine.Brate(e.ref())
}

// SetKilobitrate configures the target output bitrate in kilobits per
// second; 320 selects a 320 kbps stream. Call before InitParams.
func (e *Encoder) SetKilobitrate(kbps int32) error {
	err := configResult(e.engine.SetBrate(e.ref(), kbps))
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function":    "Encoder.SetKilobitrate",
			"kilobitrate": kbps,
			"error":       err.Error(),
		}).Error("Engine rejected bitrate")
	}
	return err
}

// InitParams commits the configuration: the engine derives its internal
// state from the scalar parameters set so far. Must succeed before the
// first encode call. On failure the encoder stays alive and safe to
// close, but must not be used for encoding until a later InitParams
// succeeds; nothing is retried or corrected automatically.
func (e *Encoder) InitParams() error {
	err := configResult(e.engine.InitParams(e.ref()))
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "Encoder.InitParams",
			"error":    err.Error(),
		}).Error("Engine rejected configuration commit")
		return err
	}

	logrus.WithFields(logrus.Fields{
		"function":    "Encoder.InitParams",
		"handle":      e.handle,
		"sample_rate": e.SampleRate(),
		"channels":    e.Channels(),
		"quality":     e.Quality(),
		"kilobitrate": e.Kilobitrate(),
	}).Info("Committed encoder configuration")

	return nil
}

// Encode feeds one buffer of dual-channel PCM to the engine and writes
// any completed MP3 frames into out, returning the number of bytes
// written. Zero is a valid result: the engine buffers samples internally
// until a frame boundary. Calls are stateful and must be issued in
// stream order.
//
// left and right must have equal length; mismatched lengths panic, as do
// buffer lengths outside the engine's native int domain. Both are
// contract violations by the caller, not runtime conditions. Encoding
// before a successful InitParams fails with KindInitParamsNotCalled; the
// engine, not the wrapper, enforces that ordering.
func (e *Encoder) Encode(left, right []int16, out []byte) (int, error) {
	if len(left) != len(right) {
		panic("lame: left and right channels must have the same number of samples")
	}
	intSize(len(left))
	intSize(len(out))

	n, err := encodeResult(e.engine.EncodeBuffer(e.ref(), left, right, out))
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "Encoder.Encode",
			"samples":  len(left),
			"error":    err.Error(),
		}).Error("Encode failed")
		return 0, err
	}

	logrus.WithFields(logrus.Fields{
		"function":      "Encoder.Encode",
		"samples":       len(left),
		"bytes_written": n,
	}).Debug("Encoded PCM buffer")

	return n, nil
}

// EncodeInterleaved is Encode for stereo PCM with left and right samples
// alternating in a single buffer. len(pcm) must be even; an odd length
// panics. Only meaningful for two-channel configurations.
func (e *Encoder) EncodeInterleaved(pcm []int16, out []byte) (int, error) {
	if len(pcm)%2 != 0 {
		panic("lame: interleaved stereo buffer must hold an even number of samples")
	}
	intSize(len(pcm))
	intSize(len(out))

	n, err := encodeResult(e.engine.EncodeBufferInterleaved(e.ref(), pcm, out))
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "Encoder.EncodeInterleaved",
			"samples":  len(pcm) / 2,
			"error":    err.Error(),
		}).Error("Encode failed")
		return 0, err
	}

	logrus.WithFields(logrus.Fields{
		"function":      "Encoder.EncodeInterleaved",
		"samples":       len(pcm) / 2,
		"bytes_written": n,
	}).Debug("Encoded interleaved PCM buffer")

	return n, nil
}

// Flush pads the engine's buffered remainder with silence and writes the
// final MP3 frames into out, returning the number of bytes written. Call
// once at end of stream, after the last Encode.
func (e *Encoder) Flush(out []byte) (int, error) {
	intSize(len(out))

	n, err := encodeResult(e.engine.EncodeFlush(e.ref(), out))
	if err != nil {
		logrus.WithFields(logrus.Fields{
			"function": "Encoder.Flush",
			"error":    err.Error(),
		}).Error("Flush failed")
		return 0, err
	}

	logrus.WithFields(logrus.Fields{
		"function":      "Encoder.Flush",
		"bytes_written": n,
	}).Debug("Flushed encoder")

	return n, nil
}

// Close releases the engine context. Safe to call multiple times; the
// release runs exactly once. After Close, every other operation on this
// encoder panics — the handle is gone and must never be dereferenced
// again. A finalizer covers contexts that are never closed explicitly.
func (e *Encoder) Close() {
	if e.closed {
		return
	}
	e.closed = true
	runtime.SetFinalizer(e, nil)

	e.engine.Close(e.handle)
	e.handle = 0

	logrus.WithFields(logrus.Fields{
		"function": "Encoder.Close",
	}).Info("Released encoder context")
}

// intSize aborts when a buffer length cannot be represented in the
// engine's native signed int domain. A single buffer that large is a
// caller bug, not a recoverable condition.
func intSize(n int) {
	if n > math.MaxInt32 {
		panic(fmt.Sprintf("lame: buffer length %d overflows the engine's int domain", n))
	}
}
