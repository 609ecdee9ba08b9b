package lame

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/opd-ai/lame/backend"
	"github.com/opd-ai/lame/backend/sim"
)

// exhaustedEngine refuses every allocation, standing in for an engine
// that cannot allocate its internal structures.
type exhaustedEngine struct {
	backend.Interface
}

func (exhaustedEngine) Init() backend.Handle { return 0 }

// frameBytes128at44100 is the simulated engine's frame size for the
// default 128 kbps / 44100 Hz configuration: 144 * 128000 / 44100.
const frameBytes128at44100 = 417

func newTestEncoder(t *testing.T) *Encoder {
	t.Helper()
	enc, err := NewWithBackend(sim.New())
	require.NoError(t, err)
	t.Cleanup(enc.Close)
	return enc
}

func TestNewReportsDefaults(t *testing.T) {
	enc := newTestEncoder(t)

	assert.Equal(t, uint32(44100), enc.SampleRate())
	assert.Equal(t, uint8(2), enc.Channels())
	assert.Equal(t, uint8(5), enc.Quality())
	assert.Equal(t, int32(128), enc.Kilobitrate())
}

func TestSetterGetterRoundTrip(t *testing.T) {
	enc := newTestEncoder(t)

	require.NoError(t, enc.SetSampleRate(48000))
	require.NoError(t, enc.SetChannels(1))
	require.NoError(t, enc.SetQuality(2))
	require.NoError(t, enc.SetKilobitrate(192))

	// The simulated engine echoes accepted values exactly.
	assert.Equal(t, uint32(48000), enc.SampleRate())
	assert.Equal(t, uint8(1), enc.Channels())
	assert.Equal(t, uint8(2), enc.Quality())
	assert.Equal(t, int32(192), enc.Kilobitrate())
}

func TestSetterRejections(t *testing.T) {
	tests := []struct {
		name string
		set  func(*Encoder) error
		kind ErrorKind
	}{
		{"zero_sample_rate", func(e *Encoder) error { return e.SetSampleRate(0) }, KindBadSampleFreq},
		{"zero_channels", func(e *Encoder) error { return e.SetChannels(0) }, KindGenericError},
		{"too_many_channels", func(e *Encoder) error { return e.SetChannels(3) }, KindGenericError},
		{"quality_out_of_range", func(e *Encoder) error { return e.SetQuality(10) }, KindGenericError},
		{"zero_bitrate", func(e *Encoder) error { return e.SetKilobitrate(0) }, KindBadBitRate},
		{"negative_bitrate", func(e *Encoder) error { return e.SetKilobitrate(-128) }, KindBadBitRate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc := newTestEncoder(t)

			err := tt.set(enc)
			var lameErr *Error
			require.ErrorAs(t, err, &lameErr)
			assert.Equal(t, tt.kind, lameErr.Kind)
		})
	}
}

func TestRejectedSetterLeavesValueUnchanged(t *testing.T) {
	enc := newTestEncoder(t)

	require.Error(t, enc.SetKilobitrate(0))
	assert.Equal(t, int32(128), enc.Kilobitrate())
}

func TestInitParamsRejectsUnsupportedSampleRate(t *testing.T) {
	enc := newTestEncoder(t)

	// 44101 passes the setter but is not a legal MPEG rate, so the
	// commit-time validation rejects it.
	require.NoError(t, enc.SetSampleRate(44101))

	err := enc.InitParams()
	var lameErr *Error
	require.ErrorAs(t, err, &lameErr)
	assert.Equal(t, KindBadSampleFreq, lameErr.Kind)
}

func TestInitParamsRecoversAfterFailure(t *testing.T) {
	enc := newTestEncoder(t)

	require.NoError(t, enc.SetSampleRate(44101))
	require.Error(t, enc.InitParams())

	// The context stays alive; fixing the setting and re-committing
	// makes it usable.
	require.NoError(t, enc.SetSampleRate(44100))
	require.NoError(t, enc.InitParams())

	out := make([]byte, 4096)
	n, err := enc.Encode(make([]int16, 1152), make([]int16, 1152), out)
	require.NoError(t, err)
	assert.Equal(t, frameBytes128at44100, n)
}

func TestEncodeBeforeInitParams(t *testing.T) {
	enc := newTestEncoder(t)

	out := make([]byte, 4096)
	_, err := enc.Encode(make([]int16, 100), make([]int16, 100), out)

	var encErr *EncodeError
	require.ErrorAs(t, err, &encErr)
	assert.Equal(t, KindInitParamsNotCalled, encErr.Kind)
}

func TestEncodeScenario(t *testing.T) {
	// Create, configure 44100/2/q5/128, commit, encode one full frame of
	// silence, then trip the undersized-output path.
	enc := newTestEncoder(t)

	require.NoError(t, enc.SetSampleRate(44100))
	require.NoError(t, enc.SetChannels(2))
	require.NoError(t, enc.SetQuality(5))
	require.NoError(t, enc.SetKilobitrate(128))
	require.NoError(t, enc.InitParams())

	left := make([]int16, 1152)
	right := make([]int16, 1152)
	out := make([]byte, 8192)

	n, err := enc.Encode(left, right, out)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, n, 0)

	_, err = enc.Encode(left, right, []byte{})
	var encErr *EncodeError
	require.ErrorAs(t, err, &encErr)
	assert.Equal(t, KindOutputBufferTooSmall, encErr.Kind)
}

func TestEncodeBuffersShortInput(t *testing.T) {
	enc := newTestEncoder(t)
	require.NoError(t, enc.InitParams())

	out := make([]byte, 4096)

	// Less than one frame of samples stays buffered: a zero-byte result
	// is success, not failure.
	n, err := enc.Encode(make([]int16, 500), make([]int16, 500), out)
	require.NoError(t, err)
	assert.Zero(t, n)

	// The next call crosses the 1152-sample frame boundary.
	n, err = enc.Encode(make([]int16, 700), make([]int16, 700), out)
	require.NoError(t, err)
	assert.Equal(t, frameBytes128at44100, n)
}

func TestFlushEmitsBufferedRemainder(t *testing.T) {
	enc := newTestEncoder(t)
	require.NoError(t, enc.InitParams())

	out := make([]byte, 4096)

	n, err := enc.Encode(make([]int16, 100), make([]int16, 100), out)
	require.NoError(t, err)
	assert.Zero(t, n)

	n, err = enc.Flush(out)
	require.NoError(t, err)
	assert.Equal(t, frameBytes128at44100, n)

	// Nothing left after a flush.
	n, err = enc.Flush(out)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestEncodeInterleavedMatchesDualChannel(t *testing.T) {
	engine := sim.New()

	dual, err := NewWithBackend(engine)
	require.NoError(t, err)
	defer dual.Close()
	require.NoError(t, dual.InitParams())

	inter, err := NewWithBackend(engine)
	require.NoError(t, err)
	defer inter.Close()
	require.NoError(t, inter.InitParams())

	out1 := make([]byte, 4096)
	out2 := make([]byte, 4096)

	n1, err := dual.Encode(make([]int16, 1152), make([]int16, 1152), out1)
	require.NoError(t, err)
	n2, err := inter.EncodeInterleaved(make([]int16, 2304), out2)
	require.NoError(t, err)

	assert.Equal(t, n1, n2)
	assert.Equal(t, out1[:n1], out2[:n2])
}

func TestEncodeMismatchedChannelLengthsPanics(t *testing.T) {
	enc := newTestEncoder(t)
	require.NoError(t, enc.InitParams())

	out := make([]byte, 4096)
	assert.Panics(t, func() {
		enc.Encode(make([]int16, 100), make([]int16, 99), out)
	})
}

func TestEncodeInterleavedOddLengthPanics(t *testing.T) {
	enc := newTestEncoder(t)
	require.NoError(t, enc.InitParams())

	out := make([]byte, 4096)
	assert.Panics(t, func() {
		enc.EncodeInterleaved(make([]int16, 101), out)
	})
}

func TestIndependentContexts(t *testing.T) {
	engine := sim.New()

	first, err := NewWithBackend(engine)
	require.NoError(t, err)
	second, err := NewWithBackend(engine)
	require.NoError(t, err)
	defer second.Close()

	require.NoError(t, first.InitParams())
	require.NoError(t, second.InitParams())

	// Closing one context must not disturb the other.
	first.Close()

	out := make([]byte, 4096)
	n, err := second.Encode(make([]int16, 1152), make([]int16, 1152), out)
	require.NoError(t, err)
	assert.Equal(t, frameBytes128at44100, n)
}

func TestCloseIsIdempotent(t *testing.T) {
	enc, err := NewWithBackend(sim.New())
	require.NoError(t, err)

	enc.Close()
	assert.NotPanics(t, enc.Close)
}

func TestUseAfterClosePanics(t *testing.T) {
	enc, err := NewWithBackend(sim.New())
	require.NoError(t, err)
	enc.Close()

	assert.Panics(t, func() { enc.SampleRate() })
	assert.Panics(t, func() { enc.SetQuality(5) })
	assert.Panics(t, func() { enc.InitParams() })
	assert.Panics(t, func() {
		enc.Encode(make([]int16, 10), make([]int16, 10), make([]byte, 64))
	})
}

func TestNewWithConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.SampleRate = 32000
	cfg.Kilobitrate = 96

	// New and NewWithConfig run on the default engine.
	enc, err := NewWithConfig(cfg)
	require.NoError(t, err)
	defer enc.Close()

	assert.Equal(t, uint32(32000), enc.SampleRate())
	assert.Equal(t, int32(96), enc.Kilobitrate())

	// The configuration is already committed.
	out := make([]byte, 4096)
	n, err := enc.Encode(make([]int16, 1152), make([]int16, 1152), out)
	require.NoError(t, err)
	assert.Equal(t, 144*96*1000/32000, n)
}

func TestNewWithConfigRejectsBadConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Kilobitrate = 1000

	enc, err := NewWithConfig(cfg)
	require.Error(t, err)
	assert.Nil(t, enc)

	var lameErr *Error
	require.ErrorAs(t, err, &lameErr)
	assert.Equal(t, KindBadBitRate, lameErr.Kind)
}

func TestNewWithBackendAllocFailure(t *testing.T) {
	enc, err := NewWithBackend(exhaustedEngine{})
	assert.Nil(t, enc)
	assert.ErrorIs(t, err, ErrAllocFailed)
}

func TestNewUsesDefaultEngine(t *testing.T) {
	enc, err := New()
	require.NoError(t, err)
	defer enc.Close()

	assert.Equal(t, uint32(44100), enc.SampleRate())
}
