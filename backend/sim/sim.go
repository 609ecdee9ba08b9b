// Package sim provides a deterministic, pure Go simulation of the LAME
// encoder engine ABI.
//
// The simulation reproduces the engine's observable contract — default
// parameter values, the two status code conventions, commit-time
// validation, and frame-granular output buffering — without performing any
// psychoacoustic compression. Emitted frames carry a valid MPEG sync
// header followed by zero padding, sized by the standard
// 144 * bitrate / samplerate frame formula.
//
// It serves two roles: the test double for the rest of the module, and the
// default engine for builds without the liblame tag, so the module is
// usable and fully testable without cgo or an installed libmp3lame.
package sim

import (
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/opd-ai/lame/backend"
)

// samplesPerFrame is the MPEG-1 Layer III frame granule: the engine emits
// output only once this many samples per channel have accumulated.
const samplesPerFrame = 1152

// supportedRates are the MPEG sample rates accepted at commit time.
var supportedRates = []int32{
	8000, 11025, 12000, 16000, 22050, 24000,
	32000, 44100, 48000,
}

// state is the engine-internal mutable state behind one handle.
type state struct {
	sampleRate int32
	channels   int32
	quality    int32
	brate      int32

	committed  bool
	frameBytes int
	// pending counts samples per channel buffered since the last frame
	// boundary. Carried across encode calls.
	pending int
}

// Backend is a registry of simulated encoder contexts implementing
// backend.Interface. The zero value is not usable; construct with New.
//
// The registry itself is safe for concurrent use, matching a shared
// native library whose contexts are created and destroyed from anywhere.
// Individual handles follow the engine contract and are not reentrant.
type Backend struct {
	mu     sync.Mutex
	next   backend.Handle
	states map[backend.Handle]*state
}

// New creates an empty simulated engine.
func New() *Backend {
	return &Backend{states: make(map[backend.Handle]*state)}
}

// Init allocates a context with the engine defaults: 44100 Hz input,
// 2 channels, quality 5, 128 kbps. Getters observe these defaults before
// any setter runs; the simulation never reports uninitialized garbage.
func (b *Backend) Init() backend.Handle {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.next++
	h := b.next
	b.states[h] = &state{
		sampleRate: 44100,
		channels:   2,
		quality:    5,
		brate:      128,
	}

	logrus.WithFields(logrus.Fields{
		"function": "Backend.Init",
		"handle":   h,
	}).Debug("Allocated simulated encoder context")

	return h
}

// lookup resolves a handle to its state. Unknown handles resolve to nil;
// the wrapper layer guarantees live handles, so this only trips when the
// simulation is driven directly and incorrectly.
func (b *Backend) lookup(h backend.Handle) *state {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.states[h]
}

// InSampleRate reports the configured input sample rate in Hz.
func (b *Backend) InSampleRate(h backend.Handle) int32 {
	st := b.lookup(h)
	if st == nil {
		return 0
	}
	return st.sampleRate
}

// SetInSampleRate stores the input sample rate. Non-positive rates are
// rejected immediately; support for the specific rate is checked at
// InitParams, matching the engine's commit-time validation.
func (b *Backend) SetInSampleRate(h backend.Handle, hz int32) int32 {
	st := b.lookup(h)
	if st == nil {
		return backend.StatusInternalError
	}
	if hz <= 0 {
		return backend.StatusBadSampleFreq
	}
	st.sampleRate = hz
	st.committed = false
	return backend.StatusOK
}

// NumChannels reports the configured input channel count.
func (b *Backend) NumChannels(h backend.Handle) int32 {
	st := b.lookup(h)
	if st == nil {
		return 0
	}
	return st.channels
}

// SetNumChannels stores the input channel count. Only mono and stereo
// exist in this ABI; anything else is rejected with the generic code,
// which is the validation the engine happens to perform first.
func (b *Backend) SetNumChannels(h backend.Handle, n int32) int32 {
	st := b.lookup(h)
	if st == nil {
		return backend.StatusInternalError
	}
	if n < 1 || n > 2 {
		return backend.StatusGenericError
	}
	st.channels = n
	st.committed = false
	return backend.StatusOK
}

// Quality reports the configured quality ordinal.
func (b *Backend) Quality(h backend.Handle) int32 {
	st := b.lookup(h)
	if st == nil {
		return 0
	}
	return st.quality
}

// SetQuality stores the quality ordinal. The valid domain is 0 through 9;
// out-of-range values are rejected, never clamped.
func (b *Backend) SetQuality(h backend.Handle, q int32) int32 {
	st := b.lookup(h)
	if st == nil {
		return backend.StatusInternalError
	}
	if q < 0 || q > 9 {
		return backend.StatusGenericError
	}
	st.quality = q
	st.committed = false
	return backend.StatusOK
}

// Brate reports the configured output bitrate in kbps.
func (b *Backend) Brate(h backend.Handle) int32 {
	st := b.lookup(h)
	if st == nil {
		return 0
	}
	return st.brate
}

// SetBrate stores the output bitrate in kbps. The MPEG bitrate domain is
// 8 through 320 kbps.
func (b *Backend) SetBrate(h backend.Handle, kbps int32) int32 {
	st := b.lookup(h)
	if st == nil {
		return backend.StatusInternalError
	}
	if kbps < 8 || kbps > 320 {
		return backend.StatusBadBitRate
	}
	st.brate = kbps
	st.committed = false
	return backend.StatusOK
}

// InitParams validates the scalar parameter set and derives the frame
// byte size. Encoding is refused until this succeeds.
func (b *Backend) InitParams(h backend.Handle) int32 {
	st := b.lookup(h)
	if st == nil {
		return backend.StatusInternalError
	}

	rateOK := false
	for _, r := range supportedRates {
		if st.sampleRate == r {
			rateOK = true
			break
		}
	}
	if !rateOK {
		return backend.StatusBadSampleFreq
	}
	if st.channels < 1 || st.channels > 2 {
		return backend.StatusGenericError
	}
	if st.brate < 8 || st.brate > 320 {
		return backend.StatusBadBitRate
	}

	st.frameBytes = int(144 * st.brate * 1000 / st.sampleRate)
	st.committed = true
	st.pending = 0

	logrus.WithFields(logrus.Fields{
		"function":    "Backend.InitParams",
		"handle":      h,
		"sample_rate": st.sampleRate,
		"channels":    st.channels,
		"quality":     st.quality,
		"brate":       st.brate,
		"frame_bytes": st.frameBytes,
	}).Debug("Committed simulated encoder configuration")

	return backend.StatusOK
}

// EncodeBuffer encodes dual-channel PCM. Only the per-channel sample
// count matters to the simulation; sample values are discarded.
func (b *Backend) EncodeBuffer(h backend.Handle, left, right []int16, out []byte) int32 {
	return b.encode(h, len(left), out)
}

// EncodeBufferInterleaved encodes interleaved stereo PCM.
func (b *Backend) EncodeBufferInterleaved(h backend.Handle, pcm []int16, out []byte) int32 {
	return b.encode(h, len(pcm)/2, out)
}

// encode advances the frame accumulator by n samples per channel and
// emits one pseudo-frame per completed frame boundary. Input is not
// consumed when the output buffer cannot hold the frames due.
func (b *Backend) encode(h backend.Handle, n int, out []byte) int32 {
	st := b.lookup(h)
	if st == nil {
		return backend.EncodeNoMem
	}
	if !st.committed {
		return backend.EncodeInitParamsNotCalled
	}

	total := st.pending + n
	frames := total / samplesPerFrame
	if frames == 0 {
		st.pending = total
		return 0
	}

	need := frames * st.frameBytes
	if len(out) < need {
		return backend.EncodeBufferTooSmall
	}

	for i := 0; i < frames; i++ {
		writeFrame(out[i*st.frameBytes:], st.frameBytes)
	}
	st.pending = total % samplesPerFrame

	logrus.WithFields(logrus.Fields{
		"function":      "Backend.encode",
		"handle":        h,
		"samples":       n,
		"frames":        frames,
		"bytes_written": need,
		"pending":       st.pending,
	}).Debug("Encoded simulated frames")

	return int32(need)
}

// EncodeFlush pads any buffered remainder to a final frame and resets the
// accumulator. Returns 0 when nothing is buffered.
func (b *Backend) EncodeFlush(h backend.Handle, out []byte) int32 {
	st := b.lookup(h)
	if st == nil {
		return backend.EncodeNoMem
	}
	if !st.committed {
		return backend.EncodeInitParamsNotCalled
	}
	if st.pending == 0 {
		return 0
	}
	if len(out) < st.frameBytes {
		return backend.EncodeBufferTooSmall
	}

	writeFrame(out, st.frameBytes)
	st.pending = 0
	return int32(st.frameBytes)
}

// Close releases the context. Closing an already-dead handle is a no-op,
// matching the infallible close contract.
func (b *Backend) Close(h backend.Handle) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if _, ok := b.states[h]; !ok {
		return
	}
	delete(b.states, h)

	logrus.WithFields(logrus.Fields{
		"function": "Backend.Close",
		"handle":   h,
	}).Debug("Released simulated encoder context")
}

// writeFrame emits one pseudo-frame: an MPEG-1 Layer III sync header with
// zeroed side info and payload.
func writeFrame(out []byte, size int) {
	out[0] = 0xFF
	out[1] = 0xFB
	out[2] = 0x90
	out[3] = 0x00
	for i := 4; i < size; i++ {
		out[i] = 0
	}
}
