package backend

// Handle is an opaque reference to engine-owned mutable encoder state.
// The zero Handle is the null handle and never refers to a live context.
type Handle uintptr

// Status codes returned by the configuration and lifecycle entry points
// (setters and InitParams). Zero means success; the negative values below
// are the documented failure codes. Any other value is an undocumented
// engine code and must still be handled by callers.
const (
	StatusOK            int32 = 0
	StatusGenericError  int32 = -1
	StatusNoMem         int32 = -10
	StatusBadBitRate    int32 = -11
	StatusBadSampleFreq int32 = -12
	StatusInternalError int32 = -13
)

// Result codes returned by the encode entry points. These use a separate
// convention from the lifecycle family: any non-negative value is the
// number of bytes written into the output buffer, and the small negative
// ordinals below are the documented failures. The overlap with the
// lifecycle codes is numeric only; -1 means something different here.
const (
	EncodeBufferTooSmall      int32 = -1
	EncodeNoMem               int32 = -2
	EncodeInitParamsNotCalled int32 = -3
	EncodePsychoAcoustic      int32 = -4
)

// Interface is the fixed entry-point table of the encoder engine.
//
// Every method that takes a Handle requires a live handle obtained from
// Init; behavior on a closed or null handle is undefined at this layer.
// The engine is not reentrant: calls on one handle must be serialized by
// the caller. Independent handles share nothing and need no coordination.
type Interface interface {
	// Init allocates a new encoder context with default parameters.
	// Returns the null handle when the engine cannot allocate.
	Init() Handle

	// InSampleRate reports the configured input sample rate in Hz.
	InSampleRate(h Handle) int32
	// SetInSampleRate configures the input sample rate and returns a
	// lifecycle status code.
	SetInSampleRate(h Handle, hz int32) int32

	// NumChannels reports the configured input channel count.
	NumChannels(h Handle) int32
	// SetNumChannels configures the input channel count and returns a
	// lifecycle status code.
	SetNumChannels(h Handle, n int32) int32

	// Quality reports the configured quality ordinal (0 best, 9 fastest).
	Quality(h Handle) int32
	// SetQuality configures the quality ordinal and returns a lifecycle
	// status code. Values are forwarded unclamped.
	SetQuality(h Handle, q int32) int32

	// Brate reports the configured output bitrate in kbps.
	Brate(h Handle) int32
	// SetBrate configures the output bitrate in kbps and returns a
	// lifecycle status code.
	SetBrate(h Handle, kbps int32) int32

	// InitParams finalizes derived internal state from the scalar
	// parameters. Must succeed before any encode entry point is used.
	InitParams(h Handle) int32

	// EncodeBuffer encodes dual-channel PCM samples. left and right must
	// have equal length. Returns the encode-family result code: bytes
	// written into out, or a negative error ordinal.
	EncodeBuffer(h Handle, left, right []int16, out []byte) int32

	// EncodeBufferInterleaved encodes stereo PCM with left/right samples
	// alternating in a single buffer. len(pcm) must be even. Result code
	// convention matches EncodeBuffer.
	EncodeBufferInterleaved(h Handle, pcm []int16, out []byte) int32

	// EncodeFlush pads and emits any internally buffered samples as final
	// frames. Result code convention matches EncodeBuffer.
	EncodeFlush(h Handle, out []byte) int32

	// Close releases the context. Infallible by convention; the engine
	// reports nothing. The handle is dead afterwards.
	Close(h Handle)
}
