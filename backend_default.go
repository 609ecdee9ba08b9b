//go:build !liblame

package lame

import (
	"github.com/opd-ai/lame/backend"
	"github.com/opd-ai/lame/backend/sim"
)

// defaultEngine is the pure Go simulated engine. Build with the liblame
// tag to encode through the real libmp3lame library instead.
var defaultEngine backend.Interface = sim.New()
