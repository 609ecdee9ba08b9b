//go:build liblame

package lame

import (
	"github.com/opd-ai/lame/backend"
	"github.com/opd-ai/lame/backend/native"
)

// defaultEngine is the real libmp3lame library, bound through cgo.
var defaultEngine backend.Interface = native.New()
