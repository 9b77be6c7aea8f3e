// SPDX-License-Identifier: EPL-2.0

package wav

import "errors"

var (
	ErrNotWavFile           = errors.New("not a WAV file")
	ErrUnsupportedWavLayout = errors.New("unsupported WAV layout")
	ErrOnlyIntegerPCM       = errors.New("only integer PCM WAV is supported")
	ErrUnsupportedBitDepth  = errors.New("unsupported WAV bit depth")
	ErrNoDataChunk          = errors.New("WAV data chunk not found")
	ErrInvalidChannels      = errors.New("channel count must be positive")
	ErrMisalignedSamples    = errors.New("sample count must be multiple of channels")
	ErrTooLarge             = errors.New("audio too long for a WAV file")
)
