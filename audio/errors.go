// SPDX-License-Identifier: EPL-2.0

package audio

import "errors"

var (
	ErrInvalidDstSize = errors.New("sample count must be multiple of channels")
	ErrInvalidFormat  = errors.New("sample rate and channel count must be positive")
	ErrNoProgress     = errors.New("stream stopped producing samples without EOF")
)
