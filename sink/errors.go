// SPDX-License-Identifier: EPL-2.0

package sink

import "errors"

var (
	ErrFormatMismatch = errors.New("sink: node format does not match the mixer")
	ErrClosed         = errors.New("sink: mixer closed")
	ErrTooManyVoices  = errors.New("sink: voice limit reached")
	ErrDeviceTimeout  = errors.New("sink: audio device did not become ready")
)
