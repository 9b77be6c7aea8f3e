// SPDX-License-Identifier: EPL-2.0

package orbscape

import "errors"

var (
	ErrSessionClosed = errors.New("orbscape: session closed")
	ErrStarted       = errors.New("orbscape: session already started")
	// ErrDeviceActive is returned by Render while the audio device is
	// consuming the mix.
	ErrDeviceActive = errors.New("orbscape: audio device owns the mix")
)
