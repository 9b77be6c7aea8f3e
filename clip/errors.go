// SPDX-License-Identifier: EPL-2.0

package clip

import "errors"

var (
	// ErrNotFound is returned when a clip id does not resolve to a file.
	ErrNotFound = errors.New("clip: not found")
	// ErrDecode covers unsupported extensions, decoder failures and clips
	// that decode to zero frames.
	ErrDecode = errors.New("clip: decode failed")
	// ErrInvalidFormat is returned for a non-positive rate or channel count.
	ErrInvalidFormat = errors.New("clip: invalid format")
)
