// SPDX-License-Identifier: EPL-2.0

package engine

import "errors"

var (
	ErrClipNotFound      = errors.New("engine: clip not found")
	ErrClipDecodeFailed  = errors.New("engine: clip decode failed")
	ErrGraphAttachFailed = errors.New("engine: output graph rejected the voice")
	ErrAlreadyRegistered = errors.New("engine: key already registered")
	// ErrCancelled is returned when the key was removed, or the context
	// cancelled, while the clip was still loading.
	ErrCancelled = errors.New("engine: registration cancelled")
	ErrClosed    = errors.New("engine: registry closed")
)
