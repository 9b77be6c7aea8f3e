// SPDX-License-Identifier: EPL-2.0

package clip

import "sync/atomic"

// Handle is one owner's claim on a Clip. Every Library.Open returns a new
// Handle, so two voices never share one.
type Handle struct {
	clip     *Clip
	released atomic.Bool
	release  func()
}

// NewHandle wraps c. release, if not nil, runs on the first Release only.
func NewHandle(c *Clip, release func()) *Handle {
	return &Handle{clip: c, release: release}
}

func (h *Handle) Clip() *Clip { return h.clip }

// Release gives the clip back. It returns false if the handle was already
// released.
func (h *Handle) Release() bool {
	if !h.released.CompareAndSwap(false, true) {
		return false
	}
	if h.release != nil {
		h.release()
	}
	return true
}

func (h *Handle) Released() bool { return h.released.Load() }
