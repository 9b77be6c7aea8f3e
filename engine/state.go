// SPDX-License-Identifier: EPL-2.0

package engine

// State is a voice's playback state. It only moves forward:
// Starting, Looping, Stopping, Stopped. A voice removed while Starting skips
// Looping.
type State int

const (
	StateStarting State = iota
	StateLooping
	StateStopping
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateStarting:
		return "starting"
	case StateLooping:
		return "looping"
	case StateStopping:
		return "stopping"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}
