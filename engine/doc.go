// SPDX-License-Identifier: EPL-2.0

// Package engine is the voice registry and playback loop.
//
// A voice is one clip looping under a caller supplied key. Registration
// opens the clip, attaches a node to the output graph and queues the clip
// twice (WithQueueAhead changes the depth). Every time the graph reports a
// pass finished, the registry queues one more, so the node never runs dry:
//
//	reg := engine.New(library, mixer)
//	defer reg.Close()
//
//	if err := reg.RegisterAndPlay(ctx, "orb0", "rain.wav"); err != nil {
//	    return err
//	}
//	reg.UpdateSpatial("orb0", geom.V(1, 0, 2), 0.6)
//	reg.StopAndRemove("orb0")
//
// # Ordering
//
// Completion callbacks arrive on the render goroutine. They are only
// appended to a queue there; a dispatcher goroutine takes each one, locks
// the voice's key and reschedules only if the voice is still the live voice
// for that key and still looping. Register, update and remove take the same
// lock, so a completion is handled entirely before or entirely after any of
// them, and a removed voice can never be rescheduled.
//
// UpdateSpatial and StopAndRemove never fail. Unknown keys are ignored
// because a caller's view of which sounds exist can trail the registry's.
package engine
