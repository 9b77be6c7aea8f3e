// SPDX-License-Identifier: EPL-2.0

package sink

import (
	"github.com/ik5/orbscape/clip"
	"github.com/ik5/orbscape/geom"
)

// Reason tells a completion callback how its segment ended.
type Reason int

const (
	// ReasonFinished means the segment played to its last frame.
	ReasonFinished Reason = iota
	// ReasonFlushed means the segment was dropped by Stop or Detach.
	ReasonFlushed
	// ReasonFailed means the segment could not be played.
	ReasonFailed
)

func (r Reason) String() string {
	switch r {
	case ReasonFinished:
		return "finished"
	case ReasonFlushed:
		return "flushed"
	case ReasonFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Node is one voice in an output graph.
//
// Schedule queues c after anything already queued. done is called exactly
// once for every scheduled segment, possibly from the render goroutine, and
// must not block.
type Node interface {
	Schedule(c *clip.Clip, done func(Reason))
	Play()
	// Stop silences the node and flushes its queue.
	Stop()
	SetGain(gain float32)
	SetPosition(p geom.Vec3)
}

// Graph is a multi-voice mixing graph.
type Graph interface {
	Attach(id string, f clip.Format) (Node, error)
	// Detach removes n and flushes whatever it still had queued.
	Detach(n Node)
}
