// SPDX-License-Identifier: EPL-2.0

// Package orbscape is a spatial soundscape engine: looping sound sources
// ("orbs") placed around a fixed listener, each attenuated by its distance.
//
// A Session wires the pieces together:
//
//   - clip.Library decodes WAV, AIFF, MP3 and Ogg Vorbis clips from an fs.FS
//   - sink.Mixer mixes every voice, sink.Output plays it through oto
//   - engine.Registry keeps one looping voice per key
//   - spatial.Mapper turns world positions into gain and pan
//
// # Quick Start
//
//	cfg := config.Default()
//	s, err := orbscape.NewSession(cfg)
//	if err != nil {
//	    return err
//	}
//	defer s.Close()
//
//	if err := s.Start(ctx); err != nil { // opens the audio device
//	    return err
//	}
//	if err := s.RegisterAndPlay(ctx, "orb0", "rain.mp3"); err != nil {
//	    return err
//	}
//	s.UpdateSpatial("orb0", geom.V(2, 0, -1)) // call once per frame while it moves
//	s.StopAndRemove("orb0")
//
// # Offline Rendering
//
// A session that was never started can render its mix without a device,
// which is how tests and the render command work:
//
//	pcm, err := s.Render(10*time.Second, nil)
//	err = s.RenderWAV(file, 10*time.Second, nil)
//
// The optional callback runs before each 10 ms block, so a caller can move
// sources while rendering.
package orbscape
