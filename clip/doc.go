// SPDX-License-Identifier: EPL-2.0

// Package clip is the clip source: it turns a clip id into decoded PCM in
// the output format.
//
// A Library reads from any fs.FS and picks a decoder by file extension:
//
//	lib, _ := clip.NewLibrary(os.DirFS("assets"), clip.Format{SampleRate: 48000, Channels: 2})
//	h, err := lib.Open(ctx, "rain.mp3")
//	if errors.Is(err, clip.ErrNotFound) {
//	    // ...
//	}
//	defer h.Release()
//
// Decoded clips are immutable and cached, so opening the same id twice
// decodes once. Each Open still returns its own Handle; Release reports
// whether that call was the one that released it. Library.Live counts
// handles not yet released.
//
// Watch keeps the cache honest while assets are edited on disk.
package clip
