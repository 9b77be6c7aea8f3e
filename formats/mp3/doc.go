// SPDX-License-Identifier: EPL-2.0

// Package mp3 decodes MP3 clips with github.com/hajimehoshi/go-mp3.
//
// go-mp3 always emits 16-bit stereo, so mono sources come back with both
// channels equal; the clip library folds them to the output layout.
package mp3
