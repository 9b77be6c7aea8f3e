// SPDX-License-Identifier: EPL-2.0

// Package formats wires every bundled decoder into one registry.
package formats

import (
	"github.com/ik5/orbscape/audio"
	"github.com/ik5/orbscape/formats/aiff"
	"github.com/ik5/orbscape/formats/mp3"
	"github.com/ik5/orbscape/formats/vorbis"
	"github.com/ik5/orbscape/formats/wav"
)

// Registry returns a registry with wav, aiff, mp3 and ogg decoders.
func Registry() *audio.Registry {
	reg := audio.NewRegistry()
	reg.Register(wav.Decoder{}, "wav", "wave")
	reg.Register(aiff.Decoder{}, "aif", "aiff")
	reg.Register(mp3.Decoder{}, "mp3")
	reg.Register(vorbis.Decoder{}, "ogg", "oga")
	return reg
}
