// SPDX-License-Identifier: EPL-2.0

package audio_test

import (
	"fmt"

	"github.com/ik5/orbscape/audio"
	"github.com/ik5/orbscape/internal/audiotest"
)

// Example_registry shows decoder selection by file extension.
func Example_registry() {
	reg := audio.NewRegistry()
	reg.Register(audiotest.StreamDecoder{}, "wav", "aif", "aiff")

	_, ok := reg.Lookup("forest/birds.WAV")
	fmt.Println("birds.WAV:", ok)

	_, ok = reg.Lookup("forest/birds.flac")
	fmt.Println("birds.flac:", ok)

	fmt.Println(reg.Extensions())
	// Output:
	// birds.WAV: true
	// birds.flac: false
	// [aif aiff wav]
}

// Example_conversion converts a mono 8 kHz stream into stereo 16 kHz PCM.
func Example_conversion() {
	src := audiotest.NewSineStream(8000, 1, 8000, 440)

	pcm, err := audio.ReadAll(src)
	if err != nil {
		fmt.Println("error:", err)
		return
	}

	pcm, _ = audio.Remix(pcm, src.Channels(), 2)
	pcm, _ = audio.Resample(pcm, 2, src.SampleRate(), 16000)

	fmt.Printf("frames: %d\n", len(pcm)/2)
	// Output:
	// frames: 16000
}
