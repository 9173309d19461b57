// Package sound renders the arena's audio cues. Cues are short swept tones
// described in audio.yaml, so no sample files ship with the game.
package sound

import (
	"encoding/binary"
	"math"

	"github.com/milk9111/actorfsm/common"
	"github.com/milk9111/actorfsm/prefabs"
)

// bytesPerFrame is one 16-bit little-endian stereo frame.
const bytesPerFrame = 4

// Synthesize renders cue as 16-bit little-endian stereo PCM with a linear
// fade out. The frequency moves by Sweep Hz over the cue's duration.
func Synthesize(cue prefabs.CueSpec, sampleRate int) []byte {
	n := int(cue.Duration * float64(sampleRate))
	if n <= 0 || sampleRate <= 0 {
		return nil
	}
	volume := math.Max(0, math.Min(1, cue.Volume))

	buf := make([]byte, n*bytesPerFrame)
	phase := 0.0
	for i := 0; i < n; i++ {
		progress := float64(i) / float64(n)
		freq := math.Max(0, common.Lerp(cue.Frequency, cue.Frequency+cue.Sweep, progress))
		phase += 2 * math.Pi * freq / float64(sampleRate)

		sample := uint16(int16(math.Sin(phase) * common.Lerp(volume, 0, progress) * math.MaxInt16))
		binary.LittleEndian.PutUint16(buf[i*bytesPerFrame:], sample)
		binary.LittleEndian.PutUint16(buf[i*bytesPerFrame+2:], sample)
	}
	return buf
}

// Bank renders every cue of spec, keyed by name.
func Bank(spec *prefabs.AudioSpec) map[string][]byte {
	out := make(map[string][]byte, len(spec.Cues))
	for _, cue := range spec.Cues {
		out[cue.Name] = Synthesize(cue, spec.SampleRate)
	}
	return out
}
