package horn

import (
	"encoding/binary"
	"math"
	"time"
)

// Audio format shared by the tone synthesizer and the player.
const (
	SampleRate     = 24000
	ChannelCount   = 1
	bytesPerSample = 2
)

// Tone describes the buzzer sound played at the end of a period.
type Tone struct {
	Frequency float64       // fundamental, Hz
	Duration  time.Duration // total length including the fade-out
	Volume    float64       // 0..1
}

// DefaultTone is a short square-ish buzz in the range of a gym horn.
func DefaultTone() Tone {
	return Tone{Frequency: 220, Duration: 1500 * time.Millisecond, Volume: 0.6}
}

// PCM renders the tone as signed 16-bit little-endian mono samples.
// The first two odd harmonics are mixed in to make it sound like a horn
// rather than a sine beep. The last 10% fades out to avoid a click.
func (t Tone) PCM() []byte {
	n := int(t.Duration.Seconds() * SampleRate)
	if n <= 0 || t.Frequency <= 0 {
		return nil
	}
	vol := math.Max(0, math.Min(1, t.Volume))
	fade := n / 10

	buf := make([]byte, n*bytesPerSample)
	for i := 0; i < n; i++ {
		x := 2 * math.Pi * t.Frequency * float64(i) / SampleRate
		v := math.Sin(x) + math.Sin(3*x)/3 + math.Sin(5*x)/5

		amp := vol
		if rem := n - i; fade > 0 && rem < fade {
			amp *= float64(rem) / float64(fade)
		}
		// Peak of the three-harmonic sum stays under 1.2.
		s := int16(v / 1.2 * amp * math.MaxInt16)
		binary.LittleEndian.PutUint16(buf[i*bytesPerSample:], uint16(s))
	}
	return buf
}
