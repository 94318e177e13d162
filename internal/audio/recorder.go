package audio

import (
	"errors"
	"math"
	"time"

	"github.com/gordonklaus/portaudio"
)

const (
	sampleRate = 16000
	frameSize  = 320 // 20ms at 16 kHz
)

// Recorder captures mono 16 kHz microphone audio, the format the whisper
// transcriber expects.
type Recorder struct{}

func NewRecorder() *Recorder { return &Recorder{} }

func (r *Recorder) Init() error {
	return portaudio.Initialize()
}

func (r *Recorder) Close() {
	portaudio.Terminate()
}

// Record captures one utterance. Samples are buffered once the input rises
// above the silence threshold, and capture stops after sustained silence or
// when maxDur elapses.
func (r *Recorder) Record(maxDur time.Duration) ([]float32, error) {
	const (
		silenceThreshRMS = 0.015
		silenceStop      = 600 * time.Millisecond
	)

	if maxDur <= 0 {
		maxDur = 10 * time.Second
	}

	buf := make([]float32, frameSize)
	out := make([]float32, 0, sampleRate*3)

	stream, err := portaudio.OpenDefaultStream(1, 0, sampleRate, len(buf), buf)
	if err != nil {
		return nil, err
	}
	defer stream.Close()

	if err := stream.Start(); err != nil {
		return nil, err
	}
	defer stream.Stop()

	var (
		speaking     bool
		silentFrames int
	)

	frameDur := time.Second * frameSize / sampleRate
	maxFrames := int(maxDur / frameDur)
	stopAfter := int(silenceStop / frameDur)

	for i := 0; i < maxFrames; i++ {
		if err := stream.Read(); err != nil {
			return nil, err
		}

		if frameRMS(buf) > silenceThreshRMS {
			speaking = true
			silentFrames = 0
			out = append(out, buf...)
			continue
		}

		if speaking {
			silentFrames++
			if silentFrames >= stopAfter {
				break
			}
			out = append(out, buf...)
		}
	}

	if len(out) == 0 {
		return nil, errors.New("no speech detected")
	}
	return out, nil
}

func frameRMS(f []float32) float64 {
	var s float64
	for _, x := range f {
		s += float64(x * x)
	}
	return math.Sqrt(s / float64(len(f)))
}
