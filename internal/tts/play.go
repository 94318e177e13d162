package tts

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/vorbis"
	"github.com/faiface/beep/wav"
)

// Play decodes encoded audio and blocks until playback finishes.
func Play(data []byte, format string) error {
	var (
		streamer beep.StreamSeekCloser
		bf       beep.Format
		err      error
	)

	switch strings.ToUpper(format) {
	case "MP3":
		streamer, bf, err = mp3.Decode(io.NopCloser(bytes.NewReader(data)))
	case "WAV":
		streamer, bf, err = wav.Decode(bytes.NewReader(data))
	case "OGG":
		streamer, bf, err = vorbis.Decode(io.NopCloser(bytes.NewReader(data)))
	default:
		return fmt.Errorf("tts: unsupported playback format %q", format)
	}
	if err != nil {
		return fmt.Errorf("tts: decode %s: %w", format, err)
	}
	defer streamer.Close()

	if err := speaker.Init(bf.SampleRate, bf.SampleRate.N(time.Second/10)); err != nil {
		return fmt.Errorf("tts: init speaker: %w", err)
	}

	done := make(chan struct{})
	speaker.Play(beep.Seq(streamer, beep.Callback(func() {
		close(done)
	})))
	<-done

	return nil
}
