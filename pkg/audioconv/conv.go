// Package audioconv decodes audio files into the mono 16 kHz float32 PCM the
// transcriber consumes. Supported containers: wav, mp3, ogg (Vorbis or Opus).
package audioconv

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-audio/wav"
	"github.com/hajimehoshi/go-mp3"
	"github.com/jfreymuth/oggvorbis"
	"github.com/pekim/opus"
)

const targetRate = 16000

// pcm is an intermediate decode result before downmix and resampling.
type pcm struct {
	samples    []float32
	sampleRate int
	channels   int
}

// DecodeFile reads path and returns mono 16 kHz samples, at most maxSamples
// when maxSamples > 0. The container is chosen by extension, falling back to
// magic-byte sniffing.
func DecodeFile(path string, maxSamples int) ([]float32, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	decode, err := decoderFor(f, strings.ToLower(filepath.Ext(path)))
	if err != nil {
		return nil, err
	}

	raw, err := decode(f)
	if err != nil {
		return nil, err
	}
	return finish(raw, maxSamples), nil
}

type decodeFunc func(io.ReadSeeker) (pcm, error)

func decoderFor(f io.ReadSeeker, ext string) (decodeFunc, error) {
	switch ext {
	case ".wav":
		return decodeWAV, nil
	case ".mp3":
		return decodeMP3, nil
	case ".ogg", ".oga":
		return decodeOgg, nil
	}

	magic, err := sniff(f)
	if err != nil {
		return nil, err
	}
	switch magic {
	case "RIFF":
		return decodeWAV, nil
	case "OggS":
		return decodeOgg, nil
	}
	return nil, fmt.Errorf("unsupported format %q (supported: wav, mp3, ogg)", ext)
}

func sniff(f io.ReadSeeker) (string, error) {
	br := bufio.NewReader(f)
	magic, err := br.Peek(4)
	if _, serr := f.Seek(0, io.SeekStart); serr != nil {
		return "", serr
	}
	if err != nil {
		return "", err
	}
	return string(magic), nil
}

func decodeWAV(r io.ReadSeeker) (pcm, error) {
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		return pcm{}, errors.New("invalid wav")
	}
	pb, err := dec.FullPCMBuffer()
	if err != nil {
		return pcm{}, err
	}
	if pb == nil || len(pb.Data) == 0 {
		return pcm{}, errors.New("empty wav")
	}

	bitDepth := int(dec.BitDepth)
	if bitDepth == 0 {
		bitDepth = 16
	}

	out := pcm{
		samples:    intsToFloat32(pb.Data, bitDepth),
		sampleRate: 44100,
		channels:   1,
	}
	if pb.Format != nil {
		if pb.Format.SampleRate > 0 {
			out.sampleRate = pb.Format.SampleRate
		}
		if pb.Format.NumChannels > 0 {
			out.channels = pb.Format.NumChannels
		}
	}
	return out, nil
}

func decodeMP3(r io.ReadSeeker) (pcm, error) {
	dec, err := mp3.NewDecoder(r)
	if err != nil {
		return pcm{}, err
	}

	var raw bytes.Buffer
	if _, err := io.Copy(&raw, dec); err != nil {
		return pcm{}, err
	}

	ints := make([]int16, raw.Len()/2)
	if err := binary.Read(bytes.NewReader(raw.Bytes()), binary.LittleEndian, &ints); err != nil {
		return pcm{}, err
	}

	rate := dec.SampleRate()
	if rate <= 0 {
		rate = 44100
	}

	// go-mp3 always emits interleaved stereo.
	return pcm{samples: int16sToFloat32(ints), sampleRate: rate, channels: 2}, nil
}

func decodeOgg(r io.ReadSeeker) (pcm, error) {
	if out, err := decodeOggVorbis(r); err == nil {
		return out, nil
	}
	if _, err := r.Seek(0, io.SeekStart); err != nil {
		return pcm{}, err
	}
	out, err := decodeOggOpus(r)
	if err != nil {
		return pcm{}, fmt.Errorf("ogg container is neither Vorbis nor Opus: %w", err)
	}
	return out, nil
}

func decodeOggVorbis(r io.Reader) (pcm, error) {
	samples, format, err := oggvorbis.ReadAll(r)
	if err != nil {
		return pcm{}, err
	}
	if format == nil || format.Channels <= 0 || format.SampleRate <= 0 {
		return pcm{}, errors.New("invalid ogg/vorbis stream")
	}
	return pcm{samples: samples, sampleRate: format.SampleRate, channels: format.Channels}, nil
}

func decodeOggOpus(r io.ReadSeeker) (pcm, error) {
	dec, err := opus.NewDecoder(r)
	if err != nil {
		return pcm{}, err
	}
	defer dec.Destroy()

	ch := dec.ChannelCount()
	if ch <= 0 {
		ch = 1
	}

	var (
		samples []float32
		buf     = make([]int16, 48_000*ch/2) // ~0.5s per read
	)
	for {
		n, err := dec.Read(buf)
		if n > 0 {
			samples = append(samples, int16sToFloat32(buf[:n*ch])...)
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return pcm{}, err
		}
	}

	if len(samples) == 0 {
		return pcm{}, errors.New("empty opus stream")
	}

	// Opus always decodes at 48 kHz.
	return pcm{samples: samples, sampleRate: 48000, channels: ch}, nil
}

// finish downmixes, resamples to 16 kHz, and applies the sample cap.
func finish(in pcm, maxSamples int) []float32 {
	x := in.samples
	if in.channels > 1 {
		x = downmix(x, in.channels)
	}
	if in.sampleRate != targetRate {
		x = resampleLinear(x, in.sampleRate, targetRate)
	}
	if maxSamples > 0 && len(x) > maxSamples {
		x = x[:maxSamples]
	}
	return x
}

func intsToFloat32(data []int, bitDepth int) []float32 {
	out := make([]float32, len(data))
	scale := 1.0 / float64(int64(1)<<(bitDepth-1))
	for i, v := range data {
		out[i] = float32(clamp(float64(v)*scale, -1, 1))
	}
	return out
}

func int16sToFloat32(data []int16) []float32 {
	out := make([]float32, len(data))
	for i, v := range data {
		out[i] = float32(v) / 32768
	}
	return out
}

func downmix(in []float32, channels int) []float32 {
	frames := len(in) / channels
	out := make([]float32, frames)
	for i := 0; i < frames; i++ {
		var sum float64
		for c := 0; c < channels; c++ {
			sum += float64(in[i*channels+c])
		}
		out[i] = float32(sum / float64(channels))
	}
	return out
}

func resampleLinear(in []float32, inRate, outRate int) []float32 {
	if inRate == outRate || len(in) == 0 {
		return in
	}
	ratio := float64(outRate) / float64(inRate)
	n := int(math.Ceil(float64(len(in)) * ratio))
	out := make([]float32, n)
	for i := 0; i < n; i++ {
		src := float64(i) / ratio
		i0 := int(src)
		if i0 >= len(in)-1 {
			out[i] = in[len(in)-1]
			continue
		}
		frac := float32(src - float64(i0))
		out[i] = in[i0]*(1-frac) + in[i0+1]*frac
	}
	return out
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}
