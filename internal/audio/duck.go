package audio

import (
	"context"
	"fmt"
	"math"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"sync"
)

var percentRe = regexp.MustCompile(`(\d+)\s*%`)

type sinkInput struct {
	ID      int
	Volume  int
	AppName string
}

// Ducker lowers the volume of other PulseAudio streams while the conch
// speaks, then restores them. Streams whose application.name matches one of
// selfNames are left alone.
type Ducker struct {
	mu        sync.Mutex
	active    bool
	selfNames []string
	original  map[int]int
	minVolume int
}

func NewDucker(selfNames []string, minVolume int) *Ducker {
	if minVolume < 0 {
		minVolume = 0
	}
	if minVolume > 100 {
		minVolume = 100
	}
	return &Ducker{
		selfNames: append([]string(nil), selfNames...),
		original:  make(map[int]int),
		minVolume: minVolume,
	}
}

// Duck scales every foreign stream's volume by factor, bounded below by the
// configured minimum. Calling Duck while already active is a no-op.
func (d *Ducker) Duck(ctx context.Context, factor float64) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.active {
		return nil
	}

	streams, err := listSinkInputs(ctx)
	if err != nil {
		return fmt.Errorf("list sink inputs: %w", err)
	}

	d.original = make(map[int]int)
	for _, s := range streams {
		if d.isSelf(s) {
			continue
		}
		target := int(math.Round(float64(s.Volume) * factor))
		if target < d.minVolume {
			target = d.minVolume
		}
		if err := setSinkInputVolume(ctx, s.ID, target); err != nil {
			return fmt.Errorf("duck stream %d: %w", s.ID, err)
		}
		d.original[s.ID] = s.Volume
	}

	d.active = true
	return nil
}

// Restore returns previously ducked streams to their original volume.
// Streams that appeared after Duck are left untouched.
func (d *Ducker) Restore(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if !d.active {
		return nil
	}

	streams, err := listSinkInputs(ctx)
	if err != nil {
		return fmt.Errorf("list sink inputs: %w", err)
	}

	for _, s := range streams {
		orig, ok := d.original[s.ID]
		if !ok {
			continue
		}
		if err := setSinkInputVolume(ctx, s.ID, orig); err != nil {
			return fmt.Errorf("restore stream %d: %w", s.ID, err)
		}
	}

	d.original = make(map[int]int)
	d.active = false
	return nil
}

func (d *Ducker) isSelf(s sinkInput) bool {
	for _, name := range d.selfNames {
		if s.AppName == name {
			return true
		}
	}
	return false
}

func listSinkInputs(ctx context.Context) ([]sinkInput, error) {
	out, err := exec.CommandContext(ctx, "pactl", "list", "sink-inputs").Output()
	if err != nil {
		return nil, fmt.Errorf("pactl list sink-inputs: %w", err)
	}

	blocks := strings.Split(string(out), "Sink Input #")
	var res []sinkInput

	for _, block := range blocks[1:] {
		newline := strings.IndexByte(block, '\n')
		if newline <= 0 {
			continue
		}

		id, err := strconv.Atoi(strings.TrimSpace(block[:newline]))
		if err != nil {
			continue
		}

		s := sinkInput{ID: id}
		for _, line := range strings.Split(block[newline+1:], "\n") {
			line = strings.TrimSpace(line)
			if strings.HasPrefix(line, "Volume:") && s.Volume == 0 {
				if m := percentRe.FindStringSubmatch(line); len(m) >= 2 {
					s.Volume, _ = strconv.Atoi(m[1])
				}
			}
			if strings.HasPrefix(line, "application.name =") && s.AppName == "" {
				if parts := strings.SplitN(line, "\"", 3); len(parts) >= 2 {
					s.AppName = parts[1]
				}
			}
		}

		if s.Volume == 0 && s.AppName == "" {
			continue
		}
		res = append(res, s)
	}

	return res, nil
}

func setSinkInputVolume(ctx context.Context, id, percent int) error {
	if percent < 0 {
		percent = 0
	}
	if percent > 150 {
		percent = 150
	}
	return exec.CommandContext(ctx, "pactl", "set-sink-input-volume",
		strconv.Itoa(id), fmt.Sprintf("%d%%", percent)).Run()
}
