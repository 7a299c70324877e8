// Package bell is the Audio collaborator of spec.md §6.4: decode a WAV
// sample once and play it fire-and-forget whenever C0 0x07 (BEL) is
// dispatched. No pack repo plays audio from inside a terminal directly;
// gopxl/beep/v2 is the one audio-playback library retrieved anywhere in
// this pack's pool (referenced by lixenwraith-vi-fighter's go.mod), so it
// is adopted here rather than left unwired.
package bell

import (
	"fmt"
	"log"
	"os"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/wav"
)

// Sample is a decoded WAV clip ready to play.
type Sample struct {
	buf    *beep.Buffer
	format beep.Format
}

// Audio owns the speaker device, opened once at startup (spec.md §7
// "Fatal init": speaker open failure aborts startup) and played into for
// the lifetime of the process.
type Audio struct {
	ready bool
}

// Open initializes the speaker device at the given sample rate and buffer
// size. Call once before Load/Play.
func Open(sampleRate beep.SampleRate, bufferSize int) (*Audio, error) {
	if err := speaker.Init(sampleRate, bufferSize); err != nil {
		return nil, fmt.Errorf("bell: speaker init: %w", err)
	}
	return &Audio{ready: true}, nil
}

// Load decodes a WAV file at path into a Sample (spec.md §6.4 "load(path) →
// sample"). Failures are the caller's to log and ignore per spec.md §7
// ("Clipboard/audio failures: logged, never propagated"); Load itself
// still returns the error so the caller can decide whether this particular
// bell path is simply absent.
func Load(path string) (*Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("bell: open %s: %w", path, err)
	}
	defer f.Close()

	streamer, format, err := wav.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("bell: decode %s: %w", path, err)
	}
	defer streamer.Close()

	buf := beep.NewBuffer(format)
	buf.Append(streamer)
	return &Sample{buf: buf, format: format}, nil
}

// Play plays sample fire-and-forget on the speaker's own worker goroutine
// (spec.md §5 "Audio playback is fire-and-forget on a library-owned
// worker"). A nil sample or unopened Audio is a silent no-op, matching
// spec.md §7's "failures logged and ignored" for the bell path.
func (a *Audio) Play(sample *Sample) {
	if a == nil || !a.ready || sample == nil {
		return
	}
	speaker.Play(sample.buf.Streamer(0, sample.buf.Len()))
}

// LoadOrWarn wraps Load for call sites that only want to log a failure
// once and continue without a bell sound (spec.md §7).
func LoadOrWarn(path string) *Sample {
	s, err := Load(path)
	if err != nil {
		log.Printf("bell: %v", err)
		return nil
	}
	return s
}
