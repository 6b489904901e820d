// Package sound synthesizes the pad tones and plays them through ebiten's
// audio context.
package sound

import (
	"encoding/binary"
	"math"
	"sync"
	"time"

	"github.com/cbodonnell/afterglow/pkg/log"
	"github.com/cbodonnell/afterglow/pkg/simon"
	"github.com/hajimehoshi/ebiten/v2/audio"
)

const (
	// DefaultSampleRate is the audio context sample rate.
	DefaultSampleRate = 48000
	// DefaultVolume scales all tones.
	DefaultVolume = 0.6

	padToneDuration   = 300 * time.Millisecond
	errorToneDuration = 500 * time.Millisecond
	errorFrequency    = 110.0
)

// padFrequencies maps each pad to its tone in Hz. The four tones form a
// C major chord so any playback order sounds consonant.
var padFrequencies = map[simon.Pad]float64{
	simon.PadGreen:  392.00,
	simon.PadRed:    329.63,
	simon.PadYellow: 261.63,
	simon.PadBlue:   523.25,
}

// The process-wide audio context. ebiten allows exactly one.
var (
	contextOnce  sync.Once
	audioContext *audio.Context
)

func sharedContext(sampleRate int) *audio.Context {
	contextOnce.Do(func() {
		audioContext = audio.NewContext(sampleRate)
	})
	return audioContext
}

// Player plays the pad tones and the error buzz. A muted Player never
// touches the audio device, which keeps it usable in headless runs.
type Player struct {
	muted    bool
	pads     map[simon.Pad]*audio.Player
	errorBuz *audio.Player
}

type NewPlayerOptions struct {
	SampleRate int
	Volume     float64
	Muted      bool
}

// NewPlayer synthesizes all tones up front and prepares one audio player
// per tone.
func NewPlayer(opts NewPlayerOptions) *Player {
	if opts.Muted {
		return &Player{muted: true}
	}
	if opts.SampleRate <= 0 {
		opts.SampleRate = DefaultSampleRate
	}
	if opts.Volume <= 0 || opts.Volume > 1 {
		opts.Volume = DefaultVolume
	}

	ctx := sharedContext(opts.SampleRate)
	p := &Player{
		pads: make(map[simon.Pad]*audio.Player, len(padFrequencies)),
	}
	for pad, freq := range padFrequencies {
		pcm := sineTone(opts.SampleRate, freq, padToneDuration, opts.Volume)
		p.pads[pad] = ctx.NewPlayerFromBytes(pcm)
	}
	p.errorBuz = ctx.NewPlayerFromBytes(squareTone(opts.SampleRate, errorFrequency, errorToneDuration, opts.Volume))
	return p
}

// PlayPad plays the tone for a pad from the beginning.
func (p *Player) PlayPad(pad simon.Pad) {
	if p.muted {
		return
	}
	player, ok := p.pads[pad]
	if !ok {
		return
	}
	p.restart(player)
}

// PlayError plays the game over buzz.
func (p *Player) PlayError() {
	if p.muted {
		return
	}
	p.restart(p.errorBuz)
}

func (p *Player) restart(player *audio.Player) {
	if err := player.Rewind(); err != nil {
		log.Error("Failed to rewind tone: %v", err)
		return
	}
	player.Play()
}

// sineTone renders a sine wave as 16-bit stereo PCM with a short attack and
// release so tones start and stop without clicks.
func sineTone(sampleRate int, freq float64, duration time.Duration, volume float64) []byte {
	return renderTone(sampleRate, freq, duration, volume, math.Sin)
}

// squareTone renders a square wave, used for the harsher error buzz.
func squareTone(sampleRate int, freq float64, duration time.Duration, volume float64) []byte {
	return renderTone(sampleRate, freq, duration, volume, func(phase float64) float64 {
		if math.Sin(phase) >= 0 {
			return 1
		}
		return -1
	})
}

func renderTone(sampleRate int, freq float64, duration time.Duration, volume float64, wave func(phase float64) float64) []byte {
	samples := int(float64(sampleRate) * duration.Seconds())
	attack := sampleRate / 100
	release := sampleRate / 20
	buf := make([]byte, samples*4)
	for i := 0; i < samples; i++ {
		env := 1.0
		if i < attack {
			env = float64(i) / float64(attack)
		}
		if remaining := samples - i; remaining < release {
			env = float64(remaining) / float64(release)
		}
		phase := 2 * math.Pi * freq * float64(i) / float64(sampleRate)
		s := int16(wave(phase) * env * volume * math.MaxInt16)
		binary.LittleEndian.PutUint16(buf[4*i:], uint16(s))
		binary.LittleEndian.PutUint16(buf[4*i+2:], uint16(s))
	}
	return buf
}
