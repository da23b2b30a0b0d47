package ebitenaudio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"
	"github.com/milk9111/breakrun/assets"
	"github.com/milk9111/breakrun/prefabs"
	"github.com/milk9111/breakrun/sound"
)

const SampleRate = 44100

// player is the part of *audio.Player a clip drives.
type player interface {
	SetVolume(volume float64)
	Play()
	Pause()
	IsPlaying() bool
	Close() error
}

// clip holds decoded PCM and starts a fresh player per Play so overlapping
// plays of the same effect do not cut each other off. Finished players are
// closed on the next Play.
type clip struct {
	pcm       []byte
	newPlayer func(pcm []byte) player
	players   []player
}

func newClip(ctx *audio.Context, pcm []byte) *clip {
	return &clip{
		pcm: pcm,
		newPlayer: func(pcm []byte) player {
			return ctx.NewPlayerFromBytes(pcm)
		},
	}
}

func (c *clip) Play(volume float64) error {
	if c.newPlayer == nil || c.pcm == nil {
		return fmt.Errorf("ebitenaudio: clip closed")
	}
	c.reap()
	p := c.newPlayer(c.pcm)
	p.SetVolume(volume)
	p.Play()
	c.players = append(c.players, p)
	return nil
}

func (c *clip) reap() {
	live := c.players[:0]
	for _, p := range c.players {
		if p.IsPlaying() {
			live = append(live, p)
			continue
		}
		if err := p.Close(); err != nil {
			log.Printf("ebitenaudio: close player: %v", err)
		}
	}
	c.players = live
}

// Close stops and closes every player the clip started.
func (c *clip) Close() error {
	var errs []error
	for _, p := range c.players {
		p.Pause()
		if err := p.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	c.players = nil
	c.pcm = nil
	return errors.Join(errs...)
}

// Decode reads a wav asset and returns PCM at the context's sample rate.
func Decode(ctx *audio.Context, fsys fs.FS, name string) ([]byte, error) {
	b, err := assets.ReadFile(fsys, name)
	if err != nil {
		return nil, err
	}
	if !assets.IsAudio(name) {
		return nil, fmt.Errorf("ebitenaudio: %s: unsupported format", name)
	}
	stream, err := wav.DecodeWithSampleRate(ctx.SampleRate(), bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("ebitenaudio: decode wav %q: %w", name, err)
	}
	pcm, err := io.ReadAll(stream)
	if err != nil {
		return nil, fmt.Errorf("ebitenaudio: read wav %q: %w", name, err)
	}
	return pcm, nil
}

// LoadBank decodes every clip in spec into a new bank. Clips that fail to
// load are logged and stay silent.
func LoadBank(ctx *audio.Context, fsys fs.FS, spec prefabs.AudioBankSpec, master float64) *sound.Bank {
	bank := sound.NewBank(master, nil)
	if ctx == nil {
		return bank
	}
	for _, c := range spec.Clips {
		pcm, err := Decode(ctx, fsys, c.File)
		if err != nil {
			log.Printf("ebitenaudio: clip %s: %v", c.Name, err)
			continue
		}
		bank.Add(c.Name, newClip(ctx, pcm), c.Volume, time.Duration(c.MinIntervalMS)*time.Millisecond)
	}
	return bank
}

// Context returns the process audio context, creating it on first use.
func Context() *audio.Context {
	if ctx := audio.CurrentContext(); ctx != nil {
		return ctx
	}
	return audio.NewContext(SampleRate)
}
