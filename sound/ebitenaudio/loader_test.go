package ebitenaudio

import (
	"errors"
	"testing"
)

type fakePlayer struct {
	playing bool
	volume  float64
	paused  int
	closed  int
	err     error
}

func (p *fakePlayer) SetVolume(v float64) { p.volume = v }
func (p *fakePlayer) Play()               { p.playing = true }
func (p *fakePlayer) Pause()              { p.playing = false; p.paused++ }
func (p *fakePlayer) IsPlaying() bool     { return p.playing }
func (p *fakePlayer) Close() error {
	p.closed++
	return p.err
}

func fakeClip(made *[]*fakePlayer) *clip {
	return &clip{
		pcm: []byte{0, 0, 0, 0},
		newPlayer: func([]byte) player {
			p := &fakePlayer{}
			*made = append(*made, p)
			return p
		},
	}
}

func TestClipClosesFinishedPlayers(t *testing.T) {
	var made []*fakePlayer
	c := fakeClip(&made)

	if err := c.Play(0.5); err != nil {
		t.Fatalf("Play: %v", err)
	}
	if made[0].volume != 0.5 || !made[0].playing {
		t.Fatalf("player not started: %+v", made[0])
	}
	made[0].playing = false

	if err := c.Play(1); err != nil {
		t.Fatalf("Play: %v", err)
	}
	if made[0].closed != 1 {
		t.Fatalf("finished player closed %d times, want 1", made[0].closed)
	}
	if len(c.players) != 1 || made[1].closed != 0 {
		t.Fatalf("only the live player should be kept, have %d", len(c.players))
	}
}

func TestClipCloseReleasesPlayers(t *testing.T) {
	var made []*fakePlayer
	c := fakeClip(&made)
	for i := 0; i < 3; i++ {
		if err := c.Play(1); err != nil {
			t.Fatalf("Play: %v", err)
		}
	}
	boom := errors.New("boom")
	made[1].err = boom

	if err := c.Close(); !errors.Is(err, boom) {
		t.Fatalf("Close error = %v, want %v", err, boom)
	}
	for i, p := range made {
		if p.paused != 1 || p.closed != 1 {
			t.Fatalf("player %d paused %d closed %d, want 1/1", i, p.paused, p.closed)
		}
	}
	if err := c.Play(1); err == nil {
		t.Fatal("Play after Close should fail")
	}
}
