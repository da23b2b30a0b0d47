package assets

import (
	"errors"
	"io/fs"
	"testing"
	"testing/fstest"

	"github.com/milk9111/breakrun/prefabs"
)

func TestCleanPath(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"", ""},
		{"images/coin_gold.png", "images/coin_gold.png"},
		{"assets/images/coin_gold.png", "images/coin_gold.png"},
		{"./audio/jump.wav", "audio/jump.wav"},
		{"/home/me/breakrun/assets/audio/jump.wav", "audio/jump.wav"},
		{"/tmp/crate.png", "crate.png"},
	}
	for _, c := range cases {
		if got := CleanPath(c.in); got != c.want {
			t.Fatalf("CleanPath(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestEmbeddedAssetsCoverRenderSpec(t *testing.T) {
	spec, err := prefabs.LoadSpec[prefabs.RenderSpec]("render.yaml")
	if err != nil {
		t.Fatalf("load render spec: %v", err)
	}
	images := DecodeImages(Embedded(), spec.Images)
	for key := range spec.Images {
		if _, ok := images[key]; !ok {
			t.Fatalf("image %s did not decode", key)
		}
	}
	if b := images["character"].Bounds(); b.Dx() != 32 || b.Dy() != 48 {
		t.Fatalf("character image is %dx%d", b.Dx(), b.Dy())
	}

	bank, err := prefabs.LoadSpec[prefabs.AudioBankSpec]("audio.yaml")
	if err != nil {
		t.Fatalf("load audio spec: %v", err)
	}
	for _, clip := range bank.Clips {
		if !IsAudio(clip.File) {
			t.Fatalf("clip %s is not a wav file", clip.Name)
		}
		if _, err := ReadFile(Embedded(), clip.File); err != nil {
			t.Fatalf("clip %s: %v", clip.Name, err)
		}
	}
}

func TestDecodeImageFailures(t *testing.T) {
	fsys := fstest.MapFS{
		"images/broken.png": &fstest.MapFile{Data: []byte("not a png")},
	}
	if _, err := DecodeImage(fsys, "images/missing.png"); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected ErrNotExist, got %v", err)
	}
	if _, err := DecodeImage(fsys, "images/broken.png"); err == nil {
		t.Fatalf("expected decode error")
	}
	got := DecodeImages(fsys, map[string]string{"a": "images/broken.png", "b": "images/missing.png"})
	if len(got) != 0 {
		t.Fatalf("expected failures to be skipped, got %d images", len(got))
	}
	if _, err := ReadFile(nil, "x"); !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected ErrNotExist for nil fs, got %v", err)
	}
}

func TestOpenFallsBackToEmbedded(t *testing.T) {
	if Open("") != Embedded() {
		t.Fatalf("empty dir should use embedded assets")
	}
	if Open(t.TempDir()+"/nope") != Embedded() {
		t.Fatalf("missing dir should use embedded assets")
	}
}
