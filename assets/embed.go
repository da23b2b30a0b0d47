package assets

import (
	"bytes"
	"embed"
	"fmt"
	"image"
	_ "image/png"
	"io/fs"
	"log"
	"os"
	"path"
	"path/filepath"
	"strings"
)

//go:embed images audio
var embedded embed.FS

// Embedded returns the assets compiled into the binary.
func Embedded() fs.FS {
	return embedded
}

// Open returns the asset filesystem. A non-empty dir is read from disk, so
// art can be swapped without rebuilding; an empty or missing dir falls back to
// the embedded assets.
func Open(dir string) fs.FS {
	if dir == "" {
		return embedded
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		log.Printf("assets: %s is not a directory, using embedded assets", dir)
		return embedded
	}
	return os.DirFS(dir)
}

// ReadFile reads an asset by assets-relative path.
func ReadFile(fsys fs.FS, name string) ([]byte, error) {
	if fsys == nil {
		return nil, fmt.Errorf("assets: read %s: %w", name, fs.ErrNotExist)
	}
	clean := CleanPath(name)
	b, err := fs.ReadFile(fsys, clean)
	if err != nil {
		return nil, fmt.Errorf("assets: read %s: %w", clean, err)
	}
	return b, nil
}

// DecodeImage reads and decodes an image asset.
func DecodeImage(fsys fs.FS, name string) (image.Image, error) {
	b, err := ReadFile(fsys, name)
	if err != nil {
		return nil, err
	}
	img, _, err := image.Decode(bytes.NewReader(b))
	if err != nil {
		return nil, fmt.Errorf("assets: decode %s: %w", CleanPath(name), err)
	}
	return img, nil
}

// DecodeImages decodes every keyed image. Failures are logged and left out
// of the result so callers fall back to plain shapes.
func DecodeImages(fsys fs.FS, paths map[string]string) map[string]image.Image {
	out := make(map[string]image.Image, len(paths))
	for key, p := range paths {
		img, err := DecodeImage(fsys, p)
		if err != nil {
			log.Printf("assets: image %s: %v", key, err)
			continue
		}
		out[key] = img
	}
	return out
}

// CleanPath turns an absolute or "assets/"-prefixed path into a slash
// separated path relative to the asset root.
func CleanPath(p string) string {
	if p == "" {
		return ""
	}
	s := filepath.ToSlash(p)
	if filepath.IsAbs(p) {
		if idx := strings.LastIndex(s, "/assets/"); idx >= 0 {
			return s[idx+len("/assets/"):]
		}
		return path.Base(s)
	}
	s = strings.TrimPrefix(s, "./")
	s = strings.TrimPrefix(s, "assets/")
	return path.Clean(s)
}

// IsAudio reports whether the asset is a decodable audio clip.
func IsAudio(name string) bool {
	return strings.HasSuffix(strings.ToLower(name), ".wav")
}
