package component

import (
	"fmt"
	"strings"
)

// Surface selects how a platform responds to the character.
type Surface uint8

const (
	// SurfaceSolid blocks landing, head bumps and side contact.
	SurfaceSolid Surface = iota
	// SurfacePassthrough blocks landing from above only.
	SurfacePassthrough
)

func (s Surface) String() string {
	if s == SurfacePassthrough {
		return "passthrough"
	}
	return "solid"
}

func ParseSurface(s string) (Surface, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "solid":
		return SurfaceSolid, nil
	case "passthrough", "oneway", "one_way":
		return SurfacePassthrough, nil
	}
	return SurfaceSolid, fmt.Errorf("component: unknown surface %q", s)
}

type Platform struct {
	Surface Surface
}

var PlatformComponent = NewComponent[Platform]()
