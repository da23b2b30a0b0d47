package component

import (
	"fmt"
	"strings"
)

// Response is the explicit collision response of an obstacle. The obstacle's
// Kind never decides behaviour on its own.
type Response uint8

const (
	ResponseHazard Response = iota
	ResponseSolid
	ResponseSafe
)

func (r Response) String() string {
	switch r {
	case ResponseSolid:
		return "solid"
	case ResponseSafe:
		return "safe"
	default:
		return "hazard"
	}
}

func ParseResponse(s string) (Response, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "hazard":
		return ResponseHazard, nil
	case "solid", "block", "solid-block":
		return ResponseSolid, nil
	case "safe", "decor":
		return ResponseSafe, nil
	}
	return ResponseHazard, fmt.Errorf("component: unknown response %q", s)
}

type Obstacle struct {
	Kind     string
	Response Response
}

var ObstacleComponent = NewComponent[Obstacle]()
