package component

// Camera is the horizontal scroll state. OffsetX is derived every tick from
// the character position and never set independently.
type Camera struct {
	AnchorX       float64
	MinX          float64
	MaxX          float64
	ViewportWidth float64
	OffsetX       float64
}

var CameraComponent = NewComponent[Camera]()
