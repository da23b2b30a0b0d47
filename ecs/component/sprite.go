package component

// Sprite names the image drawn for an entity. Images are resolved by the
// render layer so simulation code never touches textures.
type Sprite struct {
	Key     string
	Variant int
}

var SpriteComponent = NewComponent[Sprite]()
