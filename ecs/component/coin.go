package component

// Coin is a collectible. Index is stable for the level and picks the visual
// variant.
type Coin struct {
	Index     int
	Collected bool
}

var CoinComponent = NewComponent[Coin]()
