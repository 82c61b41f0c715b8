// Package domain contains the core business entities for the Galaxy store.
package domain

// Game is a purchasable catalog entry. The catalog is compiled in,
// never persisted, and never mutated at runtime; a player "publish"
// flow produces a GameSubmission, not a Game.
type Game struct {
	// ID is the catalog identifier.
	ID string `json:"id"`

	// Title is the display title.
	Title string `json:"title"`

	// Description is the short store-page description.
	Description string `json:"description"`

	// Price is the cost in store currency. Always >= 0.
	Price int64 `json:"price"`

	// Image is an opaque reference to the cover art.
	Image string `json:"image"`

	// Theme is the genre tag.
	Theme string `json:"theme"`

	// AgeRating is the age-restriction tag.
	AgeRating string `json:"age_rating"`
}

// catalog is the static game catalog.
var catalog = []Game{
	{
		ID:          "1",
		Title:       "Cyber Runner",
		Description: "A futuristic runner through a neon cyberpunk world",
		Price:       299,
		Image:       "/images/cyber-runner.svg",
		Theme:       "Action",
		AgeRating:   "12+",
	},
	{
		ID:          "2",
		Title:       "Neon Racer",
		Description: "Arcade racing across glowing neon tracks",
		Price:       199,
		Image:       "/images/neon-racer.svg",
		Theme:       "Racing",
		AgeRating:   "6+",
	},
	{
		ID:          "3",
		Title:       "Galaxy Defense",
		Description: "Defend the galaxy from alien invaders",
		Price:       399,
		Image:       "/images/galaxy-defense.svg",
		Theme:       "Strategy",
		AgeRating:   "16+",
	},
}

// Catalog returns a copy of the static game catalog.
func Catalog() []Game {
	out := make([]Game, len(catalog))
	copy(out, catalog)
	return out
}

// GameByID looks up a catalog game. Returns ErrGameNotFound for
// unknown ids.
func GameByID(id string) (*Game, error) {
	for i := range catalog {
		if catalog[i].ID == id {
			g := catalog[i]
			return &g, nil
		}
	}
	return nil, ErrGameNotFound
}
