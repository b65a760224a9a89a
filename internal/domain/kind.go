// Package domain holds the catalog and preference types shared across the server.
package domain

// Kind identifies one of the two catalog resources.
type Kind string

const (
	// KindAnime is the primary catalog kind.
	KindAnime Kind = "anime"
	// KindManga is the secondary catalog kind.
	KindManga Kind = "manga"
)

// AllKinds returns every catalog kind, primary first.
func AllKinds() []Kind {
	return []Kind{KindAnime, KindManga}
}

// Valid returns true if this is a recognized kind.
func (k Kind) Valid() bool {
	return k == KindAnime || k == KindManga
}

// IsPrimary reports whether k is the primary kind, which carries the
// season, rating and random-pick capabilities.
func (k Kind) IsPrimary() bool {
	return k == KindAnime
}
