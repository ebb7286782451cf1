// Package symbols provides the fixed symbol catalogue and shuffle primitives.
package symbols

import "math/rand"

// Symbol identifies one entry of the fixed catalogue.
type Symbol int

// PoolSize is the number of distinct symbols in the catalogue.
const PoolSize = 15

var glyphs = [PoolSize]string{
	"●", "◆", "▲", "■", "★",
	"✚", "✖", "◐", "◓", "⬡",
	"♠", "♣", "♥", "♦", "☂",
}

// Glyph returns the rendering reference for the symbol.
func (s Symbol) Glyph() string {
	if s < 0 || s >= PoolSize {
		return "?"
	}
	return glyphs[s]
}

// Pool returns a fresh slice containing every catalogue symbol.
func Pool() []Symbol {
	pool := make([]Symbol, PoolSize)
	for i := range pool {
		pool[i] = Symbol(i)
	}
	return pool
}

// Shuffle permutes the pool in place with an unbiased Fisher-Yates shuffle.
func Shuffle(rnd *rand.Rand, pool []Symbol) {
	rnd.Shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
}

// Sample returns the first k symbols of a freshly shuffled pool copy.
func Sample(rnd *rand.Rand, pool []Symbol, k int) []Symbol {
	shuffled := make([]Symbol, len(pool))
	copy(shuffled, pool)
	Shuffle(rnd, shuffled)
	if k > len(shuffled) {
		k = len(shuffled)
	}
	return shuffled[:k]
}
