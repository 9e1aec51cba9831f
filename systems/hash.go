package systems

import (
	"math"
	"math/rand/v2"

	"github.com/pthm-cable/starfield/components"
)

// Changing any constant or mixing step in this file changes every generated
// region. Bump HashVersion when doing so.
const HashVersion = 1

// golden is the 64-bit golden-ratio constant.
const golden uint64 = 0x9e3779b97f4a7c15

// TableKind selects the hash variant used to index a table.
type TableKind uint8

const (
	KindStar TableKind = iota
	KindGalaxy
)

// mix64 is a 3-round xor-shift-multiply finalizer.
func mix64(h uint64) uint64 {
	h ^= h >> 33
	h *= 0xff51afd7ed558ccd
	h ^= h >> 33
	h *= 0xc4ceb9fe1a85ec53
	h ^= h >> 33
	return h
}

func hashCoord(v float64) uint64 {
	if v == 0 {
		v = 0 // fold -0 into +0
	}
	return mix64(math.Float64bits(v))
}

// Hash64 is the order-sensitive position hash used for star tables.
func Hash64(p components.Point) uint64 {
	return hashCoord(p.X) ^ (hashCoord(p.Y) + golden + 1)
}

// Hash64B is an independent second hash used for galaxy tables and RNG seeding.
func Hash64B(p components.Point) uint64 {
	return (hashCoord(p.X) + golden) ^ hashCoord(p.Y)
}

// TableIndex maps p to a bucket in [0, modulo).
func TableIndex(p components.Point, modulo uint64, kind TableKind) uint64 {
	if kind == KindGalaxy {
		return Hash64B(p) % modulo
	}
	return Hash64(p) % modulo
}

// SeedRNG returns a generator whose stream depends only on p and sequence.
func SeedRNG(p components.Point, sequence uint64) *rand.Rand {
	return rand.New(rand.NewPCG(Hash64B(p), sequence))
}

// Bernoulli runs a per-mille presence trial: draw % 1000 < perMille.
func Bernoulli(rng *rand.Rand, perMille float64) bool {
	return float64(rng.Uint32()%1000) < perMille
}

// Present reports whether an entity exists at p for the given sequence and density.
func Present(p components.Point, sequence uint64, perMille float64) bool {
	return Bernoulli(SeedRNG(p, sequence), perMille)
}

// Sequence derives the generation salt for everything inside a galaxy.
func Sequence(galaxy components.Point) uint64 {
	return Hash64(galaxy)
}

// uniform returns a value in [lo, hi).
func uniform(rng *rand.Rand, lo, hi float64) float64 {
	if hi <= lo {
		return lo
	}
	return lo + rng.Float64()*(hi-lo)
}
