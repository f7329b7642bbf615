// SPDX-License-Identifier: MIT

package mc

import "math/rand"

// defaultSeed replaces a zero seed so that the default stream is stable.
const defaultSeed int64 = 1

// NewRNG returns a deterministic generator; seed 0 selects defaultSeed.
func NewRNG(seed int64) *rand.Rand {
	if seed == 0 {
		seed = defaultSeed
	}

	return rand.New(rand.NewSource(seed))
}

// StreamRNG returns the generator of an independent sub-stream of seed,
// used to give every worker its own source.
func StreamRNG(seed int64, stream uint64) *rand.Rand {
	if seed == 0 {
		seed = defaultSeed
	}

	return rand.New(rand.NewSource(deriveSeed(seed, stream)))
}

// deriveSeed mixes a parent seed and a stream id with the SplitMix64 finaliser.
func deriveSeed(parent int64, stream uint64) int64 {
	x := uint64(parent) ^ (stream + 0x9e3779b97f4a7c15)
	x += 0x9e3779b97f4a7c15
	x = (x ^ (x >> 30)) * 0xbf58476d1ce4e5b9
	x = (x ^ (x >> 27)) * 0x94d049bb133111eb
	x ^= x >> 31

	return int64(x)
}
