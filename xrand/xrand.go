/*
 * Copyright 2019 Dgraph Labs, Inc. and Contributors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package xrand provides the deterministic, low-overhead random sampler the
// LHD policy uses to pick eviction candidates. It intentionally avoids
// math/rand: the policy samples tens of millions of times over the life of
// a long trace, and a single small-state generator seeded once up front
// keeps runs reproducible given the same seed and trace, per spec.
package xrand

import "github.com/dgryski/go-farm"

// Source is a xorshift64* generator. It is not safe for concurrent use; the
// simulator is single-threaded by design (see the concurrency model), so
// each Cache/Policy pair owns exactly one Source.
type Source struct {
	state uint64
}

// New returns a Source seeded directly with a uint64. A zero seed is
// remapped to a fixed non-zero constant since xorshift is degenerate at
// state zero (it would emit zero forever).
func New(seed uint64) *Source {
	if seed == 0 {
		seed = 0x9e3779b97f4a7c15
	}
	return &Source{state: seed}
}

// NewSeeded derives a uint64 seed deterministically from an arbitrary string
// (an operator-supplied --seed flag, a trace file path, …) via FarmHash, so
// the same string always reproduces the same sequence.
func NewSeeded(seed string) *Source {
	return New(farm.Fingerprint64([]byte(seed)))
}

// Next returns the next pseudo-random uint64 in the sequence.
func (s *Source) Next() uint64 {
	x := s.state
	x ^= x << 13
	x ^= x >> 7
	x ^= x << 17
	s.state = x
	// xorshift64* final multiply, for better bit mixing in the low bits
	// that Intn relies on via modulo.
	return x * 0x2545F4914F6CDD1D
}

// Intn returns a uniform pseudo-random value in [0, n). Collisions under
// modulo bias are tolerated, per spec — the sampler only needs to be fast
// and reproducible, not perfectly uniform.
func (s *Source) Intn(n int) int {
	if n <= 0 {
		panic("xrand: Intn called with n <= 0")
	}
	return int(s.Next() % uint64(n))
}
