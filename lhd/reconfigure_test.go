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

package lhd

import "testing"

func TestDecayShrinksHistograms(t *testing.T) {
	cl := newClass(0)
	cl.hits[5] = 100
	cl.evictions[5] = 50

	cl.decay()

	if cl.hits[5] != 90 {
		t.Fatalf("hits[5] = %f, want 90 after one decay pass", cl.hits[5])
	}
	if cl.evictions[5] != 45 {
		t.Fatalf("evictions[5] = %f, want 45 after one decay pass", cl.evictions[5])
	}
}

func TestModelHitDensityZeroWhenNoEvents(t *testing.T) {
	p := &Policy{classes: []*class{newClass(0)}}
	p.modelHitDensity()
	for a := 0; a < MaxAge-1; a++ {
		if p.classes[0].hitDensities[a] != 0 {
			t.Fatalf("hitDensities[%d] = %f, want 0 with no recorded events", a, p.classes[0].hitDensities[a])
		}
	}
}

func TestModelHitDensityFavorsHitsOverEvictions(t *testing.T) {
	hitHeavy := newClass(0)
	hitHeavy.hits[10] = 100

	evictHeavy := newClass(0)
	evictHeavy.evictions[10] = 100

	p := &Policy{classes: []*class{hitHeavy, evictHeavy}}
	p.modelHitDensity()

	if hitHeavy.hitDensities[0] <= evictHeavy.hitDensities[0] {
		t.Fatalf("a class with only hits should end up with a higher density than one with only evictions: %f <= %f",
			hitHeavy.hitDensities[0], evictHeavy.hitDensities[0])
	}
}

func TestCompressThenStretchKeepsMass(t *testing.T) {
	h := &fakeHandle{available: 1000, numObj: 10}
	p := New(h, 4, 4, nil)
	cl := p.classes[0]
	for a := 0; a < MaxAge; a++ {
		cl.hits[a] = 1
	}

	p.compress(1)
	p.stretch(1)

	var sum float64
	for a := 0; a < MaxAge; a++ {
		sum += cl.hits[a]
	}
	if sum <= 0 {
		t.Fatal("compress followed by stretch should not zero out all mass")
	}
}
