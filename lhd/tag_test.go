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

func TestHitAgeClassZeroIsLastBucket(t *testing.T) {
	if got := hitAgeClass(0); got != HitAgeClasses-1 {
		t.Fatalf("hitAgeClass(0) = %d, want %d", got, HitAgeClasses-1)
	}
}

func TestHitAgeClassMonotonic(t *testing.T) {
	prev := hitAgeClass(1)
	for age := uint64(2); age < MaxAge; age *= 2 {
		cur := hitAgeClass(age)
		if cur > prev {
			t.Fatalf("hitAgeClass should be non-increasing as age grows: age=%d got %d after %d", age, cur, prev)
		}
		prev = cur
	}
}

func TestHitAgeClassBounded(t *testing.T) {
	for _, age := range []uint64{0, 1, 100, MaxAge - 1, MaxAge, MaxAge * 2} {
		c := hitAgeClass(age)
		if c >= HitAgeClasses {
			t.Fatalf("hitAgeClass(%d) = %d, out of [0, %d)", age, c, HitAgeClasses)
		}
	}
}

func TestNewClassWarmStartIsDecreasing(t *testing.T) {
	cl := newClass(3)
	for a := 1; a < 1000; a++ {
		if cl.hitDensities[a] >= cl.hitDensities[a-1] {
			t.Fatalf("warm-start density should strictly decrease with age: age=%d %f >= %f", a, cl.hitDensities[a], cl.hitDensities[a-1])
		}
	}
}

func TestClassIDWithinRange(t *testing.T) {
	tag := &Tag{App: AppClasses - 1, LastHitAge: 0, LastLastHitAge: 0}
	id := classID(tag)
	if id < 0 || id >= NumClasses {
		t.Fatalf("classID = %d, out of [0, %d)", id, NumClasses)
	}
}
