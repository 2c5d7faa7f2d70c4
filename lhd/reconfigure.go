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

// reconfigure decays histograms, adapts age coarsening, and rebuilds the
// density table. It runs every AccsPerReconfiguration updates, amortized
// across the whole window.
func (p *Policy) reconfigure() {
	for _, cl := range p.classes {
		cl.decay()
	}

	p.adaptAgeCoarsening()
	p.modelHitDensity()

	p.overflows = 0
}

// decay applies the EWMA decay to a class's hit/eviction histograms and
// recomputes its totals.
func (cl *class) decay() {
	cl.totalHits = 0
	cl.totalEvictions = 0
	for age := 0; age < MaxAge; age++ {
		cl.hits[age] *= EWMADecay
		cl.evictions[age] *= EWMADecay
		cl.totalHits += cl.hits[age]
		cl.totalEvictions += cl.evictions[age]
	}
}

// modelHitDensity rebuilds hitDensities per class via a backward sweep over
// ages, computing E[hits | ageAtEviction >= a] / E[lifetime | ageAtEviction
// >= a] in linear time.
func (p *Policy) modelHitDensity() {
	for _, cl := range p.classes {
		totalEvents := cl.hits[MaxAge-1] + cl.evictions[MaxAge-1]
		totalHits := cl.hits[MaxAge-1]
		lifetimeUnconditioned := totalEvents

		for a := MaxAge - 2; a >= 0; a-- {
			totalHits += cl.hits[a]
			totalEvents += cl.hits[a] + cl.evictions[a]
			lifetimeUnconditioned += totalEvents

			if totalEvents > 1e-5 {
				cl.hitDensities[a] = totalHits / lifetimeUnconditioned
			} else {
				cl.hitDensities[a] = 0
			}
		}
	}
}

// adaptAgeCoarsening maintains EWMAs of the live object count and, at
// numReconfigurations == 5 and == 25, picks a new ageCoarseningShift from
// them and rescales every class's histograms to the new resolution.
func (p *Policy) adaptAgeCoarsening() {
	p.ewmaNumObjects *= EWMADecay
	p.ewmaNumObjectsMass *= EWMADecay

	p.ewmaNumObjects += float64(p.cache.NumObjects())
	p.ewmaNumObjectsMass++

	numObjects := p.ewmaNumObjects / p.ewmaNumObjectsMass
	optimal := numObjects / (AgeCoarseningErrorTolerance * MaxAge)

	if p.numReconfigurations != 5 && p.numReconfigurations != 25 {
		return
	}

	shift := uint(1)
	for (uint64(1) << shift) < uint64(optimal) {
		shift++
	}

	delta := int(shift) - int(p.ageCoarseningShift)
	p.ageCoarseningShift = shift

	// Increase weight to delay another shift for a while.
	p.ewmaNumObjects *= 8
	p.ewmaNumObjectsMass *= 8

	switch {
	case delta < 0:
		p.stretch(-delta)
	case delta > 0:
		p.compress(delta)
	}
}

// stretch rescales histograms to a finer age resolution (more buckets cover
// the same uncoarsened range): entries beyond the new horizon fold into the
// last bucket, then values spread out across 2^shift times as many buckets.
func (p *Policy) stretch(shift int) {
	for _, cl := range p.classes {
		for a := MaxAge >> shift; a < MaxAge-1; a++ {
			cl.hits[MaxAge-1] += cl.hits[a]
			cl.evictions[MaxAge-1] += cl.evictions[a]
		}
		for a := MaxAge - 2; a >= 0; a-- {
			cl.hits[a] = cl.hits[a>>shift] / float64(uint64(1)<<shift)
			cl.evictions[a] = cl.evictions[a>>shift] / float64(uint64(1)<<shift)
		}
	}
}

// compress rescales histograms to a coarser age resolution: each new bucket
// sums the 2^shift old buckets it now represents, and the freed tail is
// zeroed.
func (p *Policy) compress(shift int) {
	for _, cl := range p.classes {
		limit := MaxAge >> shift
		for a := 0; a < limit; a++ {
			cl.hits[a] = cl.hits[a<<shift]
			cl.evictions[a] = cl.evictions[a<<shift]
			for i := 1; i < (1 << shift); i++ {
				cl.hits[a] += cl.hits[(a<<shift)+i]
				cl.evictions[a] += cl.evictions[(a<<shift)+i]
			}
		}
		for a := limit; a < MaxAge-1; a++ {
			cl.hits[a] = 0
			cl.evictions[a] = 0
		}
	}
}
