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

// Package lhd implements the Least Hit Density cache replacement policy: a
// statistical ranking engine that estimates the hit density of each cached
// object from per-class age histograms, adapts an age-coarsening scale, and
// samples victims from the live population plus a window of recently
// admitted objects.
package lhd

import (
	"math"

	"github.com/yipkeikwok/LHD/candidate"
	"github.com/yipkeikwok/LHD/xrand"
)

// CacheHandle is the narrow, non-owning view the policy needs of its owning
// cache. The policy never mutates the cache through it; it only reads a few
// scalars needed for the explorer budget and the age-coarsening adaptation. This breaks what would
// otherwise be an ownership cycle between the cache engine and the policy.
type CacheHandle interface {
	AvailableCapacity() uint64
	NumObjects() int
}

// Policy is the LHD replacement policy.
type Policy struct {
	cache CacheHandle
	rnd   *xrand.Source

	associativity    uint32
	admissionSamples uint32

	tags    []Tag
	indices map[candidate.Candidate]int
	classes []*class

	timestamp            uint64
	nextReconfiguration  uint64
	numReconfigurations  int
	ageCoarseningShift   uint
	ewmaNumObjects       float64
	ewmaNumObjectsMass   float64
	overflows            uint64
	ewmaVictimHitDensity float64
	explorerBudget       int64

	recentlyAdmitted      []candidate.Candidate
	recentlyAdmittedValid []bool
	recentlyAdmittedHead  int
}

// New constructs an LHD policy. associativity is the number of live tags
// sampled per Rank call once the policy has warmed up (K during the first 50
// reconfigurations is fixed at 8, per spec). admissionSamples is the length
// of the recently-admitted ring.
func New(cache CacheHandle, associativity, admissionSamples uint32, rnd *xrand.Source) *Policy {
	if associativity == 0 {
		associativity = defaultAssociativity
	}
	if admissionSamples == 0 {
		admissionSamples = defaultAdmissionSamples
	}
	p := &Policy{
		cache:                 cache,
		rnd:                   rnd,
		associativity:         associativity,
		admissionSamples:      admissionSamples,
		indices:               make(map[candidate.Candidate]int),
		classes:               make([]*class, NumClasses),
		nextReconfiguration:   AccsPerReconfiguration,
		ageCoarseningShift:    10,
		explorerBudget:        int64(float64(cache.AvailableCapacity()) * ExplorerBudgetFraction),
		recentlyAdmitted:      make([]candidate.Candidate, admissionSamples),
		recentlyAdmittedValid: make([]bool, admissionSamples),
	}
	for c := range p.classes {
		p.classes[c] = newClass(c)
	}
	return p
}

// age returns the coarsened age of tag, incrementing the overflow counter
// whenever the coarsened age would not fit in [0, MaxAge).
func (p *Policy) age(tag *Tag) uint64 {
	raw := (p.timestamp - tag.Timestamp) >> p.ageCoarseningShift
	if raw >= MaxAge {
		p.overflows++
		return MaxAge - 1
	}
	return raw
}

// density estimates the hit density of tag: expected hits per byte-cycle.
func (p *Policy) density(tag *Tag) float64 {
	age := p.age(tag)
	if age == MaxAge-1 {
		return math.Inf(-1)
	}
	cl := p.classes[classID(tag)]
	d := cl.hitDensities[age] / float64(tag.Size)
	if tag.Explorer {
		d += 1.0
	}
	return d
}

// Rank nominates an eviction victim: the lowest-density tag among a random
// sample of live tags plus every still-resident entry of the
// recently-admitted ring.
func (p *Policy) Rank(req candidate.Request) candidate.Candidate {
	if len(p.tags) == 0 {
		panic("lhd: Rank called with no cached objects")
	}

	sampleSize := int(p.associativity)
	if p.numReconfigurations <= 50 {
		sampleSize = 8
	}

	victimIdx := -1
	victimDensity := math.Inf(1)

	for i := 0; i < sampleSize; i++ {
		idx := p.rnd.Intn(len(p.tags))
		if d := p.density(&p.tags[idx]); d < victimDensity {
			victimDensity = d
			victimIdx = idx
		}
	}

	for i := range p.recentlyAdmitted {
		if !p.recentlyAdmittedValid[i] {
			continue
		}
		idx, ok := p.indices[p.recentlyAdmitted[i]]
		if !ok {
			// Stale: the recently-admitted candidate has since been evicted.
			continue
		}
		if d := p.density(&p.tags[idx]); d < victimDensity {
			victimDensity = d
			victimIdx = idx
		}
	}

	if victimIdx < 0 {
		panic("lhd: Rank failed to select a victim")
	}

	p.ewmaVictimHitDensity = EWMADecay*p.ewmaVictimHitDensity + (1-EWMADecay)*victimDensity
	return p.tags[victimIdx].ID
}

// Update registers a touch (the candidate was already cached) or an
// insertion (it is new) and runs reconfiguration on its own cadence.
func (p *Policy) Update(id candidate.Candidate, req candidate.Request) {
	idx, exists := p.indices[id]

	var tag *Tag
	if !exists {
		p.tags = append(p.tags, Tag{})
		idx = len(p.tags) - 1
		tag = &p.tags[idx]
		p.indices[id] = idx

		tag.LastLastHitAge = MaxAge
		tag.LastHitAge = 0
		tag.ID = id
	} else {
		tag = &p.tags[idx]
		age := p.age(tag)
		cl := p.classes[classID(tag)]
		cl.hits[age]++
		if tag.Explorer {
			p.explorerBudget += int64(tag.Size)
		}
		tag.LastLastHitAge = tag.LastHitAge
		tag.LastHitAge = age
	}

	tag.Timestamp = p.timestamp
	tag.App = appClass(req.AppID)
	tag.Size = req.Size

	explore := p.rnd.Intn(ExploreInverseProbability) == 0
	if explore && p.explorerBudget > 0 && p.numReconfigurations < 50 {
		tag.Explorer = true
		p.explorerBudget -= int64(tag.Size)
	} else {
		tag.Explorer = false
	}

	if !exists && !explore && p.density(tag) < p.ewmaVictimHitDensity {
		slot := p.recentlyAdmittedHead % len(p.recentlyAdmitted)
		p.recentlyAdmitted[slot] = id
		p.recentlyAdmittedValid[slot] = true
		p.recentlyAdmittedHead++
	}

	p.timestamp++
	p.nextReconfiguration--
	if p.nextReconfiguration == 0 {
		p.reconfigure()
		p.nextReconfiguration = AccsPerReconfiguration
		p.numReconfigurations++
	}
}

// Replaced notifies the policy that id has been evicted from the cache.
func (p *Policy) Replaced(id candidate.Candidate) {
	idx, ok := p.indices[id]
	if !ok {
		panic("lhd: Replaced called for a candidate the policy doesn't track")
	}

	tag := p.tags[idx]
	age := p.age(&tag)
	cl := p.classes[classID(&tag)]
	cl.evictions[age]++
	if tag.Explorer {
		p.explorerBudget += int64(tag.Size)
	}

	delete(p.indices, id)
	last := len(p.tags) - 1
	p.tags[idx] = p.tags[last]
	p.tags = p.tags[:last]
	if idx < len(p.tags) {
		p.indices[p.tags[idx].ID] = idx
	}
}

// GetNrCachedObject is a diagnostic size query.
func (p *Policy) GetNrCachedObject() int {
	return len(p.tags)
}

// ToEvict is the cost/benefit admission gate used by the LHD-LHD build
// variant: it compares the blended density of the proposed victim set
// against the prospective density of the candidate itself, and declines
// eviction when the victims are collectively worth more than the candidate.
func (p *Policy) ToEvict(reqID candidate.Candidate, reqSize uint32, victims []candidate.Candidate) bool {
	// A freshly inserted tag starts with lastHitAge=0, lastLastHitAge=MaxAge
	// (see Update), whose sum makes hitAgeClass resolve to bucket 0 — so the
	// prospective class for a not-yet-admitted object is always bucket 0
	// within its app class.
	cl := p.classes[int(appClass(reqID.AppID))*HitAgeClasses]
	candidateDensity := cl.hitDensities[0] / float64(reqSize)

	var densitySum, sizeSum float64
	for _, v := range victims {
		idx, ok := p.indices[v]
		if !ok {
			continue
		}
		tag := &p.tags[idx]
		densitySum += p.density(tag)
		sizeSum += float64(tag.Size)
	}
	if sizeSum == 0 {
		return true
	}
	return densitySum/sizeSum < candidateDensity
}

// appClass maps an application identifier onto the fixed-size app-class
// dimension used for the per-class histograms.
func appClass(appID int32) uint32 {
	m := int32(AppClasses)
	c := appID % m
	if c < 0 {
		c += m
	}
	return uint32(c)
}
