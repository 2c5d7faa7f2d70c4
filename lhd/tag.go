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

import "github.com/yipkeikwok/LHD/candidate"

// Constants reproduced exactly from the original LHD paper and reference
// implementation.
const (
	HitAgeClasses               = 16
	AppClasses                  = 16
	NumClasses                  = HitAgeClasses * AppClasses
	MaxAge                      = 20000
	AccsPerReconfiguration      = 1 << 20
	EWMADecay                   = 0.9
	ExplorerBudgetFraction      = 0.01
	ExploreInverseProbability   = 32
	AgeCoarseningErrorTolerance = 0.01

	// defaultAssociativity and defaultAdmissionSamples back the zero-value
	// Config: New substitutes them whenever the caller passes zero, as
	// happens when a run configuration omits either field.
	defaultAssociativity    = 32
	defaultAdmissionSamples = 8
)

// Tag is the per-object metadata the policy keeps for every cached object.
type Tag struct {
	Timestamp      uint64
	LastHitAge     uint64
	LastLastHitAge uint64
	App            uint32
	ID             candidate.Candidate
	Size           uint32
	Explorer       bool
}

// class aggregates per-(hitAgeClass, appClass) histograms.
type class struct {
	hits           []float64
	evictions      []float64
	totalHits      float64
	totalEvictions float64
	hitDensities   []float64
}

func newClass(classID int) *class {
	cl := &class{
		hits:         make([]float64, MaxAge),
		evictions:    make([]float64, MaxAge),
		hitDensities: make([]float64, MaxAge),
	}
	// GDSF warm start (see original LHD::LHD()): without this, every class
	// looks equally worthless until the first reconfiguration pass has
	// enough data to estimate real densities.
	for a := 0; a < MaxAge; a++ {
		cl.hitDensities[a] = float64(classID+1) / float64(a+1)
	}
	return cl
}

// hitAgeClass buckets a (lastHitAge + lastLastHitAge) sum into one of
// HitAgeClasses buckets by counting left-shifts until it would meet or
// exceed MaxAge.
func hitAgeClass(age uint64) uint32 {
	if age == 0 {
		return HitAgeClasses - 1
	}
	var log uint32
	for age < MaxAge && log < HitAgeClasses-1 {
		age <<= 1
		log++
	}
	return log
}

func classID(tag *Tag) int {
	return int(tag.App)*HitAgeClasses + int(hitAgeClass(tag.LastHitAge+tag.LastLastHitAge))
}
