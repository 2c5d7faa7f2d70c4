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

//go:build lhdlhd

package lhdsim

import "github.com/yipkeikwok/LHD/candidate"

// evictor is implemented by policies that support the LHD-LHD cost/benefit
// admission gate. A *lhd.Policy built with this build tag satisfies it.
type evictor interface {
	ToEvict(reqID candidate.Candidate, reqSize uint32, victims []candidate.Candidate) bool
}

// lhdLHDMaxRounds scales the bound on how many sampling rounds
// runEvictionLoop will spend trying to build a victim set large enough to
// free requestSize bytes before giving up and declining admission: the bound
// is lhdLHDMaxRounds * (availableCapacity/requestSize + 1). Declining is a safe default: the
// request is simply not cached this time, not a fatal condition.
const lhdLHDMaxRounds = 2

// runEvictionLoop is the LHD-LHD variant: it gathers a candidate victim set
// large enough to fit the incoming request, then asks the policy whether the
// blended density of that set is actually worse than admitting the new
// object. If not, the request is declined rather than evicted for, unless
// this is the object's first-ever access, which is always forced through.
func (c *Cache) runEvictionLoop(id candidate.Candidate, req candidate.Request, firstTimeAccess bool) (evicted uint32, evictedSpace uint64, admitted bool, err error) {
	ev, ok := c.policy.(evictor)
	if !ok {
		return 0, 0, false, errorf(ErrConfiguration, "lhdlhd build requires a policy implementing ToEvict")
	}

	needed := c.consumedCapacity + uint64(req.Size)
	if needed <= c.availableCapacity {
		return 0, 0, true, nil
	}

	seen := make(map[candidate.Candidate]bool)
	var victims []candidate.Candidate
	freed := uint64(0)
	maxRounds := lhdLHDMaxRounds * int(c.availableCapacity/uint64(req.Size)+1)

	for round := 0; needed-freed > c.availableCapacity; round++ {
		if round >= maxRounds {
			// Could not assemble a victim set large enough in a bounded
			// number of rounds: decline admission rather than fall back to
			// a size-descending sweep.
			return 0, 0, false, nil
		}
		victim := c.policy.Rank(req)
		if victim == id || seen[victim] {
			continue
		}
		size, ok := c.sizeMap[victim]
		if !ok {
			return 0, 0, false, errorf(ErrInvariantViolation, "policy selected untracked victim %v", victim)
		}
		seen[victim] = true
		victims = append(victims, victim)
		freed += uint64(size)
	}

	if !firstTimeAccess && !ev.ToEvict(id, req.Size, victims) {
		// Declining admission: no Update call, no eviction. The request
		// simply passes through uncached, per the safe-default resolution.
		// A compulsory miss (firstTimeAccess) always forces the victim set
		// through instead, so every object is given at least one chance.
		return 0, 0, false, nil
	}

	for _, victim := range victims {
		size, err := c.evict(victim)
		if err != nil {
			return evicted, evictedSpace, false, err
		}
		evicted++
		evictedSpace += uint64(size)
	}
	return evicted, evictedSpace, true, nil
}
