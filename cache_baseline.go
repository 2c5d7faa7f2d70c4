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

//go:build !lhdlhd

package lhdsim

import "github.com/yipkeikwok/LHD/candidate"

// runEvictionLoop is the baseline variant: evict ranked victims until the
// incoming request fits, unconditionally. This is the loop cache.hpp's
// access() runs when the simulator is not built with the cost/benefit
// admission gate.
func (c *Cache) runEvictionLoop(id candidate.Candidate, req candidate.Request, firstTimeAccess bool) (evicted uint32, evictedSpace uint64, admitted bool, err error) {
	for c.consumedCapacity+uint64(req.Size) > c.availableCapacity {
		victim := c.policy.Rank(req)

		// The ranked victim may be the object that just hit: don't free its
		// space twice, since it was already subtracted above and sizeMap[id]
		// is about to be overwritten with the new size unconditionally.
		if victim == id {
			c.policy.Replaced(victim)
			continue
		}

		size, err := c.evict(victim)
		if err != nil {
			return evicted, evictedSpace, false, err
		}
		evicted++
		evictedSpace += uint64(size)
	}
	return evicted, evictedSpace, true, nil
}
