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

// Package lhdsim is a trace-driven cache simulator. It replays a sequence of
// GET requests against a capacity-bounded cache and reports the hit ratio and
// space-accounting statistics a cache-replacement policy produces, without
// ever storing the requests' actual values — only their size.
package lhdsim

import (
	"github.com/yipkeikwok/LHD/candidate"
)

// Policy is the eviction/admission engine a Cache delegates to. lhd.Policy
// satisfies this interface structurally; nothing in this package imports lhd
// directly so that an alternative policy can be substituted in tests.
type Policy interface {
	// Update notifies the policy of a touch (id already cached) or an
	// insertion (id new to the cache).
	Update(id candidate.Candidate, req candidate.Request)
	// Replaced notifies the policy that id has just been evicted.
	Replaced(id candidate.Candidate)
	// Rank nominates an eviction victim among the currently cached objects.
	Rank(req candidate.Request) candidate.Candidate
	// GetNrCachedObject reports how many objects the policy believes are
	// currently resident, for diagnostics.
	GetNrCachedObject() int
}

// Cache is a single-threaded, capacity-bounded simulation of an object cache.
// It is not safe for concurrent use: a trace is replayed strictly in order by
// one goroutine, and the policy underneath (lhd.Policy in particular) keeps
// unsynchronized internal state that depends on that ordering.
type Cache struct {
	policy Policy

	sizeMap       map[candidate.Candidate]uint32
	historyAccess map[candidate.Candidate]bool

	availableCapacity uint64
	consumedCapacity  uint64

	warmupAccesses uint64
	statsInterval  uint64

	stats Stats

	// OnProgress, if set, is invoked every statsInterval accesses with a
	// snapshot of the running counters. Used by cmd/lhdsim to print a
	// progress line; nil by default.
	OnProgress func(Snapshot)
}

// Config configures a new Cache.
type Config struct {
	// AvailableCapacity is the total byte budget the cache may consume.
	AvailableCapacity uint64
	// WarmupAccesses is the number of leading accesses whose misses are
	// excluded from the steady-state miss ratio.
	WarmupAccesses uint64
	// StatsInterval is how often (in accesses) OnProgress fires. Zero
	// disables progress callbacks.
	StatsInterval uint64
}

// NewCache returns a new Cache wired to policy, or a wrapped ErrConfiguration
// if cfg is invalid.
func NewCache(cfg Config, policy Policy) (*Cache, error) {
	if cfg.AvailableCapacity == 0 {
		return nil, errorf(ErrConfiguration, "AvailableCapacity must be non-zero")
	}
	if policy == nil {
		return nil, errorf(ErrConfiguration, "policy must not be nil")
	}
	return &Cache{
		policy:            policy,
		sizeMap:           make(map[candidate.Candidate]uint32),
		historyAccess:     make(map[candidate.Candidate]bool),
		availableCapacity: cfg.AvailableCapacity,
		warmupAccesses:    cfg.WarmupAccesses,
		statsInterval:     cfg.StatsInterval,
	}, nil
}

// AvailableCapacity satisfies lhd.CacheHandle.
func (c *Cache) AvailableCapacity() uint64 { return c.availableCapacity }

// NumObjects satisfies lhd.CacheHandle and reports the number of distinct
// objects currently resident.
func (c *Cache) NumObjects() int { return len(c.sizeMap) }

// ConsumedCapacity reports the sum of sizes of objects currently resident.
func (c *Cache) ConsumedCapacity() uint64 { return c.consumedCapacity }

// Stats returns a point-in-time copy of the running counters.
func (c *Cache) Stats() Stats { return c.stats }

// Access replays a single GET request against the cache. Non-GET request
// types are accepted but are no-ops, mirroring a trace format that can carry
// request kinds the simulator does not model.
func (c *Cache) Access(req candidate.Request) error {
	if req.Type != candidate.GET {
		return nil
	}
	if req.Size == 0 {
		return errorf(ErrTraceMalformed, "request size must be positive (app=%d object=%d)", req.AppID, req.ObjectID)
	}
	if uint64(req.Size) >= c.availableCapacity {
		return errorf(ErrTraceMalformed, "request size %d does not fit in capacity %d", req.Size, c.availableCapacity)
	}

	id := candidate.Of(req)
	cachedSize, hit := c.sizeMap[id]

	firstTimeAccess := !c.historyAccess[id]
	if firstTimeAccess {
		c.stats.CompulsoryMisses++
		c.historyAccess[id] = true
	}

	if hit {
		c.stats.Hits++
	} else {
		if c.stats.Accesses < c.warmupAccesses {
			c.stats.WarmupMisses++
		}
		c.stats.Misses++
	}
	c.stats.Accesses++

	if c.statsInterval > 0 && c.stats.Accesses%c.statsInterval == 0 && c.OnProgress != nil {
		c.OnProgress(c.stats.Snapshot(c.availableCapacity, c.consumedCapacity))
	}

	if hit {
		c.consumedCapacity -= uint64(cachedSize)
	}

	evicted, evictedSpace, admitted, err := c.runEvictionLoop(id, req, firstTimeAccess)
	if err != nil {
		return err
	}

	if !admitted {
		// The admission gate declined to make room (LHD-LHD build only): the
		// object that just hit keeps its old cached size, nothing new is
		// inserted, and the policy is not updated for this access.
		if hit {
			c.consumedCapacity += uint64(cachedSize)
		}
		return nil
	}

	if evicted > 0 {
		c.stats.AccessesTriggeringEvictions++
	}
	c.stats.Evictions += uint64(evicted)
	c.stats.CumulativeEvictedSpace += evictedSpace

	if hit {
		if req.Size > cachedSize {
			c.stats.CumulativeAllocatedSpace += uint64(req.Size - cachedSize)
		}
	} else {
		c.stats.CumulativeAllocatedSpace += uint64(req.Size)
		if evicted == 0 {
			c.stats.Fills++
			c.stats.CumulativeFilledSpace += uint64(req.Size)
		} else {
			c.stats.MissesTriggeringEvictions++
		}
	}

	c.sizeMap[id] = req.Size
	c.consumedCapacity += uint64(req.Size)

	invariant(c.consumedCapacity <= c.availableCapacity,
		"consumed capacity %d exceeds available capacity %d after admitting %v",
		c.consumedCapacity, c.availableCapacity, id)

	c.policy.Update(id, req)
	return nil
}

// evict removes victim from the cache's own bookkeeping and notifies the
// policy. It is shared by both build-tag eviction-loop variants.
func (c *Cache) evict(victim candidate.Candidate) (size uint32, err error) {
	size, ok := c.sizeMap[victim]
	if !ok {
		return 0, errorf(ErrInvariantViolation, "policy selected untracked victim %v", victim)
	}
	c.policy.Replaced(victim)
	delete(c.sizeMap, victim)
	c.consumedCapacity -= uint64(size)
	return size, nil
}
