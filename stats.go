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

package lhdsim

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
)

// Stats is a snapshot of performance counters for the lifetime of a Cache.
// The fields are plain, unsynchronized counters: a Cache is single-threaded,
// so there is nothing to shard or guard with atomics.
type Stats struct {
	Accesses                    uint64
	Hits                        uint64
	Misses                      uint64
	CompulsoryMisses            uint64
	Fills                       uint64
	Evictions                   uint64
	AccessesTriggeringEvictions uint64
	MissesTriggeringEvictions   uint64
	CumulativeAllocatedSpace    uint64
	CumulativeFilledSpace       uint64
	CumulativeEvictedSpace      uint64
	WarmupMisses                uint64
}

// Snapshot pairs a Stats value with the capacity figures needed to render a
// progress line or a final report.
type Snapshot struct {
	Stats
	AvailableCapacity uint64
	ConsumedCapacity  uint64
}

// Snapshot captures s alongside the given capacity figures.
func (s Stats) Snapshot(availableCapacity, consumedCapacity uint64) Snapshot {
	return Snapshot{Stats: s, AvailableCapacity: availableCapacity, ConsumedCapacity: consumedCapacity}
}

// HitRatio is Hits over all accesses (Hits + Misses).
func (s Stats) HitRatio() float64 {
	if s.Accesses == 0 {
		return 0
	}
	return float64(s.Hits) / float64(s.Accesses)
}

// NonCompulsoryHitRatio is Hits over accesses that were not the first touch
// of their object.
func (s Stats) NonCompulsoryHitRatio() float64 {
	denom := s.Accesses - s.CompulsoryMisses
	if denom == 0 {
		return 0
	}
	return float64(s.Hits) / float64(denom)
}

// WarmMissRatio is the miss ratio excluding warm-up accesses and misses.
func (s Stats) WarmMissRatio(warmupAccesses uint64) float64 {
	denom := s.Accesses - warmupAccesses
	if denom == 0 {
		return 0
	}
	return float64(s.Misses-s.WarmupMisses) / float64(denom)
}

// Progress renders a one-line progress summary, the Go analogue of the
// original simulator's periodic "Stats: hits, misses, fills, ..." line.
func (sn Snapshot) Progress() string {
	return fmt.Sprintf("Stats: %d, %d, %d, %d, %.2f%%",
		sn.Hits, sn.Misses, sn.Fills, sn.CompulsoryMisses, 100*sn.HitRatio())
}

// Report renders the full end-of-run statistics dump, mirroring
// cache.hpp's dumpStats() layout with byte sizes humanized.
func (sn Snapshot) Report(warmupAccesses uint64) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Accesses: %d\t(%s)\n", sn.Accesses, humanize.IBytes(sn.CumulativeAllocatedSpace))
	fmt.Fprintf(&b, "Hits: %d %.2f%%\n", sn.Hits, 100*sn.HitRatio())
	fmt.Fprintf(&b, "Misses: %d %.2f%%\n", sn.Misses-sn.WarmupMisses, 100*sn.WarmMissRatio(warmupAccesses))
	fmt.Fprintf(&b, "Compulsory misses: %d %.2f%%\n", sn.CompulsoryMisses, 100*float64(sn.CompulsoryMisses)/float64(sn.Accesses))
	fmt.Fprintf(&b, "Non-compulsory hit rate: %.2f%%\n", 100*sn.NonCompulsoryHitRatio())
	fmt.Fprintf(&b, "  > Fills: %d %.2f%%\t(%s)\n", sn.Fills, 100*float64(sn.Fills)/float64(sn.Accesses), humanize.IBytes(sn.CumulativeFilledSpace))
	fmt.Fprintf(&b, "  > Misses triggering evictions: %d %.2f%%\n", sn.MissesTriggeringEvictions, 100*float64(sn.MissesTriggeringEvictions)/float64(sn.Accesses))
	fmt.Fprintf(&b, "  > Evictions: %d %.2f%%\t(%s)\n", sn.Evictions, 100*float64(sn.Evictions)/float64(sn.Accesses), humanize.IBytes(sn.CumulativeEvictedSpace))
	if sn.AccessesTriggeringEvictions > 0 {
		fmt.Fprintf(&b, "  > Accesses triggering evictions: %d (%.2f evictions per trigger)\n",
			sn.AccessesTriggeringEvictions, float64(sn.Evictions)/float64(sn.AccessesTriggeringEvictions))
	}
	fmt.Fprintf(&b, "  > Warmup misses: %d\n", sn.WarmupMisses)
	fmt.Fprintf(&b, "  > Warmup accesses: %d\n", warmupAccesses)
	fmt.Fprintf(&b, "  > Capacity: %s / %s\n", humanize.IBytes(sn.ConsumedCapacity), humanize.IBytes(sn.AvailableCapacity))
	return b.String()
}
