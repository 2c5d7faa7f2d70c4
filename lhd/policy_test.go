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

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/yipkeikwok/LHD/candidate"
	"github.com/yipkeikwok/LHD/xrand"
)

type fakeHandle struct {
	available uint64
	numObj    int
}

func (h *fakeHandle) AvailableCapacity() uint64 { return h.available }
func (h *fakeHandle) NumObjects() int           { return h.numObj }

func reqAt(app int32, id int64, size uint32) candidate.Request {
	return candidate.Request{AppID: app, ObjectID: id, Size: size, Type: candidate.GET}
}

func TestUpdateInsertsNewTag(t *testing.T) {
	h := &fakeHandle{available: 1000}
	p := New(h, 4, 4, xrand.New(1))

	r := reqAt(1, 1, 10)
	id := candidate.Of(r)
	p.Update(id, r)

	require.Equal(t, 1, p.GetNrCachedObject())
	idx, ok := p.indices[id]
	require.True(t, ok)
	require.Equal(t, uint64(10), uint64(p.tags[idx].Size))
}

func TestUpdateTouchKeepsOneTag(t *testing.T) {
	h := &fakeHandle{available: 1000}
	p := New(h, 4, 4, xrand.New(1))

	r := reqAt(1, 1, 10)
	id := candidate.Of(r)
	p.Update(id, r)
	p.Update(id, r)

	require.Equal(t, 1, p.GetNrCachedObject(), "a touch must not insert a second tag")
}

func TestRankReturnsAResidentCandidate(t *testing.T) {
	h := &fakeHandle{available: 1000}
	p := New(h, 4, 4, xrand.New(7))

	ids := make(map[candidate.Candidate]bool)
	for i := int64(0); i < 10; i++ {
		r := reqAt(1, i, 10)
		id := candidate.Of(r)
		p.Update(id, r)
		ids[id] = true
	}

	victim := p.Rank(reqAt(1, 999, 10))
	require.True(t, ids[victim], "Rank must return one of the resident candidates")
}

func TestRankPanicsWhenEmpty(t *testing.T) {
	h := &fakeHandle{available: 1000}
	p := New(h, 4, 4, xrand.New(1))
	require.Panics(t, func() { p.Rank(reqAt(1, 1, 10)) })
}

func TestReplacedRemovesTagAndPreservesOthers(t *testing.T) {
	h := &fakeHandle{available: 1000}
	p := New(h, 4, 4, xrand.New(1))

	var ids []candidate.Candidate
	for i := int64(0); i < 5; i++ {
		r := reqAt(1, i, 10)
		id := candidate.Of(r)
		p.Update(id, r)
		ids = append(ids, id)
	}

	victim := ids[2]
	p.Replaced(victim)

	require.Equal(t, 4, p.GetNrCachedObject())
	_, ok := p.indices[victim]
	require.False(t, ok, "evicted candidate must be removed from the index map")

	for i, id := range ids {
		if id == victim {
			continue
		}
		idx, ok := p.indices[id]
		require.True(t, ok, "candidate %d should still be tracked", i)
		require.Equal(t, id, p.tags[idx].ID, "index must point at the matching tag after swap-and-pop")
	}
}

func TestReplacedPanicsOnUnknownCandidate(t *testing.T) {
	h := &fakeHandle{available: 1000}
	p := New(h, 4, 4, xrand.New(1))
	require.Panics(t, func() { p.Replaced(candidate.Candidate{AppID: 1, ObjectID: 1}) })
}

func TestToEvictAcceptsEmptyVictimSet(t *testing.T) {
	h := &fakeHandle{available: 1000}
	p := New(h, 4, 4, xrand.New(1))
	require.True(t, p.ToEvict(candidate.Candidate{AppID: 1, ObjectID: 1}, 10, nil),
		"an empty victim set should never be preferred over any admission")
}

func TestRankIsDeterministicGivenSameSeed(t *testing.T) {
	run := func() candidate.Candidate {
		h := &fakeHandle{available: 1000}
		p := New(h, 4, 4, xrand.New(42))
		for i := int64(0); i < 20; i++ {
			r := reqAt(1, i, 10)
			p.Update(candidate.Of(r), r)
		}
		return p.Rank(reqAt(1, 999, 10))
	}

	a, b := run(), run()
	require.Equal(t, a, b, "the same seed and update sequence must nominate the same victim")
}

func TestAppClassHandlesNegativeIDs(t *testing.T) {
	c := appClass(-1)
	require.GreaterOrEqual(t, int(c), 0)
	require.Less(t, int(c), AppClasses)
}
