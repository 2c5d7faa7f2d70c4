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

// Package sim supplies request sources for the simulator: a CSV trace
// reader and synthetic Zipfian/uniform generators, each exposed as a
// Source — a pull-based stream of candidate.Request values.
package sim

import (
	"bufio"
	"io"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/yipkeikwok/LHD/candidate"
)

// ErrDone signals a Source has no more requests.
var ErrDone = errors.New("sim: no more requests")

// Source is a pull-based stream of trace requests.
type Source func() (candidate.Request, error)

// ParseCSV returns a Source that reads "appId,objectId,size,type" lines from
// r. type is optional and defaults to GET; any unrecognized value is also
// treated as GET, matching the data model's two-way RequestType split.
func ParseCSV(r io.Reader) Source {
	br := bufio.NewReader(r)
	return func() (candidate.Request, error) {
		for {
			line, err := br.ReadString('\n')
			line = strings.TrimSpace(line)
			if line == "" {
				if err != nil {
					return candidate.Request{}, ErrDone
				}
				continue
			}
			req, perr := parseLine(line)
			if perr != nil {
				return candidate.Request{}, errors.Wrapf(ErrTraceLine, "%v: %q", perr, line)
			}
			return req, nil
		}
	}
}

// ErrTraceLine wraps a malformed CSV trace line.
var ErrTraceLine = errors.New("sim: malformed trace line")

func parseLine(line string) (candidate.Request, error) {
	cols := strings.Split(line, ",")
	if len(cols) < 3 {
		return candidate.Request{}, errors.New("expected at least appId,objectId,size")
	}
	appID, err := strconv.ParseInt(strings.TrimSpace(cols[0]), 10, 32)
	if err != nil {
		return candidate.Request{}, errors.Wrap(err, "appId")
	}
	objectID, err := strconv.ParseInt(strings.TrimSpace(cols[1]), 10, 64)
	if err != nil {
		return candidate.Request{}, errors.Wrap(err, "objectId")
	}
	size, err := strconv.ParseUint(strings.TrimSpace(cols[2]), 10, 32)
	if err != nil {
		return candidate.Request{}, errors.Wrap(err, "size")
	}
	req := candidate.Request{
		AppID:    int32(appID),
		ObjectID: objectID,
		Size:     uint32(size),
		Type:     candidate.GET,
	}
	if len(cols) >= 4 && strings.EqualFold(strings.TrimSpace(cols[3]), "other") {
		req.Type = candidate.OTHER
	}
	return req, nil
}

// NewZipfian returns a Source of synthetic GET requests whose object IDs
// follow a Zipf distribution (s, v parameterize the distribution per
// math/rand/rand.Zipf; object IDs fall in [0, n]). Every
// request has the given fixed size and app ID 0.
func NewZipfian(s, v float64, n uint64, size uint32) Source {
	z := rand.NewZipf(rand.New(rand.NewSource(time.Now().UnixNano())), s, v, n)
	return func() (candidate.Request, error) {
		return candidate.Request{ObjectID: int64(z.Uint64()), Size: size, Type: candidate.GET}, nil
	}
}

// NewUniform returns a Source of synthetic GET requests whose object IDs are
// drawn uniformly from [0, n).
func NewUniform(n uint64, size uint32) Source {
	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	m := int64(n)
	return func() (candidate.Request, error) {
		return candidate.Request{ObjectID: r.Int63n(m), Size: size, Type: candidate.GET}, nil
	}
}

// Collect pulls up to n requests from src, stopping early on ErrDone.
func Collect(src Source, n int) ([]candidate.Request, error) {
	out := make([]candidate.Request, 0, n)
	for i := 0; i < n; i++ {
		req, err := src()
		if err == ErrDone {
			break
		}
		if err != nil {
			return out, err
		}
		out = append(out, req)
	}
	return out, nil
}
