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

// Command lhdsim replays a trace file against an LHD-backed cache and
// prints the resulting hit ratio and space-accounting statistics.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/pkg/errors"
	lhdsim "github.com/yipkeikwok/LHD"
	"github.com/yipkeikwok/LHD/config"
	"github.com/yipkeikwok/LHD/lhd"
	"github.com/yipkeikwok/LHD/sim"
	"github.com/yipkeikwok/LHD/xrand"
)

var flagConfig = flag.String("config", "", "Path to the YAML run configuration.")

func main() {
	flag.Parse()
	if *flagConfig == "" {
		log.Fatalf("%+v", errors.New("lhdsim: -config is required"))
	}
	if err := run(*flagConfig); err != nil {
		log.Fatalf("%+v", err)
	}
}

func run(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	f, err := os.Open(cfg.TracePath)
	if err != nil {
		return errors.Wrapf(err, "opening trace %s", cfg.TracePath)
	}
	defer f.Close()
	trace := sim.ParseCSV(f)

	rnd := xrand.NewSeeded(cfg.Seed)

	cache, err := wireCache(cfg, rnd)
	if err != nil {
		return err
	}

	cache.OnProgress = func(sn lhdsim.Snapshot) {
		fmt.Println(sn.Progress())
	}

	for {
		req, err := trace()
		if err == sim.ErrDone {
			break
		}
		if err != nil {
			return err
		}
		if err := cache.Access(req); err != nil {
			return err
		}
	}

	fmt.Print(cache.Stats().Snapshot(cache.AvailableCapacity(), cache.ConsumedCapacity()).Report(cfg.WarmupAccesses))
	return nil
}

// wireCache builds the handle/policy pair: a placeholder cacheHandle is
// constructed first so lhd.New has a CacheHandle to read
// AvailableCapacity/NumObjects from, then the real Cache is built against
// the resulting policy and back-filled into the handle.
func wireCache(cfg config.Config, rnd *xrand.Source) (*lhdsim.Cache, error) {
	handle := &cacheHandle{availableCapacity: cfg.AvailableCapacity}
	policy := lhd.New(handle, cfg.Associativity, cfg.AdmissionSamples, rnd)
	cache, err := lhdsim.NewCache(lhdsim.Config{
		AvailableCapacity: cfg.AvailableCapacity,
		WarmupAccesses:    cfg.WarmupAccesses,
		StatsInterval:     cfg.StatsInterval,
	}, policy)
	if err != nil {
		return nil, err
	}
	handle.cache = cache
	return cache, nil
}

// cacheHandle defers to the real *lhdsim.Cache once it exists, breaking the
// construction-order cycle between Cache (needs a Policy) and lhd.Policy
// (needs a CacheHandle).
type cacheHandle struct {
	availableCapacity uint64
	cache             *lhdsim.Cache
}

func (h *cacheHandle) AvailableCapacity() uint64 {
	if h.cache != nil {
		return h.cache.AvailableCapacity()
	}
	return h.availableCapacity
}

func (h *cacheHandle) NumObjects() int {
	if h.cache != nil {
		return h.cache.NumObjects()
	}
	return 0
}
