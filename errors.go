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

import "github.com/pkg/errors"

// Sentinel error classes for the simulator core. All three are fatal — there
// is no recoverable error path once one is raised.
var (
	// ErrTraceMalformed covers a non-positive request size or a request
	// whose size would never fit (size >= availableCapacity).
	ErrTraceMalformed = errors.New("lhdsim: malformed trace request")

	// ErrInvariantViolation covers a victim missing from the size map, or
	// any other internal bookkeeping mismatch the engine detects.
	ErrInvariantViolation = errors.New("lhdsim: invariant violation")

	// ErrConfiguration covers a refusal to start: zero capacity, a nil
	// policy, or (lhdlhd build) a policy without ToEvict.
	ErrConfiguration = errors.New("lhdsim: invalid configuration")
)

// errorf wraps one of the sentinel error classes above with call-site detail.
func errorf(class error, format string, args ...interface{}) error {
	return errors.Wrapf(class, format, args...)
}

// invariant panics with a wrapped ErrInvariantViolation when cond is false.
// This is a programmer error, not a recoverable condition, so we report and
// halt rather than try to limp onward with corrupted state.
func invariant(cond bool, format string, args ...interface{}) {
	if cond {
		return
	}
	panic(errors.Wrapf(ErrInvariantViolation, format, args...))
}
