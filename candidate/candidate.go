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

// Package candidate defines the compound cache key and the request record
// that flows from a trace source into the cache engine.
package candidate

// RequestType distinguishes the request kinds a trace can carry. Only GET
// requests participate in the cache; everything else is ignored by the
// engine.
type RequestType uint8

const (
	GET RequestType = iota
	OTHER
)

// Request is an immutable trace record.
type Request struct {
	AppID    int32
	ObjectID int64
	Size     uint32
	Type     RequestType
}

// Candidate is the compound key (appId, objectId). It is a plain comparable
// struct so it can be used directly as a Go map key with componentwise
// equality.
type Candidate struct {
	AppID    int32
	ObjectID int64
}

// Of builds the candidate key identifying req.
func Of(req Request) Candidate {
	return Candidate{AppID: req.AppID, ObjectID: req.ObjectID}
}
