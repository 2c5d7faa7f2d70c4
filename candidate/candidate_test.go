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

package candidate

import "testing"

func TestOfIgnoresSizeAndType(t *testing.T) {
	a := Of(Request{AppID: 1, ObjectID: 2, Size: 10, Type: GET})
	b := Of(Request{AppID: 1, ObjectID: 2, Size: 999, Type: OTHER})
	if a != b {
		t.Fatalf("Of should ignore Size and Type, got %+v != %+v", a, b)
	}
}

func TestCandidateEqualityIsByValue(t *testing.T) {
	a := Candidate{AppID: 1, ObjectID: 2}
	b := Candidate{AppID: 1, ObjectID: 2}
	c := Candidate{AppID: 1, ObjectID: 3}
	if a != b {
		t.Fatal("identical fields should compare equal")
	}
	if a == c {
		t.Fatal("different object ids should compare unequal")
	}
}
