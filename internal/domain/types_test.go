/*
 * Copyright (c) 2025 by Jules Collenne.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package domain

import (
	"path/filepath"
	"testing"
)

func TestPageRefLabel(t *testing.T) {
	p := PageRef{SourcePath: filepath.Join("some", "dir", "report.pdf"), PageIndex: 2}
	if got, want := p.Label(), "report.pdf · page 3"; got != want {
		t.Fatalf("Label() = %q, want %q", got, want)
	}
}

func TestPageRefEquality(t *testing.T) {
	a := PageRef{SourcePath: "/a.pdf", PageIndex: 0}
	b := PageRef{SourcePath: "/a.pdf", PageIndex: 0}
	c := PageRef{SourcePath: "/a.pdf", PageIndex: 1}
	if a != b {
		t.Fatalf("identical refs compare unequal")
	}
	if a == c {
		t.Fatalf("refs with different page index compare equal")
	}
}

func TestPageNumberIsOneBased(t *testing.T) {
	p := PageRef{SourcePath: "/a.pdf", PageIndex: 0}
	if p.PageNumber() != 1 {
		t.Fatalf("PageNumber() = %d, want 1", p.PageNumber())
	}
}
