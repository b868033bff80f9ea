/*
 * Copyright (c) 2025 by Jules Collenne.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package arrange implements the ordered page arrangement and the drag
// reordering machinery on top of it: the arrangement itself (the single
// source of truth for export order), the drop planner that maps a pointer
// position over a wrapping grid to an insertion point, and the drag session
// that ties the two together for one gesture.
//
// Everything here runs on the UI event goroutine; there is no internal
// locking. Index arguments that fall outside the current bounds are ignored
// or clamped rather than reported, since they come from coordinate math, not
// from user input.
package arrange

import (
	"sort"

	"github.com/JulesCollenne/pdfkiwi/internal/domain"
)

// Arrangement is an ordered, mutable sequence of page references. Indices are
// always contiguous 0..Len()-1; every mutation is atomic with respect to
// index consistency.
type Arrangement struct {
	refs []domain.PageRef
}

// New returns an empty arrangement.
func New() *Arrangement { return &Arrangement{} }

// Len reports the number of pages.
func (a *Arrangement) Len() int { return len(a.refs) }

// At returns the ref at index i. It panics on out-of-range access; callers
// hold indices obtained from the current state.
func (a *Arrangement) At(i int) domain.PageRef { return a.refs[i] }

// Append adds the given refs to the end in the given order.
func (a *Arrangement) Append(refs ...domain.PageRef) {
	a.refs = append(a.refs, refs...)
}

// RemoveAt removes the pages at the given indices as one atomic step:
// removing {1,3} from a five-page arrangement keeps the pages that were at
// {0,2,4}, renumbered to {0,1,2}. Duplicate and out-of-range indices are
// ignored.
func (a *Arrangement) RemoveAt(indices []int) {
	if len(indices) == 0 || len(a.refs) == 0 {
		return
	}
	drop := make(map[int]bool, len(indices))
	for _, i := range indices {
		if i >= 0 && i < len(a.refs) {
			drop[i] = true
		}
	}
	if len(drop) == 0 {
		return
	}
	kept := a.refs[:0]
	for i, r := range a.refs {
		if !drop[i] {
			kept = append(kept, r)
		}
	}
	a.refs = kept
}

// Relocate moves the pages at the selected indices so they become contiguous
// at the insertion point target, preserving the relative order of both the
// selected and the unselected pages.
//
// The target index is interpreted against the sequence as it looked before
// the move; the applied position is target minus the number of selected
// indices below it (remove-then-insert-by-adjusted-index). Target is clamped
// to [0, Len]; selected indices outside the current bounds are ignored.
func (a *Arrangement) Relocate(selected []int, target int) {
	sel := normalizeIndices(selected, len(a.refs))
	if len(sel) == 0 {
		return
	}
	if target < 0 {
		target = 0
	}
	if target > len(a.refs) {
		target = len(a.refs)
	}

	adjusted := target
	picked := make(map[int]bool, len(sel))
	for _, i := range sel {
		picked[i] = true
		if i < target {
			adjusted--
		}
	}

	moved := make([]domain.PageRef, 0, len(sel))
	remaining := make([]domain.PageRef, 0, len(a.refs)-len(sel))
	for i, r := range a.refs {
		if picked[i] {
			moved = append(moved, r)
		} else {
			remaining = append(remaining, r)
		}
	}
	if adjusted > len(remaining) {
		adjusted = len(remaining)
	}

	out := make([]domain.PageRef, 0, len(a.refs))
	out = append(out, remaining[:adjusted]...)
	out = append(out, moved...)
	out = append(out, remaining[adjusted:]...)
	a.refs = out
}

// Clear empties the arrangement.
func (a *Arrangement) Clear() { a.refs = nil }

// Snapshot returns a copy of the current ordered sequence. The copy is
// independent of later mutations, so a slow export can consume it while the
// user keeps editing.
func (a *Arrangement) Snapshot() []domain.PageRef {
	out := make([]domain.PageRef, len(a.refs))
	copy(out, a.refs)
	return out
}

// normalizeIndices sorts, dedupes and bounds-checks an index set.
func normalizeIndices(indices []int, n int) []int {
	seen := make(map[int]bool, len(indices))
	out := make([]int, 0, len(indices))
	for _, i := range indices {
		if i >= 0 && i < n && !seen[i] {
			seen[i] = true
			out = append(out, i)
		}
	}
	sort.Ints(out)
	return out
}
