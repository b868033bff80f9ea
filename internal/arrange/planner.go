/*
 * Copyright (c) 2025 by Jules Collenne.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package arrange

import "sort"

// Basic 2D geometry in the scrolling container's local coordinate space.
// Float values use float32 to align with UI toolkits.

// Pt is a 2D point.
type Pt struct{ X, Y float32 }

// Rect is an axis-aligned rectangle defined by min corner and size.
type Rect struct {
	X, Y float32
	W, H float32
}

func R(x, y, w, h float32) Rect { return Rect{X: x, Y: y, W: w, H: h} }

func (r Rect) Left() float32    { return r.X }
func (r Rect) Right() float32   { return r.X + r.W }
func (r Rect) Top() float32     { return r.Y }
func (r Rect) Bottom() float32  { return r.Y + r.H }
func (r Rect) CenterX() float32 { return r.X + r.W/2 }

// ItemBox pairs an arrangement index with the item's on-screen bounds, as
// laid out by the presentation layer with wrap-to-new-row flow. Snapshots are
// expected in index order.
type ItemBox struct {
	Index int
	Box   Rect
}

// Target is a planned insertion point: the anchor item's index, whether the
// drop goes before it (marker on its left edge) or after it (marker on its
// right edge), and the anchor's bounds for marker placement.
type Target struct {
	Index  int
	Before bool
	Box    Rect
}

// InsertionIndex converts the target into the index a relocation inserts at.
func (t Target) InsertionIndex() int {
	if t.Before {
		return t.Index
	}
	return t.Index + 1
}

// nominalEmptyBox anchors the marker when the grid has no items yet.
var nominalEmptyBox = R(12, 12, 40, 80)

// Planner computes drop targets over a wrapping grid. It is stateless; each
// call only reads the supplied geometry snapshot.
//
// An item's horizontal center is the decision boundary: while hovering a row,
// the pointer targets "before" the first item whose center lies to its right,
// and "after" the row's last item when no center does. Centers, not shared
// edges, keep each item's catchment region stable under variable spacing and
// make the decision flip at the same midpoint in both drag directions.
type Planner struct {
	// Spacing is the grid's inter-item spacing. Row matching expands each
	// item's vertical span by max(6, Spacing) so that slightly misaligned
	// rows (independent item heights) still count as one row.
	Spacing float32
}

// Target maps a pointer position to an insertion point.
func (pl Planner) Target(items []ItemBox, p Pt) Target {
	if len(items) == 0 {
		return Target{Index: 0, Before: true, Box: nominalEmptyBox}
	}

	tolY := pl.Spacing
	if tolY < 6 {
		tolY = 6
	}
	var row []ItemBox
	for _, it := range items {
		if it.Box.Top()-tolY <= p.Y && p.Y <= it.Box.Bottom()+tolY {
			row = append(row, it)
		}
	}

	// Pointer is above the first row or below the last: clamp to the ends.
	if len(row) == 0 {
		first := items[0]
		last := items[len(items)-1]
		if p.Y < first.Box.Top() {
			return Target{Index: first.Index, Before: true, Box: first.Box}
		}
		return Target{Index: last.Index, Before: false, Box: last.Box}
	}

	sort.Slice(row, func(i, j int) bool { return row[i].Box.Left() < row[j].Box.Left() })

	for _, it := range row {
		if it.Box.CenterX() > p.X {
			return Target{Index: it.Index, Before: true, Box: it.Box}
		}
	}

	// Pointer is right of every center in this row.
	rightmost := row[len(row)-1]
	return Target{Index: rightmost.Index, Before: false, Box: rightmost.Box}
}
