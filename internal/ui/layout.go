/*
 * Copyright (c) 2025 by Jules Collenne.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package ui is the desktop shell. The interactive parts build only with the
// fyne tag; grid geometry lives here untagged so it stays testable headless.
package ui

import "github.com/JulesCollenne/pdfkiwi/internal/arrange"

// gridLayout flows fixed-size page cards left to right, wrapping into rows.
type gridLayout struct {
	CellW   float32
	CellH   float32
	Spacing float32
}

// Columns reports how many cards fit in one row of the given width. Always
// at least one.
func (g gridLayout) Columns(width float32) int {
	if g.CellW <= 0 {
		return 1
	}
	cols := int((width + g.Spacing) / (g.CellW + g.Spacing))
	if cols < 1 {
		cols = 1
	}
	return cols
}

// Boxes returns cell geometry for n cards laid out in a grid of the given
// width, in the row-major order the cards are arranged in.
func (g gridLayout) Boxes(n int, width float32) []arrange.ItemBox {
	cols := g.Columns(width)
	boxes := make([]arrange.ItemBox, n)
	for i := 0; i < n; i++ {
		col := i % cols
		row := i / cols
		boxes[i] = arrange.ItemBox{
			Index: i,
			Box: arrange.R(
				g.Spacing+float32(col)*(g.CellW+g.Spacing),
				g.Spacing+float32(row)*(g.CellH+g.Spacing),
				g.CellW,
				g.CellH,
			),
		}
	}
	return boxes
}

// Height reports the total content height needed for n cards at the given
// width, including the outer margin.
func (g gridLayout) Height(n int, width float32) float32 {
	if n == 0 {
		return g.Spacing
	}
	cols := g.Columns(width)
	rows := (n + cols - 1) / cols
	return g.Spacing + float32(rows)*(g.CellH+g.Spacing)
}

// indexAt returns the card index under the point, or -1 when the point is on
// the background.
func (g gridLayout) indexAt(n int, width float32, p arrange.Pt) int {
	for _, it := range g.Boxes(n, width) {
		b := it.Box
		if p.X >= b.Left() && p.X <= b.Right() && p.Y >= b.Top() && p.Y <= b.Bottom() {
			return it.Index
		}
	}
	return -1
}
