//go:build fyne && cgo

/*
 * Copyright (c) 2025 by Jules Collenne.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package ui

import (
	"context"
	"image"
	"image/color"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/widget"

	"github.com/JulesCollenne/pdfkiwi/internal/arrange"
	"github.com/JulesCollenne/pdfkiwi/internal/domain"
	"github.com/JulesCollenne/pdfkiwi/internal/thumbs"
)

// Board is the interactive page grid. Cards are tapped to toggle selection
// and dragged to reorder; the insertion marker follows the pointer during a
// drag. All methods run on the UI goroutine.
type Board struct {
	widget.BaseWidget

	arr      *arrange.Arrangement
	session  *arrange.Session
	grid     gridLayout
	cache    *thumbs.Cache
	renderer thumbs.Renderer // nil when no rasterizer is installed

	selected  map[int]bool
	dragging  bool
	pressIdx  int
	marker    arrange.Target
	hasMark   bool
	overTrash bool

	// TrashHitTest reports whether an absolute pointer position is over the
	// discard surface. nil disables drag-to-trash.
	TrashHitTest func(abs fyne.Position) bool

	// OnBeforeChange fires before the board mutates the arrangement, with a
	// short action label for the undo stack.
	OnBeforeChange func(label string)
	// OnChanged fires after any board-driven mutation.
	OnChanged func()
	// OnSelection fires when the selected card count changes.
	OnSelection func(count int)
}

// NewBoard builds the grid over an arrangement. renderer may be nil; cards
// then show placeholder art.
func NewBoard(arr *arrange.Arrangement, grid gridLayout, cache *thumbs.Cache, renderer thumbs.Renderer) *Board {
	b := &Board{
		arr:      arr,
		session:  arrange.NewSession(arr, arrange.Planner{Spacing: grid.Spacing}),
		grid:     grid,
		cache:    cache,
		renderer: renderer,
		selected: map[int]bool{},
		pressIdx: -1,
	}
	b.ExtendBaseWidget(b)
	return b
}

// Selection returns the selected card indices in ascending order.
func (b *Board) Selection() []int {
	out := make([]int, 0, len(b.selected))
	for i := 0; i < b.arr.Len(); i++ {
		if b.selected[i] {
			out = append(out, i)
		}
	}
	return out
}

// ClearSelection deselects every card.
func (b *Board) ClearSelection() {
	b.selected = map[int]bool{}
	b.selectionChanged()
	b.Refresh()
}

// RemoveSelected deletes the selected cards from the arrangement.
func (b *Board) RemoveSelected() {
	sel := b.Selection()
	if len(sel) == 0 {
		return
	}
	b.fireBefore("remove")
	b.arr.RemoveAt(sel)
	b.selected = map[int]bool{}
	b.selectionChanged()
	b.fireChanged()
	b.Refresh()
}

// Reload refreshes the grid after the arrangement changed externally (append,
// clear, undo). Selection is dropped since indices no longer line up.
func (b *Board) Reload() {
	b.selected = map[int]bool{}
	b.selectionChanged()
	b.Refresh()
}

func (b *Board) width() float32 {
	w := b.Size().Width
	if w <= 0 {
		w = 4 * (b.grid.CellW + b.grid.Spacing)
	}
	return w
}

func (b *Board) boxes() []arrange.ItemBox {
	return b.grid.Boxes(b.arr.Len(), b.width())
}

// Tapped toggles selection of the card under the pointer; tapping the
// background clears the selection.
func (b *Board) Tapped(e *fyne.PointEvent) {
	idx := b.grid.indexAt(b.arr.Len(), b.width(), arrange.Pt{X: e.Position.X, Y: e.Position.Y})
	if idx < 0 {
		b.selected = map[int]bool{}
	} else if b.selected[idx] {
		delete(b.selected, idx)
	} else {
		b.selected[idx] = true
	}
	b.selectionChanged()
	b.Refresh()
}

// Dragged starts a reorder gesture on the first event and tracks the
// insertion marker afterwards.
func (b *Board) Dragged(e *fyne.DragEvent) {
	p := arrange.Pt{X: e.Position.X, Y: e.Position.Y}
	if !b.dragging {
		start := arrange.Pt{X: p.X - e.Dragged.DX, Y: p.Y - e.Dragged.DY}
		idx := b.grid.indexAt(b.arr.Len(), b.width(), start)
		if idx < 0 {
			return
		}
		if !b.selected[idx] {
			b.selected = map[int]bool{idx: true}
			b.selectionChanged()
		}
		b.session.Start(b.Selection())
		b.dragging = true
		b.pressIdx = idx
	}
	if b.TrashHitTest != nil && b.TrashHitTest(e.AbsolutePosition) {
		b.overTrash = true
		b.hasMark = false
		b.session.Leave()
	} else {
		b.overTrash = false
		b.marker, b.hasMark = b.session.Move(b.boxes(), p)
	}
	b.Refresh()
}

// DragEnd commits the gesture at the last computed target.
func (b *Board) DragEnd() {
	if !b.dragging {
		return
	}
	b.dragging = false
	b.pressIdx = -1
	if b.overTrash {
		b.overTrash = false
		b.fireBefore("discard")
		if b.session.DropDiscard() {
			b.selected = map[int]bool{}
			b.selectionChanged()
			b.fireChanged()
		}
		b.Refresh()
		return
	}
	if b.hasMark {
		b.fireBefore("relocate")
	}
	b.hasMark = false
	if b.session.Drop() {
		b.selected = map[int]bool{}
		b.selectionChanged()
		b.fireChanged()
	}
	b.Refresh()
}

// CancelDrag abandons the gesture, leaving the arrangement untouched.
func (b *Board) CancelDrag() {
	if !b.dragging {
		return
	}
	b.dragging = false
	b.pressIdx = -1
	b.hasMark = false
	b.overTrash = false
	b.session.Cancel()
	b.Refresh()
}

func (b *Board) selectionChanged() {
	if b.OnSelection != nil {
		b.OnSelection(len(b.selected))
	}
}

func (b *Board) fireBefore(label string) {
	if b.OnBeforeChange != nil {
		b.OnBeforeChange(label)
	}
}

func (b *Board) fireChanged() {
	if b.OnChanged != nil {
		b.OnChanged()
	}
}

// MinSize grows vertically with the number of rows so the enclosing scroll
// container works.
func (b *Board) MinSize() fyne.Size {
	w := b.grid.CellW + 2*b.grid.Spacing
	return fyne.NewSize(w, b.grid.Height(b.arr.Len(), b.width()))
}

// thumbnail returns the card image for ref, kicking off an async render on a
// cache miss.
func (b *Board) thumbnail(ref domain.PageRef) image.Image {
	cw, ch := int(b.grid.CellW), int(b.grid.CellH)
	if img, ok := b.cache.Get(ref, cw, ch); ok {
		return img
	}
	placeholder := thumbs.Placeholder(cw, ch, ref.Label())
	b.cache.Put(ref, cw, ch, placeholder)
	if b.renderer != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			img, err := b.renderer.RenderPage(ctx, ref.SourcePath, ref.PageIndex, cw-2, ch-2)
			if err != nil {
				return
			}
			b.cache.Put(ref, cw, ch, thumbs.Card(img, cw, ch))
			fyne.Do(func() { b.Refresh() })
		}()
	}
	return placeholder
}

func (b *Board) CreateRenderer() fyne.WidgetRenderer {
	bg := canvas.NewRectangle(color.RGBA{R: 30, G: 30, B: 34, A: 255})
	marker := canvas.NewRectangle(color.RGBA{R: 255, G: 170, B: 0, A: 255})
	return &boardRenderer{board: b, bg: bg, marker: marker}
}

type boardRenderer struct {
	board  *Board
	bg     *canvas.Rectangle
	marker *canvas.Rectangle
	cards  []fyne.CanvasObject
}

func (r *boardRenderer) Layout(size fyne.Size) {
	r.bg.Resize(size)
	r.rebuild()
}

func (r *boardRenderer) MinSize() fyne.Size { return r.board.MinSize() }

func (r *boardRenderer) Refresh() {
	r.rebuild()
	canvas.Refresh(r.board)
}

func (r *boardRenderer) rebuild() {
	b := r.board
	boxes := b.boxes()
	r.cards = r.cards[:0]
	for _, it := range boxes {
		ref := b.arr.At(it.Index)
		img := canvas.NewImageFromImage(b.thumbnail(ref))
		img.FillMode = canvas.ImageFillContain
		img.Move(fyne.NewPos(it.Box.Left(), it.Box.Top()))
		img.Resize(fyne.NewSize(it.Box.W, it.Box.H))
		r.cards = append(r.cards, img)

		if b.selected[it.Index] {
			sel := canvas.NewRectangle(color.RGBA{})
			sel.StrokeColor = color.RGBA{R: 70, G: 140, B: 255, A: 255}
			sel.StrokeWidth = 3
			sel.Move(fyne.NewPos(it.Box.Left(), it.Box.Top()))
			sel.Resize(fyne.NewSize(it.Box.W, it.Box.H))
			r.cards = append(r.cards, sel)
		}
	}

	if b.hasMark && len(boxes) > 0 {
		box := b.marker.Box
		x := box.Left() - b.grid.Spacing/2
		if !b.marker.Before {
			x = box.Right() + b.grid.Spacing/2
		}
		r.marker.Move(fyne.NewPos(x-1, box.Top()))
		r.marker.Resize(fyne.NewSize(3, box.H))
		r.marker.Show()
	} else {
		r.marker.Hide()
	}
}

func (r *boardRenderer) Objects() []fyne.CanvasObject {
	objs := make([]fyne.CanvasObject, 0, len(r.cards)+2)
	objs = append(objs, r.bg)
	objs = append(objs, r.cards...)
	objs = append(objs, r.marker)
	return objs
}

func (r *boardRenderer) Destroy() {}
