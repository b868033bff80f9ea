/*
 * Copyright (c) 2025 by Jules Collenne.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package thumbs

import (
	"errors"
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/JulesCollenne/pdfkiwi/internal/domain"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)
	return img
}

func TestCardPreservesAspect(t *testing.T) {
	red := color.RGBA{200, 20, 20, 255}
	// A tall 1:2 page on a wider card must leave white side margins.
	card := Card(solid(50, 100, red), 120, 168)

	if got := card.Bounds(); got.Dx() != 120 || got.Dy() != 168 {
		t.Fatalf("card bounds = %v, want 120x168", got)
	}
	if c := card.RGBAAt(0, 0); c != cardBorder {
		t.Fatalf("corner = %v, want border color", c)
	}
	if c := card.RGBAAt(60, 84); c.R < 150 || c.G > 80 {
		t.Fatalf("center = %v, want scaled page content", c)
	}
	// Scaled width is 83px on a 118px interior, so the margins stay blank.
	if c := card.RGBAAt(5, 84); c != cardBG {
		t.Fatalf("left margin = %v, want background", c)
	}
	if c := card.RGBAAt(114, 84); c != cardBG {
		t.Fatalf("right margin = %v, want background", c)
	}
}

func TestCardEmptySource(t *testing.T) {
	card := Card(image.NewRGBA(image.Rect(0, 0, 0, 0)), 40, 60)
	if c := card.RGBAAt(20, 30); c != cardBG {
		t.Fatalf("empty source card center = %v, want background", c)
	}
}

func TestPlaceholderCarriesMark(t *testing.T) {
	card := Placeholder(120, 168, "report.pdf · page 3")
	if c := card.RGBAAt(0, 0); c != cardBorder {
		t.Fatalf("corner = %v, want border color", c)
	}
	if c := card.RGBAAt(35, 84); c != labelInk {
		t.Fatalf("mark pixel = %v, want ink", c)
	}
}

func TestPopplerUnavailable(t *testing.T) {
	p := NewPoppler(0)
	p.lookPath = func(string) (string, error) { return "", errors.New("not on PATH") }
	if err := p.Available(); err == nil {
		t.Fatalf("Available() = nil, want error")
	}
}

func pg(path string, idx int) domain.PageRef {
	return domain.PageRef{SourcePath: path, PageIndex: idx}
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	c := NewCache(2)
	a, b, d := pg("/a.pdf", 0), pg("/a.pdf", 1), pg("/b.pdf", 0)
	img := solid(4, 4, color.RGBA{A: 255})

	c.Put(a, 10, 10, img)
	c.Put(b, 10, 10, img)
	if _, ok := c.Get(a, 10, 10); !ok { // refresh a, b is now oldest
		t.Fatalf("a missing before eviction")
	}
	c.Put(d, 10, 10, img)

	if _, ok := c.Get(b, 10, 10); ok {
		t.Fatalf("b survived eviction, want it dropped")
	}
	if _, ok := c.Get(a, 10, 10); !ok {
		t.Fatalf("a evicted despite recent use")
	}
	if _, ok := c.Get(d, 10, 10); !ok {
		t.Fatalf("d missing after insert")
	}
}

func TestCacheSizeIsPartOfKey(t *testing.T) {
	c := NewCache(8)
	a := pg("/a.pdf", 0)
	c.Put(a, 10, 10, solid(4, 4, color.RGBA{A: 255}))
	if _, ok := c.Get(a, 20, 20); ok {
		t.Fatalf("hit for a size that was never rendered")
	}
}

func TestCacheInvalidateBySource(t *testing.T) {
	c := NewCache(8)
	img := solid(4, 4, color.RGBA{A: 255})
	c.Put(pg("/a.pdf", 0), 10, 10, img)
	c.Put(pg("/a.pdf", 1), 10, 10, img)
	c.Put(pg("/b.pdf", 0), 10, 10, img)

	c.Invalidate("/a.pdf")

	if c.Len() != 1 {
		t.Fatalf("Len() = %d after invalidate, want 1", c.Len())
	}
	if _, ok := c.Get(pg("/b.pdf", 0), 10, 10); !ok {
		t.Fatalf("unrelated source was invalidated")
	}
}
