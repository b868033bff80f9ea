/*
 * Copyright (c) 2025 by Jules Collenne.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package thumbs renders small page previews for the arrangement board.
//
// Rendering shells out to Poppler's pdftoppm when it is installed; when it is
// not, callers fall back to Placeholder so the board stays usable with
// label-only cards.
package thumbs

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"time"

	xdraw "golang.org/x/image/draw"

	applog "github.com/JulesCollenne/pdfkiwi/internal/log"
)

// Renderer produces a raster preview of one page of a document. pageIndex is
// zero-based; w and h bound the output size in pixels.
type Renderer interface {
	Available() error
	RenderPage(ctx context.Context, path string, pageIndex, w, h int) (image.Image, error)
}

const binToppm = "pdftoppm"

// Poppler renders pages by invoking pdftoppm.
type Poppler struct {
	Bin     string
	Timeout time.Duration

	lookPath func(string) (string, error)
}

// NewPoppler returns a pdftoppm-backed renderer.
func NewPoppler(timeout time.Duration) *Poppler {
	return &Poppler{Bin: binToppm, Timeout: timeout, lookPath: exec.LookPath}
}

// Available reports whether pdftoppm can be found on PATH.
func (p *Poppler) Available() error {
	if _, err := p.lookPath(p.Bin); err != nil {
		return fmt.Errorf("%s not found: %w", p.Bin, err)
	}
	return nil
}

// RenderPage rasterizes a single page into a PNG sized to fit w x h.
func (p *Poppler) RenderPage(ctx context.Context, path string, pageIndex, w, h int) (image.Image, error) {
	if pageIndex < 0 {
		return nil, fmt.Errorf("page index %d out of range", pageIndex)
	}
	tmpDir, err := os.MkdirTemp("", "pdfkiwi_thumb_")
	if err != nil {
		return nil, fmt.Errorf("create scratch dir: %w", err)
	}
	defer func() { _ = os.RemoveAll(tmpDir) }()

	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}
	page := strconv.Itoa(pageIndex + 1)
	prefix := filepath.Join(tmpDir, "pg")
	cmd := exec.CommandContext(ctx, p.Bin,
		"-png", "-f", page, "-l", page, "-scale-to", strconv.Itoa(max(w, h)),
		path, prefix)
	out, err := cmd.CombinedOutput()
	if err != nil {
		applog.WithComponent("thumbs").Debug("pdftoppm failed",
			slog.String("src", path), slog.String("page", page), slog.String("output", string(out)))
		return nil, fmt.Errorf("%s page %s of %s: %w", p.Bin, page, filepath.Base(path), err)
	}

	// pdftoppm pads the page number in the output name to the digit count of
	// the document, so glob rather than reconstruct it.
	matches, err := filepath.Glob(prefix + "-*.png")
	if err != nil || len(matches) == 0 {
		return nil, fmt.Errorf("%s produced no image for page %s of %s", p.Bin, page, filepath.Base(path))
	}
	f, err := os.Open(matches[0])
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s output: %w", p.Bin, err)
	}
	return img, nil
}

var (
	cardBG     = color.RGBA{255, 255, 255, 255}
	cardBorder = color.RGBA{136, 136, 136, 255}
	labelInk   = color.RGBA{68, 68, 68, 255}
)

// Card centers src on a white w x h page card with a hairline border, scaling
// it down to fit while preserving aspect ratio.
func Card(src image.Image, w, h int) *image.RGBA {
	card := blankCard(w, h)
	sb := src.Bounds()
	if sb.Dx() <= 0 || sb.Dy() <= 0 {
		return card
	}
	inner := image.Rect(1, 1, w-1, h-1)
	sx := float64(inner.Dx()) / float64(sb.Dx())
	sy := float64(inner.Dy()) / float64(sb.Dy())
	s := min(sx, sy)
	dw := int(float64(sb.Dx()) * s)
	dh := int(float64(sb.Dy()) * s)
	x0 := inner.Min.X + (inner.Dx()-dw)/2
	y0 := inner.Min.Y + (inner.Dy()-dh)/2
	xdraw.CatmullRom.Scale(card, image.Rect(x0, y0, x0+dw, y0+dh), src, sb, draw.Src, nil)
	return card
}

// Placeholder returns a blank page card carrying a short text mark, used when
// no renderer is available or a render fails.
func Placeholder(w, h int, label string) *image.RGBA {
	card := blankCard(w, h)
	// A plain tick row stands in for text; the surrounding widget shows the
	// full label separately.
	span := min(w/2, 4*len(label))
	y := h / 2
	for x := w / 4; x < w/4+span; x++ {
		card.SetRGBA(x, y, labelInk)
	}
	return card
}

func blankCard(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: cardBG}, image.Point{}, draw.Src)
	strokeRect(img, 0, 0, w-1, h-1, cardBorder)
	return img
}

func strokeRect(img *image.RGBA, x0, y0, x1, y1 int, c color.RGBA) {
	for x := x0; x <= x1; x++ {
		img.SetRGBA(x, y0, c)
		img.SetRGBA(x, y1, c)
	}
	for y := y0; y <= y1; y++ {
		img.SetRGBA(x0, y, c)
		img.SetRGBA(x1, y, c)
	}
}
