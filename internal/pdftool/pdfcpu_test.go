/*
 * Copyright (c) 2025 by Jules Collenne.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package pdftool

import (
	"context"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/jung-kurt/gofpdf"
)

// writeFixturePDF builds a real multi-page PDF so the in-process toolchain is
// exercised end to end without external binaries.
func writeFixturePDF(t *testing.T, path string, pages int) {
	t.Helper()
	pdf := gofpdf.New("P", "pt", "A4", "")
	pdf.SetFont("Helvetica", "", 24)
	for i := 1; i <= pages; i++ {
		pdf.AddPage()
		pdf.Text(72, 72, fmt.Sprintf("page %d", i))
	}
	if err := pdf.OutputFileAndClose(path); err != nil {
		t.Fatalf("write fixture %s: %v", path, err)
	}
}

func TestPDFCPUPageCount(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.pdf")
	writeFixturePDF(t, src, 4)

	tc := NewPDFCPU()
	n, err := tc.PageCount(context.Background(), src)
	if err != nil {
		t.Fatalf("PageCount error: %v", err)
	}
	if n != 4 {
		t.Fatalf("PageCount = %d, want 4", n)
	}
}

func TestPDFCPUExtractAndMerge(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.pdf")
	writeFixturePDF(t, src, 3)
	tc := NewPDFCPU()
	ctx := context.Background()

	// Extract pages 3 and 1, then merge them in that order.
	p3 := filepath.Join(dir, "part_00001.pdf")
	p1 := filepath.Join(dir, "part_00002.pdf")
	if err := tc.ExtractPage(ctx, src, 2, p3); err != nil {
		t.Fatalf("ExtractPage(2) error: %v", err)
	}
	if err := tc.ExtractPage(ctx, src, 0, p1); err != nil {
		t.Fatalf("ExtractPage(0) error: %v", err)
	}
	for _, part := range []string{p3, p1} {
		n, err := tc.PageCount(ctx, part)
		if err != nil {
			t.Fatalf("PageCount(%s) error: %v", part, err)
		}
		if n != 1 {
			t.Fatalf("extracted part %s has %d pages, want 1", part, n)
		}
	}

	out := filepath.Join(dir, "out.pdf")
	if err := tc.Merge(ctx, []string{p3, p1}, out); err != nil {
		t.Fatalf("Merge error: %v", err)
	}
	n, err := tc.PageCount(ctx, out)
	if err != nil {
		t.Fatalf("PageCount(out) error: %v", err)
	}
	if n != 2 {
		t.Fatalf("merged output has %d pages, want 2", n)
	}
}

func TestPDFCPUExtractOutOfRange(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "src.pdf")
	writeFixturePDF(t, src, 1)

	tc := NewPDFCPU()
	dst := filepath.Join(dir, "out.pdf")
	if err := tc.ExtractPage(context.Background(), src, 9, dst); err == nil {
		t.Fatalf("expected error extracting page beyond document end")
	}
}

func TestPDFCPUHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	tc := NewPDFCPU()
	if _, err := tc.PageCount(ctx, "whatever.pdf"); err == nil {
		t.Fatalf("expected context error")
	}
}
