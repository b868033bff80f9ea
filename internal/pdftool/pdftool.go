/*
 * Copyright (c) 2025 by Jules Collenne.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package pdftool abstracts the page-level split/merge primitives the export
// pipeline composes. Two backends exist: poppler-utils subprocesses
// (pdfseparate/pdfunite/pdfinfo) and an in-process pdfcpu implementation used
// when the binaries are not installed.
package pdftool

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Toolchain is the primitive set the export pipeline needs. Implementations
// report failures with the underlying tool's diagnostic text in the error.
type Toolchain interface {
	// Name identifies the backend ("poppler" or "pdfcpu").
	Name() string
	// Available reports whether the backend can run at all. It returns a
	// *NotFoundError naming the first missing tool.
	Available() error
	// PageCount returns the number of pages in the document at path.
	PageCount(ctx context.Context, path string) (int, error)
	// ExtractPage writes the single page pageIndex (zero-based) of src to dst.
	ExtractPage(ctx context.Context, src string, pageIndex int, dst string) error
	// Merge concatenates the inputs, in order, into dst.
	Merge(ctx context.Context, inputs []string, dst string) error
}

// NotFoundError reports a missing external tool binary.
type NotFoundError struct {
	Tool string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("required tool %q not found in PATH", e.Tool)
}

// Resolve picks a toolchain for the configured backend preference:
// "poppler" and "pdfcpu" force their backend; "auto" (or empty) prefers
// poppler when its binaries are present and falls back to pdfcpu.
func Resolve(backend string, timeout time.Duration) (Toolchain, error) {
	switch strings.ToLower(strings.TrimSpace(backend)) {
	case "poppler":
		return NewPoppler(timeout), nil
	case "pdfcpu":
		return NewPDFCPU(), nil
	case "auto", "":
		p := NewPoppler(timeout)
		if p.Available() == nil {
			return p, nil
		}
		return NewPDFCPU(), nil
	}
	return nil, fmt.Errorf("unknown tools backend %q (want auto, poppler or pdfcpu)", backend)
}
