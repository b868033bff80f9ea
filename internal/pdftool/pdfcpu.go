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
	"strconv"

	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// PDFCPU implements the toolchain in-process so pdfkiwi still works without
// poppler-utils installed. The pdfcpu calls are synchronous and do not take a
// context, so cancellation is only observed between calls.
type PDFCPU struct {
	conf *model.Configuration
}

// NewPDFCPU returns the in-process toolchain with default configuration.
func NewPDFCPU() *PDFCPU {
	return &PDFCPU{conf: model.NewDefaultConfiguration()}
}

func (c *PDFCPU) Name() string { return "pdfcpu" }

// Available always succeeds; the library is compiled in.
func (c *PDFCPU) Available() error { return nil }

func (c *PDFCPU) PageCount(ctx context.Context, path string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	n, err := pdfapi.PageCountFile(path)
	if err != nil {
		return 0, fmt.Errorf("pdfcpu page count %s: %w", path, err)
	}
	return n, nil
}

func (c *PDFCPU) ExtractPage(ctx context.Context, src string, pageIndex int, dst string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	pages := []string{strconv.Itoa(pageIndex + 1)}
	if err := pdfapi.TrimFile(src, dst, pages, c.conf); err != nil {
		return fmt.Errorf("pdfcpu extract page %d of %s: %w", pageIndex+1, src, err)
	}
	return nil
}

func (c *PDFCPU) Merge(ctx context.Context, inputs []string, dst string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := pdfapi.MergeCreateFile(inputs, dst, false, c.conf); err != nil {
		return fmt.Errorf("pdfcpu merge: %w", err)
	}
	return nil
}
