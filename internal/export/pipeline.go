/*
 * Copyright (c) 2025 by Jules Collenne.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package export turns an ordered sequence of page references into one output
// document by composing the toolchain's split and merge primitives: one
// single-page temporary per reference, named so lexical order matches
// sequence order, then one merge over the ordered list.
package export

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/JulesCollenne/pdfkiwi/internal/domain"
	applog "github.com/JulesCollenne/pdfkiwi/internal/log"
	"github.com/JulesCollenne/pdfkiwi/internal/pdftool"
)

// Pipeline exports arrangements through a toolchain. A pipeline is cheap and
// stateless between calls; all temporary files are scoped to one Export call
// and removed on every exit path.
type Pipeline struct {
	Tools pdftool.Toolchain

	// TempRoot overrides the parent directory for the per-export scratch
	// directory. Empty means the system default.
	TempRoot string
}

// New returns a pipeline over the given toolchain.
func New(tools pdftool.Toolchain) *Pipeline { return &Pipeline{Tools: tools} }

// Export materializes pages, in order, into one document at outPath.
//
// The input is expected to be an independent snapshot; edits made to the
// arrangement while a slow export runs do not affect it. On any failure
// nothing is left at outPath (a pre-existing file there stays untouched) and
// the scratch directory is gone.
func (p *Pipeline) Export(ctx context.Context, pages []domain.PageRef, outPath string) error {
	l := applog.WithOperation(applog.WithComponent("export"), "export").With(
		slog.Int("pages", len(pages)),
		slog.String("out", outPath),
	)
	if len(pages) == 0 {
		return ErrEmptyArrangement
	}
	if err := p.Tools.Available(); err != nil {
		l.Error("tools unavailable", slog.Any("err", err))
		return &ToolMissingError{Backend: p.Tools.Name(), Err: err}
	}

	tmpDir, err := os.MkdirTemp(p.TempRoot, "pdfkiwi_")
	if err != nil {
		return fmt.Errorf("create scratch dir: %w", err)
	}
	defer func() {
		if err := os.RemoveAll(tmpDir); err != nil {
			l.Warn("scratch cleanup failed", slog.String("dir", tmpDir), slog.Any("err", err))
		}
	}()

	start := time.Now()
	parts := make([]string, 0, len(pages))
	for i, ref := range pages {
		if err := ctx.Err(); err != nil {
			return err
		}
		// Zero-padded counters keep lexical order equal to sequence order.
		part := filepath.Join(tmpDir, fmt.Sprintf("part_%05d.pdf", i+1))
		if err := p.Tools.ExtractPage(ctx, ref.SourcePath, ref.PageIndex, part); err != nil {
			l.Error("extract failed", slog.String("src", ref.SourcePath), slog.Int("page", ref.PageNumber()), slog.Any("err", err))
			return &ExtractError{Ref: ref, Err: err}
		}
		parts = append(parts, part)
	}

	if err := ctx.Err(); err != nil {
		return err
	}
	// Merge into a staging file first so a failed or interrupted merge can
	// never leave a truncated document at outPath.
	staged := filepath.Join(tmpDir, "merged.pdf")
	if err := p.Tools.Merge(ctx, parts, staged); err != nil {
		l.Error("merge failed", slog.Any("err", err))
		return &MergeError{Err: err}
	}
	if err := moveIntoPlace(staged, outPath); err != nil {
		return &MergeError{Err: err}
	}

	l.Info("export done", slog.Duration("took", time.Since(start)), slog.String("tools", p.Tools.Name()))
	return nil
}

// moveIntoPlace moves the staged result to dst. Rename is atomic on the same
// filesystem; across devices we copy to a sibling of dst and rename that, so
// a partially written file is never observable at dst itself.
func moveIntoPlace(staged, dst string) error {
	if err := os.Rename(staged, dst); err == nil {
		return nil
	}
	sibling := dst + ".partial"
	if err := copyFile(staged, sibling); err != nil {
		_ = os.Remove(sibling)
		return err
	}
	if err := os.Rename(sibling, dst); err != nil {
		_ = os.Remove(sibling)
		return err
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer func() { _ = in.Close() }()
	out, err := os.OpenFile(dst, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		_ = out.Close()
		return err
	}
	if err := out.Sync(); err != nil {
		_ = out.Close()
		return err
	}
	return out.Close()
}
