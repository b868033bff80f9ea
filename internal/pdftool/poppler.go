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
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	applog "github.com/JulesCollenne/pdfkiwi/internal/log"
)

// Default poppler-utils binary names; overridable for tests.
const (
	binSeparate = "pdfseparate"
	binUnite    = "pdfunite"
	binInfo     = "pdfinfo"
)

// Poppler shells out to poppler-utils. Each invocation gets its own timeout
// derived from the configured per-call budget.
type Poppler struct {
	SeparateBin string
	UniteBin    string
	InfoBin     string
	Timeout     time.Duration

	// lookPath is swapped in tests.
	lookPath func(string) (string, error)
}

// NewPoppler returns a poppler toolchain with the standard binary names.
// A non-positive timeout disables the per-call deadline.
func NewPoppler(timeout time.Duration) *Poppler {
	return &Poppler{
		SeparateBin: binSeparate,
		UniteBin:    binUnite,
		InfoBin:     binInfo,
		Timeout:     timeout,
		lookPath:    exec.LookPath,
	}
}

func (p *Poppler) Name() string { return "poppler" }

// Available checks all three binaries; page counting needs pdfinfo even
// though the export primitives only use separate/unite.
func (p *Poppler) Available() error {
	for _, bin := range []string{p.SeparateBin, p.UniteBin, p.InfoBin} {
		if _, err := p.lookPath(bin); err != nil {
			return &NotFoundError{Tool: bin}
		}
	}
	return nil
}

// PageCount runs pdfinfo and parses its "Pages:" line.
func (p *Poppler) PageCount(ctx context.Context, path string) (int, error) {
	out, err := p.run(ctx, p.InfoBin, path)
	if err != nil {
		return 0, err
	}
	n, err := parsePageCount(out)
	if err != nil {
		return 0, fmt.Errorf("%s %s: %w", p.InfoBin, path, err)
	}
	return n, nil
}

// parsePageCount finds the "Pages:" line in pdfinfo output.
func parsePageCount(out string) (int, error) {
	for _, line := range strings.Split(out, "\n") {
		if !strings.HasPrefix(strings.ToLower(line), "pages:") {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(line[len("pages:"):]))
		if err != nil {
			return 0, fmt.Errorf("malformed pages line %q", strings.TrimSpace(line))
		}
		return n, nil
	}
	return 0, fmt.Errorf("no Pages line in output")
}

// ExtractPage runs pdfseparate -f N -l N src dst for the single page.
func (p *Poppler) ExtractPage(ctx context.Context, src string, pageIndex int, dst string) error {
	n := strconv.Itoa(pageIndex + 1)
	if _, err := p.run(ctx, p.SeparateBin, "-f", n, "-l", n, src, dst); err != nil {
		return err
	}
	// pdfseparate can exit zero without producing output on some malformed
	// inputs; treat a missing destination as a failure.
	if _, err := os.Stat(dst); err != nil {
		return fmt.Errorf("%s produced no output for page %s of %s", p.SeparateBin, n, src)
	}
	return nil
}

// Merge runs pdfunite input... dst.
func (p *Poppler) Merge(ctx context.Context, inputs []string, dst string) error {
	args := make([]string, 0, len(inputs)+1)
	args = append(args, inputs...)
	args = append(args, dst)
	_, err := p.run(ctx, p.UniteBin, args...)
	return err
}

// run executes one tool invocation, applying the per-call timeout and folding
// captured stderr into the returned error as the diagnostic.
func (p *Poppler) run(ctx context.Context, bin string, args ...string) (string, error) {
	if p.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.Timeout)
		defer cancel()
	}
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err := cmd.Run()
	applog.WithComponent("pdftool").Debug("tool run",
		slog.String("bin", bin),
		slog.Int("args", len(args)),
		slog.Duration("took", time.Since(start)),
		slog.Bool("ok", err == nil),
	)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return "", fmt.Errorf("%s: %w", bin, ctxErr)
		}
		diag := strings.TrimSpace(stderr.String())
		if diag == "" {
			diag = err.Error()
		}
		return "", fmt.Errorf("%s failed: %s", bin, diag)
	}
	return stdout.String(), nil
}
