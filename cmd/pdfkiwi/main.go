/*
 * Copyright (c) 2025 by Jules Collenne.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/JulesCollenne/pdfkiwi/internal/arrange"
	"github.com/JulesCollenne/pdfkiwi/internal/config"
	"github.com/JulesCollenne/pdfkiwi/internal/crash"
	"github.com/JulesCollenne/pdfkiwi/internal/domain"
	"github.com/JulesCollenne/pdfkiwi/internal/export"
	"github.com/JulesCollenne/pdfkiwi/internal/history"
	applog "github.com/JulesCollenne/pdfkiwi/internal/log"
	"github.com/JulesCollenne/pdfkiwi/internal/pdftool"
	"github.com/JulesCollenne/pdfkiwi/internal/ui"
	"github.com/JulesCollenne/pdfkiwi/internal/version"
)

func usage() {
	fmt.Println("pdfkiwi — arrange and export PDF pages")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  pdfkiwi version|-v|--version                 Show version")
	fmt.Println("  pdfkiwi tools                                Show which PDF toolchains are available")
	fmt.Println("  pdfkiwi info <file.pdf> ...                  Print page counts")
	fmt.Println("  pdfkiwi export -o <out.pdf> <src[:pages]>... Assemble pages into one PDF")
	fmt.Println("                                               pages like 1,3-5 (one-based, default all)")
	fmt.Println("  pdfkiwi recent                               List recently used files")
	fmt.Println("  pdfkiwi ui [<file.pdf> ...]                  Launch the desktop UI (build with -tags fyne)")
}

func main() {
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("cli")

	cfg, err := config.Load()
	if err != nil {
		l.Warn("config load failed, using defaults", slog.Any("err", err))
		cfg = config.Defaults()
	}
	dataDir, _ := config.DataDir()
	defer crash.Recover(dataDir)

	args := os.Args
	l.Debug("start", slog.Int("args", len(args)))
	if len(args) > 1 {
		switch args[1] {
		case "version", "--version", "-v":
			fmt.Println("pdfkiwi — arrange and export PDF pages")
			fmt.Println(version.String())
			return
		case "tools":
			runTools(cfg)
			return
		case "info":
			if len(args) < 3 {
				fmt.Println("info requires at least one <file.pdf>")
				usage()
				os.Exit(2)
			}
			runInfo(cfg, args[2:])
			return
		case "export":
			runExport(cfg, args[2:])
			return
		case "recent":
			runRecent()
			return
		case "ui":
			if err := ui.Run(args[2:]); err != nil {
				fmt.Println("Error:", err)
				os.Exit(1)
			}
			return
		}
	}

	usage()
}

func toolsTimeout(cfg config.AppConfig) time.Duration {
	return time.Duration(cfg.Tools.TimeoutMs) * time.Millisecond
}

func runTools(cfg config.AppConfig) {
	timeout := toolsTimeout(cfg)
	for _, backend := range []string{"poppler", "pdfcpu"} {
		tc, err := pdftool.Resolve(backend, timeout)
		if err != nil {
			fmt.Printf("  %-8s unavailable (%v)\n", backend, err)
			continue
		}
		if err := tc.Available(); err != nil {
			fmt.Printf("  %-8s unavailable (%v)\n", backend, err)
			continue
		}
		fmt.Printf("  %-8s ok\n", backend)
	}
	tc, err := pdftool.Resolve(cfg.Tools.Backend, timeout)
	if err != nil {
		fmt.Println("Selected backend:", cfg.Tools.Backend, "—", err)
		os.Exit(1)
	}
	fmt.Printf("Selected backend: %s (config %q)\n", tc.Name(), cfg.Tools.Backend)
}

func runInfo(cfg config.AppConfig, files []string) {
	l := applog.WithComponent("cli")
	tc, err := pdftool.Resolve(cfg.Tools.Backend, toolsTimeout(cfg))
	if err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	bad := 0
	for _, f := range files {
		n, err := tc.PageCount(ctx, f)
		if err != nil {
			l.Error("page count failed", slog.String("file", f), slog.Any("err", err))
			fmt.Printf("%s: error: %v\n", f, err)
			bad++
			continue
		}
		fmt.Printf("%s: %d pages\n", f, n)
	}
	if bad > 0 {
		os.Exit(1)
	}
}

func runExport(cfg config.AppConfig, args []string) {
	l := applog.WithComponent("cli")

	var outPath string
	var specs []string
	for i := 0; i < len(args); i++ {
		switch args[i] {
		case "-o", "--out":
			if i+1 >= len(args) {
				fmt.Println("export: -o requires a path")
				os.Exit(2)
			}
			outPath = args[i+1]
			i++
		default:
			specs = append(specs, args[i])
		}
	}
	if outPath == "" || len(specs) == 0 {
		fmt.Println("export requires -o <out.pdf> and at least one <src[:pages]>")
		usage()
		os.Exit(2)
	}

	tc, err := pdftool.Resolve(cfg.Tools.Backend, toolsTimeout(cfg))
	if err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	// Ctrl-C aborts the export; the pipeline cleans up its scratch dir.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	var pages []domain.PageRef
	for _, spec := range specs {
		refs, err := expandSpec(ctx, tc, spec)
		if err != nil {
			l.Error("bad source", slog.String("spec", spec), slog.Any("err", err))
			fmt.Println("Error:", err)
			os.Exit(1)
		}
		pages = append(pages, refs...)
	}

	pipeline := export.New(tc)
	if err := pipeline.Export(ctx, pages, outPath); err != nil {
		l.Error("export failed", slog.Any("err", err))
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	touchRecents(cfg, specs, outPath)
	fmt.Printf("Wrote %s (%d pages)\n", outPath, len(pages))
}

func touchRecents(cfg config.AppConfig, specs []string, outPath string) {
	dataDir, err := config.DataDir()
	if err != nil {
		return
	}
	store, err := history.Open(dataDir)
	if err != nil {
		return
	}
	defer func() { _ = store.Close() }()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	for _, s := range specs {
		path, _ := splitSpec(s)
		_ = store.Touch(ctx, path, history.KindSource)
	}
	_ = store.Touch(ctx, outPath, history.KindExport)
	_ = store.Prune(ctx, cfg.History.MaxEntries)
}

func runRecent() {
	dataDir, err := config.DataDir()
	if err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	store, err := history.Open(dataDir)
	if err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	defer func() { _ = store.Close() }()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	entries, err := store.Recent(ctx, "", 20)
	if err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	if len(entries) == 0 {
		fmt.Println("No recent files.")
		return
	}
	for _, e := range entries {
		fmt.Printf("  %-7s %s  (%s)\n", e.Kind, e.Path, e.LastUsed.Local().Format("2006-01-02 15:04"))
	}
}

// expandSpec turns "a.pdf:1,3-5" into ordered page refs, asking the
// toolchain for the page count to validate ranges. A bare path selects every
// page.
func expandSpec(ctx context.Context, tc pdftool.Toolchain, spec string) ([]domain.PageRef, error) {
	path, sel := splitSpec(spec)
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	count, err := tc.PageCount(ctx, abs)
	if err != nil {
		return nil, &arrange.SourceError{Path: abs, Err: err}
	}

	if sel == "" {
		refs := make([]domain.PageRef, count)
		for i := range refs {
			refs[i] = domain.PageRef{SourcePath: abs, PageIndex: i}
		}
		return refs, nil
	}

	numbers, err := parsePageSelection(sel, count)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	refs := make([]domain.PageRef, len(numbers))
	for i, n := range numbers {
		refs[i] = domain.PageRef{SourcePath: abs, PageIndex: n - 1}
	}
	return refs, nil
}

// splitSpec separates the optional page selection from the path. Only a
// trailing ":..." of digits, commas and dashes counts, so Windows drive
// letters and odd filenames survive.
func splitSpec(spec string) (path, sel string) {
	i := strings.LastIndex(spec, ":")
	if i <= 1 { // -1 none, 0 empty path, 1 drive letter
		return spec, ""
	}
	tail := spec[i+1:]
	if tail == "" || strings.Trim(tail, "0123456789,-") != "" {
		return spec, ""
	}
	return spec[:i], tail
}

// parsePageSelection expands "1,3-5" into one-based page numbers, in the
// order written, validated against count. Repeats are kept.
func parsePageSelection(sel string, count int) ([]int, error) {
	var out []int
	for _, part := range strings.Split(sel, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		lo, hi := part, part
		if a, b, found := strings.Cut(part, "-"); found {
			lo, hi = a, b
		}
		from, err := strconv.Atoi(lo)
		if err != nil {
			return nil, fmt.Errorf("bad page selection %q", part)
		}
		to, err := strconv.Atoi(hi)
		if err != nil {
			return nil, fmt.Errorf("bad page selection %q", part)
		}
		if from < 1 || to > count || from > to {
			return nil, fmt.Errorf("page range %q outside 1-%d", part, count)
		}
		for n := from; n <= to; n++ {
			out = append(out, n)
		}
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("empty page selection")
	}
	return out, nil
}
