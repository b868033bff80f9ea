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
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	fstorage "fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"

	"github.com/JulesCollenne/pdfkiwi/internal/arrange"
	"github.com/JulesCollenne/pdfkiwi/internal/config"
	"github.com/JulesCollenne/pdfkiwi/internal/crash"
	"github.com/JulesCollenne/pdfkiwi/internal/export"
	"github.com/JulesCollenne/pdfkiwi/internal/history"
	applog "github.com/JulesCollenne/pdfkiwi/internal/log"
	"github.com/JulesCollenne/pdfkiwi/internal/pdftool"
	"github.com/JulesCollenne/pdfkiwi/internal/telemetry"
	"github.com/JulesCollenne/pdfkiwi/internal/thumbs"
	"github.com/JulesCollenne/pdfkiwi/internal/undo"
	"github.com/JulesCollenne/pdfkiwi/internal/version"
)

// Run starts the Fyne-based desktop UI. Optional PDF paths are loaded into
// the arrangement on startup.
func Run(paths []string) error {
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("ui")
	l.Info("starting UI", slog.String("version", version.String()))

	cfg, err := config.Load()
	if err != nil {
		l.Warn("config load failed, using defaults", slog.Any("err", err))
		cfg = config.Defaults()
	}
	dataDir, err := config.DataDir()
	if err != nil {
		return err
	}
	defer crash.Recover(dataDir)
	tcfg := telemetry.FromEnv()
	if cfg.General.TelemetryOptIn {
		tcfg.OptIn = true
	}
	telemetry.NewDefault(tcfg)
	telemetry.Event(telemetry.EventAppStart, nil)

	tools, err := pdftool.Resolve(cfg.Tools.Backend, time.Duration(cfg.Tools.TimeoutMs)*time.Millisecond)
	if err != nil {
		return err
	}

	recents, err := history.Open(dataDir)
	if err != nil {
		l.Warn("history unavailable", slog.Any("err", err))
		recents = nil
	} else {
		defer func() { _ = recents.Close() }()
	}

	fyneApp := app.NewWithID("pdfkiwi")
	w := fyneApp.NewWindow("pdfkiwi")
	prefs := fyneApp.Preferences()
	winW := prefs.IntWithFallback("window.width", 900)
	winH := prefs.IntWithFallback("window.height", 700)
	if winW < 600 {
		winW = 600
	}
	if winH < 400 {
		winH = 400
	}
	w.Resize(fyne.NewSize(float32(winW), float32(winH)))

	arr := arrange.New()
	undoMgr := undo.NewManager(undo.Config{})
	cache := thumbs.NewCache(256)

	var pageRenderer thumbs.Renderer
	if pr := thumbs.NewPoppler(time.Duration(cfg.Tools.TimeoutMs) * time.Millisecond); pr.Available() == nil {
		pageRenderer = pr
	} else {
		l.Info("pdftoppm not found, using placeholder thumbnails")
	}

	grid := gridLayout{
		CellW:   float32(cfg.Thumbs.Width),
		CellH:   float32(cfg.Thumbs.Height),
		Spacing: 10,
	}
	board := NewBoard(arr, grid, cache, pageRenderer)

	status := widget.NewLabel("Drop PDF files here to begin")
	exporting := false

	updateStatus := func() {
		if exporting {
			return
		}
		switch n := arr.Len(); n {
		case 0:
			status.SetText("Drop PDF files here to begin")
		case 1:
			status.SetText("1 page")
		default:
			status.SetText(fmt.Sprintf("%d pages", n))
		}
	}

	board.OnBeforeChange = func(label string) { undoMgr.Push(label, arr.Snapshot()) }
	board.OnChanged = updateStatus
	board.OnSelection = func(count int) {
		if count > 0 {
			status.SetText(fmt.Sprintf("%d selected", count))
		} else {
			updateStatus()
		}
	}

	addSources := func(files []string) {
		if len(files) == 0 {
			return
		}
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
			defer cancel()
			refs, bad := arrange.CollectPages(ctx, tools, files)
			fyne.Do(func() {
				if len(refs) > 0 {
					undoMgr.Push("append", arr.Snapshot())
					arr.Append(refs...)
					board.Reload()
				}
				updateStatus()
				for _, e := range bad {
					l.Warn("source skipped", slog.Any("err", &e))
					dialog.ShowError(fmt.Errorf("could not read %s", filepath.Base(e.Path)), w)
				}
			})
			if recents != nil {
				for _, f := range files {
					_ = recents.Touch(context.Background(), f, history.KindSource)
				}
				_ = recents.Prune(context.Background(), cfg.History.MaxEntries)
			}
		}()
	}

	runExport := func(outPath string) {
		if exporting {
			return
		}
		exporting = true
		status.SetText("Exporting…")
		pages := arr.Snapshot()
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
			defer cancel()
			pipeline := export.New(tools)
			err := pipeline.Export(ctx, pages, outPath)
			if recents != nil && err == nil {
				_ = recents.Touch(context.Background(), outPath, history.KindExport)
			}
			fyne.Do(func() {
				exporting = false
				if err != nil {
					telemetry.Event(telemetry.EventExportFail, map[string]any{"pages": len(pages)})
					l.Error("export failed", slog.Any("err", err))
					dialog.ShowError(err, w)
					updateStatus()
					return
				}
				telemetry.Event(telemetry.EventExportOK, map[string]any{"pages": len(pages)})
				status.SetText(fmt.Sprintf("Saved %s", filepath.Base(outPath)))
			})
		}()
	}

	openAdd := func() {
		fd := dialog.NewFileOpen(func(rc fyne.URIReadCloser, err error) {
			if err != nil || rc == nil {
				return
			}
			path := rc.URI().Path()
			_ = rc.Close()
			addSources([]string{path})
		}, w)
		fd.SetFilter(fstorage.NewExtensionFileFilter([]string{".pdf"}))
		fd.Show()
	}

	saveAs := func() {
		if arr.Len() == 0 {
			dialog.ShowInformation("Nothing to export", "Add some pages first.", w)
			return
		}
		fd := dialog.NewFileSave(func(wc fyne.URIWriteCloser, err error) {
			if err != nil || wc == nil {
				return
			}
			path := wc.URI().Path()
			_ = wc.Close()
			if !strings.EqualFold(filepath.Ext(path), ".pdf") {
				path += ".pdf"
			}
			runExport(path)
		}, w)
		fd.SetFileName("arranged.pdf")
		fd.Show()
	}

	clearAll := func() {
		if arr.Len() == 0 {
			return
		}
		dialog.ShowConfirm("Clear all", "Remove every page from the arrangement?", func(ok bool) {
			if !ok {
				return
			}
			undoMgr.Push("clear", arr.Snapshot())
			arr.Clear()
			board.Reload()
			updateStatus()
		}, w)
	}

	doUndo := func() {
		if s, ok := undoMgr.Undo(arr.Snapshot()); ok {
			arr.Clear()
			arr.Append(s.Pages...)
			board.Reload()
			updateStatus()
		}
	}
	doRedo := func() {
		if s, ok := undoMgr.Redo(arr.Snapshot()); ok {
			arr.Clear()
			arr.Append(s.Pages...)
			board.Reload()
			updateStatus()
		}
	}

	toolbar := widget.NewToolbar(
		widget.NewToolbarAction(theme.ContentAddIcon(), openAdd),
		widget.NewToolbarAction(theme.DocumentSaveIcon(), saveAs),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.ContentUndoIcon(), doUndo),
		widget.NewToolbarAction(theme.ContentRedoIcon(), doRedo),
		widget.NewToolbarSeparator(),
		widget.NewToolbarAction(theme.DeleteIcon(), board.RemoveSelected),
		widget.NewToolbarAction(theme.ContentClearIcon(), clearAll),
	)

	// Dragging cards onto the trash icon discards them.
	trash := widget.NewIcon(theme.DeleteIcon())
	board.TrashHitTest = func(abs fyne.Position) bool {
		origin := fyne.CurrentApp().Driver().AbsolutePositionForObject(trash)
		sz := trash.Size()
		return abs.X >= origin.X && abs.X <= origin.X+sz.Width &&
			abs.Y >= origin.Y && abs.Y <= origin.Y+sz.Height
	}

	scroll := container.NewVScroll(board)
	bottom := container.NewBorder(nil, nil, nil, trash, status)
	w.SetContent(container.NewBorder(toolbar, bottom, nil, nil, scroll))

	// External drag and drop of PDF files onto the window.
	w.SetOnDropped(func(_ fyne.Position, uris []fyne.URI) {
		var files []string
		for _, u := range uris {
			if strings.EqualFold(filepath.Ext(u.Path()), ".pdf") {
				files = append(files, u.Path())
			}
		}
		addSources(files)
	})

	w.SetCloseIntercept(func() {
		sz := w.Canvas().Size()
		prefs.SetInt("window.width", int(sz.Width))
		prefs.SetInt("window.height", int(sz.Height))
		w.Close()
	})

	addSources(paths)
	w.ShowAndRun()
	return nil
}
