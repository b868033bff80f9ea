/*
 * Copyright (c) 2025 by Jules Collenne.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package history

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "data"))
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func paths(entries []Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = filepath.Base(e.Path)
	}
	return out
}

func TestOpenCreatesDatabaseFile(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	defer func() { _ = s.Close() }()
	if _, err := os.Stat(filepath.Join(dir, FileName)); err != nil {
		t.Fatalf("database file missing: %v", err)
	}
}

func TestOpenRequiresDataDir(t *testing.T) {
	if _, err := Open(""); err == nil {
		t.Fatalf("Open(\"\") = nil error")
	}
}

func TestTouchAndRecentOrder(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	for _, p := range []string{"/docs/a.pdf", "/docs/b.pdf", "/docs/c.pdf"} {
		if err := s.Touch(ctx, p, KindSource); err != nil {
			t.Fatalf("Touch(%s): %v", p, err)
		}
	}
	// Re-touching moves an entry to the front instead of duplicating it.
	if err := s.Touch(ctx, "/docs/a.pdf", KindSource); err != nil {
		t.Fatalf("re-touch: %v", err)
	}

	got, err := s.Recent(ctx, KindSource, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	want := []string{"a.pdf", "c.pdf", "b.pdf"}
	gotNames := paths(got)
	if len(gotNames) != len(want) {
		t.Fatalf("Recent returned %v, want %v", gotNames, want)
	}
	for i := range want {
		if gotNames[i] != want[i] {
			t.Fatalf("Recent order = %v, want %v", gotNames, want)
		}
	}
	if got[0].Uses != 2 {
		t.Fatalf("a.pdf uses = %d, want 2", got[0].Uses)
	}
}

func TestRecentFiltersByKind(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	if err := s.Touch(ctx, "/docs/in.pdf", KindSource); err != nil {
		t.Fatalf("Touch: %v", err)
	}
	if err := s.Touch(ctx, "/out/result.pdf", KindExport); err != nil {
		t.Fatalf("Touch: %v", err)
	}

	got, err := s.Recent(ctx, KindExport, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 1 || filepath.Base(got[0].Path) != "result.pdf" {
		t.Fatalf("Recent(export) = %v", paths(got))
	}

	all, err := s.Recent(ctx, "", 10)
	if err != nil {
		t.Fatalf("Recent(all): %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("Recent(all) = %d entries, want 2", len(all))
	}
}

func TestRecentLimit(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	for _, p := range []string{"/1.pdf", "/2.pdf", "/3.pdf"} {
		if err := s.Touch(ctx, p, KindSource); err != nil {
			t.Fatalf("Touch: %v", err)
		}
	}
	got, err := s.Recent(ctx, KindSource, 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("Recent(2) = %d entries", len(got))
	}
	if got, err := s.Recent(ctx, KindSource, 0); err != nil || got != nil {
		t.Fatalf("Recent(0) = %v, %v; want empty", got, err)
	}
}

func TestForget(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	if err := s.Touch(ctx, "/docs/a.pdf", KindSource); err != nil {
		t.Fatalf("Touch: %v", err)
	}
	if err := s.Forget(ctx, "/docs/a.pdf", KindSource); err != nil {
		t.Fatalf("Forget: %v", err)
	}
	got, err := s.Recent(ctx, KindSource, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("entry survived Forget: %v", paths(got))
	}
}

func TestPruneKeepsMostRecent(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	for _, p := range []string{"/1.pdf", "/2.pdf", "/3.pdf", "/4.pdf"} {
		if err := s.Touch(ctx, p, KindSource); err != nil {
			t.Fatalf("Touch: %v", err)
		}
	}
	if err := s.Prune(ctx, 2); err != nil {
		t.Fatalf("Prune: %v", err)
	}
	got, err := s.Recent(ctx, KindSource, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	want := []string{"4.pdf", "3.pdf"}
	gotNames := paths(got)
	if len(gotNames) != 2 || gotNames[0] != want[0] || gotNames[1] != want[1] {
		t.Fatalf("after Prune(2): %v, want %v", gotNames, want)
	}
}

func TestReopenKeepsEntries(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	s, err := Open(dir)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	if err := s.Touch(context.Background(), "/docs/a.pdf", KindSource); err != nil {
		t.Fatalf("Touch: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	s2, err := Open(dir)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer func() { _ = s2.Close() }()
	got, err := s2.Recent(context.Background(), KindSource, 10)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 1 || filepath.Base(got[0].Path) != "a.pdf" {
		t.Fatalf("reopened store lost entries: %v", paths(got))
	}
}
