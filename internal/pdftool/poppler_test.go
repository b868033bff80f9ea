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
	"errors"
	"testing"
	"time"
)

func TestParsePageCount(t *testing.T) {
	out := "Title:          Annual report\n" +
		"Producer:       cairo 1.16.0\n" +
		"Pages:          12\n" +
		"Encrypted:      no\n"
	n, err := parsePageCount(out)
	if err != nil {
		t.Fatalf("parsePageCount error: %v", err)
	}
	if n != 12 {
		t.Fatalf("parsePageCount = %d, want 12", n)
	}
}

func TestParsePageCountMissingLine(t *testing.T) {
	if _, err := parsePageCount("Title: x\n"); err == nil {
		t.Fatalf("expected error for output without Pages line")
	}
}

func TestParsePageCountMalformed(t *testing.T) {
	if _, err := parsePageCount("Pages: many\n"); err == nil {
		t.Fatalf("expected error for malformed Pages line")
	}
}

func TestPopplerAvailableReportsMissingTool(t *testing.T) {
	p := NewPoppler(time.Second)
	p.lookPath = func(bin string) (string, error) {
		if bin == binUnite {
			return "", errors.New("not found")
		}
		return "/usr/bin/" + bin, nil
	}
	err := p.Available()
	var nf *NotFoundError
	if !errors.As(err, &nf) {
		t.Fatalf("Available() = %v, want *NotFoundError", err)
	}
	if nf.Tool != binUnite {
		t.Fatalf("missing tool = %q, want %q", nf.Tool, binUnite)
	}
}

func TestPopplerAvailableOK(t *testing.T) {
	p := NewPoppler(time.Second)
	p.lookPath = func(bin string) (string, error) { return "/usr/bin/" + bin, nil }
	if err := p.Available(); err != nil {
		t.Fatalf("Available() = %v, want nil", err)
	}
}

func TestResolveForcedBackends(t *testing.T) {
	tc, err := Resolve("pdfcpu", time.Second)
	if err != nil {
		t.Fatalf("Resolve(pdfcpu) error: %v", err)
	}
	if tc.Name() != "pdfcpu" {
		t.Fatalf("Resolve(pdfcpu).Name() = %q", tc.Name())
	}
	tc, err = Resolve("poppler", time.Second)
	if err != nil {
		t.Fatalf("Resolve(poppler) error: %v", err)
	}
	if tc.Name() != "poppler" {
		t.Fatalf("Resolve(poppler).Name() = %q", tc.Name())
	}
	if _, err := Resolve("ghostscript", time.Second); err == nil {
		t.Fatalf("Resolve accepted unknown backend")
	}
}

func TestResolveAutoNeverFails(t *testing.T) {
	tc, err := Resolve("auto", time.Second)
	if err != nil {
		t.Fatalf("Resolve(auto) error: %v", err)
	}
	if tc == nil {
		t.Fatalf("Resolve(auto) returned nil toolchain")
	}
}
