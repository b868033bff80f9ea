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
	"reflect"
	"testing"
)

func TestSplitSpec(t *testing.T) {
	cases := []struct {
		in, path, sel string
	}{
		{"a.pdf", "a.pdf", ""},
		{"a.pdf:3", "a.pdf", "3"},
		{"a.pdf:1,3-5", "a.pdf", "1,3-5"},
		{"dir/b.pdf:2-4", "dir/b.pdf", "2-4"},
		// A trailing segment that is not a page selection stays in the path.
		{"weird:name.pdf", "weird:name.pdf", ""},
		{"C:\\docs\\a.pdf", "C:\\docs\\a.pdf", ""},
		{"C:\\docs\\a.pdf:2", "C:\\docs\\a.pdf", "2"},
		{"a.pdf:", "a.pdf:", ""},
	}
	for _, tc := range cases {
		path, sel := splitSpec(tc.in)
		if path != tc.path || sel != tc.sel {
			t.Fatalf("splitSpec(%q) = (%q, %q), want (%q, %q)", tc.in, path, sel, tc.path, tc.sel)
		}
	}
}

func TestParsePageSelection(t *testing.T) {
	cases := []struct {
		sel   string
		count int
		want  []int
	}{
		{"1", 5, []int{1}},
		{"1,3-5", 5, []int{1, 3, 4, 5}},
		{"5,1", 5, []int{5, 1}},     // order as written
		{"2,2", 5, []int{2, 2}},     // repeats kept
		{"1-1", 5, []int{1}},        // degenerate range
		{"1, 3 ,5", 5, []int{1, 3, 5}},
	}
	for _, tc := range cases {
		got, err := parsePageSelection(tc.sel, tc.count)
		if err != nil {
			t.Fatalf("parsePageSelection(%q, %d): %v", tc.sel, tc.count, err)
		}
		if !reflect.DeepEqual(got, tc.want) {
			t.Fatalf("parsePageSelection(%q) = %v, want %v", tc.sel, got, tc.want)
		}
	}
}

func TestParsePageSelectionRejectsBadInput(t *testing.T) {
	bad := []struct {
		sel   string
		count int
	}{
		{"0", 5},
		{"6", 5},
		{"3-2", 5},
		{"2-9", 5},
		{"x", 5},
		{"1-x", 5},
		{"", 5},
		{",", 5},
	}
	for _, tc := range bad {
		if _, err := parsePageSelection(tc.sel, tc.count); err == nil {
			t.Fatalf("parsePageSelection(%q, %d) accepted invalid input", tc.sel, tc.count)
		}
	}
}
