/*
 * Copyright (c) 2025 by Jules Collenne.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package arrange

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/JulesCollenne/pdfkiwi/internal/domain"
)

// PageCounter reports how many pages a source document has.
type PageCounter interface {
	PageCount(ctx context.Context, path string) (int, error)
}

// SourceError reports one source document that could not be read during an
// add-source batch. The rest of the batch is unaffected.
type SourceError struct {
	Path string
	Err  error
}

func (e *SourceError) Error() string { return fmt.Sprintf("unreadable source %s: %v", e.Path, e.Err) }
func (e *SourceError) Unwrap() error { return e.Err }

// CollectPages expands a batch of source paths into one PageRef per page, in
// each document's natural page order. Sources whose page count cannot be
// determined are skipped and reported; empty documents are skipped silently.
func CollectPages(ctx context.Context, counter PageCounter, paths []string) ([]domain.PageRef, []SourceError) {
	var refs []domain.PageRef
	var failed []SourceError
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			abs = p
		}
		n, err := counter.PageCount(ctx, abs)
		if err != nil {
			failed = append(failed, SourceError{Path: abs, Err: err})
			continue
		}
		for i := 0; i < n; i++ {
			refs = append(refs, domain.PageRef{SourcePath: abs, PageIndex: i})
		}
	}
	return refs, failed
}
