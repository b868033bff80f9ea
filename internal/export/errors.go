/*
 * Copyright (c) 2025 by Jules Collenne.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package export

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/JulesCollenne/pdfkiwi/internal/domain"
)

// ErrEmptyArrangement is returned when an export is requested with zero
// pages. No external primitive is invoked in that case.
var ErrEmptyArrangement = errors.New("nothing to export: add pages first")

// ToolMissingError reports that the split/merge backend cannot run at all.
// It is raised once, up front, before any file is touched.
type ToolMissingError struct {
	Backend string
	Err     error
}

func (e *ToolMissingError) Error() string {
	return fmt.Sprintf("export tools unavailable (%s backend): %v", e.Backend, e.Err)
}
func (e *ToolMissingError) Unwrap() error { return e.Err }

// ExtractError reports a single page that failed to split out. The whole
// export is aborted; no output file is written.
type ExtractError struct {
	Ref domain.PageRef
	Err error
}

func (e *ExtractError) Error() string {
	return fmt.Sprintf("extracting page %d of %s: %v",
		e.Ref.PageNumber(), filepath.Base(e.Ref.SourcePath), e.Err)
}
func (e *ExtractError) Unwrap() error { return e.Err }

// MergeError reports a failed final assembly after all extractions
// succeeded. Nothing is left at the destination path.
type MergeError struct {
	Err error
}

func (e *MergeError) Error() string { return fmt.Sprintf("merging pages: %v", e.Err) }
func (e *MergeError) Unwrap() error { return e.Err }
