/*
 * Copyright (c) 2025 by Jules Collenne.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package domain defines the core data model for pdfkiwi.
package domain

import (
	"fmt"
	"path/filepath"
)

// PageRef identifies one page of one source document. It is an immutable
// value: two refs are equal iff both fields are equal. The same page may
// appear several times in an arrangement; repeats are distinct by collection
// position, not by identity.
//
// The referenced file is owned externally and must stay in place until an
// export completes.
type PageRef struct {
	SourcePath string // absolute path to the source PDF
	PageIndex  int    // zero-based page index
}

// Label returns short display text for the page, e.g. "report.pdf · page 3".
func (p PageRef) Label() string {
	return fmt.Sprintf("%s · page %d", filepath.Base(p.SourcePath), p.PageIndex+1)
}

// PageNumber returns the one-based page number used by external PDF tools.
func (p PageRef) PageNumber() int { return p.PageIndex + 1 }
