/*
 * Copyright (c) 2025 by Jules Collenne.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package undo

import (
	"sync"
	"time"

	"github.com/JulesCollenne/pdfkiwi/internal/domain"
)

// Snapshot is one captured arrangement state. Pages is owned by the manager
// after Push; callers get a copy back on Undo/Redo.
type Snapshot struct {
	Label string
	Pages []domain.PageRef
	TS    time.Time
}

// Config controls depth caps and coalescing behavior.
type Config struct {
	// MaxDepth limits the number of undo steps kept (0 means the default).
	MaxDepth int
	// MinInterval coalesces same-label snapshots captured within the
	// interval, replacing the previous one instead of pushing a new entry.
	// Keeps rapid-fire appends from flooding the stack.
	MinInterval time.Duration
}

// Manager keeps an in-memory undo/redo stack of arrangement states. Safe for
// concurrent use.
type Manager struct {
	cfg  Config
	mu   sync.Mutex
	undo []Snapshot
	redo []Snapshot
}

func NewManager(cfg Config) *Manager {
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = 100
	}
	if cfg.MinInterval <= 0 {
		cfg.MinInterval = 250 * time.Millisecond
	}
	return &Manager{cfg: cfg}
}

// Push records the arrangement state prior to a change. A push within
// MinInterval of the previous one with the same label replaces it. Any push
// clears the redo stack.
func (m *Manager) Push(label string, pages []domain.PageRef) {
	s := Snapshot{Label: label, Pages: clonePages(pages), TS: time.Now()}
	m.mu.Lock()
	defer m.mu.Unlock()
	if n := len(m.undo); n > 0 {
		last := m.undo[n-1]
		if last.Label == label && s.TS.Sub(last.TS) < m.cfg.MinInterval {
			m.undo[n-1] = s
			m.redo = nil
			return
		}
	}
	m.undo = append(m.undo, s)
	m.redo = nil
	if len(m.undo) > m.cfg.MaxDepth {
		m.undo = append([]Snapshot{}, m.undo[len(m.undo)-m.cfg.MaxDepth:]...)
	}
}

// Undo returns the most recently pushed state and moves the given current
// state onto the redo stack.
func (m *Manager) Undo(current []domain.PageRef) (Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.undo)
	if n == 0 {
		return Snapshot{}, false
	}
	s := m.undo[n-1]
	m.undo = m.undo[:n-1]
	m.redo = append(m.redo, Snapshot{Label: s.Label, Pages: clonePages(current), TS: time.Now()})
	return Snapshot{Label: s.Label, Pages: clonePages(s.Pages), TS: s.TS}, true
}

// Redo reverses the latest Undo, moving the given current state back onto
// the undo stack.
func (m *Manager) Redo(current []domain.PageRef) (Snapshot, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.redo)
	if n == 0 {
		return Snapshot{}, false
	}
	s := m.redo[n-1]
	m.redo = m.redo[:n-1]
	m.undo = append(m.undo, Snapshot{Label: s.Label, Pages: clonePages(current), TS: time.Now()})
	return Snapshot{Label: s.Label, Pages: clonePages(s.Pages), TS: s.TS}, true
}

// CanUndo reports whether an undo step is available.
func (m *Manager) CanUndo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.undo) > 0
}

// CanRedo reports whether a redo step is available.
func (m *Manager) CanRedo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.redo) > 0
}

// Clear drops both stacks, used when a new arrangement is started.
func (m *Manager) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.undo, m.redo = nil, nil
}

// Depth returns current stack sizes for diagnostics.
func (m *Manager) Depth() (undo, redo int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.undo), len(m.redo)
}

func clonePages(pages []domain.PageRef) []domain.PageRef {
	if pages == nil {
		return nil
	}
	return append([]domain.PageRef(nil), pages...)
}
