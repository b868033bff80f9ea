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

// SessionState is the lifecycle of one drag gesture.
type SessionState int

const (
	Idle SessionState = iota
	Dragging
	Applied
	Cancelled
)

func (s SessionState) String() string {
	switch s {
	case Idle:
		return "idle"
	case Dragging:
		return "dragging"
	case Applied:
		return "applied"
	case Cancelled:
		return "cancelled"
	}
	return "unknown"
}

// Session orchestrates one drag gesture over an arrangement. The selection is
// captured at drag start and frozen for the whole gesture; pointer moves only
// update the planned target. The arrangement is mutated exactly once, on a
// successful drop (or on a drop onto the discard surface), so cancelling at
// any point leaves it in its pre-drag state.
//
// One session is active at a time; starting a new gesture while one is in
// flight implicitly cancels the old one.
type Session struct {
	arr     *Arrangement
	planner Planner

	state     SessionState
	selected  []int
	target    Target
	hasTarget bool
}

// NewSession returns an idle session bound to the given arrangement.
func NewSession(arr *Arrangement, planner Planner) *Session {
	return &Session{arr: arr, planner: planner}
}

// State reports the current gesture state.
func (s *Session) State() SessionState { return s.state }

// Selected returns the frozen selection captured at drag start.
func (s *Session) Selected() []int {
	out := make([]int, len(s.selected))
	copy(out, s.selected)
	return out
}

// Start begins a gesture with the currently selected indices. A gesture
// already in flight is cancelled first.
func (s *Session) Start(selected []int) {
	s.selected = normalizeIndices(selected, s.arr.Len())
	s.target = Target{}
	s.hasTarget = false
	s.state = Dragging
}

// Move updates the planned target from the latest geometry snapshot and
// pointer position. It returns the target and whether one exists; the caller
// renders the drop marker from Target.Box and Target.Before.
func (s *Session) Move(items []ItemBox, p Pt) (Target, bool) {
	if s.state != Dragging {
		return Target{}, false
	}
	s.target = s.planner.Target(items, p)
	s.hasTarget = true
	return s.target, true
}

// Leave suppresses the marker while the pointer is off the drop surface.
// The gesture stays in flight; a later Move re-establishes a target.
func (s *Session) Leave() {
	s.target = Target{}
	s.hasTarget = false
}

// Drop completes the gesture. With a live target it relocates the frozen
// selection to the target's insertion index and reports true; without one it
// is a no-op cancel.
func (s *Session) Drop() bool {
	if s.state != Dragging {
		return false
	}
	if !s.hasTarget {
		s.state = Cancelled
		return false
	}
	s.arr.Relocate(s.selected, s.target.InsertionIndex())
	s.state = Applied
	return true
}

// DropDiscard completes the gesture on the discard surface: the frozen
// selection is removed from the arrangement.
func (s *Session) DropDiscard() bool {
	if s.state != Dragging {
		return false
	}
	s.arr.RemoveAt(s.selected)
	s.state = Applied
	return true
}

// Cancel aborts the gesture without touching the arrangement.
func (s *Session) Cancel() {
	if s.state != Dragging {
		return
	}
	s.target = Target{}
	s.hasTarget = false
	s.state = Cancelled
}
