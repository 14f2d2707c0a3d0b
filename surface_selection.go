package pixelbox

// --- Selection Methods ---

// HasSelection returns true if a cell is selected
func (s *Surface) HasSelection() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selection >= 0
}

// Selection returns the selected cell
func (s *Surface) Selection() (Cell, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.selection < 0 {
		return Cell{}, false
	}
	return s.grid.Cells[s.selection], true
}

// ClearSelection drops the selection without regenerating
func (s *Surface) ClearSelection() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selection < 0 {
		return
	}
	s.selection = -1
	s.markDirty()
}

// RecolorSelection sets the selected cell to a greyscale DN. Returns false,
// changing nothing, when no cell is selected.
func (s *Surface) RecolorSelection(dn int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.selection < 0 {
		return false
	}
	s.grid.Cells[s.selection].Recolor(dn)
	s.markDirty()
	return true
}

// --- Painting ---

// Paint draws every cell and the selection outline, ignoring the dirty flag
func (s *Surface) Paint(p Painter) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	s.paint(p)
}

// paint must be called with the lock held
func (s *Surface) paint(p Painter) {
	p.Clear(s.grid.Width, s.grid.Height)
	for _, c := range s.grid.Cells {
		p.FillRect(c.X, c.Y, c.Size, c.Size, c.Color)
	}
	if s.selection >= 0 {
		c := s.grid.Cells[s.selection]
		p.StrokeRect(c.X+1, c.Y+1, c.Size-2, c.Size-2, selectionLineWidth, SelectionColor)
	}
	if f, ok := p.(Flusher); ok {
		f.Flush()
	}
}

// Redraw paints the surface if it is dirty and clears the flag. It does
// nothing once the surface has been detached. Returns true if it painted.
func (s *Surface) Redraw(p Painter) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.detached || !s.dirty || p == nil {
		return false
	}
	s.paint(p)
	s.dirty = false
	return true
}

// --- Redraw Scheduling ---

// Attach starts the periodic redraw pass into p on sched. Attaching again
// replaces the previous schedule.
func (s *Surface) Attach(sched Scheduler, p Painter) {
	cancel := sched.Every(RedrawInterval, func() {
		s.Redraw(p)
	})

	// Swap in one critical section so a concurrent Detach sees either the
	// old schedule or the new one, never neither
	s.mu.Lock()
	prev := s.cancelRedraw
	s.cancelRedraw = cancel
	s.detached = false
	s.dirty = true
	s.mu.Unlock()

	if prev != nil {
		prev()
	}
}

// Detach stops the redraw schedule. Later redraws are silently skipped.
func (s *Surface) Detach() {
	s.mu.Lock()
	cancel := s.cancelRedraw
	s.cancelRedraw = nil
	s.detached = true
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

// IsAttached returns true while a redraw schedule is running
func (s *Surface) IsAttached() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cancelRedraw != nil
}
