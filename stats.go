package striped64

import (
	"fmt"
	"strings"
)

// AdderStats is a snapshot of an accumulator's striping state,
// intended for debugging and capacity discussions rather than
// monitoring. Populated by the Stats methods.
type AdderStats struct {
	// Slots is the current cell table length, 0 while the
	// accumulator still runs entirely on its base word.
	Slots int
	// Cells is the number of slots holding an attached cell.
	Cells int
	// Capacity is the length the table can grow to on this machine.
	Capacity int
}

func (s *striped64) stats() *AdderStats {
	stats := &AdderStats{Capacity: tableCap()}
	if t := s.cells.Load(); t != nil {
		stats.Slots = len(t.slots)
		for i := range t.slots {
			if t.slots[i].Load() != nil {
				stats.Cells++
			}
		}
	}
	return stats
}

// ToString returns string representation of adder stats.
func (s *AdderStats) ToString() string {
	var sb strings.Builder
	sb.WriteString("AdderStats{\n")
	sb.WriteString(fmt.Sprintf("Slots:    %d\n", s.Slots))
	sb.WriteString(fmt.Sprintf("Cells:    %d\n", s.Cells))
	sb.WriteString(fmt.Sprintf("Capacity: %d\n", s.Capacity))
	sb.WriteString("}\n")
	return sb.String()
}
