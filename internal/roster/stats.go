package roster

import (
	"github.com/kingrea/roster/internal/student"
)

// Stats summarizes the scores on a non-empty roster.
type Stats struct {
	Count        int
	Passed       int
	Failed       int
	Average      float64
	PassRate     float64
	Highest      int
	Lowest       int
	Distribution map[student.Grade]int
}

// Statistics computes Stats over the current roster, or ErrNoData when it is empty.
func (r *Roster) Statistics() (Stats, error) {
	if len(r.students) == 0 {
		return Stats{}, ErrNoData
	}
	stats := Stats{
		Count:        len(r.students),
		Highest:      student.MinScore,
		Lowest:       student.MaxScore,
		Distribution: make(map[student.Grade]int, len(student.Grades)),
	}
	for _, g := range student.Grades {
		stats.Distribution[g] = 0
	}
	total := 0
	for _, s := range r.students {
		score := s.TestScore()
		total += score
		if s.Passed() {
			stats.Passed++
		}
		if score > stats.Highest {
			stats.Highest = score
		}
		if score < stats.Lowest {
			stats.Lowest = score
		}
		stats.Distribution[s.Grade()]++
	}
	stats.Failed = stats.Count - stats.Passed
	stats.Average = float64(total) / float64(stats.Count)
	stats.PassRate = float64(stats.Passed) / float64(stats.Count) * 100
	return stats, nil
}
