package sim

import "github.com/RussAbbott/cubesat/internal/sat"

// Record is one trajectory sample: the committed state of one body at the
// end of one tick, plus whether its command was constrained that tick.
type Record struct {
	Tick      int
	Time      float64
	BodyID    string
	State     sat.KinematicState
	Violation bool
}

// Log is the append-only trajectory history, one Record per body per tick.
// Owned by the simulator; readers get copies of the backing slice header
// only, never mutation rights.
type Log struct {
	records []Record
}

func (l *Log) append(r Record) {
	l.records = append(l.records, r)
}

func (l *Log) Len() int { return len(l.records) }

// Records returns the full history in commit order.
func (l *Log) Records() []Record { return l.records }

// ForBody filters the history down to one body, preserving order.
func (l *Log) ForBody(id string) []Record {
	out := make([]Record, 0, len(l.records))
	for _, r := range l.records {
		if r.BodyID == id {
			out = append(out, r)
		}
	}
	return out
}

// Last returns the most recent record for a body, if any.
func (l *Log) Last(id string) (Record, bool) {
	for i := len(l.records) - 1; i >= 0; i-- {
		if l.records[i].BodyID == id {
			return l.records[i], true
		}
	}
	return Record{}, false
}
