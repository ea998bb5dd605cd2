package ports

import "time"

type Direction string

const (
	DirIn  Direction = "in"
	DirOut Direction = "out"
)

type HistoryEntry struct {
	Seq  uint64    `json:"seq"`
	Time time.Time `json:"time"`
	Dir  Direction `json:"dir"`
	Line string    `json:"line"`
}

// HistoryPort keeps a bounded window of recently exchanged raw lines for
// diagnostics.
type HistoryPort interface {
	Record(dir Direction, line string)
	Recent() []HistoryEntry
	Clear()
}
