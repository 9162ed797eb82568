package database

import (
	"time"
)

// FetchLog is one recorded fetch run. The displayed articles themselves are
// never persisted; this table is an operational audit trail only.
type FetchLog struct {
	ID           int64
	RanAt        time.Time
	Trigger      string // manual, preview
	Shape        string
	TotalRecords int
	Kept         int
	Dropped      int
	DisplayTotal int // size of the display list after the merge
	ErrorText    string
}
