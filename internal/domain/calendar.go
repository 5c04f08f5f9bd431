package domain

// DayCell is one cell of the rendered month grid. Cells are recomputed on
// every render from the current tap-event batch; they are never persisted.
type DayCell struct {
	// Date is the day-of-month number. For padding cells it belongs to the
	// adjacent month, not the month being displayed.
	Date int `json:"date"`
	// BoardingCount is the number of tap events on this calendar day.
	// Always 0 for padding cells.
	BoardingCount int `json:"boardingCount"`
	// IsCurrentMonth distinguishes cells of the displayed month from the
	// leading/trailing padding taken from the adjacent months.
	IsCurrentMonth bool `json:"isCurrentMonth"`
}
