package habitlog

// DateLayout is the canonical calendar-day key format. A log's date is an
// opaque "YYYY-MM-DD" string and is only ever compared by string equality,
// never interpreted as an instant in some timezone.
const DateLayout = "2006-01-02"

// Status is the binary outcome recorded for a single day.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
)

// Valid reports whether s is one of the two recordable outcomes.
func (s Status) Valid() bool {
	return s == StatusSuccess || s == StatusFailed
}

// DailyLog is one user's recorded outcome for one calendar day.
// At most one DailyLog exists per (user, date) pair.
type DailyLog struct {
	Date   string `json:"date" db:"date"`
	Status Status `json:"status" db:"status"`
}
