package privacy

import (
	"database/sql"
	"strconv"
	"time"

	"github.com/shrimpsizemoose/checkmark/internal/models"
)

const (
	DefaultDateLayout = "Monday, 2 January 2006, 15:04"
	NotSet            = "-"
)

// Transform renders stored values into what an export reader understands.
type Transform struct {
	location *time.Location
	layout   string
}

func NewTransform(location *time.Location, layout string) *Transform {
	if location == nil {
		location = time.UTC
	}
	if layout == "" {
		layout = DefaultDateLayout
	}
	return &Transform{location: location, layout: layout}
}

// User returns the reference an export uses for another person: their id.
func (t *Transform) User(userID int64) int64 {
	return userID
}

// Datetime formats a unix timestamp. Zero means the date is disabled.
func (t *Transform) Datetime(unix int64) string {
	if unix == 0 {
		return NotSet
	}
	return time.Unix(unix, 0).In(t.location).Format(t.layout)
}

func (t *Transform) YesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

func (t *Transform) Grade(grade sql.NullFloat64) string {
	if !grade.Valid {
		return NotSet
	}
	return strconv.FormatFloat(grade.Float64, 'f', -1, 64)
}

func (t *Transform) Attendance(attendance sql.NullInt64) string {
	if !attendance.Valid {
		return "Unknown"
	}
	switch attendance.Int64 {
	case models.AttendancePresent:
		return "Attendant"
	case models.AttendanceAbsent:
		return "Absent"
	}
	return "Unknown"
}
