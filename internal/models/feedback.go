package models

import (
	"database/sql"

	"github.com/go-playground/validator/v10"
)

const (
	AttendanceAbsent  int64 = 0
	AttendancePresent int64 = 1
)

type Feedback struct {
	ID                   int64           `db:"id" json:"id"`
	CheckmarkID          int64           `db:"checkmarkid" json:"checkmarkid" validate:"required"`
	UserID               int64           `db:"userid" json:"userid" validate:"required"`
	GraderID             int64           `db:"graderid" json:"graderid"`
	Grade                sql.NullFloat64 `db:"grade" json:"-"`
	Feedback             string          `db:"feedback" json:"feedback"`
	Format               int             `db:"format" json:"format" validate:"oneof=0 1 2 4"`
	Attendance           sql.NullInt64   `db:"attendance" json:"-"`
	PresentationGrade    sql.NullFloat64 `db:"presentationgrade" json:"-"`
	PresentationFeedback string          `db:"presentationfeedback" json:"presentationfeedback"`
	PresentationFormat   int             `db:"presentationformat" json:"presentationformat" validate:"oneof=0 1 2 4"`
	TimeCreated          int64           `db:"timecreated" json:"timecreated"`
	TimeModified         int64           `db:"timemodified" json:"timemodified"`
	Mailed               bool            `db:"mailed" json:"mailed"`
}

func (f *Feedback) Validate() error {
	validate := validator.New()
	if err := validate.Struct(f); err != nil {
		return err
	}
	if f.Attendance.Valid {
		return validate.Var(f.Attendance.Int64, "oneof=0 1")
	}
	return nil
}
