package models

import (
	"github.com/go-playground/validator/v10"
)

// ContextLevelModule is the host's context level for a single activity instance.
const (
	ContextLevelSystem = 10
	ContextLevelUser   = 30
	ContextLevelCourse = 50
	ContextLevelModule = 70
)

const ModuleName = "checkmark"

type Context struct {
	ID           int64 `db:"id" json:"id"`
	ContextLevel int   `db:"contextlevel" json:"contextlevel"`
	InstanceID   int64 `db:"instanceid" json:"instanceid"`
}

func (c *Context) IsModule() bool {
	return c != nil && c.ContextLevel == ContextLevelModule
}

type Checkmark struct {
	ID                  int64  `db:"id" json:"id"`
	Course              int64  `db:"course" json:"course" validate:"required"`
	Name                string `db:"name" json:"name" validate:"required,max=255"`
	Grade               int64  `db:"grade" json:"grade"`
	TrackAttendance     bool   `db:"trackattendance" json:"trackattendance"`
	PresentationGrading bool   `db:"presentationgrading" json:"presentationgrading"`
	PresentationGrade   int64  `db:"presentationgrade" json:"presentationgrade"`
	CompletionSubmit    bool   `db:"completionsubmit" json:"completionsubmit"`
	TimeAvailable       int64  `db:"timeavailable" json:"timeavailable"`
	TimeDue             int64  `db:"timedue" json:"timedue"`
	CutoffDate          int64  `db:"cutoffdate" json:"cutoffdate"`
}

// GradingEnabled reports whether feedback carries a grade. Negative values
// are scales, zero means no grading.
func (c *Checkmark) GradingEnabled() bool {
	return c.Grade != 0
}

func (c *Checkmark) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

// ActivityContext is a checkmark instance resolved from a module context.
type ActivityContext struct {
	ContextID      int64 `db:"contextid"`
	CourseModuleID int64 `db:"cmid"`
	Checkmark
}

type Example struct {
	ID          int64  `db:"id" json:"id"`
	CheckmarkID int64  `db:"checkmarkid" json:"checkmarkid" validate:"required"`
	Name        string `db:"name" json:"name" validate:"required"`
	Grade       int64  `db:"grade" json:"grade"`
}

func (e *Example) Validate() error {
	validate := validator.New()
	return validate.Struct(e)
}
