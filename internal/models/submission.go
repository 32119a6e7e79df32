package models

import (
	"github.com/go-playground/validator/v10"
)

type Submission struct {
	ID           int64 `db:"id" json:"id"`
	CheckmarkID  int64 `db:"checkmarkid" json:"checkmarkid" validate:"required"`
	UserID       int64 `db:"userid" json:"userid" validate:"required"`
	TimeCreated  int64 `db:"timecreated" json:"timecreated"`
	TimeModified int64 `db:"timemodified" json:"timemodified"`
}

// IsSubmitted is true once both timestamps have been recorded.
func (s *Submission) IsSubmitted() bool {
	return s != nil && s.TimeCreated != 0 && s.TimeModified != 0
}

func (s *Submission) Validate() error {
	validate := validator.New()
	return validate.Struct(s)
}

type Check struct {
	ID           int64 `db:"id" json:"id"`
	ExampleID    int64 `db:"exampleid" json:"exampleid" validate:"required"`
	SubmissionID int64 `db:"submissionid" json:"submissionid" validate:"required"`
	State        bool  `db:"state" json:"state"`
}

// ExampleCheck is a check joined with the example it refers to.
type ExampleCheck struct {
	ExampleID int64  `db:"exampleid"`
	Name      string `db:"name"`
	Grade     int64  `db:"grade"`
	State     bool   `db:"state"`
}

func (c *Check) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}
