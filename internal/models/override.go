package models

import (
	"database/sql"

	"github.com/go-playground/validator/v10"
)

// Override is a per-user exception to the activity dates. A NULL date
// column means that date is not overridden.
type Override struct {
	ID            int64         `db:"id" json:"id"`
	CheckmarkID   int64         `db:"checkmarkid" json:"checkmarkid" validate:"required"`
	UserID        int64         `db:"userid" json:"userid" validate:"required"`
	ModifierID    int64         `db:"modifierid" json:"modifierid"`
	TimeAvailable sql.NullInt64 `db:"timeavailable" json:"-"`
	TimeDue       sql.NullInt64 `db:"timedue" json:"-"`
	CutoffDate    sql.NullInt64 `db:"cutoffdate" json:"-"`
	TimeCreated   int64         `db:"timecreated" json:"timecreated"`
	TimeModified  int64         `db:"timemodified" json:"timemodified"`
}

func (o *Override) Validate() error {
	validate := validator.New()
	return validate.Struct(o)
}

// OverriddenDates holds the dates applying to one user. A nil field is not
// overridden; a zero value is an override that disables the date.
type OverriddenDates struct {
	TimeAvailable *int64
	TimeDue       *int64
	CutoffDate    *int64
}

func (d *OverriddenDates) Empty() bool {
	return d == nil || (d.TimeAvailable == nil && d.TimeDue == nil && d.CutoffDate == nil)
}

func nullToPtr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	out := v.Int64
	return &out
}

func (o *Override) Dates() *OverriddenDates {
	return &OverriddenDates{
		TimeAvailable: nullToPtr(o.TimeAvailable),
		TimeDue:       nullToPtr(o.TimeDue),
		CutoffDate:    nullToPtr(o.CutoffDate),
	}
}
