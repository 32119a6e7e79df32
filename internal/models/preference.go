package models

type UserPreference struct {
	UserID int64  `db:"userid" json:"userid"`
	Name   string `db:"name" json:"name"`
	Value  string `db:"value" json:"value"`
}
