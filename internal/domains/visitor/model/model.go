package model

import "resort/shared/model"

const (
	TableName  = "visitor_accounts"
	EntityName = "visitor account"

	FieldID        = "id"
	FieldFirstName = "first_name"
	FieldLastName  = "last_name"
	FieldEmail     = "email"
	FieldPhone     = "phone"
	FieldPassword  = "password"
	FieldIsActive  = "is_active"
	FieldLastLogin = "last_login"
)

type VisitorAccount struct {
	ID        string  `db:"id"`
	FirstName string  `db:"first_name"`
	LastName  string  `db:"last_name"`
	Email     string  `db:"email"`
	Phone     string  `db:"phone"`
	Password  string  `db:"password"`
	IsActive  bool    `db:"is_active"`
	LastLogin *string `db:"last_login"`
	model.Metadata
}

func (v VisitorAccount) FullName() string {
	if v.LastName == "" {
		return v.FirstName
	}

	return v.FirstName + " " + v.LastName
}
