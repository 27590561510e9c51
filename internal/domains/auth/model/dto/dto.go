package dto

import (
	"resort/infras/jwt"
	adminModel "resort/internal/domains/admin/model"
	visitorModel "resort/internal/domains/visitor/model"
)

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required"`
}

type AdminProfile struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type VisitorProfile struct {
	ID        string `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
}

// LoginResponse carries the session token twice over the wire: the handler
// sets it as an HTTP-only cookie and the body repeats it with the profile for
// clients that prefer the Authorization header.
type AdminLoginResponse struct {
	Token     string       `json:"token"`
	TokenType string       `json:"token_type"`
	ExpiresIn int64        `json:"expires_in"`
	Profile   AdminProfile `json:"profile"`
}

func (r *AdminLoginResponse) FromSession(session *jwt.Session, admin adminModel.Admin) {
	r.Token = session.Token
	r.TokenType = session.TokenType
	r.ExpiresIn = session.ExpiresIn
	r.Profile = AdminProfile{
		ID:    admin.ID,
		Name:  admin.Name,
		Email: admin.Email,
		Role:  admin.Role,
	}
}

type VisitorLoginResponse struct {
	Token     string         `json:"token"`
	TokenType string         `json:"token_type"`
	ExpiresIn int64          `json:"expires_in"`
	Profile   VisitorProfile `json:"profile"`
}

func (r *VisitorLoginResponse) FromSession(session *jwt.Session, visitor visitorModel.VisitorAccount) {
	r.Token = session.Token
	r.TokenType = session.TokenType
	r.ExpiresIn = session.ExpiresIn
	r.Profile = VisitorProfile{
		ID:        visitor.ID,
		FirstName: visitor.FirstName,
		LastName:  visitor.LastName,
		Email:     visitor.Email,
		Phone:     visitor.Phone,
	}
}
