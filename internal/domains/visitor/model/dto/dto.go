package dto

import (
	"resort/internal/domains/visitor/model"
	"resort/shared"
	gDto "resort/shared/dto"
	gModel "resort/shared/model"
	"resort/shared/timezone"

	"github.com/google/uuid"
)

type RegisterVisitorRequest struct {
	FirstName string `json:"first_name" validate:"required,max=50"`
	LastName  string `json:"last_name"  validate:"omitempty,max=50"`
	Email     string `json:"email"      validate:"required,email,max=100"`
	Phone     string `json:"phone"      validate:"required,max=20"`
	Password  string `json:"password"   validate:"required"`
}

func (r *RegisterVisitorRequest) ToModel(hashedPassword string) model.VisitorAccount {
	id := uuid.NewString()

	return model.VisitorAccount{
		ID:        id,
		FirstName: r.FirstName,
		LastName:  r.LastName,
		Email:     r.Email,
		Phone:     r.Phone,
		Password:  hashedPassword,
		IsActive:  true,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  id,
			ModifiedBy: id,
		},
	}
}

type UpdateVisitorRequest struct {
	FirstName string `db:"first_name" json:"first_name" validate:"omitempty,max=50"`
	LastName  string `db:"last_name"  json:"last_name"  validate:"omitempty,max=50"`
	Phone     string `db:"phone"      json:"phone"      validate:"omitempty,max=20"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token    string `json:"token"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

type VisitorResponse struct {
	ID        string  `json:"id"`
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Email     string  `json:"email"`
	Phone     string  `json:"phone"`
	IsActive  bool    `json:"is_active"`
	LastLogin *string `json:"last_login,omitempty"`
	gDto.Metadata
}

func (r *VisitorResponse) FromModel(visitor model.VisitorAccount) {
	r.ID = visitor.ID
	r.FirstName = visitor.FirstName
	r.LastName = visitor.LastName
	r.Email = visitor.Email
	r.Phone = visitor.Phone
	r.IsActive = visitor.IsActive
	r.LastLogin = visitor.LastLogin
	r.Metadata.FromModel(visitor.Metadata)
}

type GetVisitorsResponse struct {
	Visitors  []VisitorResponse `json:"visitors"`
	TotalPage int               `json:"total_page"`
	TotalData int               `json:"total_data"`
}

func (r *GetVisitorsResponse) FromModels(models []model.VisitorAccount, totalData, limit int) {
	r.Visitors = make([]VisitorResponse, 0, len(models))

	for _, m := range models {
		res := VisitorResponse{}
		res.FromModel(m)

		r.Visitors = append(r.Visitors, res)
	}

	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)
}
