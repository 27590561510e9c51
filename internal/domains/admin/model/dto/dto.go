package dto

import (
	"resort/internal/domains/admin/model"
	"resort/shared"
	gDto "resort/shared/dto"
	gModel "resort/shared/model"
	"resort/shared/timezone"

	"github.com/google/uuid"
)

type CreateAdminRequest struct {
	Name     string `json:"name"     validate:"required,max=100"`
	Email    string `json:"email"    validate:"required,email,max=100"`
	Password string `json:"password" validate:"required"`
	Role     string `json:"role"     validate:"required,oneof=superadmin moderator"`
}

func (c *CreateAdminRequest) ToModel(user, hashedPassword string) model.Admin {
	return model.Admin{
		ID:       uuid.NewString(),
		Name:     c.Name,
		Email:    c.Email,
		Password: hashedPassword,
		Role:     c.Role,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateAdminRequest struct {
	Name  string `db:"name"  json:"name"  validate:"omitempty,max=100"`
	Email string `db:"email" json:"email" validate:"omitempty,email,max=100"`
	Role  string `db:"role"  json:"role"  validate:"omitempty,oneof=superadmin moderator"`
}

type AdminResponse struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Email     string  `json:"email"`
	Role      string  `json:"role"`
	LastLogin *string `json:"last_login,omitempty"`
	gDto.Metadata
}

func (r *AdminResponse) FromModel(admin model.Admin) {
	r.ID = admin.ID
	r.Name = admin.Name
	r.Email = admin.Email
	r.Role = admin.Role
	r.LastLogin = admin.LastLogin
	r.Metadata.FromModel(admin.Metadata)
}

type GetAdminsResponse struct {
	Admins    []AdminResponse `json:"admins"`
	TotalPage int             `json:"total_page"`
	TotalData int             `json:"total_data"`
}

func (r *GetAdminsResponse) FromModels(models []model.Admin, totalData, limit int) {
	r.Admins = make([]AdminResponse, 0, len(models))

	for _, m := range models {
		res := AdminResponse{}
		res.FromModel(m)

		r.Admins = append(r.Admins, res)
	}

	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)
}
