package dto

import (
	"lodge/internal/domains/user/model"
	gDto "lodge/shared/dto"
)

type UserResponse struct {
	ID     string  `json:"id"`
	Email  string  `json:"email"`
	Name   *string `json:"name,omitempty"`
	Role   string  `json:"role"`
	Active bool    `json:"active"`
	gDto.Metadata
}

func (u *UserResponse) FromModel(model model.User) {
	u.ID = model.ID
	u.Email = model.Email
	u.Name = model.Name
	u.Role = model.Role
	u.Active = model.Active
	u.Metadata.FromModel(model.Metadata)
}
