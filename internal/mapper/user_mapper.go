package mapper

import (
	"github.com/best200-lab/juristmindchat/internal/entity"
	"github.com/best200-lab/juristmindchat/internal/model"
)

type UserMapper struct{}

func NewUserMapper() *UserMapper {
	return &UserMapper{}
}

func (m *UserMapper) ToEntity(u *model.User) *entity.User {
	if u == nil {
		return nil
	}
	return &entity.User{
		Id:                      u.Id,
		Email:                   u.Email,
		PasswordHash:            u.PasswordHash,
		FullName:                u.FullName,
		Role:                    entity.UserRole(u.Role),
		Status:                  entity.UserStatus(u.Status),
		CreatedAt:               u.CreatedAt,
		UpdatedAt:               u.UpdatedAt,
		ChatDailyUsage:          u.ChatDailyUsage,
		ChatDailyUsageLastReset: u.ChatDailyUsageLastReset,
		ChatDailyLimitOverride:  u.ChatDailyLimitOverride,
	}
}

func (m *UserMapper) ToModel(u *entity.User) *model.User {
	if u == nil {
		return nil
	}
	return &model.User{
		Id:                      u.Id,
		Email:                   u.Email,
		PasswordHash:            u.PasswordHash,
		FullName:                u.FullName,
		Role:                    string(u.Role),
		Status:                  string(u.Status),
		CreatedAt:               u.CreatedAt,
		UpdatedAt:               u.UpdatedAt,
		ChatDailyUsage:          u.ChatDailyUsage,
		ChatDailyUsageLastReset: u.ChatDailyUsageLastReset,
		ChatDailyLimitOverride:  u.ChatDailyLimitOverride,
	}
}
