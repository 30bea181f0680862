package models

import (
	"github.com/repartia/api/internal/constants"
	"github.com/repartia/api/internal/logger"

	"golang.org/x/crypto/bcrypt"
)

// InitDefaults creates the default tenant and administrator account on
// first start.
func InitDefaults(username, password string) error {
	var tenantCount int64
	DB.Model(&Tenant{}).Count(&tenantCount)
	if tenantCount == 0 {
		if err := DB.Create(&Tenant{Name: "default", IsActive: true}).Error; err != nil {
			return err
		}
	}

	var userCount int64
	DB.Model(&User{}).Count(&userCount)
	if userCount > 0 {
		return nil
	}

	var tenant Tenant
	if err := DB.Order("id asc").First(&tenant).Error; err != nil {
		return err
	}

	if username == "" {
		username = "admin"
	}
	if password == "" {
		password = "admin123"
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	admin := User{
		TenantID:     tenant.ID,
		Username:     username,
		PasswordHash: string(hash),
		DisplayName:  username,
		IsAdmin:      true,
		CanSell:      true,
		CanDeliver:   true,
		Status:       constants.UserStatusActive,
	}
	if err := DB.Create(&admin).Error; err != nil {
		return err
	}

	if password == "admin123" {
		logger.Warnw("default_admin_created_with_default_password", "username", username)
		logger.Warnw("default_admin_password_change_required", "username", username)
	} else {
		logger.Warnw("default_admin_created", "username", username, "password_hidden", true)
	}
	return nil
}
