package database

import (
	"fmt"

	"github.com/HeyitsSridhar/SkillPath-AI/internal/config"
	"github.com/HeyitsSridhar/SkillPath-AI/internal/models"
	"github.com/HeyitsSridhar/SkillPath-AI/internal/util"

	"gorm.io/gorm"
)

// AutoMigrate runs database schema migrations for all models.
func AutoMigrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Roadmap{},
		&models.QuizStat{},
		&models.Backup{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	return nil
}

// SeedAdmin 确保存在一个管理员账号（幂等）。
// 密码和普通用户一样走 bcrypt，不使用任何降级的哈希方式。
func SeedAdmin(db *gorm.DB, cfg config.AdminConfig, bcryptCost int) error {
	if cfg.Email == "" || cfg.Password == "" {
		return nil
	}

	var count int64
	if err := db.Model(&models.User{}).
		Where("email = ?", cfg.Email).
		Count(&count).Error; err != nil {
		return fmt.Errorf("check admin: %w", err)
	}
	if count > 0 {
		return nil
	}

	hash, err := util.HashPassword(cfg.Password, bcryptCost)
	if err != nil {
		return fmt.Errorf("hash admin password: %w", err)
	}

	username := cfg.Username
	if username == "" {
		username = "admin"
	}

	admin := models.User{
		Email:        cfg.Email,
		Username:     username,
		FullName:     "Admin User",
		PasswordHash: hash,
		Role:         models.RoleAdmin,
		IsActive:     true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("create admin: %w", err)
	}
	return nil
}
