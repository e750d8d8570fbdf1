package models

import "time"

// Role is the closed set of account roles.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// User represents application user.
type User struct {
	ID            uint      `gorm:"primaryKey"`
	Email         string    `gorm:"size:255;uniqueIndex;not null"`
	Username      string    `gorm:"size:64;uniqueIndex;not null"`
	FullName      string    `gorm:"size:128"`
	PasswordHash  string    `gorm:"size:255;not null"`
	Role          Role      `gorm:"size:16;default:user;not null"`
	Avatar        string    `gorm:"size:255;default:/avatar.jpg"`
	HardnessIndex float64   `gorm:"default:1.0"` // 学习难度系数，由测验成绩推算
	IsActive      bool      `gorm:"default:true;not null"`
	CreatedAt     time.Time
	UpdatedAt     time.Time

	Roadmaps  []Roadmap  `gorm:"constraint:OnDelete:CASCADE"`
	QuizStats []QuizStat `gorm:"constraint:OnDelete:CASCADE"`
}

// Public 返回可以直接放进 JSON 响应的字段（不含密码哈希）
func (u *User) Public() map[string]interface{} {
	return map[string]interface{}{
		"id":             u.ID,
		"email":          u.Email,
		"username":       u.Username,
		"full_name":      u.FullName,
		"role":           u.Role,
		"avatar":         u.Avatar,
		"hardness_index": u.HardnessIndex,
		"is_active":      u.IsActive,
		"created_at":     u.CreatedAt,
	}
}
