package util

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	emailRe    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
	usernameRe = regexp.MustCompile(`^[A-Za-z0-9_]{3,32}$`)
)

// ValidateEmail 验证邮箱格式（简单规则，唯一性交给数据库约束）
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return fmt.Errorf("email is empty")
	}
	if len(email) > 255 {
		return fmt.Errorf("email too long, max 255 characters")
	}
	if !emailRe.MatchString(email) {
		return fmt.Errorf("invalid email format")
	}
	return nil
}

// ValidateUsername 验证用户名：3-32 位，仅字母、数字、下划线
func ValidateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("username is empty")
	}
	if !usernameRe.MatchString(username) {
		return fmt.Errorf("username must be 3-32 letters, digits or underscores")
	}
	return nil
}

// ValidatePassword 验证密码长度：6-72 字节（72 是 bcrypt 上限）
func ValidatePassword(password string) error {
	if len(password) < 6 {
		return fmt.Errorf("password too short, min 6 characters")
	}
	if len(password) > MaxPasswordBytes {
		return fmt.Errorf("password too long, max %d bytes", MaxPasswordBytes)
	}
	return nil
}
