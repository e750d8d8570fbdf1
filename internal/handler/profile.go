package handler

import (
	"net/http"
	"strings"

	"github.com/HeyitsSridhar/SkillPath-AI/internal/middleware"
	"github.com/HeyitsSridhar/SkillPath-AI/internal/models"
	"github.com/HeyitsSridhar/SkillPath-AI/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// UpdateProfileReq 更新基本资料请求，空字段表示不修改
type UpdateProfileReq struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	FullName string `json:"full_name" binding:"max=128"`
	Avatar   string `json:"avatar" binding:"max=255"`
}

// ChangePasswordReq 修改密码请求
type ChangePasswordReq struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// UpdateProfile 更新当前用户的资料
func UpdateProfile(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not authenticated")
			return
		}

		var req UpdateProfileReq
		if err := c.ShouldBindJSON(&req); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
			return
		}

		updates := map[string]interface{}{}

		if req.Email != "" {
			email := strings.ToLower(strings.TrimSpace(req.Email))
			if err := util.ValidateEmail(email); err != nil {
				util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
				return
			}
			updates["email"] = email
		}
		if req.Username != "" {
			username := strings.TrimSpace(req.Username)
			if err := util.ValidateUsername(username); err != nil {
				util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
				return
			}
			updates["username"] = username
		}
		if req.FullName != "" {
			updates["full_name"] = strings.TrimSpace(req.FullName)
		}
		if req.Avatar != "" {
			updates["avatar"] = req.Avatar
		}

		if len(updates) == 0 {
			util.Success(c, util.Response{"user": user.Public()})
			return
		}

		if err := db.Model(user).Updates(updates).Error; err != nil {
			if isUniqueViolation(err) {
				util.Error(c, http.StatusConflict, util.CodeConflict, "email or username already taken")
				return
			}
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to update profile")
			return
		}

		// 重新查一次，保证返回的是落库后的值
		var fresh models.User
		if err := db.First(&fresh, user.ID).Error; err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load user")
			return
		}

		util.Success(c, util.Response{"user": fresh.Public()})
	}
}

// ChangePassword 修改当前用户密码
func ChangePassword(db *gorm.DB, bcryptCost int) gin.HandlerFunc {
	return func(c *gin.Context) {
		user, ok := middleware.CurrentUser(c)
		if !ok {
			util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not authenticated")
			return
		}

		var req ChangePasswordReq
		if err := c.ShouldBindJSON(&req); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
			return
		}

		if !util.CheckPassword(req.OldPassword, user.PasswordHash) {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "old password is incorrect")
			return
		}

		if err := util.ValidatePassword(req.NewPassword); err != nil {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, err.Error())
			return
		}

		hash, err := util.HashPassword(req.NewPassword, bcryptCost)
		if err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to hash password")
			return
		}

		if err := db.Model(user).Update("password_hash", hash).Error; err != nil {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to update password")
			return
		}

		util.Success(c, util.Response{
			"message": "password updated, please log in again with the new password",
		})
	}
}
