package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/HeyitsSridhar/SkillPath-AI/internal/middleware"
	"github.com/HeyitsSridhar/SkillPath-AI/internal/models"
	"github.com/HeyitsSridhar/SkillPath-AI/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"
	"gorm.io/gorm"
)

// AdminHandler 负责管理员接口（用户管理、平台统计、导出）
type AdminHandler struct {
	DB *gorm.DB
}

// NewAdminHandler 构造函数
func NewAdminHandler(db *gorm.DB) *AdminHandler {
	return &AdminHandler{DB: db}
}

// GetStats 平台整体统计
func (h *AdminHandler) GetStats(c *gin.Context) {
	var totalUsers, activeUsers, totalRoadmaps, totalQuizzes int64

	if err := h.DB.Model(&models.User{}).Count(&totalUsers).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to query users")
		return
	}
	if err := h.DB.Model(&models.User{}).Where("is_active = ?", true).Count(&activeUsers).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to query users")
		return
	}
	if err := h.DB.Model(&models.Roadmap{}).Count(&totalRoadmaps).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to query roadmaps")
		return
	}
	if err := h.DB.Model(&models.QuizStat{}).Count(&totalQuizzes).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to query quiz stats")
		return
	}

	var recent []models.User
	if err := h.DB.Order("created_at DESC").Limit(5).Find(&recent).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to query users")
		return
	}
	recentUsers := make([]map[string]interface{}, 0, len(recent))
	for i := range recent {
		recentUsers = append(recentUsers, recent[i].Public())
	}

	util.Success(c, util.Response{
		"total_users":    totalUsers,
		"active_users":   activeUsers,
		"total_roadmaps": totalRoadmaps,
		"total_quizzes":  totalQuizzes,
		"recent_users":   recentUsers,
	})
}

// ListUsers 分页列出所有用户
func (h *AdminHandler) ListUsers(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	var total int64
	if err := h.DB.Model(&models.User{}).Count(&total).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to query users")
		return
	}

	var users []models.User
	if err := h.DB.Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&users).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to query users")
		return
	}

	items := make([]map[string]interface{}, 0, len(users))
	for i := range users {
		items = append(items, users[i].Public())
	}

	util.Success(c, util.Response{
		"items":     items,
		"total":     total,
		"page":      page,
		"page_size": pageSize,
	})
}

type adminUpdateUserReq struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	FullName string `json:"full_name" binding:"max=128"`
	Avatar   string `json:"avatar" binding:"max=255"`
	Role     string `json:"role"`
	IsActive *bool  `json:"is_active"`
}

// UpdateUser 管理员修改用户资料、角色和启用状态
func (h *AdminHandler) UpdateUser(c *gin.Context) {
	id := c.Param("id")

	var target models.User
	if err := h.DB.First(&target, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "user not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to query users")
		}
		return
	}

	var req adminUpdateUserReq
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
	if req.Role != "" {
		role := models.Role(req.Role)
		if !role.Valid() {
			util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid role")
			return
		}
		updates["role"] = role
	}
	if req.IsActive != nil {
		updates["is_active"] = *req.IsActive
	}

	if len(updates) > 0 {
		if err := h.DB.Model(&target).Updates(updates).Error; err != nil {
			if isUniqueViolation(err) {
				util.Error(c, http.StatusConflict, util.CodeConflict, "email or username already taken")
				return
			}
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to update user")
			return
		}
	}

	var fresh models.User
	if err := h.DB.First(&fresh, target.ID).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to load user")
		return
	}

	util.Success(c, util.Response{"user": fresh.Public()})
}

// DeleteUser 删除用户，级联删除其路线和测验记录。
// 管理员不能删除自己的账号。
func (h *AdminHandler) DeleteUser(c *gin.Context) {
	admin, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not authenticated")
		return
	}

	id := c.Param("id")

	var target models.User
	if err := h.DB.First(&target, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "user not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to query users")
		}
		return
	}

	if target.ID == admin.ID {
		util.Error(c, http.StatusForbidden, util.CodeForbidden, "cannot delete your own account")
		return
	}

	// 外键带 OnDelete:CASCADE，这里显式删除子表以兼容未开启外键的库
	if err := h.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", target.ID).Delete(&models.Roadmap{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", target.ID).Delete(&models.QuizStat{}).Error; err != nil {
			return err
		}
		return tx.Delete(&target).Error
	}); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to delete user")
		return
	}

	util.Success(c, util.Response{"message": "user deleted"})
}

// ExportUsersXLSX 导出用户列表为 XLSX
func (h *AdminHandler) ExportUsersXLSX(c *gin.Context) {
	var users []models.User
	if err := h.DB.Order("id ASC").Find(&users).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to query users")
		return
	}

	f := excelize.NewFile()
	sheet := "Users"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"ID", "Email", "Username", "Full Name", "Role", "Active", "Hardness", "Created At"}
	for i, title := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheet, cell, title)
	}

	for row, u := range users {
		values := []interface{}{
			u.ID, u.Email, u.Username, u.FullName, string(u.Role),
			u.IsActive, u.HardnessIndex, u.CreatedAt.Format("2006-01-02 15:04:05"),
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			_ = f.SetCellValue(sheet, cell, v)
		}
	}

	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"users_%s.xlsx\"",
		time.Now().Format("20060102")))

	if err := f.Write(c.Writer); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to write xlsx")
		return
	}
}
