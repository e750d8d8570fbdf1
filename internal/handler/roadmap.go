package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/HeyitsSridhar/SkillPath-AI/internal/ai"
	"github.com/HeyitsSridhar/SkillPath-AI/internal/middleware"
	"github.com/HeyitsSridhar/SkillPath-AI/internal/models"
	"github.com/HeyitsSridhar/SkillPath-AI/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// RoadmapHandler 负责学习路线相关接口
type RoadmapHandler struct {
	DB *gorm.DB
	AI *ai.Client
}

// NewRoadmapHandler 构造函数
func NewRoadmapHandler(db *gorm.DB, client *ai.Client) *RoadmapHandler {
	return &RoadmapHandler{DB: db, AI: client}
}

type createRoadmapReq struct {
	Topic          string `json:"topic" binding:"required,max=128"`
	Time           string `json:"time" binding:"required,max=64"`
	KnowledgeLevel string `json:"knowledge_level" binding:"required,max=32"`
}

// CreateRoadmap 生成并保存一份学习路线。
// 上游生成失败时落库的是兜底路线，接口本身不会因此失败。
func (h *RoadmapHandler) CreateRoadmap(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not authenticated")
		return
	}

	var req createRoadmapReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	req.Topic = strings.TrimSpace(req.Topic)
	if req.Topic == "" {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "topic is empty")
		return
	}

	result := h.AI.GenerateRoadmap(c.Request.Context(), req.Topic, req.Time, req.KnowledgeLevel)

	raw, err := json.Marshal(result.Roadmap)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to serialize roadmap")
		return
	}

	roadmap := models.Roadmap{
		UserID:         user.ID,
		Topic:          req.Topic,
		Time:           req.Time,
		KnowledgeLevel: req.KnowledgeLevel,
		RoadmapData:    raw,
	}
	if err := h.DB.Create(&roadmap).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to save roadmap")
		return
	}

	util.Success(c, util.Response{
		"roadmap": gin.H{
			"id":              roadmap.ID,
			"topic":           roadmap.Topic,
			"time":            roadmap.Time,
			"knowledge_level": roadmap.KnowledgeLevel,
			"roadmap_data":    result.Roadmap,
			"source":          result.Source,
			"created_at":      roadmap.CreatedAt,
		},
	})
}

// ListRoadmaps 列出当前用户的路线
func (h *RoadmapHandler) ListRoadmaps(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not authenticated")
		return
	}

	var roadmaps []models.Roadmap
	if err := h.DB.Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Find(&roadmaps).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to query roadmaps")
		return
	}

	items := make([]gin.H, 0, len(roadmaps))
	for i := range roadmaps {
		r := &roadmaps[i]
		items = append(items, roadmapJSON(r))
	}

	util.Success(c, util.Response{"items": items})
}

// GetRoadmap 返回指定路线（仅限本人）
func (h *RoadmapHandler) GetRoadmap(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not authenticated")
		return
	}

	id := c.Param("id")

	var roadmap models.Roadmap
	if err := h.DB.Where("id = ? AND user_id = ?", id, user.ID).
		First(&roadmap).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "roadmap not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to query roadmaps")
		}
		return
	}

	util.Success(c, util.Response{"roadmap": roadmapJSON(&roadmap)})
}

// DeleteRoadmap 删除指定路线（仅限本人）
func (h *RoadmapHandler) DeleteRoadmap(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not authenticated")
		return
	}

	id := c.Param("id")

	var roadmap models.Roadmap
	if err := h.DB.Where("id = ? AND user_id = ?", id, user.ID).
		First(&roadmap).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "roadmap not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to query roadmaps")
		}
		return
	}

	if err := h.DB.Delete(&roadmap).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to delete roadmap")
		return
	}

	util.Success(c, util.Response{"message": "roadmap deleted"})
}

// roadmapJSON 把存储的 JSON blob 还原成结构返回
func roadmapJSON(r *models.Roadmap) gin.H {
	var data ai.Roadmap
	_ = json.Unmarshal(r.RoadmapData, &data)
	return gin.H{
		"id":              r.ID,
		"topic":           r.Topic,
		"time":            r.Time,
		"knowledge_level": r.KnowledgeLevel,
		"roadmap_data":    data,
		"created_at":      r.CreatedAt,
	}
}
