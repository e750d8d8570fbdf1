package handler

import (
	"net/http"

	"github.com/HeyitsSridhar/SkillPath-AI/internal/ai"
	"github.com/HeyitsSridhar/SkillPath-AI/internal/middleware"
	"github.com/HeyitsSridhar/SkillPath-AI/internal/util"

	"github.com/gin-gonic/gin"
)

// ResourceHandler 负责学习资源生成接口
type ResourceHandler struct {
	AI *ai.Client
}

// NewResourceHandler 构造函数
func NewResourceHandler(client *ai.Client) *ResourceHandler {
	return &ResourceHandler{AI: client}
}

type generateResourcesReq struct {
	Course         string `json:"course" binding:"required,max=128"`
	KnowledgeLevel string `json:"knowledge_level" binding:"required,max=32"`
	Description    string `json:"description" binding:"max=512"`
	Time           string `json:"time" binding:"required,max=64"`
}

// GenerateResources 生成学习资源清单，不落库
func (h *ResourceHandler) GenerateResources(c *gin.Context) {
	if _, ok := middleware.CurrentUser(c); !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not authenticated")
		return
	}

	var req generateResourcesReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	result := h.AI.GenerateResources(c.Request.Context(), req.Course, req.KnowledgeLevel, req.Description, req.Time)

	util.Success(c, util.Response{
		"resources": result.Resources,
		"source":    result.Source,
	})
}
