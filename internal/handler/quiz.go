package handler

import (
	"net/http"

	"github.com/HeyitsSridhar/SkillPath-AI/internal/ai"
	"github.com/HeyitsSridhar/SkillPath-AI/internal/middleware"
	"github.com/HeyitsSridhar/SkillPath-AI/internal/models"
	"github.com/HeyitsSridhar/SkillPath-AI/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// QuizHandler 负责测验生成和成绩记录
type QuizHandler struct {
	DB *gorm.DB
	AI *ai.Client
}

// NewQuizHandler 构造函数
func NewQuizHandler(db *gorm.DB, client *ai.Client) *QuizHandler {
	return &QuizHandler{DB: db, AI: client}
}

type generateQuizReq struct {
	Course      string `json:"course" binding:"required,max=128"`
	Topic       string `json:"topic" binding:"required,max=128"`
	Subtopic    string `json:"subtopic" binding:"required,max=128"`
	Description string `json:"description" binding:"max=512"`
}

// GenerateQuiz 生成一份测验，不落库
func (h *QuizHandler) GenerateQuiz(c *gin.Context) {
	if _, ok := middleware.CurrentUser(c); !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not authenticated")
		return
	}

	var req generateQuizReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}

	result := h.AI.GenerateQuiz(c.Request.Context(), req.Course, req.Topic, req.Subtopic, req.Description)

	util.Success(c, util.Response{
		"quiz":   result.Quiz,
		"source": result.Source,
	})
}

// ---------- 成绩记录 ----------

type createQuizStatReq struct {
	Topic        string `json:"topic" binding:"required,max=128"`
	WeekNum      int    `json:"week_num" binding:"required,min=1"`
	SubtopicNum  int    `json:"subtopic_num" binding:"required,min=1"`
	NumCorrect   int    `json:"num_correct" binding:"min=0"`
	NumQuestions int    `json:"num_questions" binding:"required,min=1"`
	TimeTaken    int    `json:"time_taken" binding:"min=0"` // 毫秒
}

// CreateQuizStat 记录一次测验成绩，并重新计算难度系数
func (h *QuizHandler) CreateQuizStat(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not authenticated")
		return
	}

	var req createQuizStatReq
	if err := c.ShouldBindJSON(&req); err != nil {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "invalid request body")
		return
	}
	if req.NumCorrect > req.NumQuestions {
		util.Error(c, http.StatusBadRequest, util.CodeInvalidParam, "num_correct exceeds num_questions")
		return
	}

	stat := models.QuizStat{
		UserID:       user.ID,
		Topic:        req.Topic,
		WeekNum:      req.WeekNum,
		SubtopicNum:  req.SubtopicNum,
		NumCorrect:   req.NumCorrect,
		NumQuestions: req.NumQuestions,
		TimeTaken:    req.TimeTaken,
	}
	if err := h.DB.Create(&stat).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to save quiz stat")
		return
	}

	hardness, err := h.recalcHardness(user.ID)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to update hardness index")
		return
	}
	if err := h.DB.Model(&models.User{}).
		Where("id = ?", user.ID).
		Update("hardness_index", hardness).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to update hardness index")
		return
	}

	util.Success(c, util.Response{
		"stat": gin.H{
			"id":            stat.ID,
			"topic":         stat.Topic,
			"week_num":      stat.WeekNum,
			"subtopic_num":  stat.SubtopicNum,
			"num_correct":   stat.NumCorrect,
			"num_questions": stat.NumQuestions,
			"time_taken":    stat.TimeTaken,
			"created_at":    stat.CreatedAt,
		},
		"hardness_index": hardness,
	})
}

// recalcHardness 由历史正确率推算难度系数：
// 全对 -> 0.5（内容太简单），全错 -> 2.0，无记录 -> 1.0
func (h *QuizHandler) recalcHardness(userID uint) (float64, error) {
	type agg struct {
		Correct   int64
		Questions int64
	}
	var a agg
	if err := h.DB.Model(&models.QuizStat{}).
		Select("COALESCE(SUM(num_correct), 0) AS correct, COALESCE(SUM(num_questions), 0) AS questions").
		Where("user_id = ?", userID).
		Scan(&a).Error; err != nil {
		return 0, err
	}
	if a.Questions == 0 {
		return 1.0, nil
	}
	accuracy := float64(a.Correct) / float64(a.Questions)
	hardness := 2.0 - 1.5*accuracy
	if hardness < 0.5 {
		hardness = 0.5
	}
	if hardness > 2.0 {
		hardness = 2.0
	}
	return hardness, nil
}

// ListQuizStats 列出当前用户的测验成绩
func (h *QuizHandler) ListQuizStats(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not authenticated")
		return
	}

	var stats []models.QuizStat
	if err := h.DB.Where("user_id = ?", user.ID).
		Order("created_at DESC").
		Find(&stats).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to query quiz stats")
		return
	}

	items := make([]gin.H, 0, len(stats))
	for i := range stats {
		s := &stats[i]
		items = append(items, gin.H{
			"id":            s.ID,
			"topic":         s.Topic,
			"week_num":      s.WeekNum,
			"subtopic_num":  s.SubtopicNum,
			"num_correct":   s.NumCorrect,
			"num_questions": s.NumQuestions,
			"time_taken":    s.TimeTaken,
			"created_at":    s.CreatedAt,
		})
	}

	util.Success(c, util.Response{"items": items})
}
