package handler

import (
	"net/http"

	"github.com/HeyitsSridhar/SkillPath-AI/internal/middleware"
	"github.com/HeyitsSridhar/SkillPath-AI/internal/models"
	"github.com/HeyitsSridhar/SkillPath-AI/internal/util"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// DashboardHandler 负责用户学习进度面板
type DashboardHandler struct {
	DB *gorm.DB
}

// NewDashboardHandler 构造函数
func NewDashboardHandler(db *gorm.DB) *DashboardHandler {
	return &DashboardHandler{DB: db}
}

// GetStats 返回当前用户的进度统计：
// 课程数、完成的测验数、难度系数、按主题汇总的进度
func (h *DashboardHandler) GetStats(c *gin.Context) {
	user, ok := middleware.CurrentUser(c)
	if !ok {
		util.Error(c, http.StatusUnauthorized, util.CodeAuth, "not authenticated")
		return
	}

	var totalCourses int64
	if err := h.DB.Model(&models.Roadmap{}).
		Where("user_id = ?", user.ID).
		Count(&totalCourses).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to query roadmaps")
		return
	}

	var completedQuizzes int64
	if err := h.DB.Model(&models.QuizStat{}).
		Where("user_id = ?", user.ID).
		Count(&completedQuizzes).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to query quiz stats")
		return
	}

	// 按主题汇总：做过多少次测验、总正确率、平均耗时
	type topicAgg struct {
		Topic     string
		Taken     int64
		Correct   int64
		Questions int64
		AvgTime   float64
	}
	var rows []topicAgg
	if err := h.DB.Model(&models.QuizStat{}).
		Select("topic, COUNT(*) AS taken, SUM(num_correct) AS correct, SUM(num_questions) AS questions, AVG(time_taken) AS avg_time").
		Where("user_id = ?", user.ID).
		Group("topic").
		Scan(&rows).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to query quiz stats")
		return
	}

	progress := make(map[string]gin.H, len(rows))
	for _, row := range rows {
		accuracy := 0.0
		if row.Questions > 0 {
			accuracy = float64(row.Correct) / float64(row.Questions)
		}
		progress[row.Topic] = gin.H{
			"quizzes_taken": row.Taken,
			"accuracy":      accuracy,
			"avg_time_ms":   row.AvgTime,
		}
	}

	util.Success(c, util.Response{
		"total_courses":     totalCourses,
		"completed_quizzes": completedQuizzes,
		"hardness_index":    user.HardnessIndex,
		"progress":          progress,
	})
}
