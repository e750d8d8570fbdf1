package router

import (
	"time"

	"github.com/HeyitsSridhar/SkillPath-AI/internal/ai"
	"github.com/HeyitsSridhar/SkillPath-AI/internal/config"
	"github.com/HeyitsSridhar/SkillPath-AI/internal/handler"
	"github.com/HeyitsSridhar/SkillPath-AI/internal/middleware"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRouter configures Gin engine, CORS and all API routes.
func SetupRouter(cfg *config.Config, db *gorm.DB) *gin.Engine {
	if cfg.Server.Mode != "" {
		gin.SetMode(cfg.Server.Mode)
	}
	r := gin.New()
	r.Use(gin.Logger(), gin.Recovery())

	// CORS：允许的前端来源从配置读取
	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = cfg.CORS.AllowedOrigins
	}
	r.Use(cors.New(corsCfg))

	aiClient := ai.NewClient(cfg.AI)

	// ====== API ======
	api := r.Group("/api")

	jwtSecret := cfg.JWT.Secret

	// 登录/注册接口（不需要鉴权）
	authHandler := handler.NewAuthHandler(db, jwtSecret, cfg.JWT.ExpireMinutes, cfg.Security.BcryptCost)
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)

	// 需要登录才能访问的接口
	protected := api.Group("")
	protected.Use(middleware.AuthMiddleware(jwtSecret, db))

	protected.GET("/auth/me", handler.GetMe)

	protected.PUT("/profile", handler.UpdateProfile(db))
	protected.POST("/profile/password", handler.ChangePassword(db, cfg.Security.BcryptCost))

	roadmapHandler := handler.NewRoadmapHandler(db, aiClient)
	protected.POST("/roadmaps", roadmapHandler.CreateRoadmap)
	protected.GET("/roadmaps", roadmapHandler.ListRoadmaps)
	protected.GET("/roadmaps/:id", roadmapHandler.GetRoadmap)
	protected.DELETE("/roadmaps/:id", roadmapHandler.DeleteRoadmap)

	quizHandler := handler.NewQuizHandler(db, aiClient)
	protected.POST("/quiz/generate", quizHandler.GenerateQuiz)
	protected.POST("/quiz/stats", quizHandler.CreateQuizStat)
	protected.GET("/quiz/stats", quizHandler.ListQuizStats)

	resourceHandler := handler.NewResourceHandler(aiClient)
	protected.POST("/resources/generate", resourceHandler.GenerateResources)

	dashboardHandler := handler.NewDashboardHandler(db)
	protected.GET("/dashboard/stats", dashboardHandler.GetStats)

	// 管理员接口
	admin := protected.Group("/admin")
	admin.Use(middleware.AdminOnly())

	adminHandler := handler.NewAdminHandler(db)
	admin.GET("/stats", adminHandler.GetStats)
	admin.GET("/users", adminHandler.ListUsers)
	admin.PUT("/users/:id", adminHandler.UpdateUser)
	admin.DELETE("/users/:id", adminHandler.DeleteUser)
	admin.GET("/export/users", adminHandler.ExportUsersXLSX)

	backupHandler := handler.NewBackupHandler(db, cfg.Database.Path, cfg.Backup.Dir)
	admin.POST("/backups", backupHandler.CreateBackup)
	admin.GET("/backups", backupHandler.ListBackups)
	admin.POST("/backups/:id/restore", backupHandler.RestoreBackup)
	admin.DELETE("/backups/:id", backupHandler.DeleteBackup)

	return r
}
