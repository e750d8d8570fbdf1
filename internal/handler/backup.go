package handler

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/HeyitsSridhar/SkillPath-AI/internal/models"
	"github.com/HeyitsSridhar/SkillPath-AI/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// BackupHandler 负责数据库备份接口（仅管理员）
type BackupHandler struct {
	DB        *gorm.DB
	DBPath    string
	BackupDir string
}

// NewBackupHandler 构造函数
func NewBackupHandler(db *gorm.DB, dbPath, backupDir string) *BackupHandler {
	return &BackupHandler{
		DB:        db,
		DBPath:    dbPath,
		BackupDir: backupDir,
	}
}

// copyFile 普通文件拷贝，备份和恢复都用它
func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("open %s: %w", src, err)
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("create %s: %w", dst, err)
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return fmt.Errorf("copy: %w", err)
	}
	return out.Sync()
}

// CreateBackup 把数据库文件复制一份到备份目录，并记录当时的数据量
func (h *BackupHandler) CreateBackup(c *gin.Context) {
	var users, roadmaps, quizStats int64
	if err := h.DB.Model(&models.User{}).Count(&users).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to query users")
		return
	}
	if err := h.DB.Model(&models.Roadmap{}).Count(&roadmaps).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to query roadmaps")
		return
	}
	if err := h.DB.Model(&models.QuizStat{}).Count(&quizStats).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to query quiz stats")
		return
	}

	if err := os.MkdirAll(h.BackupDir, 0o755); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to create backup dir")
		return
	}

	// WAL 里的改动先落回主文件，再拷贝
	if sqlDB, err := h.DB.DB(); err == nil {
		_, _ = sqlDB.Exec("PRAGMA wal_checkpoint(TRUNCATE);")
	}

	// 使用 uuid + 时间作为文件名
	fileName := fmt.Sprintf("skillpath-%s-%s.db",
		time.Now().Format("20060102_150405"), uuid.New().String())
	filePath := filepath.Join(h.BackupDir, fileName)

	if err := copyFile(h.DBPath, filePath); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to write backup file")
		return
	}

	info, err := os.Stat(filePath)
	if err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to stat backup file")
		return
	}

	backup := models.Backup{
		FileName:  fileName,
		FilePath:  filePath,
		Size:      info.Size(),
		Users:     users,
		Roadmaps:  roadmaps,
		QuizStats: quizStats,
	}
	if err := h.DB.Create(&backup).Error; err != nil {
		_ = os.Remove(filePath)
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to save backup record")
		return
	}

	util.Success(c, util.Response{
		"backup": gin.H{
			"id":         backup.ID,
			"file_name":  backup.FileName,
			"size":       backup.Size,
			"users":      backup.Users,
			"roadmaps":   backup.Roadmaps,
			"quiz_stats": backup.QuizStats,
			"created_at": backup.CreatedAt,
		},
	})
}

// ListBackups 列出已有备份
func (h *BackupHandler) ListBackups(c *gin.Context) {
	var list []models.Backup
	if err := h.DB.Order("created_at DESC").Find(&list).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to query backups")
		return
	}

	items := make([]gin.H, 0, len(list))
	for i := range list {
		b := &list[i]
		items = append(items, gin.H{
			"id":         b.ID,
			"file_name":  b.FileName,
			"size":       b.Size,
			"users":      b.Users,
			"roadmaps":   b.Roadmaps,
			"quiz_stats": b.QuizStats,
			"created_at": b.CreatedAt,
		})
	}

	util.Success(c, util.Response{"items": items})
}

// RestoreBackup 从备份恢复数据库。
// 恢复前先把当前库复制一份出来，出问题还能回退。
func (h *BackupHandler) RestoreBackup(c *gin.Context) {
	id := c.Param("id")

	var backup models.Backup
	if err := h.DB.First(&backup, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "backup not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to query backups")
		}
		return
	}

	if _, err := os.Stat(backup.FilePath); err != nil {
		util.Error(c, http.StatusNotFound, util.CodeNotFound, "backup file missing on disk")
		return
	}

	// 先备份当前数据库
	preRestore := h.DBPath + fmt.Sprintf(".pre-restore-%s", time.Now().Format("20060102_150405"))
	if err := copyFile(h.DBPath, preRestore); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to back up current database")
		return
	}

	if err := copyFile(backup.FilePath, h.DBPath); err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to restore backup")
		return
	}

	util.Success(c, util.Response{
		"message":         "database restored, restart the service to pick up the restored data",
		"previous_backup": preRestore,
	})
}

// DeleteBackup 删除备份记录及对应文件
func (h *BackupHandler) DeleteBackup(c *gin.Context) {
	id := c.Param("id")

	var backup models.Backup
	if err := h.DB.First(&backup, id).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			util.Error(c, http.StatusNotFound, util.CodeNotFound, "backup not found")
		} else {
			util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to query backups")
		}
		return
	}

	// 先删文件，再删记录
	_ = os.Remove(backup.FilePath)
	if err := h.DB.Delete(&backup).Error; err != nil {
		util.Error(c, http.StatusInternalServerError, util.CodeServerErr, "failed to delete backup record")
		return
	}

	util.Success(c, util.Response{"message": "backup deleted"})
}
