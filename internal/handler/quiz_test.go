package handler

import (
	"errors"
	"path/filepath"
	"testing"

	"github.com/HeyitsSridhar/SkillPath-AI/internal/models"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("打开测试数据库失败: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.QuizStat{}); err != nil {
		t.Fatalf("迁移失败: %v", err)
	}
	return db
}

// TestRecalcHardness 难度系数由累计正确率推算
func TestRecalcHardness(t *testing.T) {
	db := setupTestDB(t)
	h := &QuizHandler{DB: db}

	user := models.User{Email: "h@test.local", Username: "huser", PasswordHash: "x"}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("创建用户失败: %v", err)
	}

	// 无记录 -> 1.0
	hardness, err := h.recalcHardness(user.ID)
	if err != nil {
		t.Fatalf("recalcHardness: %v", err)
	}
	if hardness != 1.0 {
		t.Errorf("无记录时 hardness = %v, want 1.0", hardness)
	}

	// 全对 -> 0.5
	db.Create(&models.QuizStat{UserID: user.ID, Topic: "Go", WeekNum: 1, SubtopicNum: 1, NumCorrect: 5, NumQuestions: 5})
	hardness, _ = h.recalcHardness(user.ID)
	if hardness != 0.5 {
		t.Errorf("全对时 hardness = %v, want 0.5", hardness)
	}

	// 再来一次全错：总正确率 0.5 -> 2 - 0.75 = 1.25
	db.Create(&models.QuizStat{UserID: user.ID, Topic: "Go", WeekNum: 1, SubtopicNum: 2, NumCorrect: 0, NumQuestions: 5})
	hardness, _ = h.recalcHardness(user.ID)
	if hardness != 1.25 {
		t.Errorf("混合成绩 hardness = %v, want 1.25", hardness)
	}
}

// TestIsUniqueViolation 唯一约束冲突的归一判断
func TestIsUniqueViolation(t *testing.T) {
	if isUniqueViolation(nil) {
		t.Error("nil 不是唯一约束冲突")
	}
	if isUniqueViolation(errors.New("some other error")) {
		t.Error("普通错误不是唯一约束冲突")
	}
	if !isUniqueViolation(errors.New("UNIQUE constraint failed: users.email")) {
		t.Error("应识别 sqlite 的唯一约束错误")
	}

	// 真撞一次库里的唯一索引
	db := setupTestDB(t)
	u1 := models.User{Email: "dup@test.local", Username: "dup1", PasswordHash: "x"}
	u2 := models.User{Email: "dup@test.local", Username: "dup2", PasswordHash: "x"}
	if err := db.Create(&u1).Error; err != nil {
		t.Fatalf("创建用户失败: %v", err)
	}
	err := db.Create(&u2).Error
	if err == nil {
		t.Fatal("重复邮箱应报错")
	}
	if !isUniqueViolation(err) {
		t.Errorf("应识别为唯一约束冲突: %v", err)
	}
}
