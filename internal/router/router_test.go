package router

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/HeyitsSridhar/SkillPath-AI/internal/config"
	"github.com/HeyitsSridhar/SkillPath-AI/internal/database"
	"github.com/HeyitsSridhar/SkillPath-AI/internal/models"
	"github.com/HeyitsSridhar/SkillPath-AI/internal/util"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testSecret = "router-test-secret"

// setupTestApp 起一套完整的路由 + 临时数据库
func setupTestApp(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("打开测试数据库失败: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("迁移失败: %v", err)
	}

	cfg := &config.Config{
		Server: config.ServerConfig{Mode: gin.TestMode},
		JWT:    config.JWTConfig{Secret: testSecret, ExpireMinutes: 30},
		// 测试里把 bcrypt cost 压到最低，不然太慢
		Security: config.SecurityConfig{BcryptCost: 4},
		// AI 不配 key：所有生成都走兜底分支，不会发真实请求
		AI: config.AIConfig{},
	}

	return SetupRouter(cfg, db), db
}

type envelope struct {
	Code    int                    `json:"code"`
	Message string                 `json:"message"`
	Data    map[string]interface{} `json:"data"`
}

func doJSON(r *gin.Engine, method, path, token string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	_ = json.Unmarshal(w.Body.Bytes(), &env)
	return w, env
}

func registerUser(t *testing.T, r *gin.Engine, email, username string) (string, map[string]interface{}) {
	t.Helper()
	w, env := doJSON(r, http.MethodPost, "/api/auth/register", "", gin.H{
		"email":     email,
		"username":  username,
		"full_name": "Test User",
		"password":  "Password123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("注册失败: %d %s", w.Code, w.Body.String())
	}
	token, _ := env.Data["access_token"].(string)
	user, _ := env.Data["user"].(map[string]interface{})
	if token == "" || user == nil {
		t.Fatalf("注册响应缺少 token 或 user: %s", w.Body.String())
	}
	return token, user
}

// TestRegisterLoginMe 注册 -> 拿 token -> /auth/me 返回同一个账号
func TestRegisterLoginMe(t *testing.T) {
	r, _ := setupTestApp(t)

	token, user := registerUser(t, r, "alice@test.local", "alice")

	w, env := doJSON(r, http.MethodGet, "/api/auth/me", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("/auth/me 状态码 = %d", w.Code)
	}
	me, _ := env.Data["user"].(map[string]interface{})
	if me["email"] != user["email"] || me["username"] != user["username"] {
		t.Errorf("/auth/me 返回的不是注册的账号: %v vs %v", me, user)
	}

	// 登录也要成功
	w, env = doJSON(r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "alice@test.local",
		"password": "Password123",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("登录状态码 = %d: %s", w.Code, w.Body.String())
	}
	if env.Data["access_token"] == "" {
		t.Error("登录响应缺少 token")
	}
}

// TestRegister_DuplicateEmail 重复邮箱/用户名注册返回冲突
func TestRegister_DuplicateEmail(t *testing.T) {
	r, _ := setupTestApp(t)
	registerUser(t, r, "bob@test.local", "bob")

	// 同邮箱
	w, _ := doJSON(r, http.MethodPost, "/api/auth/register", "", gin.H{
		"email":    "bob@test.local",
		"username": "bob2",
		"password": "Password123",
	})
	if w.Code != http.StatusConflict {
		t.Errorf("重复邮箱状态码 = %d, want 409", w.Code)
	}

	// 同用户名
	w, _ = doJSON(r, http.MethodPost, "/api/auth/register", "", gin.H{
		"email":    "bob2@test.local",
		"username": "bob",
		"password": "Password123",
	})
	if w.Code != http.StatusConflict {
		t.Errorf("重复用户名状态码 = %d, want 409", w.Code)
	}
}

// TestRegister_PasswordTooLong 超过 72 字节的密码在哈希前被拒绝
func TestRegister_PasswordTooLong(t *testing.T) {
	r, _ := setupTestApp(t)

	w, _ := doJSON(r, http.MethodPost, "/api/auth/register", "", gin.H{
		"email":    "long@test.local",
		"username": "longpass",
		"password": strings.Repeat("a", 73),
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("超长密码状态码 = %d, want 400", w.Code)
	}
}

// TestLogin_UniformErrorMessage 密码错误和邮箱不存在必须返回同一条消息
func TestLogin_UniformErrorMessage(t *testing.T) {
	r, _ := setupTestApp(t)
	registerUser(t, r, "carol@test.local", "carol")

	w1, env1 := doJSON(r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "carol@test.local",
		"password": "WrongPassword",
	})
	w2, env2 := doJSON(r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "nobody@test.local",
		"password": "Whatever123",
	})

	if w1.Code != http.StatusUnauthorized || w2.Code != http.StatusUnauthorized {
		t.Fatalf("状态码 = %d / %d, want 401 / 401", w1.Code, w2.Code)
	}
	if env1.Message != env2.Message {
		t.Errorf("错误消息不一致: %q vs %q，会泄露邮箱是否存在", env1.Message, env2.Message)
	}
}

// TestLogin_InactiveAccount 停用账号登录返回 403
func TestLogin_InactiveAccount(t *testing.T) {
	r, db := setupTestApp(t)
	registerUser(t, r, "dave@test.local", "dave")

	if err := db.Model(&models.User{}).
		Where("email = ?", "dave@test.local").
		Update("is_active", false).Error; err != nil {
		t.Fatalf("停用账号失败: %v", err)
	}

	w, _ := doJSON(r, http.MethodPost, "/api/auth/login", "", gin.H{
		"email":    "dave@test.local",
		"password": "Password123",
	})
	if w.Code != http.StatusForbidden {
		t.Errorf("停用账号登录状态码 = %d, want 403", w.Code)
	}
}

// TestMe_ExpiredToken 过期 token 访问 /auth/me 返回 401
func TestMe_ExpiredToken(t *testing.T) {
	r, db := setupTestApp(t)
	registerUser(t, r, "eve@test.local", "eve")

	var user models.User
	if err := db.Where("email = ?", "eve@test.local").First(&user).Error; err != nil {
		t.Fatalf("查用户失败: %v", err)
	}

	claims := &util.Claims{
		UserID: user.ID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
			IssuedAt:  jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	expired, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))

	w, _ := doJSON(r, http.MethodGet, "/api/auth/me", expired, nil)
	if w.Code != http.StatusUnauthorized {
		t.Errorf("过期 token 状态码 = %d, want 401", w.Code)
	}
}

// TestRoadmapFlow 生成（兜底）-> 列表 -> 详情 -> 删除
func TestRoadmapFlow(t *testing.T) {
	r, _ := setupTestApp(t)
	token, _ := registerUser(t, r, "frank@test.local", "frank")

	// 没配 AI key，必然落到兜底路线，但接口必须成功
	w, env := doJSON(r, http.MethodPost, "/api/roadmaps", token, gin.H{
		"topic":           "Python",
		"time":            "4 weeks",
		"knowledge_level": "beginner",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("创建路线状态码 = %d: %s", w.Code, w.Body.String())
	}
	roadmap, _ := env.Data["roadmap"].(map[string]interface{})
	if roadmap["source"] != "fallback" {
		t.Errorf("source = %v, want fallback", roadmap["source"])
	}
	data, _ := roadmap["roadmap_data"].(map[string]interface{})
	if len(data) == 0 {
		t.Fatal("兜底路线不能为空")
	}

	// 列表
	w, env = doJSON(r, http.MethodGet, "/api/roadmaps", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("列表状态码 = %d", w.Code)
	}
	items, _ := env.Data["items"].([]interface{})
	if len(items) != 1 {
		t.Fatalf("路线数量 = %d, want 1", len(items))
	}
	first, _ := items[0].(map[string]interface{})
	id := int(first["id"].(float64))

	// 详情
	w, _ = doJSON(r, http.MethodGet, "/api/roadmaps/"+itoa(id), token, nil)
	if w.Code != http.StatusOK {
		t.Errorf("详情状态码 = %d", w.Code)
	}

	// 别人的路线看不到
	otherToken, _ := registerUser(t, r, "grace@test.local", "grace")
	w, _ = doJSON(r, http.MethodGet, "/api/roadmaps/"+itoa(id), otherToken, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("他人路线状态码 = %d, want 404", w.Code)
	}

	// 删除
	w, _ = doJSON(r, http.MethodDelete, "/api/roadmaps/"+itoa(id), token, nil)
	if w.Code != http.StatusOK {
		t.Errorf("删除状态码 = %d", w.Code)
	}
	w, _ = doJSON(r, http.MethodGet, "/api/roadmaps/"+itoa(id), token, nil)
	if w.Code != http.StatusNotFound {
		t.Errorf("删除后详情状态码 = %d, want 404", w.Code)
	}
}

// TestQuizStatsAndDashboard 记录成绩 -> 难度系数更新 -> 面板汇总
func TestQuizStatsAndDashboard(t *testing.T) {
	r, _ := setupTestApp(t)
	token, _ := registerUser(t, r, "heidi@test.local", "heidi")

	w, env := doJSON(r, http.MethodPost, "/api/quiz/stats", token, gin.H{
		"topic":         "Python",
		"week_num":      1,
		"subtopic_num":  2,
		"num_correct":   4,
		"num_questions": 5,
		"time_taken":    60000,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("记录成绩状态码 = %d: %s", w.Code, w.Body.String())
	}
	// 正确率 0.8 -> 2 - 1.5*0.8 = 0.8
	if hi, _ := env.Data["hardness_index"].(float64); hi < 0.79 || hi > 0.81 {
		t.Errorf("hardness_index = %v, want ~0.8", env.Data["hardness_index"])
	}

	// num_correct 超过 num_questions 要拒绝
	w, _ = doJSON(r, http.MethodPost, "/api/quiz/stats", token, gin.H{
		"topic":         "Python",
		"week_num":      1,
		"subtopic_num":  1,
		"num_correct":   6,
		"num_questions": 5,
		"time_taken":    1000,
	})
	if w.Code != http.StatusBadRequest {
		t.Errorf("非法成绩状态码 = %d, want 400", w.Code)
	}

	w, env = doJSON(r, http.MethodGet, "/api/dashboard/stats", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("面板状态码 = %d", w.Code)
	}
	if env.Data["completed_quizzes"].(float64) != 1 {
		t.Errorf("completed_quizzes = %v, want 1", env.Data["completed_quizzes"])
	}
	progress, _ := env.Data["progress"].(map[string]interface{})
	if _, ok := progress["Python"]; !ok {
		t.Error("面板缺少 Python 主题的进度")
	}
}

// TestAdminRoutes 普通用户 403，管理员可以看统计、不能删自己
func TestAdminRoutes(t *testing.T) {
	r, db := setupTestApp(t)
	userToken, _ := registerUser(t, r, "ivan@test.local", "ivan")

	w, _ := doJSON(r, http.MethodGet, "/api/admin/stats", userToken, nil)
	if w.Code != http.StatusForbidden {
		t.Fatalf("普通用户访问管理接口状态码 = %d, want 403", w.Code)
	}

	// 提升为管理员后重新登录
	if err := db.Model(&models.User{}).
		Where("email = ?", "ivan@test.local").
		Update("role", models.RoleAdmin).Error; err != nil {
		t.Fatalf("提升管理员失败: %v", err)
	}

	w, env := doJSON(r, http.MethodGet, "/api/admin/stats", userToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("管理员统计状态码 = %d: %s", w.Code, w.Body.String())
	}
	if env.Data["total_users"].(float64) != 1 {
		t.Errorf("total_users = %v, want 1", env.Data["total_users"])
	}

	// 管理员不能删除自己
	var admin models.User
	if err := db.Where("email = ?", "ivan@test.local").First(&admin).Error; err != nil {
		t.Fatalf("查用户失败: %v", err)
	}
	w, _ = doJSON(r, http.MethodDelete, "/api/admin/users/"+itoa(int(admin.ID)), userToken, nil)
	if w.Code != http.StatusForbidden {
		t.Errorf("删除自己状态码 = %d, want 403", w.Code)
	}
}

// TestQuizGenerate_Fallback 测验生成接口永远有可用结果
func TestQuizGenerate_Fallback(t *testing.T) {
	r, _ := setupTestApp(t)
	token, _ := registerUser(t, r, "judy@test.local", "judy")

	w, env := doJSON(r, http.MethodPost, "/api/quiz/generate", token, gin.H{
		"course":      "Go",
		"topic":       "Basics",
		"subtopic":    "Slices",
		"description": "intro",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("测验生成状态码 = %d: %s", w.Code, w.Body.String())
	}
	if env.Data["source"] != "fallback" {
		t.Errorf("source = %v, want fallback", env.Data["source"])
	}
	quiz, _ := env.Data["quiz"].(map[string]interface{})
	questions, _ := quiz["questions"].([]interface{})
	if len(questions) == 0 {
		t.Error("兜底测验不能没有题目")
	}
}

func itoa(n int) string {
	return strconv.Itoa(n)
}
