package main

import (
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/HeyitsSridhar/SkillPath-AI/internal/config"
	"github.com/HeyitsSridhar/SkillPath-AI/internal/database"
	"github.com/HeyitsSridhar/SkillPath-AI/internal/router"

	"github.com/joho/godotenv"
)

func main() {
	// .env 里一般放 GROQ_API_KEY / SP_JWT_SECRET，文件不存在就算了
	_ = godotenv.Load()

	// load configuration
	cfg, err := config.Load("config.yaml")
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	// ensure basic directories exist
	if err := ensureDir(filepath.Dir(cfg.Database.Path)); err != nil {
		log.Fatalf("create data dir: %v", err)
	}
	if err := ensureDir(cfg.Backup.Dir); err != nil {
		log.Fatalf("create backup dir: %v", err)
	}

	// init database
	db, err := database.Init(cfg.Database)
	if err != nil {
		log.Fatalf("init database: %v", err)
	}

	// run migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("migrate database: %v", err)
	}

	// seed admin account (idempotent)
	if err := database.SeedAdmin(db, cfg.Admin, cfg.Security.BcryptCost); err != nil {
		log.Fatalf("seed admin: %v", err)
	}

	// setup router
	r := router.SetupRouter(cfg, db)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Address, cfg.Server.Port)
	log.Printf("server listening on %s", addr)
	if err := r.Run(addr); err != nil {
		log.Fatalf("run server: %v", err)
	}
}

func ensureDir(dir string) error {
	if dir == "" || dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}
