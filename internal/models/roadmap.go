package models

import "time"

// Roadmap 表示一份 AI 生成的学习路线
// RoadmapData 存的是完整的路线 JSON（周 -> 主题/子主题列表）
type Roadmap struct {
	ID             uint      `gorm:"primaryKey"`
	UserID         uint      `gorm:"index;not null"`
	Topic          string    `gorm:"size:128;not null"`
	Time           string    `gorm:"size:64;not null"`  // e.g. "4 weeks"
	KnowledgeLevel string    `gorm:"size:32;not null"`  // beginner / intermediate / advanced
	RoadmapData    []byte    `gorm:"type:blob;not null"` // 序列化后的路线结构
	CreatedAt      time.Time

	User User `gorm:"constraint:OnDelete:CASCADE"`
}
