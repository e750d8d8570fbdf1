package models

import "time"

// Backup records a database backup file on disk.
type Backup struct {
	ID        uint      `gorm:"primaryKey"`
	FileName  string    `gorm:"size:255;not null"`
	FilePath  string    `gorm:"size:512;not null"`
	Size      int64     `gorm:"not null"`
	Users     int64     `gorm:"not null"` // 备份时的统计快照
	Roadmaps  int64     `gorm:"not null"`
	QuizStats int64     `gorm:"not null"`
	CreatedAt time.Time
}
