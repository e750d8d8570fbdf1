package models

import "time"

// QuizStat records a single quiz attempt.
type QuizStat struct {
	ID           uint      `gorm:"primaryKey"`
	UserID       uint      `gorm:"index;not null"`
	Topic        string    `gorm:"size:128;not null"`
	WeekNum      int       `gorm:"not null"`
	SubtopicNum  int       `gorm:"not null"`
	NumCorrect   int       `gorm:"not null"`
	NumQuestions int       `gorm:"not null"`
	TimeTaken    int       `gorm:"not null"` // 毫秒
	CreatedAt    time.Time

	User User `gorm:"constraint:OnDelete:CASCADE"`
}
