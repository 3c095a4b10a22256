package main

import (
	"time"
)

// --- Users ---

type User struct {
	ID           uint      `gorm:"primaryKey"`
	Username     string    `gorm:"uniqueIndex;size:32;not null"`
	PasswordHash string    `gorm:"not null"`
	Salt         string    `gorm:"size:32;not null"` // hex, mixed into the bcrypt input
	CreatedAt    time.Time `gorm:"not null"`
}

// --- Catalog (reference data, never mutated by gameplay) ---

type Character struct {
	ID          uint   `gorm:"primaryKey" json:"-"`
	Name        string `gorm:"uniqueIndex;size:64;not null" json:"name"`
	Description string `json:"description"`
}

type Subject struct {
	ID     uint    `gorm:"primaryKey" json:"-"`
	Name   string  `gorm:"uniqueIndex;size:64;not null" json:"name"`
	Topics []Topic `json:"topics,omitempty"`
}

type Topic struct {
	ID        uint   `gorm:"primaryKey" json:"-"`
	SubjectID uint   `gorm:"uniqueIndex:idx_topic_subject_text;not null" json:"-"`
	Text      string `gorm:"uniqueIndex:idx_topic_subject_text;not null" json:"text"`
}

// --- Questions ---

type Question struct {
	ID            uint   `gorm:"primaryKey" json:"-"`
	TopicID       uint   `gorm:"index;not null" json:"-"`
	SubjectID     uint   `gorm:"index;not null" json:"-"`
	Text          string `gorm:"not null" json:"questionText"`
	CorrectAnswer string `gorm:"not null" json:"correctAnswer"`
	Option2       string `gorm:"not null" json:"-"`
	Option3       string `gorm:"not null" json:"-"`
	Option4       string `gorm:"not null" json:"-"`
}

// Answers returns the correct answer followed by the three distractors.
func (q Question) Answers() [4]string {
	return [4]string{q.CorrectAnswer, q.Option2, q.Option3, q.Option4}
}

// --- High scores ---

type HighScore struct {
	ID          uint `gorm:"primaryKey"`
	UserID      uint `gorm:"uniqueIndex:idx_high_score_key;not null"`
	CharacterID uint `gorm:"uniqueIndex:idx_high_score_key;not null"`
	SubjectID   uint `gorm:"uniqueIndex:idx_high_score_key;not null"`
	TopicID     uint `gorm:"uniqueIndex:idx_high_score_key;not null"`
	Score       int  `gorm:"not null"`
	UpdatedAt   time.Time
}
