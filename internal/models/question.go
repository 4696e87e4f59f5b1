package models

import (
	"time"

	"gorm.io/gorm"
)

type Question struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	QuestionText string    `gorm:"size:200;not null" json:"question_text"`
	Description  string    `gorm:"type:text" json:"description"` // Markdown, optional
	PubDate      time.Time `gorm:"not null;index" json:"pub_date"`
	Choices      []Choice  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"choices"`
}

// BeforeSave stores publish times in UTC so that SQL comparisons agree
// across drivers that persist timestamps as text.
func (q *Question) BeforeSave(tx *gorm.DB) error {
	q.PubDate = q.PubDate.UTC()
	return nil
}

// IsPublished reports whether the question is visible at now.
// A question published exactly at now counts as published.
func (q *Question) IsPublished(now time.Time) bool {
	return !q.PubDate.After(now)
}

// TotalVotes sums the votes of the loaded choices.
func (q *Question) TotalVotes() int {
	total := 0
	for _, c := range q.Choices {
		total += c.Votes
	}
	return total
}

// Published restricts a query to questions whose pub_date has passed.
func Published(now time.Time) func(*gorm.DB) *gorm.DB {
	return func(tx *gorm.DB) *gorm.DB {
		return tx.Where("questions.pub_date <= ?", now)
	}
}

// HasChoices restricts a query to questions owning at least one choice.
func HasChoices(tx *gorm.DB) *gorm.DB {
	return tx.Where("EXISTS (SELECT 1 FROM choices WHERE choices.question_id = questions.id)")
}
