package services

import (
	"context"
	"os"
	"testing"
	"time"

	"polls/internal/models"
	"polls/internal/testdb"
)

func TestMain(m *testing.M) {
	os.Exit(testdb.RunWithPostgres(m))
}

// createQuestion publishes a question offset by days from now (negative for
// the past, positive for the future).
func createQuestion(t *testing.T, s *PollService, text string, days int) *models.Question {
	t.Helper()
	q, err := s.CreateQuestion(context.Background(), text, "", s.now().Add(time.Duration(days)*24*time.Hour))
	if err != nil {
		t.Fatalf("Failed to create question %q: %v", text, err)
	}
	return q
}

func createChoice(t *testing.T, s *PollService, q *models.Question, text string) *models.Choice {
	t.Helper()
	c, err := s.AddChoice(context.Background(), q.ID, text)
	if err != nil {
		t.Fatalf("Failed to create choice %q: %v", text, err)
	}
	return c
}

func votesOf(t *testing.T, s *PollService, choiceID uint) int {
	t.Helper()
	var c models.Choice
	if err := s.db.First(&c, choiceID).Error; err != nil {
		t.Fatalf("Failed to reload choice %d: %v", choiceID, err)
	}
	return c.Votes
}
