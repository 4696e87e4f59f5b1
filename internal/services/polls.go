package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"polls/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type PollService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewPollService(gdb *gorm.DB) *PollService {
	return &PollService{db: gdb, now: func() time.Time { return time.Now().UTC() }}
}

// QuestionPage is one page of the public question index.
type QuestionPage struct {
	Questions   []models.Question `json:"questions"`
	CurrentPage int               `json:"current_page"`
	TotalPages  int               `json:"total_pages"`
	Total       int64             `json:"total"`
}

// ChoiceResult pairs a choice with its share of all votes, in percent.
type ChoiceResult struct {
	models.Choice
	Share decimal.Decimal
}

// visible applies the listing/detail/results eligibility rules.
func (s *PollService) visible(ctx context.Context) *gorm.DB {
	return s.db.WithContext(ctx).Model(&models.Question{}).
		Scopes(models.Published(s.now()), models.HasChoices)
}

// ListPublished returns the given page of eligible questions, newest first.
func (s *PollService) ListPublished(ctx context.Context, page, perPage int) (*QuestionPage, error) {
	if page < 1 {
		page = 1
	}
	if perPage < 1 {
		perPage = 1
	}

	var total int64
	if err := s.visible(ctx).Count(&total).Error; err != nil {
		return nil, fmt.Errorf("count questions: %w", err)
	}

	totalPages := int(math.Ceil(float64(total) / float64(perPage)))
	if totalPages == 0 {
		totalPages = 1
	}

	questions := make([]models.Question, 0, perPage)
	err := s.visible(ctx).
		Order("questions.pub_date DESC, questions.id DESC").
		Limit(perPage).
		Offset((page - 1) * perPage).
		Find(&questions).Error
	if err != nil {
		return nil, fmt.Errorf("list questions: %w", err)
	}

	return &QuestionPage{
		Questions:   questions,
		CurrentPage: page,
		TotalPages:  totalPages,
		Total:       total,
	}, nil
}

// Detail loads an eligible question with its choices.
func (s *PollService) Detail(ctx context.Context, id string) (*models.Question, error) {
	qid, ok := parseID(id)
	if !ok {
		return nil, ErrNotFound
	}

	var q models.Question
	err := s.visible(ctx).
		Preload("Choices", func(tx *gorm.DB) *gorm.DB { return tx.Order("choices.id ASC") }).
		Where("questions.id = ?", qid).
		First(&q).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("load question %d: %w", qid, err)
	}
	return &q, nil
}

// Results loads a question for the results page. Eligibility is the same as
// for Detail.
func (s *PollService) Results(ctx context.Context, id string) (*models.Question, []ChoiceResult, error) {
	q, err := s.Detail(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return q, Shares(q), nil
}

// Vote adds one vote to choiceID, which must belong to questionID. The
// increment is a single UPDATE so concurrent votes are never lost.
func (s *PollService) Vote(ctx context.Context, questionID, choiceID string) (*models.Choice, error) {
	q, err := s.Detail(ctx, questionID)
	if err != nil {
		return nil, err
	}

	cid, ok := parseID(choiceID)
	if !ok {
		return nil, &ValidationError{Message: MsgNoChoice}
	}

	res := s.db.WithContext(ctx).Model(&models.Choice{}).
		Where("id = ? AND question_id = ?", cid, q.ID).
		UpdateColumn("votes", gorm.Expr("votes + ?", 1))
	if res.Error != nil {
		return nil, fmt.Errorf("vote for choice %d: %w", cid, res.Error)
	}
	if res.RowsAffected == 0 {
		return nil, &ValidationError{Message: MsgNoChoice}
	}

	var choice models.Choice
	if err := s.db.WithContext(ctx).First(&choice, cid).Error; err != nil {
		return nil, fmt.Errorf("reload choice %d: %w", cid, err)
	}
	return &choice, nil
}

func (s *PollService) CreateQuestion(ctx context.Context, text, description string, pubDate time.Time) (*models.Question, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, &ValidationError{Message: "question text is required"}
	}

	q := models.Question{QuestionText: text, Description: description, PubDate: pubDate}
	if err := s.db.WithContext(ctx).Create(&q).Error; err != nil {
		return nil, fmt.Errorf("create question: %w", err)
	}
	return &q, nil
}

func (s *PollService) AddChoice(ctx context.Context, questionID uint, text string) (*models.Choice, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, &ValidationError{Message: "choice text is required"}
	}

	var exists int64
	if err := s.db.WithContext(ctx).Model(&models.Question{}).Where("id = ?", questionID).Count(&exists).Error; err != nil {
		return nil, fmt.Errorf("check question %d: %w", questionID, err)
	}
	if exists == 0 {
		return nil, ErrNotFound
	}

	c := models.Choice{QuestionID: questionID, ChoiceText: text}
	if err := s.db.WithContext(ctx).Create(&c).Error; err != nil {
		return nil, fmt.Errorf("create choice: %w", err)
	}
	return &c, nil
}

// Shares computes each choice's percentage of the question's votes, rounded
// to one decimal place. With no votes every share is zero.
func Shares(q *models.Question) []ChoiceResult {
	total := decimal.NewFromInt(int64(q.TotalVotes()))
	results := make([]ChoiceResult, len(q.Choices))
	for i, c := range q.Choices {
		share := decimal.Zero
		if !total.IsZero() {
			share = decimal.NewFromInt(int64(c.Votes)).Mul(decimal.NewFromInt(100)).Div(total).Round(1)
		}
		results[i] = ChoiceResult{Choice: c, Share: share}
	}
	return results
}

func parseID(s string) (uint, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil || n == 0 {
		return 0, false
	}
	return uint(n), true
}
