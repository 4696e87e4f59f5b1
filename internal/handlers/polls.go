package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"polls/internal/cache"
	"polls/internal/services"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
)

type PollHandler struct {
	polls    *services.PollService
	cache    cache.Cache
	cacheTTL time.Duration
	pageSize int
}

func NewPollHandler(polls *services.PollService, pageCache cache.Cache, cacheTTL time.Duration, pageSize int) *PollHandler {
	if pageCache == nil {
		pageCache = cache.Nop{}
	}
	return &PollHandler{
		polls:    polls,
		cache:    pageCache,
		cacheTTL: cacheTTL,
		pageSize: pageSize,
	}
}

func resultsURL(questionID uint) string {
	return fmt.Sprintf("/polls/%d/results/", questionID)
}

// Index lists published questions, newest first.
func (h *PollHandler) Index(c *gin.Context) {
	page := 1
	if p := c.Query("page"); p != "" {
		if pageNum, err := strconv.Atoi(p); err == nil && pageNum > 0 {
			page = pageNum
		}
	}

	ctx := c.Request.Context()
	data, err := h.indexPage(ctx, page)
	if err != nil {
		h.fail(c, err)
		return
	}

	Render(c, http.StatusOK, "polls/index.html", gin.H{
		"Page": data,
	})
}

// indexPage serves the page from cache when possible.
func (h *PollHandler) indexPage(ctx context.Context, page int) (*services.QuestionPage, error) {
	cacheKey := fmt.Sprintf("index:%d:page:%d", h.pageSize, page)
	if h.cacheTTL > 0 {
		if raw, ok := h.cache.Get(ctx, cacheKey); ok {
			var cached services.QuestionPage
			if err := json.Unmarshal(raw, &cached); err == nil {
				return &cached, nil
			}
		}
	}

	data, err := h.polls.ListPublished(ctx, page, h.pageSize)
	if err != nil {
		return nil, err
	}

	if h.cacheTTL > 0 {
		if raw, err := json.Marshal(data); err == nil {
			h.cache.Set(ctx, cacheKey, raw, h.cacheTTL)
		}
	}
	return data, nil
}

// Detail shows a question and its voting form.
func (h *PollHandler) Detail(c *gin.Context) {
	q, err := h.polls.Detail(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}

	Render(c, http.StatusOK, "polls/detail.html", gin.H{
		"Title":    q.QuestionText,
		"Question": q,
	})
}

// Results shows the current tallies of a question.
func (h *PollHandler) Results(c *gin.Context) {
	q, results, err := h.polls.Results(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}

	Render(c, http.StatusOK, "polls/results.html", gin.H{
		"Title":      q.QuestionText,
		"Question":   q,
		"Results":    results,
		"TotalVotes": q.TotalVotes(),
	})
}

// Vote records a vote and redirects to the results page. A missing or
// foreign choice redisplays the form with an error and changes nothing.
func (h *PollHandler) Vote(c *gin.Context) {
	ctx := c.Request.Context()
	questionID := c.Param("id")

	choice, err := h.polls.Vote(ctx, questionID, c.PostForm("choice"))
	var vErr *services.ValidationError
	if errors.As(err, &vErr) {
		q, derr := h.polls.Detail(ctx, questionID)
		if derr != nil {
			h.fail(c, derr)
			return
		}
		Render(c, http.StatusOK, "polls/detail.html", gin.H{
			"Title":        q.QuestionText,
			"Question":     q,
			"ErrorMessage": vErr.Message,
		})
		return
	}
	if err != nil {
		h.fail(c, err)
		return
	}

	session := sessions.Default(c)
	session.AddFlash(fmt.Sprintf("Thanks! Your vote for \"%s\" was recorded.", choice.ChoiceText))
	if err := session.Save(); err != nil {
		log.Printf("Failed to save vote flash: %v", err)
	}

	c.Redirect(http.StatusFound, resultsURL(choice.QuestionID))
}

func (h *PollHandler) fail(c *gin.Context, err error) {
	if errors.Is(err, services.ErrNotFound) {
		RenderError(c, http.StatusNotFound, "No question matches the given query.")
		return
	}
	log.Printf("%s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)
	RenderError(c, http.StatusInternalServerError, "Something went wrong. Please try again later.")
}
