package session

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/meetkit/interviewd/internal/store"
)

// ErrEmptyQuestion rejects blank or whitespace-only question text before
// any persistence call is made.
var ErrEmptyQuestion = errors.New("session: question text is empty")

// QuestionCache is the in-memory question list for one meeting. Fetch
// replaces the list wholesale from the store; Add persists and leaves the
// cache untouched until the next Fetch (no optimistic insertion).
type QuestionCache struct {
	store *store.Store

	mu        sync.Mutex
	meetingID int64
	questions []*store.Question
}

// NewQuestionCache creates a cache backed by st.
func NewQuestionCache(st *store.Store) *QuestionCache {
	return &QuestionCache{store: st}
}

// Fetch loads the question list for meetingID and replaces the cached list.
func (c *QuestionCache) Fetch(ctx context.Context, meetingID int64) ([]*store.Question, error) {
	qs, err := c.store.ListQuestions(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	c.mu.Lock()
	c.meetingID = meetingID
	c.questions = qs
	c.mu.Unlock()
	return qs, nil
}

// Add validates and persists a new question. The cached list is not updated;
// callers refresh via Fetch.
func (c *QuestionCache) Add(ctx context.Context, meetingID int64, text string) (*store.Question, error) {
	text = strings.TrimSpace(sanitizer.Sanitize(text))
	if text == "" {
		return nil, ErrEmptyQuestion
	}
	return c.store.InsertQuestion(ctx, meetingID, text)
}

// Questions returns the cached list.
func (c *QuestionCache) Questions() []*store.Question {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]*store.Question, len(c.questions))
	copy(out, c.questions)
	return out
}

// MeetingID returns the meeting the cache was last fetched for.
func (c *QuestionCache) MeetingID() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.meetingID
}
