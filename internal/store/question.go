package store

import (
	"context"
	"time"

	"github.com/meetkit/interviewd/dbopen"
)

// Question is one prompt in a meeting's question bank.
type Question struct {
	ID        int64  `json:"id"`
	MeetingID int64  `json:"meeting_id"`
	Question  string `json:"question"`
	CreatedAt int64  `json:"created_at"`
}

// InsertQuestion adds a question to a meeting's bank. Validation of blank
// text happens at the session layer; the store persists what it is given.
func (s *Store) InsertQuestion(ctx context.Context, meetingID int64, text string) (*Question, error) {
	q := &Question{MeetingID: meetingID, Question: text, CreatedAt: time.Now().UnixMilli()}
	res, err := dbopen.Exec(ctx, s.DB, `
		INSERT INTO questions (meeting_id, question, created_at) VALUES (?,?,?)`,
		q.MeetingID, q.Question, q.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	q.ID, err = res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return q, nil
}

// ListQuestions returns a meeting's questions in insertion order.
func (s *Store) ListQuestions(ctx context.Context, meetingID int64) ([]*Question, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, meeting_id, question, created_at
		FROM questions WHERE meeting_id = ? ORDER BY id`, meetingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var questions []*Question
	for rows.Next() {
		q := &Question{}
		if err := rows.Scan(&q.ID, &q.MeetingID, &q.Question, &q.CreatedAt); err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}
