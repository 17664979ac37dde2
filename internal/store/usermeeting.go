package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/meetkit/interviewd/dbopen"
)

// UserMeeting associates a user with a meeting they attend.
type UserMeeting struct {
	UserID    int64 `json:"user_id"`
	MeetingID int64 `json:"meeting_id"`
	CreatedAt int64 `json:"created_at"`
}

// CreateUserMeeting inserts a user-meeting association. Returns ErrConflict
// if the pair already exists.
func (s *Store) CreateUserMeeting(ctx context.Context, userID, meetingID int64) (*UserMeeting, error) {
	var one int
	err := s.DB.QueryRowContext(ctx, `
		SELECT 1 FROM user_meetings WHERE user_id = ? AND meeting_id = ?`,
		userID, meetingID).Scan(&one)
	if err == nil {
		return nil, ErrConflict
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}

	um := &UserMeeting{UserID: userID, MeetingID: meetingID, CreatedAt: time.Now().UnixMilli()}
	_, err = dbopen.Exec(ctx, s.DB, `
		INSERT INTO user_meetings (user_id, meeting_id, created_at) VALUES (?,?,?)`,
		um.UserID, um.MeetingID, um.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return um, nil
}

// ListUserMeetings returns associations, optionally filtered by user.
// userID <= 0 returns every association.
func (s *Store) ListUserMeetings(ctx context.Context, userID int64) ([]*UserMeeting, error) {
	query := `SELECT user_id, meeting_id, created_at FROM user_meetings`
	var args []any
	if userID > 0 {
		query += ` WHERE user_id = ?`
		args = append(args, userID)
	}

	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ums []*UserMeeting
	for rows.Next() {
		um := &UserMeeting{}
		if err := rows.Scan(&um.UserID, &um.MeetingID, &um.CreatedAt); err != nil {
			return nil, err
		}
		ums = append(ums, um)
	}
	return ums, rows.Err()
}

// DeleteUserMeeting removes one association.
func (s *Store) DeleteUserMeeting(ctx context.Context, userID, meetingID int64) error {
	_, err := dbopen.Exec(ctx, s.DB, `
		DELETE FROM user_meetings WHERE user_id = ? AND meeting_id = ?`,
		userID, meetingID)
	return err
}
