package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/meetkit/interviewd/dbopen"
)

// Meeting is a scheduled interview. RoomURL is generated server-side and is
// unique across all meetings.
type Meeting struct {
	ID        int64  `json:"id"`
	OwnerID   int64  `json:"owner_id"`
	RoomURL   string `json:"room_url"`
	Time      string `json:"time"`
	CreatedAt int64  `json:"created_at"`
}

// CreateMeeting inserts a meeting for ownerID at the given time (stored as
// submitted, typically RFC 3339) with a freshly generated room URL.
func (s *Store) CreateMeeting(ctx context.Context, ownerID int64, meetingTime string) (*Meeting, error) {
	m := &Meeting{
		OwnerID:   ownerID,
		RoomURL:   s.newRoomCode(),
		Time:      meetingTime,
		CreatedAt: time.Now().UnixMilli(),
	}
	res, err := dbopen.Exec(ctx, s.DB, `
		INSERT INTO meetings (owner_id, room_url, time, created_at) VALUES (?,?,?,?)`,
		m.OwnerID, m.RoomURL, m.Time, m.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	m.ID, err = res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return m, nil
}

// GetMeeting retrieves a meeting by ID. Returns nil when absent.
func (s *Store) GetMeeting(ctx context.Context, id int64) (*Meeting, error) {
	m := &Meeting{}
	err := s.DB.QueryRowContext(ctx, `
		SELECT id, owner_id, room_url, time, created_at FROM meetings WHERE id = ?`, id).Scan(
		&m.ID, &m.OwnerID, &m.RoomURL, &m.Time, &m.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return m, nil
}

// ListMeetings returns all meetings, newest first.
func (s *Store) ListMeetings(ctx context.Context) ([]*Meeting, error) {
	rows, err := s.DB.QueryContext(ctx, `
		SELECT id, owner_id, room_url, time, created_at
		FROM meetings ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var meetings []*Meeting
	for rows.Next() {
		m := &Meeting{}
		if err := rows.Scan(&m.ID, &m.OwnerID, &m.RoomURL, &m.Time, &m.CreatedAt); err != nil {
			return nil, err
		}
		meetings = append(meetings, m)
	}
	return meetings, rows.Err()
}

// DeleteMeeting removes a meeting by ID.
func (s *Store) DeleteMeeting(ctx context.Context, id int64) error {
	_, err := dbopen.Exec(ctx, s.DB, `DELETE FROM meetings WHERE id = ?`, id)
	return err
}
