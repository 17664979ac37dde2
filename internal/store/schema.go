package store

// Schema contains the complete DDL for the interviewd tables.
const Schema = `
-- Users: interview participants (interviewers and interviewees)
CREATE TABLE IF NOT EXISTS users (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    username   TEXT NOT NULL UNIQUE,
    email      TEXT NOT NULL UNIQUE,
    created_at INTEGER NOT NULL
);

-- Meetings: scheduled interviews, each with a generated unique room URL
CREATE TABLE IF NOT EXISTS meetings (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    owner_id   INTEGER NOT NULL,
    room_url   TEXT NOT NULL UNIQUE,
    time       TEXT NOT NULL,
    created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_meetings_owner ON meetings(owner_id);

-- User-meeting associations: which users attend which meetings
CREATE TABLE IF NOT EXISTS user_meetings (
    user_id    INTEGER NOT NULL,
    meeting_id INTEGER NOT NULL,
    created_at INTEGER NOT NULL,
    PRIMARY KEY (user_id, meeting_id)
);
CREATE INDEX IF NOT EXISTS idx_user_meetings_meeting ON user_meetings(meeting_id);

-- Questions: the per-meeting interview question bank
CREATE TABLE IF NOT EXISTS questions (
    id         INTEGER PRIMARY KEY AUTOINCREMENT,
    meeting_id INTEGER NOT NULL,
    question   TEXT NOT NULL,
    created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_questions_meeting ON questions(meeting_id);
`
