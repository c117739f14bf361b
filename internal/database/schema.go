package database

import (
	"database/sql"
	"log"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id TEXT PRIMARY KEY,
	uid TEXT NOT NULL UNIQUE,
	phone_number TEXT NOT NULL DEFAULT '',
	role TEXT NOT NULL DEFAULT 'user' CHECK (role IN ('admin', 'user')),
	display_name TEXT NOT NULL DEFAULT '',
	photo_url TEXT NOT NULL DEFAULT '',
	email TEXT NOT NULL DEFAULT '',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS counters (
	name TEXT PRIMARY KEY,
	sequence BIGINT NOT NULL DEFAULT 0
);

CREATE TABLE IF NOT EXISTS departments (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	code TEXT NOT NULL UNIQUE,
	description TEXT NOT NULL DEFAULT '',
	subjects TEXT[] NOT NULL DEFAULT '{}',
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL
);

CREATE TABLE IF NOT EXISTS applications (
	id TEXT PRIMARY KEY,
	application_no TEXT NOT NULL UNIQUE,
	user_id TEXT NOT NULL,
	name TEXT NOT NULL,
	father_name TEXT NOT NULL DEFAULT '',
	mother_name TEXT NOT NULL DEFAULT '',
	guardian_name TEXT NOT NULL DEFAULT '',
	date_of_birth TEXT NOT NULL DEFAULT '',
	photo TEXT NOT NULL DEFAULT '',
	place TEXT NOT NULL DEFAULT '',
	mahallu TEXT NOT NULL DEFAULT '',
	post_office TEXT NOT NULL DEFAULT '',
	pin_code TEXT NOT NULL DEFAULT '',
	panchayath TEXT NOT NULL DEFAULT '',
	constituency TEXT NOT NULL DEFAULT '',
	district TEXT NOT NULL DEFAULT '',
	state TEXT NOT NULL DEFAULT '',
	mobile_number TEXT NOT NULL,
	candidate_mobile TEXT NOT NULL DEFAULT '',
	whatsapp_number TEXT NOT NULL DEFAULT '',
	email TEXT NOT NULL DEFAULT '',
	madrasa TEXT NOT NULL DEFAULT '',
	school TEXT NOT NULL DEFAULT '',
	reg_no TEXT NOT NULL DEFAULT '',
	medium TEXT NOT NULL DEFAULT '',
	hifz_completed BOOLEAN NOT NULL DEFAULT FALSE,
	payment_transaction_id TEXT NOT NULL DEFAULT '',
	payment_amount BIGINT NOT NULL DEFAULT 0,
	payment_date TEXT NOT NULL DEFAULT '',
	payment_status TEXT NOT NULL DEFAULT 'pending' CHECK (payment_status IN ('pending', 'completed', 'failed')),
	is_approved BOOLEAN NOT NULL DEFAULT FALSE,
	is_qualified BOOLEAN,
	department_id TEXT,
	applied_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL,
	reviewed_by TEXT,
	reviewed_at TIMESTAMPTZ,
	center_name TEXT NOT NULL DEFAULT '',
	exam_date TEXT NOT NULL DEFAULT '',
	exam_time TEXT NOT NULL DEFAULT '',
	hall_ticket_issued BOOLEAN NOT NULL DEFAULT FALSE,
	hall_ticket_issued_at TIMESTAMPTZ
);

CREATE INDEX IF NOT EXISTS idx_applications_user_id ON applications (user_id);
CREATE INDEX IF NOT EXISTS idx_applications_applied_at ON applications (applied_at DESC);

CREATE TABLE IF NOT EXISTS notifications (
	id TEXT PRIMARY KEY,
	user_id TEXT NOT NULL,
	channel TEXT NOT NULL CHECK (channel IN ('email', 'sms', 'whatsapp')),
	message TEXT NOT NULL,
	status TEXT NOT NULL DEFAULT 'pending' CHECK (status IN ('pending', 'sent', 'failed')),
	send_at TIMESTAMPTZ NOT NULL,
	sent_at TIMESTAMPTZ,
	metadata JSONB NOT NULL DEFAULT '{}',
	created_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_notifications_user_id ON notifications (user_id);
CREATE INDEX IF NOT EXISTS idx_notifications_status ON notifications (status);

CREATE TABLE IF NOT EXISTS audit_events (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	user_id TEXT,
	payload JSONB NOT NULL DEFAULT '{}',
	created_at TIMESTAMPTZ NOT NULL
);
`

// EnsureSchema creates missing tables on startup. Statements are idempotent.
func EnsureSchema(db *sql.DB) {
	if _, err := db.Exec(schema); err != nil {
		log.Fatalf("failed to apply schema: %v", err)
	}
}
