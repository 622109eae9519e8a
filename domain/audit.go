package domain

import "time"

// Audit actions.
const (
	ActionInsert = "INSERT"
	ActionUpdate = "UPDATE"
)

type AuditLogEntry struct {
	ID        int64     `db:"id" json:"id"`
	Action    string    `db:"action" json:"action"`
	TableName string    `db:"table_name" json:"table_name"`
	RecordID  *int64    `db:"record_id" json:"record_id,omitempty"`
	UserID    *int64    `db:"user_id" json:"user_id,omitempty"`
	Timestamp time.Time `db:"timestamp" json:"timestamp"`
}

type Notification struct {
	ID        int64     `db:"id" json:"id"`
	ProductID *int64    `db:"product_id" json:"product_id,omitempty"`
	Message   string    `db:"message" json:"message"`
	IsRead    bool      `db:"is_read" json:"is_read"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
