package store

import (
	"context"

	"zackiepharma/m/domain"
)

// InsertAuditEntry appends one audit row stamped with the store clock.
func (s *Store) InsertAuditEntry(ctx context.Context, action, table string, recordID, userID *int64) (int64, error) {
	var id int64
	err := s.db.QueryRowxContext(ctx, `INSERT INTO audit_logs (action, table_name, record_id, user_id, timestamp) VALUES (?, ?, ?, ?, ?) RETURNING id`,
		action, table, recordID, userID, s.timestamp()).Scan(&id)
	return id, classify(err, "insert audit entry")
}

// ListAuditEntries returns the newest entries first, optionally for one table.
func (s *Store) ListAuditEntries(ctx context.Context, table string, limit int) ([]domain.AuditLogEntry, error) {
	entries := []domain.AuditLogEntry{}
	query := `SELECT id, action, table_name, record_id, user_id, timestamp FROM audit_logs`
	args := []any{}
	if table != "" {
		query += ` WHERE table_name = ?`
		args = append(args, table)
	}
	query += ` ORDER BY id DESC LIMIT ?`
	args = append(args, limit)
	err := s.db.SelectContext(ctx, &entries, query, args...)
	return entries, classify(err, "list audit entries")
}

// CreateNotification inserts a general notification.
func (s *Store) CreateNotification(ctx context.Context, message string) (int64, error) {
	var id int64
	err := s.db.QueryRowxContext(ctx, `INSERT INTO notifications (message, created_at) VALUES (?, ?) RETURNING id`,
		message, s.timestamp()).Scan(&id)
	return id, classify(err, "create notification")
}

// CreateProductNotification inserts a notification about one product.
func (s *Store) CreateProductNotification(ctx context.Context, productID int64, message string) (int64, error) {
	var id int64
	err := s.db.QueryRowxContext(ctx, `INSERT INTO notifications (product_id, message, created_at) VALUES (?, ?, ?) RETURNING id`,
		productID, message, s.timestamp()).Scan(&id)
	return id, classify(err, "create product notification")
}

// HasUnreadProductNotification reports whether productID already has an
// unread notification.
func (s *Store) HasUnreadProductNotification(ctx context.Context, productID int64) (bool, error) {
	var exists bool
	err := s.db.GetContext(ctx, &exists, `SELECT EXISTS(SELECT 1 FROM notifications WHERE product_id = ? AND is_read = 0)`, productID)
	return exists, classify(err, "check notification")
}

// ListNotifications returns notifications newest first.
func (s *Store) ListNotifications(ctx context.Context, unreadOnly bool) ([]domain.Notification, error) {
	notifications := []domain.Notification{}
	query := `SELECT id, product_id, message, is_read, created_at FROM notifications`
	if unreadOnly {
		query += ` WHERE is_read = 0`
	}
	query += ` ORDER BY id DESC`
	err := s.db.SelectContext(ctx, &notifications, query)
	return notifications, classify(err, "list notifications")
}

// MarkNotificationRead flags a notification as read; unknown ids yield
// ErrNotFound.
func (s *Store) MarkNotificationRead(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `UPDATE notifications SET is_read = 1 WHERE id = ?`, id)
	if err != nil {
		return classify(err, "mark notification read")
	}
	n, err := res.RowsAffected()
	if err != nil {
		return classify(err, "mark notification read")
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
