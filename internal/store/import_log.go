package store

import (
	"database/sql"
	"fmt"
)

// CreateImportLog 创建导入日志，返回 import_log_id
func (s *Store) CreateImportLog(filename, kind string, totalRows int) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO import_logs (filename, kind, total_rows, status)
		VALUES (?, ?, ?, 'processing')
	`, filename, kind, totalRows)
	if err != nil {
		return 0, fmt.Errorf("failed to create import log: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get import log id: %w", err)
	}
	return id, nil
}

// CompleteImportLog 完成导入日志更新
func (s *Store) CompleteImportLog(id int64, mergedRows int, status, errorMessage string) error {
	_, err := s.db.Exec(`
		UPDATE import_logs SET
			merged_rows = ?,
			status = ?,
			error_message = ?,
			completed_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, mergedRows, status, errorMessage, id)
	if err != nil {
		return fmt.Errorf("failed to update import log: %w", err)
	}
	return nil
}

// LastImportTime 最近一次导入时间，从未导入返回空串
func (s *Store) LastImportTime() (string, error) {
	var ts string
	err := s.db.QueryRow(`
		SELECT created_at FROM import_logs ORDER BY id DESC LIMIT 1
	`).Scan(&ts)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", nil
		}
		return "", fmt.Errorf("failed to get last import time: %w", err)
	}
	return ts, nil
}
