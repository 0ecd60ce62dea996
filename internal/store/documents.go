package store

import (
	"database/sql"
	"fmt"
)

// GetDocument 读取持久化文档，不存在时 ok=false
func (s *Store) GetDocument(key string) (value string, ok bool, err error) {
	err = s.db.QueryRow("SELECT value FROM documents WHERE key = ?", key).Scan(&value)
	if err != nil {
		if err == sql.ErrNoRows {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to get document %s: %w", key, err)
	}
	return value, true, nil
}

// PutDocument 写入单个文档，UPSERT 本身即原子操作
func (s *Store) PutDocument(key, value string) error {
	_, err := s.db.Exec(`
		INSERT INTO documents (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = ?, updated_at = CURRENT_TIMESTAMP
	`, key, value, value)
	if err != nil {
		return fmt.Errorf("failed to put document %s: %w", key, err)
	}
	return nil
}

// PutDocuments 在同一事务内写入多个文档
// 要么全部落盘，要么保持写入前的快照，避免半更新状态
func (s *Store) PutDocuments(docs map[string]string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for key, value := range docs {
		if _, err := tx.Exec(`
			INSERT INTO documents (key, value) VALUES (?, ?)
			ON CONFLICT(key) DO UPDATE SET value = ?, updated_at = CURRENT_TIMESTAMP
		`, key, value, value); err != nil {
			return fmt.Errorf("failed to put document %s: %w", key, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
