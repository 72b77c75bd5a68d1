package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// 导入日志状态
const (
	StatusProcessing = "processing"
	StatusSuccess    = "success"
	StatusFailed     = "failed"
)

// ImportLog 一次导入的审计记录
type ImportLog struct {
	ID           string       `db:"id" json:"id"`
	FileName     string       `db:"file_name" json:"fileName"`
	FilePath     string       `db:"file_path" json:"filePath"`
	FileSize     int64        `db:"file_size" json:"fileSize"`
	Status       string       `db:"status" json:"status"`
	SheetName    string       `db:"sheet_name" json:"sheetName"`
	ColumnCount  int          `db:"column_count" json:"columnCount"`
	RowCount     int          `db:"row_count" json:"rowCount"`
	ErrorKind    string       `db:"error_kind" json:"errorKind,omitempty"`
	ErrorMessage string       `db:"error_message" json:"errorMessage,omitempty"`
	StartedAt    time.Time    `db:"started_at" json:"startedAt"`
	CompletedAt  sql.NullTime `db:"completed_at" json:"-"`
}

// ImportOutcome 导入结束时回写的结果
type ImportOutcome struct {
	SheetName    string
	ColumnCount  int
	RowCount     int
	ErrorKind    string
	ErrorMessage string
}

// CreateImportLog 创建导入日志，返回日志 ID
func (s *Store) CreateImportLog(ctx context.Context, fileName, filePath string, fileSize int64) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO import_logs (id, file_name, file_path, file_size, status, started_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, id, fileName, filePath, fileSize, StatusProcessing, time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("failed to create import log: %w", err)
	}
	return id, nil
}

// CompleteImportLog 完成导入日志更新。ErrorKind 为空表示成功
func (s *Store) CompleteImportLog(ctx context.Context, id string, out ImportOutcome) error {
	status := StatusSuccess
	if out.ErrorKind != "" {
		status = StatusFailed
	}
	res, err := s.db.ExecContext(ctx, `
		UPDATE import_logs SET
			status = ?,
			sheet_name = ?,
			column_count = ?,
			row_count = ?,
			error_kind = ?,
			error_message = ?,
			completed_at = ?
		WHERE id = ?
	`, status, out.SheetName, out.ColumnCount, out.RowCount, out.ErrorKind, out.ErrorMessage, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("failed to update import log: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("import log not found: %s", id)
	}
	return nil
}

// ListImportLogs 按开始时间倒序列出最近的导入日志
func (s *Store) ListImportLogs(ctx context.Context, limit int) ([]ImportLog, error) {
	if limit <= 0 {
		limit = 50
	}
	logs := []ImportLog{}
	err := s.db.SelectContext(ctx, &logs, `
		SELECT id, file_name, file_path, file_size, status, sheet_name, column_count,
			row_count, error_kind, error_message, started_at, completed_at
		FROM import_logs
		ORDER BY started_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list import logs: %w", err)
	}
	return logs, nil
}
