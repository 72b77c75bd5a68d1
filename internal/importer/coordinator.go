package importer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"sheetdesk/internal/logging"
	"sheetdesk/internal/metrics"
	"sheetdesk/internal/model"
	"sheetdesk/internal/store"
)

// Coordinator 导入协调器：在 Run 之外记录日志、指标和导入审计
type Coordinator struct {
	store   *store.Store
	metrics *metrics.Recorder
	opts    Options
	log     *logging.Logger
}

// NewCoordinator 创建导入协调器。st 和 rec 均可为 nil
func NewCoordinator(st *store.Store, rec *metrics.Recorder, opts Options) *Coordinator {
	return &Coordinator{
		store:   st,
		metrics: rec,
		opts:    opts,
		log:     logging.Default.With("importer"),
	}
}

// ProgressEvent 进度事件
type ProgressEvent struct {
	Type      string      `json:"type"`      // start/info/done/error
	Message   string      `json:"message"`   // 事件消息
	Data      interface{} `json:"data"`      // 附加数据
	Timestamp time.Time   `json:"timestamp"` // 时间戳
}

// Import 导入工作簿的第一个工作表，返回行记录
func (c *Coordinator) Import(path string) ([]model.RowRecord, error) {
	res, err := c.ImportResult(path)
	if err != nil {
		return nil, err
	}
	return res.Rows, nil
}

// ImportResult 与 Import 相同，但保留工作表名、表头等元数据
func (c *Coordinator) ImportResult(path string) (*Result, error) {
	return c.doImport(path, nil)
}

// ImportStream 执行导入，返回进度通道
func (c *Coordinator) ImportStream(path string) <-chan ProgressEvent {
	progressChan := make(chan ProgressEvent, 100)

	go func() {
		defer close(progressChan)

		c.sendProgress(progressChan, ProgressEvent{
			Type:    "start",
			Message: "开始导入 Excel 文件",
			Data: map[string]string{
				"filename": filepath.Base(path),
			},
		})

		res, err := c.doImport(path, func(message string, data map[string]interface{}) {
			c.sendProgress(progressChan, ProgressEvent{Type: "info", Message: message, Data: data})
		})
		if err != nil {
			c.sendProgress(progressChan, ProgressEvent{
				Type:    "error",
				Message: err.Error(),
				Data: map[string]string{
					"kind": string(KindOf(err)),
				},
			})
			return
		}

		c.sendProgress(progressChan, ProgressEvent{
			Type:    "done",
			Message: fmt.Sprintf("导入完成，共 %d 行", len(res.Rows)),
			Data:    res,
		})
	}()

	return progressChan
}

func (c *Coordinator) doImport(path string, notify func(string, map[string]interface{})) (*Result, error) {
	start := time.Now()
	logID := c.beginAudit(path)

	c.log.Info("开始导入: %s", path)
	res, err := run(path, c.opts, notify)
	elapsed := time.Since(start)

	c.metrics.ObserveImport(err, rowCount(res), elapsed)
	c.finishAudit(logID, res, err)

	if err != nil {
		c.log.Warn("导入失败 (%s): %v", KindOf(err), err)
		return nil, err
	}

	res.ImportID = logID
	c.log.Info("导入完成: %s, 工作表=%s, 列=%d, 行=%d, 耗时=%v",
		filepath.Base(path), res.SheetName, len(res.Headers), len(res.Rows), elapsed)
	return res, nil
}

// beginAudit 写入导入日志，失败只记录警告
func (c *Coordinator) beginAudit(path string) string {
	if c.store == nil {
		return ""
	}
	var size int64
	if info, err := os.Stat(path); err == nil {
		size = info.Size()
	}
	id, err := c.store.CreateImportLog(context.Background(), filepath.Base(path), path, size)
	if err != nil {
		c.log.Warn("写入导入日志失败: %v", err)
		return ""
	}
	return id
}

func (c *Coordinator) finishAudit(id string, res *Result, importErr error) {
	if c.store == nil || id == "" {
		return
	}
	var out store.ImportOutcome
	if importErr != nil {
		out.ErrorKind = string(KindOf(importErr))
		out.ErrorMessage = importErr.Error()
	} else {
		out.SheetName = res.SheetName
		out.ColumnCount = len(res.Headers)
		out.RowCount = len(res.Rows)
	}
	if err := c.store.CompleteImportLog(context.Background(), id, out); err != nil {
		c.log.Warn("更新导入日志失败: %v", err)
	}
}

func (c *Coordinator) sendProgress(ch chan ProgressEvent, event ProgressEvent) {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	ch <- event
}

func rowCount(res *Result) int {
	if res == nil {
		return 0
	}
	return len(res.Rows)
}
