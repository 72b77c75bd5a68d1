package importer

import (
	"context"

	"golang.org/x/sync/errgroup"

	"sheetdesk/internal/model"
)

// BatchItem 批量导入中单个文件的结果
type BatchItem struct {
	FilePath string            `json:"filePath"`
	Rows     []model.RowRecord `json:"rows"`
	Err      error             `json:"-"`
	Error    string            `json:"error,omitempty"`
	Kind     ErrorKind         `json:"kind,omitempty"`
}

// ImportMany 并发导入多个相互独立的文件，结果顺序与 paths 一致。
// 单个文件失败不影响其他文件；ctx 取消后尚未开始的文件直接返回 ctx 错误。
func (c *Coordinator) ImportMany(ctx context.Context, paths []string) []BatchItem {
	items := make([]BatchItem, len(paths))

	limit := c.opts.MaxConcurrent
	if limit <= 0 {
		limit = 1
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(limit)
	for i, path := range paths {
		i, path := i, path
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				items[i] = newBatchItem(path, nil, err)
				return nil
			}
			rows, err := c.Import(path)
			items[i] = newBatchItem(path, rows, err)
			return nil
		})
	}
	_ = g.Wait()

	return items
}

func newBatchItem(path string, rows []model.RowRecord, err error) BatchItem {
	item := BatchItem{FilePath: path, Rows: rows, Err: err}
	if err != nil {
		item.Error = err.Error()
		item.Kind = KindOf(err)
	}
	return item
}
