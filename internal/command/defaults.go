package command

import (
	"context"
	"encoding/json"
	"fmt"

	"sheetdesk/internal/importer"
	"sheetdesk/internal/metrics"
	"sheetdesk/internal/query"
)

// 内置命令名称
const (
	ImportExcelData  = "import_excel_data"
	ImportExcelBatch = "import_excel_batch"
	ExecuteQuery     = "execute_query"
)

type importArgs struct {
	FilePath string `json:"filePath"`
}

type batchArgs struct {
	FilePaths []string `json:"filePaths"`
}

type queryArgs struct {
	Query string `json:"query"`
}

// RegisterDefaults 注册内置命令。rec 可为 nil
func RegisterDefaults(reg *Registry, coord *importer.Coordinator, rec *metrics.Recorder) error {
	commands := map[string]Handler{
		ImportExcelData: func(ctx context.Context, raw json.RawMessage) (any, error) {
			var args importArgs
			if err := decodeArgs(raw, &args); err != nil {
				return nil, err
			}
			if args.FilePath == "" {
				return nil, fmt.Errorf("%w: filePath is required", ErrInvalidArgs)
			}
			return coord.Import(args.FilePath)
		},
		ImportExcelBatch: func(ctx context.Context, raw json.RawMessage) (any, error) {
			var args batchArgs
			if err := decodeArgs(raw, &args); err != nil {
				return nil, err
			}
			return coord.ImportMany(ctx, args.FilePaths), nil
		},
		ExecuteQuery: func(ctx context.Context, raw json.RawMessage) (any, error) {
			var args queryArgs
			if err := decodeArgs(raw, &args); err != nil {
				return nil, err
			}
			return query.Execute(args.Query)
		},
	}

	for name, h := range commands {
		if err := reg.Register(name, observed(name, h, rec)); err != nil {
			return err
		}
	}
	return nil
}

// observed 为处理函数加上调用计数
func observed(name string, h Handler, rec *metrics.Recorder) Handler {
	return func(ctx context.Context, args json.RawMessage) (any, error) {
		out, err := h(ctx, args)
		rec.ObserveCommand(name, err)
		return out, err
	}
}
