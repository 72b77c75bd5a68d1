package importer

import (
	"fmt"
	"time"

	"sheetdesk/internal/model"
	"sheetdesk/internal/parser"
	"sheetdesk/internal/workbook"
)

// Options 导入选项
type Options struct {
	Parser parser.Options
	// Open 为空时使用 workbook.Open
	Open workbook.Opener
	// MaxConcurrent 批量导入的并发上限，<=0 时为 1
	MaxConcurrent int
}

// Result 一次成功导入的结果
type Result struct {
	ImportID  string            `json:"importId,omitempty"`
	FilePath  string            `json:"filePath"`
	SheetName string            `json:"sheetName"`
	Headers   []string          `json:"headers"`
	Rows      []model.RowRecord `json:"rows"`
	Duration  time.Duration     `json:"duration"`
}

// Run 读取第一个工作表：第一行为表头，其余各行按表头转换为行记录。
// 任一阶段失败都返回 *Error，且不返回部分数据。
func Run(path string, opts Options) (*Result, error) {
	return run(path, opts, nil)
}

// run 执行导入流水线，notify 非空时报告中间进度
func run(path string, opts Options, notify func(message string, data map[string]interface{})) (*Result, error) {
	start := time.Now()
	if notify == nil {
		notify = func(string, map[string]interface{}) {}
	}

	open := opts.Open
	if open == nil {
		open = workbook.Open
	}

	wb, err := open(path)
	if err != nil {
		return nil, classify(path, err, KindOpen)
	}
	defer wb.Close()

	sheet, err := wb.FirstSheet()
	if err != nil {
		return nil, classify(path, err, KindNoWorksheet)
	}
	notify(fmt.Sprintf("读取工作表 %s", sheet.Name()), map[string]interface{}{
		"sheet_name":  sheet.Name(),
		"sheet_count": len(wb.SheetNames()),
	})

	rows, err := sheet.Rows()
	if err != nil {
		return nil, classify(path, err, KindNoWorksheet)
	}
	defer rows.Close()

	headers, err := parser.ExtractHeaders(rows, opts.Parser)
	if err != nil {
		return nil, classify(path, err, KindNoWorksheet)
	}
	notify(fmt.Sprintf("识别到 %d 列表头", len(headers)), map[string]interface{}{
		"headers": headers,
	})

	records, err := parser.NormalizeAll(rows, headers)
	if err != nil {
		return nil, classify(path, err, KindNoWorksheet)
	}

	return &Result{
		FilePath:  path,
		SheetName: sheet.Name(),
		Headers:   headers,
		Rows:      records,
		Duration:  time.Since(start),
	}, nil
}
