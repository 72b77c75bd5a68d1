package workbook

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"sheetdesk/internal/model"
)

var (
	// ErrOpen 文件不存在、不可读或不是可识别的工作簿格式
	ErrOpen = errors.New("cannot open workbook")
	// ErrNoWorksheet 工作簿没有工作表，或第一个工作表数据无法解码
	ErrNoWorksheet = errors.New("no readable worksheet")
)

// Workbook 已打开的工作簿，调用方负责 Close
type Workbook interface {
	// SheetNames 按工作簿顺序返回工作表名称
	SheetNames() []string
	// FirstSheet 返回索引为 0 的工作表
	FirstSheet() (Sheet, error)
	Close() error
}

// Sheet 只读工作表
type Sheet interface {
	Name() string
	// Rows 每次调用都会开始一次新的、独立的顺序遍历
	Rows() (Rows, error)
}

// Rows 单向行迭代器
type Rows interface {
	Next() bool
	// Cells 当前行的单元格，调用方不得修改
	Cells() []model.Cell
	Err() error
	Close() error
}

// Opener 打开工作簿的函数签名（便于替换实现）
type Opener func(path string) (Workbook, error)

// Open 根据扩展名选择读取实现：.xls 使用 BIFF 读取器，其余交给 xlsx 读取器
func Open(path string) (Workbook, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("%w: %s is a directory", ErrOpen, path)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xls":
		return openXLS(path)
	default:
		return openXLSX(path)
	}
}

// trimTrailingEmpty 去掉行尾的空单元格，使短行表现一致
func trimTrailingEmpty(cells []model.Cell) []model.Cell {
	end := len(cells)
	for end > 0 && cells[end-1].Kind() == model.CellKindEmpty {
		end--
	}
	return cells[:end]
}
