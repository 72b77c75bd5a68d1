package importer

import (
	"errors"
	"fmt"

	"sheetdesk/internal/parser"
	"sheetdesk/internal/workbook"
)

// ErrorKind 导入失败的类别
type ErrorKind string

const (
	KindOpen             ErrorKind = "open"
	KindNoWorksheet      ErrorKind = "no_worksheet"
	KindMissingHeaderRow ErrorKind = "missing_header_row"
	KindDuplicateHeader  ErrorKind = "duplicate_header"
)

// Error 导入失败。Path 为导入的文件路径，Err 为底层原因
type Error struct {
	Kind ErrorKind
	Path string
	Err  error
}

// 按类别匹配的哨兵错误，用于 errors.Is
var (
	ErrOpen             = &Error{Kind: KindOpen}
	ErrNoWorksheet      = &Error{Kind: KindNoWorksheet}
	ErrMissingHeaderRow = &Error{Kind: KindMissingHeaderRow}
	ErrDuplicateHeader  = &Error{Kind: KindDuplicateHeader}
)

func (e *Error) Error() string {
	switch e.Kind {
	case KindOpen:
		return fmt.Sprintf("无法打开工作簿 '%s': %v", e.Path, e.Err)
	case KindNoWorksheet:
		return fmt.Sprintf("无法读取 '%s' 的第一个工作表: %v", e.Path, e.Err)
	case KindMissingHeaderRow:
		return fmt.Sprintf("无法读取表头行: '%s'", e.Path)
	case KindDuplicateHeader:
		return fmt.Sprintf("表头重复: '%s': %v", e.Path, e.Err)
	default:
		return fmt.Sprintf("导入失败: '%s': %v", e.Path, e.Err)
	}
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is 同类别的 *Error 视为匹配
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind
}

// KindOf 返回错误链上第一个 *Error 的类别，非导入错误返回空串
func KindOf(err error) ErrorKind {
	var ie *Error
	if errors.As(err, &ie) {
		return ie.Kind
	}
	return ""
}

// classify 根据底层哨兵错误确定类别，无法识别时使用 fallback
func classify(path string, err error, fallback ErrorKind) *Error {
	kind := fallback
	switch {
	case errors.Is(err, parser.ErrDuplicateHeader):
		kind = KindDuplicateHeader
	case errors.Is(err, parser.ErrMissingHeaderRow):
		kind = KindMissingHeaderRow
	case errors.Is(err, workbook.ErrOpen):
		kind = KindOpen
	case errors.Is(err, workbook.ErrNoWorksheet):
		kind = KindNoWorksheet
	}
	return &Error{Kind: kind, Path: path, Err: err}
}
