package parser

import (
	"strconv"
	"time"

	"sheetdesk/internal/model"
)

// DateTimeLayout 日期时间单元格的输出格式（与区域设置无关）
const DateTimeLayout = "2006-01-02T15:04:05"

// valueFormatter 数据行单元格的渲染规则
type valueFormatter struct{}

func (valueFormatter) Empty() string          { return "" }
func (valueFormatter) String(s string) string { return s }
func (valueFormatter) Int(v int64) string     { return strconv.FormatInt(v, 10) }
func (valueFormatter) Float(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }
func (valueFormatter) Bool(v bool) string     { return strconv.FormatBool(v) }

func (valueFormatter) DateTimeISO(s string) string { return s }
func (valueFormatter) DurationISO(s string) string { return s }

func (valueFormatter) DateTime(t time.Time) string {
	return t.Round(time.Second).Format(DateTimeLayout)
}

func (valueFormatter) Error(code model.CellErrorCode) string {
	return "Error: " + code.DebugName()
}

// headerFormatter 表头单元格的渲染规则：无法读取的文本（空、错误）记为空字符串
type headerFormatter struct {
	valueFormatter
}

func (headerFormatter) Error(model.CellErrorCode) string { return "" }

// RenderCell 将单元格渲染为文本。所有类型都会被折叠为字符串，类型信息会丢失。
func RenderCell(c model.Cell) string {
	if c == nil {
		return ""
	}
	return c.Format(valueFormatter{})
}

// HeaderText 将表头单元格渲染为列名
func HeaderText(c model.Cell) string {
	if c == nil {
		return ""
	}
	return c.Format(headerFormatter{})
}
