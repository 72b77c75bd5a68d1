package model

import (
	"strings"
	"time"
)

// CellKind 单元格类型标签
type CellKind string

const (
	CellKindEmpty       CellKind = "empty"
	CellKindString      CellKind = "string"
	CellKindInt         CellKind = "int"
	CellKindFloat       CellKind = "float"
	CellKindBool        CellKind = "bool"
	CellKindDateTime    CellKind = "datetime"
	CellKindDateTimeISO CellKind = "datetime_iso"
	CellKindDurationISO CellKind = "duration_iso"
	CellKindError       CellKind = "error"
)

// Formatter 单元格格式化器，每种单元格类型对应一个方法。
// 新增单元格类型时必须同时扩展该接口，所有实现都会在编译期报错直到补齐。
type Formatter interface {
	Empty() string
	String(s string) string
	Int(v int64) string
	Float(v float64) string
	Bool(v bool) string
	DateTime(t time.Time) string
	DateTimeISO(s string) string
	DurationISO(s string) string
	Error(code CellErrorCode) string
}

// Cell 单元格值（封闭的标签联合）
type Cell interface {
	Kind() CellKind
	Format(f Formatter) string
	sealed()
}

// EmptyCell 空单元格
type EmptyCell struct{}

// StringCell 文本单元格
type StringCell string

// IntCell 整数单元格
type IntCell int64

// FloatCell 浮点数单元格
type FloatCell float64

// BoolCell 布尔单元格
type BoolCell bool

// DateTimeCell 日期时间单元格（由数字 + 日期格式换算而来）
type DateTimeCell struct {
	Time time.Time
}

// DateTimeISOCell 以 ISO 文本存储的日期时间
type DateTimeISOCell string

// DurationISOCell 以 ISO 文本存储的时长
type DurationISOCell string

// ErrorCell 错误单元格，如 #DIV/0!
type ErrorCell struct {
	Code CellErrorCode
}

func (EmptyCell) Kind() CellKind       { return CellKindEmpty }
func (StringCell) Kind() CellKind      { return CellKindString }
func (IntCell) Kind() CellKind         { return CellKindInt }
func (FloatCell) Kind() CellKind       { return CellKindFloat }
func (BoolCell) Kind() CellKind        { return CellKindBool }
func (DateTimeCell) Kind() CellKind    { return CellKindDateTime }
func (DateTimeISOCell) Kind() CellKind { return CellKindDateTimeISO }
func (DurationISOCell) Kind() CellKind { return CellKindDurationISO }
func (ErrorCell) Kind() CellKind       { return CellKindError }

func (EmptyCell) Format(f Formatter) string         { return f.Empty() }
func (c StringCell) Format(f Formatter) string      { return f.String(string(c)) }
func (c IntCell) Format(f Formatter) string         { return f.Int(int64(c)) }
func (c FloatCell) Format(f Formatter) string       { return f.Float(float64(c)) }
func (c BoolCell) Format(f Formatter) string        { return f.Bool(bool(c)) }
func (c DateTimeCell) Format(f Formatter) string    { return f.DateTime(c.Time) }
func (c DateTimeISOCell) Format(f Formatter) string { return f.DateTimeISO(string(c)) }
func (c DurationISOCell) Format(f Formatter) string { return f.DurationISO(string(c)) }
func (c ErrorCell) Format(f Formatter) string       { return f.Error(c.Code) }

func (EmptyCell) sealed()       {}
func (StringCell) sealed()      {}
func (IntCell) sealed()         {}
func (FloatCell) sealed()       {}
func (BoolCell) sealed()        {}
func (DateTimeCell) sealed()    {}
func (DateTimeISOCell) sealed() {}
func (DurationISOCell) sealed() {}
func (ErrorCell) sealed()       {}

// CellErrorCode 单元格错误码
type CellErrorCode int

const (
	CellErrorUnknown CellErrorCode = iota
	CellErrorDiv0
	CellErrorNA
	CellErrorName
	CellErrorNull
	CellErrorNum
	CellErrorRef
	CellErrorValue
	CellErrorGettingData
)

var cellErrorTexts = map[string]CellErrorCode{
	"#DIV/0!":        CellErrorDiv0,
	"#N/A":           CellErrorNA,
	"#NAME?":         CellErrorName,
	"#NULL!":         CellErrorNull,
	"#NUM!":          CellErrorNum,
	"#REF!":          CellErrorRef,
	"#VALUE!":        CellErrorValue,
	"#GETTING_DATA":  CellErrorGettingData,
	"#GETTING_DATA!": CellErrorGettingData,
}

// ParseCellErrorCode 将工作表中的错误文本解析为错误码，无法识别时返回 CellErrorUnknown
func ParseCellErrorCode(text string) CellErrorCode {
	if code, ok := cellErrorTexts[strings.ToUpper(strings.TrimSpace(text))]; ok {
		return code
	}
	return CellErrorUnknown
}

// DebugName 错误码的调试名称，用于渲染 "Error: <name>"
func (c CellErrorCode) DebugName() string {
	switch c {
	case CellErrorDiv0:
		return "Div0"
	case CellErrorNA:
		return "NA"
	case CellErrorName:
		return "Name"
	case CellErrorNull:
		return "Null"
	case CellErrorNum:
		return "Num"
	case CellErrorRef:
		return "Ref"
	case CellErrorValue:
		return "Value"
	case CellErrorGettingData:
		return "GettingData"
	default:
		return "Unknown"
	}
}

func (c CellErrorCode) String() string {
	return c.DebugName()
}
