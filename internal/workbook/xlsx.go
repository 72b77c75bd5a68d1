package workbook

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"sheetdesk/internal/model"
)

type xlsxWorkbook struct {
	file     *excelize.File
	date1904 bool
}

func openXLSX(path string) (*xlsxWorkbook, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}

	wb := &xlsxWorkbook{file: f}
	if props, err := f.GetWorkbookProps(); err == nil && props.Date1904 != nil {
		wb.date1904 = *props.Date1904
	}
	return wb, nil
}

func (w *xlsxWorkbook) SheetNames() []string {
	return w.file.GetSheetList()
}

func (w *xlsxWorkbook) FirstSheet() (Sheet, error) {
	names := w.file.GetSheetList()
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrNoWorksheet)
	}
	return &xlsxSheet{wb: w, name: names[0]}, nil
}

func (w *xlsxWorkbook) Close() error {
	return w.file.Close()
}

type xlsxSheet struct {
	wb   *xlsxWorkbook
	name string
}

func (s *xlsxSheet) Name() string {
	return s.name
}

func (s *xlsxSheet) Rows() (Rows, error) {
	rows, err := s.wb.file.Rows(s.name)
	if err != nil {
		return nil, fmt.Errorf("%w: sheet %q: %w", ErrNoWorksheet, s.name, err)
	}
	return &xlsxRows{
		sheet:  s,
		rows:   rows,
		styles: make(map[int]numFmtKind),
	}, nil
}

type xlsxRows struct {
	sheet  *xlsxSheet
	rows   *excelize.Rows
	rowNum int
	cells  []model.Cell
	err    error
	// 样式索引 -> 数字格式类别，同一工作表内复用
	styles map[int]numFmtKind
}

func (r *xlsxRows) Next() bool {
	if r.err != nil {
		return false
	}
	if !r.rows.Next() {
		if err := r.rows.Error(); err != nil {
			r.err = fmt.Errorf("%w: sheet %q: %w", ErrNoWorksheet, r.sheet.name, err)
		}
		r.cells = nil
		return false
	}
	r.rowNum++

	raw, err := r.rows.Columns(excelize.Options{RawCellValue: true})
	if err != nil {
		r.err = fmt.Errorf("%w: sheet %q row %d: %w", ErrNoWorksheet, r.sheet.name, r.rowNum, err)
		return false
	}

	cells := make([]model.Cell, len(raw))
	for i, value := range raw {
		cell, err := r.cellAt(i+1, value)
		if err != nil {
			r.err = fmt.Errorf("%w: sheet %q row %d: %w", ErrNoWorksheet, r.sheet.name, r.rowNum, err)
			return false
		}
		cells[i] = cell
	}
	r.cells = cells
	return true
}

func (r *xlsxRows) Cells() []model.Cell {
	return r.cells
}

func (r *xlsxRows) Err() error {
	return r.err
}

func (r *xlsxRows) Close() error {
	return r.rows.Close()
}

// cellAt 结合单元格类型与数字格式确定单元格的值类型
func (r *xlsxRows) cellAt(col int, raw string) (model.Cell, error) {
	ref, err := excelize.CoordinatesToCellName(col, r.rowNum)
	if err != nil {
		return nil, err
	}

	file := r.sheet.wb.file
	cellType, err := file.GetCellType(r.sheet.name, ref)
	if err != nil {
		return nil, err
	}

	kind := numFmtGeneral
	if isNumericType(cellType) && raw != "" {
		styleID, err := file.GetCellStyle(r.sheet.name, ref)
		if err != nil {
			return nil, err
		}
		kind = r.numFmtKindOf(styleID)
	}

	return classifyCell(cellType, raw, kind, r.sheet.wb.date1904), nil
}

func (r *xlsxRows) numFmtKindOf(styleID int) numFmtKind {
	if kind, ok := r.styles[styleID]; ok {
		return kind
	}
	kind := numFmtGeneral
	if style, err := r.sheet.wb.file.GetStyle(styleID); err == nil && style != nil {
		kind = classifyNumFmt(style.NumFmt, style.CustomNumFmt)
	}
	r.styles[styleID] = kind
	return kind
}

func isNumericType(t excelize.CellType) bool {
	return t == excelize.CellTypeUnset || t == excelize.CellTypeNumber
}

// classifyCell 将原始文本映射为单元格值
func classifyCell(cellType excelize.CellType, raw string, kind numFmtKind, date1904 bool) model.Cell {
	switch cellType {
	case excelize.CellTypeBool:
		b, err := strconv.ParseBool(strings.TrimSpace(raw))
		if err != nil {
			return model.StringCell(raw)
		}
		return model.BoolCell(b)
	case excelize.CellTypeDate:
		if raw == "" {
			return model.EmptyCell{}
		}
		return model.DateTimeISOCell(raw)
	case excelize.CellTypeError:
		return model.ErrorCell{Code: model.ParseCellErrorCode(raw)}
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula:
		return model.StringCell(raw)
	}

	if raw == "" {
		return model.EmptyCell{}
	}
	return numericCell(raw, kind, date1904)
}

func numericCell(raw string, kind numFmtKind, date1904 bool) model.Cell {
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return model.StringCell(raw)
	}

	switch kind {
	case numFmtDate:
		if t, err := excelize.ExcelDateToTime(f, date1904); err == nil {
			return model.DateTimeCell{Time: t}
		}
	case numFmtDuration:
		return model.DurationISOCell(formatDuration(f))
	}

	if i, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64); err == nil {
		return model.IntCell(i)
	}
	return model.FloatCell(f)
}

// formatDuration 将以天为单位的时长转换为 ISO 8601 文本，如 PT36H0M0S
func formatDuration(days float64) string {
	total := int64(math.Round(days * 86400))
	sign := ""
	if total < 0 {
		sign = "-"
		total = -total
	}
	return fmt.Sprintf("%sPT%dH%dM%dS", sign, total/3600, (total%3600)/60, total%60)
}
