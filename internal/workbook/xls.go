package workbook

import (
	"fmt"
	"io"
	"os"

	"github.com/extrame/xls"

	"sheetdesk/internal/model"
)

// xlsCharset 旧版 BIFF 文件中非 Unicode 字符串的解码字符集
const xlsCharset = "utf-8"

// xlsWorkbook 旧版 .xls 工作簿。底层库只提供单元格文本，
// 非空单元格一律作为文本单元格返回。
type xlsWorkbook struct {
	book   *xls.WorkBook
	closer io.Closer
}

func openXLS(path string) (wb *xlsWorkbook, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}

	// 底层解析器遇到损坏文件可能 panic
	defer func() {
		if r := recover(); r != nil {
			_ = f.Close()
			wb = nil
			err = fmt.Errorf("%w: malformed xls container: %v", ErrOpen, r)
		}
	}()

	book, err := xls.OpenReader(f, xlsCharset)
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%w: %w", ErrOpen, err)
	}
	if book == nil {
		_ = f.Close()
		return nil, fmt.Errorf("%w: no workbook stream in %s", ErrOpen, path)
	}
	return &xlsWorkbook{book: book, closer: f}, nil
}

func (w *xlsWorkbook) SheetNames() []string {
	names := make([]string, 0, w.book.NumSheets())
	for i := 0; i < w.book.NumSheets(); i++ {
		if sheet := w.book.GetSheet(i); sheet != nil {
			names = append(names, sheet.Name)
		}
	}
	return names
}

func (w *xlsWorkbook) FirstSheet() (s Sheet, err error) {
	defer func() {
		if r := recover(); r != nil {
			s = nil
			err = fmt.Errorf("%w: malformed xls sheet: %v", ErrNoWorksheet, r)
		}
	}()

	if w.book.NumSheets() == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrNoWorksheet)
	}
	sheet := w.book.GetSheet(0)
	if sheet == nil {
		return nil, fmt.Errorf("%w: first sheet cannot be decoded", ErrNoWorksheet)
	}
	return &xlsSheet{sheet: sheet}, nil
}

func (w *xlsWorkbook) Close() error {
	if w.closer == nil {
		return nil
	}
	return w.closer.Close()
}

type xlsSheet struct {
	sheet *xls.WorkSheet
}

func (s *xlsSheet) Name() string {
	return s.sheet.Name
}

func (s *xlsSheet) Rows() (Rows, error) {
	last := int(s.sheet.MaxRow)
	if last == 0 && rowAt(s.sheet, 0) == nil {
		last = -1
	}
	return &xlsRows{sheet: s.sheet, next: 0, last: last}, nil
}

// rowAt 返回第 i 行；文件中没有记录的行返回 nil
func rowAt(sheet *xls.WorkSheet, i int) (row *xls.Row) {
	defer func() {
		if recover() != nil {
			row = nil
		}
	}()
	return sheet.Row(i)
}

type xlsRows struct {
	sheet *xls.WorkSheet
	next  int
	last  int
	cells []model.Cell
	err   error
}

func (r *xlsRows) Next() (ok bool) {
	if r.err != nil || r.next > r.last {
		r.cells = nil
		return false
	}
	defer func() {
		if rec := recover(); rec != nil {
			r.err = fmt.Errorf("%w: malformed xls row %d: %v", ErrNoWorksheet, r.next, rec)
			r.cells = nil
			ok = false
		}
	}()

	row := rowAt(r.sheet, r.next)
	r.next++
	if row == nil {
		r.cells = []model.Cell{}
		return true
	}

	cells := make([]model.Cell, 0, row.LastCol()+1)
	for c := 0; c <= row.LastCol(); c++ {
		text := row.Col(c)
		if text == "" {
			cells = append(cells, model.EmptyCell{})
			continue
		}
		cells = append(cells, model.StringCell(text))
	}
	r.cells = trimTrailingEmpty(cells)
	return true
}

func (r *xlsRows) Cells() []model.Cell {
	return r.cells
}

func (r *xlsRows) Err() error {
	return r.err
}

func (r *xlsRows) Close() error {
	return nil
}
