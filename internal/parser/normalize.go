package parser

import "sheetdesk/internal/model"

// NormalizeRow 按表头位置生成行记录。
// 超出表头长度的单元格被丢弃；短行缺失的列不会出现在结果中。
func NormalizeRow(cells []model.Cell, headers []string) model.RowRecord {
	n := len(cells)
	if n > len(headers) {
		n = len(headers)
	}

	record := make(model.RowRecord, n)
	for i := 0; i < n; i++ {
		record[headers[i]] = RenderCell(cells[i])
	}
	return record
}

// NormalizeAll 顺序消费剩余的数据行。迭代器出错时丢弃已生成的行并返回错误。
func NormalizeAll(rows RowIterator, headers []string) ([]model.RowRecord, error) {
	records := make([]model.RowRecord, 0)
	for rows.Next() {
		records = append(records, NormalizeRow(rows.Cells(), headers))
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// SliceRows 基于内存切片的行迭代器
type SliceRows struct {
	rows [][]model.Cell
	pos  int
}

// NewSliceRows 创建内存行迭代器
func NewSliceRows(rows [][]model.Cell) *SliceRows {
	return &SliceRows{rows: rows, pos: -1}
}

func (s *SliceRows) Next() bool {
	if s.pos+1 >= len(s.rows) {
		s.pos = len(s.rows)
		return false
	}
	s.pos++
	return true
}

func (s *SliceRows) Cells() []model.Cell {
	if s.pos < 0 || s.pos >= len(s.rows) {
		return nil
	}
	return s.rows[s.pos]
}

func (s *SliceRows) Err() error {
	return nil
}
