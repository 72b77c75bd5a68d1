package parser

import (
	"errors"
	"fmt"
	"strconv"

	"sheetdesk/internal/model"
)

var (
	// ErrMissingHeaderRow 工作表一行数据都没有
	ErrMissingHeaderRow = errors.New("missing header row")
	// ErrDuplicateHeader 表头中存在重复列名（仅 DuplicateReject 策略）
	ErrDuplicateHeader = errors.New("duplicate header")
)

// RowIterator 单向行迭代器
type RowIterator interface {
	Next() bool
	Cells() []model.Cell
	Err() error
}

// Options 表头与行规范化选项
type Options struct {
	DuplicateHeaders DuplicateHeaderPolicy
	TrimHeaders      bool
}

// ExtractHeaders 读取第一行作为表头，迭代器停在第一行数据之前
func ExtractHeaders(rows RowIterator, opts Options) ([]string, error) {
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return nil, err
		}
		return nil, ErrMissingHeaderRow
	}

	cells := rows.Cells()
	headers := make([]string, len(cells))
	for i, cell := range cells {
		name := HeaderText(cell)
		if opts.TrimHeaders {
			name = NormalizeColumnName(name)
		}
		headers[i] = name
	}

	return applyDuplicatePolicy(headers, opts.DuplicateHeaders)
}

// applyDuplicatePolicy 空白表头不参与重名判断，保持原样
func applyDuplicatePolicy(headers []string, policy DuplicateHeaderPolicy) ([]string, error) {
	switch policy {
	case DuplicateSuffix:
		return suffixDuplicates(headers), nil
	case DuplicateReject:
		seen := make(map[string]int, len(headers))
		for i, h := range headers {
			if h == "" {
				continue
			}
			if first, ok := seen[h]; ok {
				return nil, fmt.Errorf("%w: %q at columns %d and %d", ErrDuplicateHeader, h, first+1, i+1)
			}
			seen[h] = i
		}
		return headers, nil
	default:
		return headers, nil
	}
}

// suffixDuplicates 第二次出现的 name 改为 name_2，依次类推，且不与已有列名冲突
func suffixDuplicates(headers []string) []string {
	taken := make(map[string]bool, len(headers))
	for _, h := range headers {
		taken[h] = true
	}

	out := make([]string, len(headers))
	counts := make(map[string]int, len(headers))
	for i, h := range headers {
		if h == "" {
			continue
		}
		counts[h]++
		if counts[h] == 1 {
			out[i] = h
			continue
		}
		n := counts[h]
		candidate := h + "_" + strconv.Itoa(n)
		for taken[candidate] {
			n++
			candidate = h + "_" + strconv.Itoa(n)
		}
		counts[h] = n
		taken[candidate] = true
		out[i] = candidate
	}
	return out
}
