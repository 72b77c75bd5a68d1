package query

import (
	"sheetdesk/internal/logging"
	"sheetdesk/internal/model"
)

// placeholderRows 查询接口未接入数据库前返回的固定结果
var placeholderRows = []model.RowRecord{
	{"id": "DB001", "diagnosis": "数据库查询结果1"},
	{"id": "DB002", "diagnosis": "数据库查询结果2"},
}

// Execute 执行查询。当前只记录查询语句并返回占位数据，空查询同样接受
func Execute(query string) ([]model.RowRecord, error) {
	logging.Default.With("query").Info("执行查询: %q", query)

	rows := make([]model.RowRecord, len(placeholderRows))
	for i, r := range placeholderRows {
		rows[i] = r.Clone()
	}
	return rows, nil
}
