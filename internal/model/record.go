package model

// RowRecord 单行导入结果：表头名 -> 渲染后的文本值
type RowRecord map[string]string

// Clone 复制一份行记录
func (r RowRecord) Clone() RowRecord {
	out := make(RowRecord, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
