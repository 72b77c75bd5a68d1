package workbook

import "strings"

// numFmtKind 数字格式类别
type numFmtKind int

const (
	numFmtGeneral  numFmtKind = iota
	numFmtDate                // 日期/时间
	numFmtDuration            // 经过时间，如 [h]:mm:ss
)

func classifyNumFmt(id int, custom *string) numFmtKind {
	if custom != nil && *custom != "" {
		return customNumFmtKind(*custom)
	}
	return builtInNumFmtKind(id)
}

// builtInNumFmtKind 内置格式编号：14-22 日期时间，27-36 与 50-58 为东亚日期，45-47 时间
func builtInNumFmtKind(id int) numFmtKind {
	switch {
	case id == 46:
		return numFmtDuration
	case id >= 14 && id <= 22,
		id >= 27 && id <= 36,
		id >= 45 && id <= 47,
		id >= 50 && id <= 58:
		return numFmtDate
	}
	return numFmtGeneral
}

// customNumFmtKind 扫描自定义格式代码的第一段。
// 引号内文本、转义字符与方括号段（颜色、区域设置）不参与判断。
func customNumFmtKind(code string) numFmtKind {
	lower := strings.ToLower(code)
	isDate := false

scan:
	for i := 0; i < len(lower); i++ {
		switch ch := lower[i]; ch {
		case '"':
			j := strings.IndexByte(lower[i+1:], '"')
			if j < 0 {
				break scan
			}
			i += j + 1
		case '\\', '_', '*':
			i++
		case '[':
			j := strings.IndexByte(lower[i:], ']')
			if j < 0 {
				break scan
			}
			if isElapsedSection(lower[i+1 : i+j]) {
				return numFmtDuration
			}
			i += j
		case ';':
			break scan
		case 'd', 'm', 'y', 'h', 's':
			isDate = true
		}
	}

	if isDate {
		return numFmtDate
	}
	return numFmtGeneral
}

func isElapsedSection(section string) bool {
	if section == "" {
		return false
	}
	first := section[0]
	if first != 'h' && first != 'm' && first != 's' {
		return false
	}
	for i := 1; i < len(section); i++ {
		if section[i] != first {
			return false
		}
	}
	return true
}
