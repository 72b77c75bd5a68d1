package parser

import (
	"regexp"
	"strings"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// NormalizeColumnName 规范化列名，去除空格和换行等控制字符
func NormalizeColumnName(name string) string {
	// 去除首尾空格
	name = strings.TrimSpace(name)
	// 去除换行符和制表符
	name = strings.ReplaceAll(name, "\n", "")
	name = strings.ReplaceAll(name, "\r", "")
	name = strings.ReplaceAll(name, "\t", "")
	// 去除中间的空白
	return whitespaceRe.ReplaceAllString(name, "")
}

// DuplicateHeaderPolicy 重复表头的处理策略
type DuplicateHeaderPolicy string

const (
	// DuplicateOverwrite 保留重复列名，后出现的列覆盖前面的值
	DuplicateOverwrite DuplicateHeaderPolicy = "overwrite"
	// DuplicateSuffix 为后出现的重复列名追加 _2、_3 ...
	DuplicateSuffix DuplicateHeaderPolicy = "suffix"
	// DuplicateReject 出现重复列名时报错
	DuplicateReject DuplicateHeaderPolicy = "reject"
)

// ParseDuplicateHeaderPolicy 解析策略名称，未知值返回 false
func ParseDuplicateHeaderPolicy(s string) (DuplicateHeaderPolicy, bool) {
	switch p := DuplicateHeaderPolicy(strings.ToLower(strings.TrimSpace(s))); p {
	case DuplicateOverwrite, DuplicateSuffix, DuplicateReject:
		return p, true
	case "":
		return DuplicateOverwrite, true
	default:
		return "", false
	}
}
