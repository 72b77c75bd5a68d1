package logging

import (
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync/atomic"
)

// Level 日志级别
type Level int32

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

// ParseLevel 解析级别名称（不区分大小写），未知名称返回 false
func ParseLevel(s string) (Level, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "error":
		return LevelError, true
	case "warn", "warning":
		return LevelWarn, true
	case "info", "":
		return LevelInfo, true
	case "debug":
		return LevelDebug, true
	default:
		return LevelInfo, false
	}
}

func (l Level) String() string {
	switch l {
	case LevelError:
		return "ERROR"
	case LevelWarn:
		return "WARN"
	case LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}

// Logger 基于标准库 log 的分级日志，可并发使用
type Logger struct {
	level  atomic.Int32
	out    *log.Logger
	prefix string
}

// New 创建日志记录器，输出到 w
func New(w io.Writer, level Level) *Logger {
	l := &Logger{out: log.New(w, "", log.LstdFlags)}
	l.level.Store(int32(level))
	return l
}

// With 返回带有模块前缀的子记录器，共享输出但级别独立
func (l *Logger) With(module string) *Logger {
	child := &Logger{out: l.out, prefix: l.prefix + "[" + module + "] "}
	child.level.Store(l.level.Load())
	return child
}

// SetLevel 修改日志级别
func (l *Logger) SetLevel(level Level) {
	l.level.Store(int32(level))
}

// GetLevel 当前日志级别
func (l *Logger) GetLevel() Level {
	return Level(l.level.Load())
}

func (l *Logger) logf(level Level, format string, args ...interface{}) {
	if Level(l.level.Load()) < level {
		return
	}
	l.out.Printf("[%s] %s%s", level, l.prefix, fmt.Sprintf(format, args...))
}

// Error 错误日志
func (l *Logger) Error(format string, args ...interface{}) { l.logf(LevelError, format, args...) }

// Warn 警告日志
func (l *Logger) Warn(format string, args ...interface{}) { l.logf(LevelWarn, format, args...) }

// Info 普通日志
func (l *Logger) Info(format string, args ...interface{}) { l.logf(LevelInfo, format, args...) }

// Debug 调试日志
func (l *Logger) Debug(format string, args ...interface{}) { l.logf(LevelDebug, format, args...) }

// Default 全局日志实例，启动时根据配置调整级别
var Default = New(os.Stderr, LevelInfo)
