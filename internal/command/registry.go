package command

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"sync"
)

var (
	// ErrUnknownCommand 调用了未注册的命令
	ErrUnknownCommand = errors.New("unknown command")
	// ErrInvalidArgs 命令参数无法解析
	ErrInvalidArgs = errors.New("invalid command arguments")
)

// Handler 命令处理函数，args 为 JSON 参数
type Handler func(ctx context.Context, args json.RawMessage) (any, error)

// Registry 命令名到处理函数的注册表。启动时构建一次，进程退出时 Close
type Registry struct {
	mu       sync.RWMutex
	handlers map[string]Handler
	closers  []func() error
	closed   bool
}

// NewRegistry 创建空注册表
func NewRegistry() *Registry {
	return &Registry{handlers: make(map[string]Handler)}
}

// Register 注册命令，名称为空或重复时返回错误
func (r *Registry) Register(name string, h Handler) error {
	if name == "" {
		return errors.New("command name is empty")
	}
	if h == nil {
		return fmt.Errorf("command %q: nil handler", name)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.handlers[name]; ok {
		return fmt.Errorf("command %q already registered", name)
	}
	r.handlers[name] = h
	return nil
}

// Invoke 调用命令
func (r *Registry) Invoke(ctx context.Context, name string, args json.RawMessage) (any, error) {
	r.mu.RLock()
	h, ok := r.handlers[name]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCommand, name)
	}
	return h(ctx, args)
}

// Names 已注册命令名（有序）
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.handlers))
	for name := range r.handlers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// OnClose 注册退出时执行的清理函数
func (r *Registry) OnClose(fn func() error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closers = append(r.closers, fn)
}

// Close 按注册的逆序执行清理函数，只执行一次
func (r *Registry) Close() error {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return nil
	}
	r.closed = true
	closers := r.closers
	r.closers = nil
	r.mu.Unlock()

	var errs []error
	for i := len(closers) - 1; i >= 0; i-- {
		if err := closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// decodeArgs 解析 JSON 参数，空参数视为 {}
func decodeArgs(args json.RawMessage, v any) error {
	if len(args) == 0 {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidArgs, err)
	}
	return nil
}
