package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/kelseyhightower/envconfig"
	"github.com/pelletier/go-toml/v2"
)

// EnvPrefix 环境变量前缀，例如 SHEETDESK_PORT
const EnvPrefix = "SHEETDESK"

// AppConfig 应用配置
type AppConfig struct {
	Server ServerConfig `toml:"server"`
	Data   DataConfig   `toml:"data"`
	Import ImportConfig `toml:"import"`
	Log    LogConfig    `toml:"log"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Port        int  `toml:"port" validate:"min=1,max=65535"`
	DevMode     bool `toml:"dev_mode"`
	OpenBrowser bool `toml:"open_browser"`
}

// DataConfig 数据配置
type DataConfig struct {
	DataDir   string `toml:"data_dir" validate:"required"`
	ImportLog bool   `toml:"import_log"` // 是否记录导入审计日志
}

// ImportConfig 导入配置
type ImportConfig struct {
	DuplicateHeaders string `toml:"duplicate_headers" validate:"omitempty,oneof=overwrite suffix reject"`
	TrimHeaders      bool   `toml:"trim_headers"`
	MaxConcurrent    int    `toml:"max_concurrent" validate:"min=1,max=64"`
}

// LogConfig 日志配置
type LogConfig struct {
	Level string `toml:"level" validate:"omitempty,oneof=error warn warning info debug"`
}

// LoadConfigInfo 配置加载元信息
type LoadConfigInfo struct {
	FileFound     bool
	PortSpecified bool
}

// envOverrides 可由环境变量覆盖的配置项，未设置的保持 nil
type envOverrides struct {
	Port             *int    `envconfig:"PORT"`
	DevMode          *bool   `envconfig:"DEV_MODE"`
	DataDir          *string `envconfig:"DATA_DIR"`
	ImportLog        *bool   `envconfig:"IMPORT_LOG"`
	DuplicateHeaders *string `envconfig:"DUPLICATE_HEADERS"`
	MaxConcurrent    *int    `envconfig:"MAX_CONCURRENT"`
	LogLevel         *string `envconfig:"LOG_LEVEL"`
}

var validate = validator.New()

// DefaultConfig 默认配置
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:        20262,
			DevMode:     false,
			OpenBrowser: true,
		},
		Data: DataConfig{
			DataDir:   "data",
			ImportLog: true,
		},
		Import: ImportConfig{
			DuplicateHeaders: "overwrite",
			TrimHeaders:      false,
			MaxConcurrent:    4,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Validate 校验配置取值
func (c *AppConfig) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func isPortSpecifiedInToml(data []byte) bool {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return false
	}

	serverAny, ok := raw["server"]
	if !ok {
		return false
	}

	serverMap, ok := serverAny.(map[string]any)
	if !ok {
		return false
	}

	_, ok = serverMap["port"]
	return ok
}

// GetExeDir 获取可执行文件所在目录
func GetExeDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", err
	}
	return filepath.Dir(exe), nil
}

func exeDirOrCwd() string {
	exeDir, err := GetExeDir()
	if err != nil {
		// 无法获取可执行文件目录，使用当前目录
		return "."
	}
	return exeDir
}

// ConfigPath config.toml 路径，位于可执行文件同目录下
func ConfigPath() string {
	return filepath.Join(exeDirOrCwd(), "config.toml")
}

// LoadConfigWithInfo 从 config.toml 加载配置并返回元信息
func LoadConfigWithInfo() (*AppConfig, LoadConfigInfo, error) {
	return LoadConfigFrom(ConfigPath())
}

// LoadConfigFrom 从指定文件加载配置，文件不存在时使用默认配置。
// 环境变量 SHEETDESK_* 优先于文件中的取值。
func LoadConfigFrom(configPath string) (*AppConfig, LoadConfigInfo, error) {
	info := LoadConfigInfo{}
	config := DefaultConfig()

	data, err := os.ReadFile(configPath)
	switch {
	case err == nil:
		info.FileFound = true
		info.PortSpecified = isPortSpecifiedInToml(data)
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, info, fmt.Errorf("parse %s: %w", configPath, err)
		}
	case !os.IsNotExist(err):
		return nil, info, err
	}

	// 环境变量覆盖
	var env envOverrides
	if err := envconfig.Process(EnvPrefix, &env); err != nil {
		return nil, info, fmt.Errorf("failed to load config from env: %w", err)
	}
	if env.Port != nil {
		info.PortSpecified = true
	}
	env.apply(config)

	if err := config.Validate(); err != nil {
		return nil, info, err
	}
	return config, info, nil
}

func (e envOverrides) apply(c *AppConfig) {
	if e.Port != nil {
		c.Server.Port = *e.Port
	}
	if e.DevMode != nil {
		c.Server.DevMode = *e.DevMode
	}
	if e.DataDir != nil {
		c.Data.DataDir = *e.DataDir
	}
	if e.ImportLog != nil {
		c.Data.ImportLog = *e.ImportLog
	}
	if e.DuplicateHeaders != nil {
		c.Import.DuplicateHeaders = *e.DuplicateHeaders
	}
	if e.MaxConcurrent != nil {
		c.Import.MaxConcurrent = *e.MaxConcurrent
	}
	if e.LogLevel != nil {
		c.Log.Level = *e.LogLevel
	}
}

// SaveConfig 保存配置到指定路径，先写临时文件再重命名
func SaveConfig(config *AppConfig, configPath string) error {
	data, err := toml.Marshal(config)
	if err != nil {
		return err
	}

	tmp := configPath + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return err
	}
	return os.Rename(tmp, configPath)
}

// ResolveDataDir 数据目录的绝对路径，相对路径基于可执行文件目录
func ResolveDataDir(config *AppConfig) string {
	if filepath.IsAbs(config.Data.DataDir) {
		return config.Data.DataDir
	}
	return filepath.Join(exeDirOrCwd(), config.Data.DataDir)
}

// EnsureDataDir 确保数据目录及 uploads 子目录存在
func EnsureDataDir(config *AppConfig) (string, error) {
	dataDir := ResolveDataDir(config)

	if err := os.MkdirAll(filepath.Join(dataDir, "uploads"), 0755); err != nil {
		return "", err
	}
	return dataDir, nil
}

// UploadDir 上传文件暂存目录
func UploadDir(dataDir string) string {
	return filepath.Join(dataDir, "uploads")
}

// DBPath 导入日志数据库路径
func DBPath(dataDir string) string {
	return filepath.Join(dataDir, "sheetdesk.db")
}
