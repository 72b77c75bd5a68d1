package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	v1 "sheetdesk/internal/api/v1"
	"sheetdesk/internal/command"
	"sheetdesk/internal/config"
	"sheetdesk/internal/importer"
	"sheetdesk/internal/logging"
	"sheetdesk/internal/metrics"
	"sheetdesk/internal/parser"
	"sheetdesk/internal/server"
	"sheetdesk/internal/store"
	"sheetdesk/internal/util"
)

var (
	port       = flag.Int("port", 0, "服务端口 (config.toml 优先；仅当未显式配置 port 时生效)")
	devMode    = flag.Bool("dev", false, "开发模式")
	dataDir    = flag.String("dataDir", "", "数据目录 (覆盖配置文件)")
	importPath = flag.String("import", "", "命令行导入：读取工作簿并以 JSON 输出行记录后退出，其余参数作为更多文件")
	noBrowser  = flag.Bool("no-browser", false, "启动后不自动打开浏览器")
)

func main() {
	flag.Parse()

	// .env 不存在时忽略
	_ = godotenv.Load()

	cfg, info, err := config.LoadConfigWithInfo()
	if err != nil {
		log.Printf("加载配置失败，使用默认配置: %v", err)
		cfg = config.DefaultConfig()
		info = config.LoadConfigInfo{}
	}

	// 命令行参数覆盖配置
	if *port > 0 && !info.PortSpecified {
		cfg.Server.Port = *port
	}
	if *devMode {
		cfg.Server.DevMode = true
	}
	if *dataDir != "" {
		cfg.Data.DataDir = *dataDir
	}
	if *noBrowser {
		cfg.Server.OpenBrowser = false
	}

	if level, ok := logging.ParseLevel(cfg.Log.Level); ok {
		logging.Default.SetLevel(level)
	}

	if *importPath != "" {
		os.Exit(runImport(cfg, append([]string{*importPath}, flag.Args()...)))
	}

	fmt.Println("==========================================")
	fmt.Println("  Sheetdesk - 工作簿导入工具")
	fmt.Println("==========================================")

	if !info.FileFound {
		if err := config.SaveConfig(config.DefaultConfig(), config.ConfigPath()); err != nil {
			log.Printf("写入默认配置失败: %v", err)
		}
	}

	dir, err := config.EnsureDataDir(cfg)
	if err != nil {
		log.Printf("创建数据目录失败: %v", err)
		dir = config.ResolveDataDir(cfg)
	} else {
		fmt.Printf("数据目录: %s\n", dir)
	}
	fmt.Printf("日志级别: %s\n", logging.Default.GetLevel())

	registry := command.NewRegistry()
	defer func() {
		if err := registry.Close(); err != nil {
			log.Printf("释放资源失败: %v", err)
		}
	}()

	rec := metrics.NewRecorder()
	st := openStore(cfg, dir, registry)
	coord := importer.NewCoordinator(st, rec, importOptions(cfg))
	if err := command.RegisterDefaults(registry, coord, rec); err != nil {
		log.Fatalf("注册命令失败: %v", err)
	}

	srv := server.NewServer(cfg, v1.NewHandler(registry, coord, st, config.UploadDir(dir)), rec)
	url := fmt.Sprintf("http://localhost:%d", cfg.Server.Port)

	// 启动服务器
	go func() {
		fmt.Printf("服务启动中，监听 %s ...\n", srv.Addr())
		if err := srv.Run(); err != nil {
			log.Fatalf("服务启动失败: %v", err)
		}
	}()

	// 打开浏览器
	switch {
	case cfg.Server.DevMode:
		fmt.Printf("开发模式: 请访问 %s\n", url)
	case cfg.Server.OpenBrowser:
		fmt.Printf("正在打开浏览器: %s\n", url)
		if err := util.OpenBrowserWithFallback(url); err != nil {
			fmt.Printf("无法自动打开浏览器，请手动访问: %s\n", url)
		}
	default:
		fmt.Printf("请访问 %s\n", url)
	}

	fmt.Println("\n按 Ctrl+C 停止服务...")

	// 等待信号
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	fmt.Println("\n正在关闭服务...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("关闭服务失败: %v", err)
	}
}

// openStore 打开导入日志库并注册关闭函数；关闭或失败时返回 nil
func openStore(cfg *config.AppConfig, dir string, registry *command.Registry) *store.Store {
	if !cfg.Data.ImportLog {
		return nil
	}
	st, err := store.New(config.DBPath(dir))
	if err != nil {
		log.Printf("初始化导入日志失败，已关闭导入日志: %v", err)
		return nil
	}
	registry.OnClose(st.Close)
	return st
}

func importOptions(cfg *config.AppConfig) importer.Options {
	policy, _ := parser.ParseDuplicateHeaderPolicy(cfg.Import.DuplicateHeaders)
	return importer.Options{
		Parser: parser.Options{
			DuplicateHeaders: policy,
			TrimHeaders:      cfg.Import.TrimHeaders,
		},
		MaxConcurrent: cfg.Import.MaxConcurrent,
	}
}

// runImport 命令行导入，返回进程退出码
func runImport(cfg *config.AppConfig, paths []string) int {
	coord := importer.NewCoordinator(nil, nil, importOptions(cfg))
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")

	if len(paths) == 1 {
		rows, err := coord.Import(paths[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		if err := enc.Encode(rows); err != nil {
			fmt.Fprintln(os.Stderr, err)
			return 1
		}
		return 0
	}

	items := coord.ImportMany(context.Background(), paths)
	code := 0
	for _, item := range items {
		if item.Err != nil {
			code = 1
		}
	}
	if err := enc.Encode(items); err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	return code
}
