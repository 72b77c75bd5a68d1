package server

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	v1 "sheetdesk/internal/api/v1"
	"sheetdesk/internal/config"
	"sheetdesk/internal/metrics"
)

// devServerURL 开发模式下的前端开发服务器
const devServerURL = "http://localhost:5173"

//go:embed all:dist
var staticFiles embed.FS

// Server HTTP服务器
type Server struct {
	router  *gin.Engine
	httpSrv *http.Server
}

// NewServer 创建服务器。rec 为 nil 时 /metrics 使用默认注册表
func NewServer(cfg *config.AppConfig, api *v1.Handler, rec *metrics.Recorder) *Server {
	devMode := cfg.Server.DevMode
	if !devMode {
		gin.SetMode(gin.ReleaseMode)
	}

	s := &Server{router: gin.New()}
	s.router.Use(gin.Logger(), gin.Recovery())
	s.setupRoutes(devMode, allowedOrigins(cfg.Server.Port, devMode), api, rec)

	// 只监听本机回环地址；导入为流式响应，不设置写超时
	s.httpSrv = &http.Server{
		Addr:              fmt.Sprintf("127.0.0.1:%d", cfg.Server.Port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	return s
}

// allowedOrigins 允许跨域访问的来源：本机界面，开发模式下加上前端开发服务器
func allowedOrigins(port int, devMode bool) map[string]bool {
	origins := map[string]bool{
		fmt.Sprintf("http://localhost:%d", port): true,
		fmt.Sprintf("http://127.0.0.1:%d", port): true,
	}
	if devMode {
		origins[devServerURL] = true
	}
	return origins
}

// loopbackHost 请求的 Host 是否指向本机
func loopbackHost(host string) bool {
	if h, _, err := net.SplitHostPort(host); err == nil {
		host = h
	}
	switch host {
	case "localhost", "127.0.0.1", "::1", "[::1]":
		return true
	}
	return false
}

// originGuard 拒绝非本机 Host 和未登记来源的请求，只对登记来源回写 CORS 头
func originGuard(allowed map[string]bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !loopbackHost(c.Request.Host) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "只接受本机访问"})
			return
		}

		origin := c.GetHeader("Origin")
		if origin == "" {
			c.Next()
			return
		}
		c.Header("Vary", "Origin")
		if !allowed[origin] {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "跨域请求被拒绝"})
			return
		}

		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// setupRoutes 设置路由
func (s *Server) setupRoutes(devMode bool, origins map[string]bool, api *v1.Handler, rec *metrics.Recorder) {
	s.router.Use(originGuard(origins))

	// V1 API 路由
	apiGroup := s.router.Group("/api")
	{
		api.RegisterRoutes(apiGroup)
	}

	// 指标
	s.router.GET("/metrics", gin.WrapH(rec.Handler()))

	// 静态资源
	if devMode {
		// 开发模式：转到前端开发服务器
		s.router.NoRoute(func(c *gin.Context) {
			c.Redirect(http.StatusTemporaryRedirect, devServerURL+c.Request.URL.Path)
		})
		return
	}

	// 生产模式：使用embed的静态资源
	sub, _ := fs.Sub(staticFiles, "dist")

	s.router.GET("/favicon.svg", func(c *gin.Context) {
		data, err := fs.ReadFile(sub, "favicon.svg")
		if err != nil {
			c.Status(http.StatusNotFound)
			return
		}
		c.Data(http.StatusOK, "image/svg+xml", data)
	})

	index := func(c *gin.Context) {
		data, err := fs.ReadFile(sub, "index.html")
		if err != nil {
			c.Status(http.StatusNotFound)
			return
		}
		c.Data(http.StatusOK, "text/html; charset=utf-8", data)
	}
	s.router.GET("/", index)

	// SPA 路由 fallback
	s.router.NoRoute(index)
}

// Handler 路由（用于测试）
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr 监听地址
func (s *Server) Addr() string {
	return s.httpSrv.Addr
}

// Run 启动服务器，Shutdown 后返回 nil
func (s *Server) Run() error {
	err := s.httpSrv.ListenAndServe()
	if errors.Is(err, http.ErrServerClosed) {
		return nil
	}
	return err
}

// Shutdown 停止接收请求并等待进行中的请求完成
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpSrv.Shutdown(ctx)
}
