package v1

import (
	"github.com/gin-gonic/gin"

	"sheetdesk/internal/command"
	"sheetdesk/internal/importer"
	"sheetdesk/internal/store"
)

// Version 接口版本
const Version = "1.0.0"

// Handler V1 API 处理器
type Handler struct {
	registry    *command.Registry
	coordinator *importer.Coordinator
	store       *store.Store // 为 nil 时导入日志关闭
	uploadDir   string
}

// NewHandler 创建 V1 API 处理器。uploadDir 为空时使用系统临时目录
func NewHandler(registry *command.Registry, coordinator *importer.Coordinator, st *store.Store, uploadDir string) *Handler {
	return &Handler{
		registry:    registry,
		coordinator: coordinator,
		store:       st,
		uploadDir:   uploadDir,
	}
}

// RegisterRoutes 注册 V1 API 路由
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// 系统状态
	router.GET("/status", h.GetStatus)

	// 命令调用
	router.POST("/invoke/:command", h.Invoke)

	// 数据导入
	router.POST("/import", h.Import)
	router.GET("/imports", h.ListImports)
}
