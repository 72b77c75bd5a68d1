package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// StatusResponse 系统状态响应
type StatusResponse struct {
	Version          string   `json:"version"`          // 接口版本
	Commands         []string `json:"commands"`         // 已注册命令
	ImportLogEnabled bool     `json:"importLogEnabled"` // 是否记录导入日志
}

// GetStatus 获取系统状态
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	c.JSON(http.StatusOK, StatusResponse{
		Version:          Version,
		Commands:         h.registry.Names(),
		ImportLogEnabled: h.store != nil,
	})
}
