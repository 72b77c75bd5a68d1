package v1

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"sheetdesk/internal/command"
	"sheetdesk/internal/importer"
)

// Invoke 调用已注册的命令，请求体为命令参数 JSON
// POST /api/invoke/:command
func (h *Handler) Invoke(c *gin.Context) {
	name := c.Param("command")

	// 只接受 JSON 请求体，表单和纯文本这类无需预检的跨域请求到不了命令
	if c.ContentType() != "application/json" {
		c.JSON(http.StatusUnsupportedMediaType, gin.H{"error": "请求体必须为 application/json"})
		return
	}

	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "读取请求失败"})
		return
	}
	if len(body) > 0 && !json.Valid(body) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "无效的 JSON 参数"})
		return
	}

	out, err := h.registry.Invoke(c.Request.Context(), name, json.RawMessage(body))
	if err != nil {
		c.JSON(errorStatus(err), errorBody(err))
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": out})
}

// errorStatus 错误到 HTTP 状态码的映射
func errorStatus(err error) int {
	switch {
	case errors.Is(err, command.ErrUnknownCommand):
		return http.StatusNotFound
	case errors.Is(err, command.ErrInvalidArgs):
		return http.StatusBadRequest
	case importer.KindOf(err) != "":
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func errorBody(err error) gin.H {
	body := gin.H{"error": err.Error()}
	if kind := importer.KindOf(err); kind != "" {
		body["kind"] = kind
	}
	return body
}
