package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/user/cinedash/internal/config"
	"github.com/user/cinedash/internal/repository"
	"github.com/user/cinedash/internal/utils"
)

// Handler HTTP 处理器
type Handler struct {
	Repos  *repository.Repositories
	Config *config.Config
	Logger *zap.Logger
}

// NewHandler 创建处理器
func NewHandler(repos *repository.Repositories, cfg *config.Config, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		Repos:  repos,
		Config: cfg,
		Logger: logger,
	}
}

// Health 健康检查
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// fail 把仓库错误映射为 HTTP 状态码
func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		utils.NotFound(c, "")
	case errors.Is(err, repository.ErrEmailTaken),
		errors.Is(err, repository.ErrDuplicateTitle),
		errors.Is(err, repository.ErrDuplicateProfile):
		utils.Conflict(c, err.Error())
	case errors.Is(err, repository.ErrProfileLimit),
		errors.Is(err, repository.ErrUnknownRole):
		utils.BadRequest(c, err.Error())
	default:
		h.Logger.Error("处理请求失败", zap.String("path", c.FullPath()), zap.Error(err))
		utils.InternalServerError(c, "")
	}
}

func success(c *gin.Context, code int, message string, extra gin.H) {
	body := gin.H{"result": "success", "mensaje": message}
	for k, v := range extra {
		body[k] = v
	}
	c.JSON(code, body)
}
