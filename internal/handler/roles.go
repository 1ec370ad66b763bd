package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListRoles 可分配的角色（管理员）
func (h *Handler) ListRoles(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"data": h.Repos.Role.List()})
}
