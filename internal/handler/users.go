package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/user/cinedash/internal/middleware"
	"github.com/user/cinedash/internal/model"
	"github.com/user/cinedash/internal/repository"
	"github.com/user/cinedash/internal/utils"
)

// ListUsers 全部用户（管理员）
func (h *Handler) ListUsers(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"usuarios": h.Repos.User.List()})
}

// GetUser 单个用户
func (h *Handler) GetUser(c *gin.Context) {
	user := h.Repos.User.FindByID(c.Param("id"))
	if user == nil {
		utils.NotFound(c, "Usuario no encontrado")
		return
	}
	c.JSON(http.StatusOK, gin.H{"usuario": user})
}

type updateUserRequest struct {
	Name      *string              `json:"name"`
	Surname   *string              `json:"apellido"`
	Email     *string              `json:"correo" binding:"omitempty,email"`
	Avatar    *string              `json:"avatar"`
	Status    *model.AccountStatus `json:"estado" binding:"omitempty,oneof=0 1"`
	Role      *string              `json:"role"`
	Favorites *[]string            `json:"favoritos" binding:"omitempty,max=5"`
}

// UpdateUser 修改用户；角色与状态只有管理员可以修改
func (h *Handler) UpdateUser(c *gin.Context) {
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Datos inválidos")
		return
	}
	if (req.Role != nil || req.Status != nil) && !middleware.IsAdmin(c) {
		utils.Forbidden(c, "Solo un administrador puede cambiar rol o estado")
		return
	}

	user, err := h.Repos.User.Update(c.Param("id"), repository.UserUpdate{
		Name:      req.Name,
		Surname:   req.Surname,
		Email:     req.Email,
		Avatar:    req.Avatar,
		Status:    req.Status,
		Role:      req.Role,
		Favorites: req.Favorites,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	success(c, http.StatusOK, "Usuario actualizado", gin.H{"usuario": user})
}
