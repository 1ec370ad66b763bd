package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/user/cinedash/internal/middleware"
	"github.com/user/cinedash/internal/model"
	"github.com/user/cinedash/internal/repository"
	"github.com/user/cinedash/internal/utils"
)

type loginRequest struct {
	Email    string `json:"correo" binding:"required"`
	Password string `json:"contrasenia" binding:"required"`
}

// Login 邮箱密码登录，返回令牌与用户记录
// 停用的账号照常返回，由客户端根据 estado 处理
func (h *Handler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Correo y contraseña son obligatorios")
		return
	}

	user := h.Repos.User.FindByEmail(req.Email)
	if user == nil || !h.Repos.User.CheckPassword(user, req.Password) {
		utils.Unauthorized(c, "Credenciales inválidas")
		return
	}

	role := h.Repos.Role.IDs().Resolve(user.Role).String()
	token, err := middleware.GenerateToken(string(user.ID), user.Email, role, h.Config.AppSecret, h.Config.JWTExpiry)
	if err != nil {
		h.Logger.Error("生成令牌失败", zap.Error(err))
		utils.InternalServerError(c, "")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user.UserRecord,
	})
}

type registerRequest struct {
	Email    string `json:"correo" binding:"required,email"`
	Password string `json:"contrasenia" binding:"required,min=6"`
	Name     string `json:"name" binding:"required"`
	Surname  string `json:"apellido"`
	Avatar   string `json:"avatar"`
	Role     string `json:"role"`
}

// Register 公开注册，角色固定为普通用户
// 管理员携带令牌调用时按请求中的 role 创建
func (h *Handler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Datos de registro inválidos")
		return
	}

	avatar := strings.TrimSpace(req.Avatar)
	if avatar == "" {
		avatar = utils.Initials(req.Name, req.Surname)
	}

	role := h.Repos.Role.IDs().User
	if middleware.IsAdmin(c) && strings.TrimSpace(req.Role) != "" {
		role = req.Role
	}

	user, err := h.Repos.User.Create(repository.NewUser{
		Email:    req.Email,
		Password: req.Password,
		Name:     strings.TrimSpace(req.Name),
		Surname:  strings.TrimSpace(req.Surname),
		Avatar:   avatar,
		Status:   model.StatusActive,
		Role:     role,
	})
	if err != nil {
		h.fail(c, err)
		return
	}

	h.Logger.Info("新用户注册", zap.String("user_id", string(user.ID)), zap.String("role", string(user.Role)))
	success(c, http.StatusCreated, "Usuario creado correctamente", gin.H{"usuario": user})
}
