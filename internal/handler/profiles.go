package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/user/cinedash/internal/model"
	"github.com/user/cinedash/internal/utils"
)

// profileWire 服务端以 _id 输出档案主键
type profileWire struct {
	ID     model.ID `json:"_id"`
	Name   string   `json:"name"`
	Avatar string   `json:"avatar"`
	Kind   string   `json:"tipo,omitempty"`
}

func toWire(p model.Profile) profileWire {
	return profileWire{ID: p.ID, Name: p.Name, Avatar: p.Avatar, Kind: p.Kind}
}

type profileRequest struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	Kind   string `json:"tipo"`
}

// ListProfiles 用户的全部档案
func (h *Handler) ListProfiles(c *gin.Context) {
	profiles, err := h.Repos.Profile.List(c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	out := make([]profileWire, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, toWire(p))
	}
	c.JSON(http.StatusOK, gin.H{"perfiles": out})
}

// CreateProfile 新建档案
func (h *Handler) CreateProfile(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.Name) == "" {
		h.badProfile(c)
		return
	}

	created, err := h.Repos.Profile.Create(c.Param("id"), model.Profile{
		Name:   strings.TrimSpace(req.Name),
		Avatar: req.Avatar,
		Kind:   req.Kind,
	})
	if err != nil {
		h.fail(c, err)
		return
	}
	success(c, http.StatusCreated, "Perfil creado", gin.H{"perfil": toWire(*created)})
}

// UpdateProfile 修改档案
func (h *Handler) UpdateProfile(c *gin.Context) {
	var req profileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badProfile(c)
		return
	}

	updated, err := h.Repos.Profile.Update(c.Param("id"), c.Param("profileId"), strings.TrimSpace(req.Name), req.Avatar)
	if err != nil {
		h.fail(c, err)
		return
	}
	success(c, http.StatusOK, "Perfil actualizado", gin.H{"perfil": toWire(*updated)})
}

// DeleteProfile 删除档案
func (h *Handler) DeleteProfile(c *gin.Context) {
	if err := h.Repos.Profile.Delete(c.Param("id"), c.Param("profileId")); err != nil {
		h.fail(c, err)
		return
	}
	success(c, http.StatusOK, "Perfil eliminado", nil)
}

func (h *Handler) badProfile(c *gin.Context) {
	utils.BadRequest(c, "El nombre del perfil es obligatorio")
}
