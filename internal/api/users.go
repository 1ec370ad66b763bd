package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/user/cinedash/internal/model"
)

// UserPatch 用户更新字段，未设置的字段不发送
type UserPatch struct {
	Name    *string              `json:"name,omitempty"`
	Surname *string              `json:"apellido,omitempty"`
	Email   *string              `json:"correo,omitempty"`
	Avatar  *string              `json:"avatar,omitempty"`
	Status  *model.AccountStatus `json:"estado,omitempty"`
	Role    *string              `json:"role,omitempty"`
}

type usersResponse struct {
	Usuarios []model.UserRecord `json:"usuarios"`
	Data     []model.UserRecord `json:"data"`
}

type userResponse struct {
	Usuario *model.UserRecord `json:"usuario"`
}

// ListUsers 全部用户
func (c *Client) ListUsers(ctx context.Context, token string) ([]model.UserRecord, error) {
	var resp usersResponse
	if err := c.do(ctx, http.MethodGet, PathUsers, token, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Usuarios != nil {
		return resp.Usuarios, nil
	}
	if resp.Data != nil {
		return resp.Data, nil
	}
	return []model.UserRecord{}, nil
}

// GetUser 单个用户，包含档案列表
func (c *Client) GetUser(ctx context.Context, token, id string) (*model.UserRecord, error) {
	var resp userResponse
	if err := c.do(ctx, http.MethodGet, userPath(id), token, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Usuario == nil {
		return nil, &Error{Status: http.StatusNotFound, Message: fallbackMessage(http.StatusNotFound)}
	}
	return resp.Usuario, nil
}

// UpdateUser 修改用户资料，服务端未回传记录时返回 nil
func (c *Client) UpdateUser(ctx context.Context, token, id string, patch UserPatch) (*model.UserRecord, error) {
	var resp userResponse
	if err := c.do(ctx, http.MethodPut, PathUserUpdate+url.PathEscape(id), token, patch, &resp); err != nil {
		return nil, err
	}
	return resp.Usuario, nil
}

type favoritesPatch struct {
	Favorites []string `json:"favoritos"`
}

// UpdateFavorites 整体替换收藏，远端只保存 ID
func (c *Client) UpdateFavorites(ctx context.Context, token, userID string, ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	return c.do(ctx, http.MethodPut, PathUserUpdate+url.PathEscape(userID), token, favoritesPatch{Favorites: ids}, nil)
}
