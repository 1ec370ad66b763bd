package api

import (
	"context"
	"net/http"

	"github.com/user/cinedash/internal/model"
)

// ProfileRequest 新建/修改档案
type ProfileRequest struct {
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	Kind   string `json:"tipo,omitempty"`
}

type profilesResponse struct {
	Perfiles []model.Profile `json:"perfiles"`
}

type profileResponse struct {
	Perfil *model.Profile `json:"perfil"`
}

// ListProfiles 用户的全部档案，_id 已统一为 id
func (c *Client) ListProfiles(ctx context.Context, token, userID string) ([]model.Profile, error) {
	var resp profilesResponse
	if err := c.do(ctx, http.MethodGet, profilesPath(userID), token, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Perfiles == nil {
		return []model.Profile{}, nil
	}
	return resp.Perfiles, nil
}

// CreateProfile 新建档案，ID 由服务端分配
func (c *Client) CreateProfile(ctx context.Context, token, userID string, req ProfileRequest) (*model.Profile, error) {
	var resp profileResponse
	if err := c.do(ctx, http.MethodPost, profilesPath(userID), token, req, &resp); err != nil {
		return nil, err
	}
	if resp.Perfil == nil || resp.Perfil.ID == "" {
		return nil, &Error{Status: http.StatusInternalServerError, Message: "服务端未返回档案 ID"}
	}
	return resp.Perfil, nil
}

// UpdateProfile 修改档案，服务端未回传时返回 nil
func (c *Client) UpdateProfile(ctx context.Context, token, userID, profileID string, req ProfileRequest) (*model.Profile, error) {
	var resp profileResponse
	if err := c.do(ctx, http.MethodPut, profilePath(userID, profileID), token, req, &resp); err != nil {
		return nil, err
	}
	return resp.Perfil, nil
}

// DeleteProfile 删除档案
func (c *Client) DeleteProfile(ctx context.Context, token, userID, profileID string) error {
	return c.do(ctx, http.MethodDelete, profilePath(userID, profileID), token, nil, nil)
}
