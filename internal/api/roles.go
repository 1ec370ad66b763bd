package api

import (
	"context"
	"net/http"

	"github.com/patrickmn/go-cache"
	"github.com/user/cinedash/internal/model"
)

const rolesCacheKey = "roles"

type rolesResponse struct {
	Data []model.RoleRecord `json:"data"`
}

// ListRoles 角色列表（只读），结果缓存
func (c *Client) ListRoles(ctx context.Context, token string) ([]model.RoleRecord, error) {
	if v, ok := c.roles.Get(rolesCacheKey); ok {
		return v.([]model.RoleRecord), nil
	}

	var resp rolesResponse
	if err := c.do(ctx, http.MethodGet, PathRoles, token, nil, &resp); err != nil {
		return nil, err
	}
	roles := resp.Data
	if roles == nil {
		roles = []model.RoleRecord{}
	}
	c.roles.Set(rolesCacheKey, roles, cache.DefaultExpiration)
	return roles, nil
}
