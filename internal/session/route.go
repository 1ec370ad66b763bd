package session

import (
	"errors"

	"github.com/user/cinedash/internal/api"
	"github.com/user/cinedash/internal/model"
)

// Route 调用方应跳转到的视图
type Route string

const (
	RouteNone            Route = ""
	RouteLanding         Route = "/"
	RouteLogin           Route = "/iniciar-sesion"
	RouteDisabled        Route = "/cuenta-deshabilitada"
	RouteAdmin           Route = "/admin"
	RouteUser            Route = "/user"
	RouteProfileSelector Route = "/profileselector"
)

// HomeRouteFor 各角色的首页
func HomeRouteFor(role model.Role) Route {
	switch role {
	case model.RoleAdmin:
		return RouteAdmin
	case model.RoleUser:
		return RouteUser
	default:
		return RouteLanding
	}
}

// RouteFor 根据错误决定后续跳转，RouteNone 表示留在当前视图
func RouteFor(err error) Route {
	switch {
	case err == nil:
		return RouteNone
	case errors.Is(err, ErrAccountDisabled):
		return RouteDisabled
	case errors.Is(err, ErrNotAuthenticated), api.IsUnauthorized(err):
		return RouteLogin
	default:
		return RouteNone
	}
}
