package api

import (
	"context"
	"net/http"

	"github.com/user/cinedash/internal/model"
)

// LoginResponse 登录结果
type LoginResponse struct {
	Token string           `json:"token"`
	User  model.UserRecord `json:"user"`
}

type loginRequest struct {
	Email    string `json:"correo"`
	Password string `json:"contrasenia"`
}

// Login 邮箱密码登录
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.do(ctx, http.MethodPost, PathLogin, "", loginRequest{Email: email, Password: password}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RegisterRequest 注册请求
type RegisterRequest struct {
	Email     string              `json:"correo"`
	Password  string              `json:"contrasenia"`
	Name      string              `json:"name"`
	Surname   string              `json:"apellido"`
	Avatar    string              `json:"avatar"`
	Profiles  []model.Profile     `json:"perfiles"`
	Favorites []string            `json:"favoritos"`
	Status    model.AccountStatus `json:"estado"`
	Role      string              `json:"role"`
}

type resultResponse struct {
	Result  string `json:"result"`
	Message string `json:"mensaje"`
}

// Register 公开注册接口。服务端返回 result 非 success 时视为失败
func (c *Client) Register(ctx context.Context, req RegisterRequest) error {
	return c.register(ctx, "", req)
}

// CreateUser 管理员通过注册接口创建账号，携带令牌时服务端才接受 role
func (c *Client) CreateUser(ctx context.Context, token string, req RegisterRequest) error {
	return c.register(ctx, token, req)
}

func (c *Client) register(ctx context.Context, token string, req RegisterRequest) error {
	if req.Profiles == nil {
		req.Profiles = []model.Profile{}
	}
	if req.Favorites == nil {
		req.Favorites = []string{}
	}

	var resp resultResponse
	if err := c.do(ctx, http.MethodPost, PathRegister, token, req, &resp); err != nil {
		return err
	}
	if resp.Result != "" && resp.Result != "success" {
		msg := resp.Message
		if msg == "" {
			msg = "注册失败"
		}
		return &Error{Status: http.StatusOK, Message: msg}
	}
	return nil
}
