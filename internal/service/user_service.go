package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/user/cinedash/internal/api"
	"github.com/user/cinedash/internal/model"
	"github.com/user/cinedash/internal/session"
	"github.com/user/cinedash/internal/utils"
)

// UserClient 用户相关的远端接口
type UserClient interface {
	ListUsers(ctx context.Context, token string) ([]model.UserRecord, error)
	GetUser(ctx context.Context, token, id string) (*model.UserRecord, error)
	UpdateUser(ctx context.Context, token, id string, patch api.UserPatch) (*model.UserRecord, error)
	ListRoles(ctx context.Context, token string) ([]model.RoleRecord, error)
	Register(ctx context.Context, req api.RegisterRequest) error
	CreateUser(ctx context.Context, token string, req api.RegisterRequest) error
}

// UserForm 管理员编辑用户
type UserForm struct {
	Name    string              `validate:"required"`
	Surname string              `validate:"required"`
	Email   string              `validate:"required,email"`
	Avatar  string              `validate:"omitempty"`
	Status  model.AccountStatus `validate:"oneof=0 1"`
	Role    string              `validate:"required"`
}

// RegisterForm 公开注册
type RegisterForm struct {
	Name     string `validate:"required"`
	Surname  string `validate:"required"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
	Avatar   string `validate:"omitempty"`
}

// CreateForm 管理员创建账号，Role 为角色 ID
type CreateForm struct {
	Name     string `validate:"required"`
	Surname  string `validate:"required"`
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=6"`
	Avatar   string `validate:"omitempty"`
	Role     string `validate:"required"`
}

// UserService 用户管理与注册
type UserService struct {
	client   UserClient
	session  *session.Store
	roles    model.RoleIDs
	validate *validator.Validate
	logger   *zap.Logger
}

func NewUserService(client UserClient, store *session.Store, roles model.RoleIDs, logger *zap.Logger) *UserService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &UserService{
		client:   client,
		session:  store,
		roles:    roles,
		validate: validator.New(),
		logger:   logger.With(zap.String("component", "users")),
	}
}

func (s *UserService) adminToken() (string, error) {
	token := s.session.Token()
	if token == "" {
		return "", session.ErrNotAuthenticated
	}
	if s.session.Role() != model.RoleAdmin {
		return "", ErrForbidden
	}
	return token, nil
}

// List 全部用户
func (s *UserService) List(ctx context.Context) ([]model.UserRecord, error) {
	token, err := s.adminToken()
	if err != nil {
		return nil, err
	}
	return s.client.ListUsers(ctx, token)
}

// Get 单个用户
func (s *UserService) Get(ctx context.Context, id string) (*model.UserRecord, error) {
	token, err := s.adminToken()
	if err != nil {
		return nil, err
	}
	return s.client.GetUser(ctx, token, id)
}

// Roles 可分配的角色
func (s *UserService) Roles(ctx context.Context) ([]model.RoleRecord, error) {
	token, err := s.adminToken()
	if err != nil {
		return nil, err
	}
	return s.client.ListRoles(ctx, token)
}

// Update 修改用户资料、角色与状态
func (s *UserService) Update(ctx context.Context, id string, form UserForm) (*model.UserRecord, error) {
	token, err := s.adminToken()
	if err != nil {
		return nil, err
	}

	form.Name = strings.TrimSpace(form.Name)
	form.Surname = strings.TrimSpace(form.Surname)
	form.Email = strings.TrimSpace(form.Email)
	form.Role = strings.TrimSpace(form.Role)
	if err := s.validate.Struct(form); err != nil {
		return nil, validationError(err)
	}

	avatar, err := ResolveAvatar(form.Avatar, form.Name, form.Surname)
	if err != nil {
		return nil, err
	}

	roles, err := s.client.ListRoles(ctx, token)
	if err != nil {
		return nil, err
	}
	if !hasRole(roles, form.Role) {
		return nil, ErrUnknownRole
	}

	users, err := s.client.ListUsers(ctx, token)
	if err != nil {
		return nil, err
	}
	for _, u := range users {
		if !model.SameID(u.ID, model.ID(id)) && strings.EqualFold(u.Email, form.Email) {
			return nil, ErrDuplicateEmail
		}
	}

	status := form.Status
	patch := api.UserPatch{
		Name:    &form.Name,
		Surname: &form.Surname,
		Email:   &form.Email,
		Avatar:  &avatar,
		Status:  &status,
		Role:    &form.Role,
	}
	updated, err := s.client.UpdateUser(ctx, token, id, patch)
	if err != nil {
		s.logger.Warn("修改用户失败", zap.String("user_id", id), zap.Error(err))
		return nil, err
	}

	// 修改的是自己时同步会话
	if updated != nil {
		if p := s.session.Principal(); p != nil && model.SameID(p.ID, model.ID(id)) {
			if err := s.session.Update(func(cur *model.Principal) error {
				cur.MergeRecord(*updated)
				return nil
			}); err != nil {
				s.logger.Warn("同步会话失败", zap.Error(err))
			}
		}
	}
	return updated, nil
}

// Create 管理员创建账号，邮箱统一小写，重复邮箱在请求前拦截
func (s *UserService) Create(ctx context.Context, form CreateForm) error {
	token, err := s.adminToken()
	if err != nil {
		return err
	}

	form.Name = strings.TrimSpace(form.Name)
	form.Surname = strings.TrimSpace(form.Surname)
	form.Email = strings.ToLower(strings.TrimSpace(form.Email))
	form.Role = strings.TrimSpace(form.Role)
	if err := s.validate.Struct(form); err != nil {
		return validationError(err)
	}

	avatar, err := ResolveAvatar(form.Avatar, form.Name, form.Surname)
	if err != nil {
		return err
	}

	roles, err := s.client.ListRoles(ctx, token)
	if err != nil {
		return err
	}
	if !hasRole(roles, form.Role) {
		return ErrUnknownRole
	}

	users, err := s.client.ListUsers(ctx, token)
	if err != nil {
		return err
	}
	for _, u := range users {
		if strings.EqualFold(u.Email, form.Email) {
			return ErrDuplicateEmail
		}
	}

	err = s.client.CreateUser(ctx, token, api.RegisterRequest{
		Email:     form.Email,
		Password:  form.Password,
		Name:      form.Name,
		Surname:   form.Surname,
		Avatar:    avatar,
		Profiles:  []model.Profile{},
		Favorites: []string{},
		Status:    model.StatusActive,
		Role:      form.Role,
	})
	if err != nil {
		s.logger.Warn("创建用户失败", zap.String("email", form.Email), zap.Error(err))
		return err
	}
	s.logger.Info("已创建用户", zap.String("email", form.Email), zap.String("role", form.Role))
	return nil
}

// Register 公开注册，角色固定为普通用户，状态为启用
func (s *UserService) Register(ctx context.Context, form RegisterForm) error {
	form.Name = strings.TrimSpace(form.Name)
	form.Surname = strings.TrimSpace(form.Surname)
	form.Email = strings.TrimSpace(form.Email)
	if err := s.validate.Struct(form); err != nil {
		return validationError(err)
	}

	avatar, err := ResolveAvatar(form.Avatar, form.Name, form.Surname)
	if err != nil {
		return err
	}

	err = s.client.Register(ctx, api.RegisterRequest{
		Email:     form.Email,
		Password:  form.Password,
		Name:      form.Name,
		Surname:   form.Surname,
		Avatar:    avatar,
		Profiles:  []model.Profile{},
		Favorites: []string{},
		Status:    model.StatusActive,
		Role:      s.roles.User,
	})
	if err != nil {
		s.logger.Warn("注册失败", zap.String("email", form.Email), zap.Error(err))
		return err
	}
	return nil
}

// ResolveAvatar 头像为空时使用姓名首字母，非空时必须是图片地址
func ResolveAvatar(avatar, name, surname string) (string, error) {
	avatar = strings.TrimSpace(avatar)
	if avatar == "" {
		return utils.Initials(name, surname), nil
	}
	if !utils.IsImageRef(avatar) {
		return "", ErrInvalidAvatar
	}
	return avatar, nil
}

func hasRole(roles []model.RoleRecord, id string) bool {
	for _, r := range roles {
		if model.SameID(r.ID, model.ID(id)) {
			return true
		}
	}
	return false
}
