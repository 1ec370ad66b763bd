package profile

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/user/cinedash/internal/api"
	"github.com/user/cinedash/internal/model"
	"github.com/user/cinedash/internal/session"
)

var (
	ErrProfileLimit    = fmt.Errorf("最多只能创建 %d 个档案", model.MaxProfiles)
	ErrDuplicateName   = errors.New("已存在同名档案")
	ErrEmptyName       = errors.New("档案名称不能为空")
	ErrNoChanges       = errors.New("没有需要保存的修改")
	ErrProfileNotFound = errors.New("档案不存在")
	ErrCancelled       = errors.New("操作已取消")
	ErrInvalidInput    = errors.New("档案信息不完整")
)

// Client 档案相关的远端接口
type Client interface {
	ListProfiles(ctx context.Context, token, userID string) ([]model.Profile, error)
	CreateProfile(ctx context.Context, token, userID string, req api.ProfileRequest) (*model.Profile, error)
	UpdateProfile(ctx context.Context, token, userID, profileID string, req api.ProfileRequest) (*model.Profile, error)
	DeleteProfile(ctx context.Context, token, userID, profileID string) error
}

// Confirmer 删除前向用户确认
type Confirmer interface {
	Confirm(ctx context.Context, p model.Profile) (bool, error)
}

// ConfirmFunc 函数形式的 Confirmer
type ConfirmFunc func(ctx context.Context, p model.Profile) (bool, error)

func (f ConfirmFunc) Confirm(ctx context.Context, p model.Profile) (bool, error) {
	return f(ctx, p)
}

// Input 新建或修改档案的表单
type Input struct {
	Name   string `validate:"required,max=40"`
	Avatar string `validate:"required"`
}

// DeleteResult BackToSelector 为 true 时调用方应回到档案选择页
type DeleteResult struct {
	Remaining      []model.Profile
	BackToSelector bool
}

// Manager 管理用户的观看档案，按用户缓存列表
type Manager struct {
	client   Client
	session  *session.Store
	validate *validator.Validate
	logger   *zap.Logger

	mu    sync.Mutex
	cache map[string][]model.Profile
}

func NewManager(client Client, store *session.Store, logger *zap.Logger) *Manager {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Manager{
		client:   client,
		session:  store,
		validate: validator.New(),
		logger:   logger.With(zap.String("component", "profile")),
		cache:    make(map[string][]model.Profile),
	}
}

func (m *Manager) token() (string, error) {
	token := m.session.Token()
	if token == "" {
		return "", session.ErrNotAuthenticated
	}
	return token, nil
}

// List 从远端拉取档案列表并刷新缓存
func (m *Manager) List(ctx context.Context, principalID string) ([]model.Profile, error) {
	token, err := m.token()
	if err != nil {
		return nil, err
	}

	profiles, err := m.client.ListProfiles(ctx, token, principalID)
	if err != nil {
		m.logger.Warn("获取档案失败", zap.String("user_id", principalID), zap.Error(err))
		return nil, err
	}

	m.store(principalID, profiles)
	return cloneProfiles(profiles), nil
}

// current 依次使用缓存、会话中保存的档案，都没有时才请求远端
func (m *Manager) current(ctx context.Context, principalID string) ([]model.Profile, error) {
	if cached, ok := m.cached(principalID); ok {
		return cached, nil
	}
	return m.List(ctx, principalID)
}

func (m *Manager) cached(principalID string) ([]model.Profile, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if cached, ok := m.cache[principalID]; ok {
		return cloneProfiles(cached), true
	}
	p := m.session.Principal()
	if p == nil || p.ID.String() != principalID || p.Profiles == nil {
		return nil, false
	}
	m.cache[principalID] = cloneProfiles(p.Profiles)
	return cloneProfiles(p.Profiles), true
}

// Create 新建档案，数量上限与重名在请求前检查
func (m *Manager) Create(ctx context.Context, principalID string, in Input) (*model.Profile, error) {
	in = normalize(in)
	if err := m.validate.Struct(in); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	profiles, err := m.current(ctx, principalID)
	if err != nil {
		return nil, err
	}
	if len(profiles) >= model.MaxProfiles {
		return nil, ErrProfileLimit
	}
	if nameTaken(profiles, in.Name, "") {
		return nil, ErrDuplicateName
	}

	token, err := m.token()
	if err != nil {
		return nil, err
	}
	created, err := m.client.CreateProfile(ctx, token, principalID, api.ProfileRequest{
		Name:   in.Name,
		Avatar: in.Avatar,
		Kind:   model.ProfileKindStandard,
	})
	if err != nil {
		m.logger.Warn("创建档案失败", zap.String("user_id", principalID), zap.Error(err))
		return nil, err
	}

	m.store(principalID, append(profiles, *created))
	return created, nil
}

// Update 修改名称或头像，成功后把服务端返回合并进缓存
func (m *Manager) Update(ctx context.Context, principalID string, profileID model.ID, in Input) (*model.Profile, error) {
	in = normalize(in)
	if in.Name == "" {
		return nil, ErrEmptyName
	}

	profiles, err := m.current(ctx, principalID)
	if err != nil {
		return nil, err
	}
	idx := indexOf(profiles, profileID)
	if idx < 0 {
		return nil, ErrProfileNotFound
	}
	existing := profiles[idx]

	if in.Avatar == "" {
		in.Avatar = existing.Avatar
	}
	if nameTaken(profiles, in.Name, profileID) {
		return nil, ErrDuplicateName
	}
	if in.Name == existing.Name && in.Avatar == existing.Avatar {
		return nil, ErrNoChanges
	}

	token, err := m.token()
	if err != nil {
		return nil, err
	}
	resp, err := m.client.UpdateProfile(ctx, token, principalID, profileID.String(), api.ProfileRequest{
		Name:   in.Name,
		Avatar: in.Avatar,
	})
	if err != nil {
		m.logger.Warn("修改档案失败", zap.String("profile_id", profileID.String()), zap.Error(err))
		return nil, err
	}

	updated := existing
	updated.Name = in.Name
	updated.Avatar = in.Avatar
	if resp != nil {
		if resp.Name != "" {
			updated.Name = resp.Name
		}
		if resp.Avatar != "" {
			updated.Avatar = resp.Avatar
		}
		if resp.Kind != "" {
			updated.Kind = resp.Kind
		}
	}
	profiles[idx] = updated

	m.store(principalID, profiles)
	return &updated, nil
}

// Delete 经确认后删除档案
// 删除的是最后一个档案或当前使用的档案时，BackToSelector 为 true
func (m *Manager) Delete(ctx context.Context, principalID string, profileID model.ID, confirm Confirmer) (*DeleteResult, error) {
	profiles, err := m.current(ctx, principalID)
	if err != nil {
		return nil, err
	}
	idx := indexOf(profiles, profileID)
	if idx < 0 {
		return nil, ErrProfileNotFound
	}

	if confirm == nil {
		return nil, ErrCancelled
	}
	ok, err := confirm.Confirm(ctx, profiles[idx])
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrCancelled
	}

	token, err := m.token()
	if err != nil {
		return nil, err
	}
	if err := m.client.DeleteProfile(ctx, token, principalID, profileID.String()); err != nil {
		m.logger.Warn("删除档案失败", zap.String("profile_id", profileID.String()), zap.Error(err))
		return nil, err
	}

	remaining := append(profiles[:idx:idx], profiles[idx+1:]...)
	wasActive := false
	if p := m.session.Principal(); p != nil && p.ID.String() == principalID {
		wasActive = p.ActiveProfileID != "" && model.SameID(p.ActiveProfileID, profileID)
	}

	m.store(principalID, remaining)
	if wasActive {
		m.clearActive()
	}

	return &DeleteResult{
		Remaining:      cloneProfiles(remaining),
		BackToSelector: len(remaining) == 0 || wasActive,
	}, nil
}

// Select 记录当前使用的档案
func (m *Manager) Select(profileID model.ID) error {
	return m.session.Update(func(p *model.Principal) error {
		if indexOf(p.Profiles, profileID) < 0 {
			return ErrProfileNotFound
		}
		p.ActiveProfileID = profileID
		return nil
	})
}

// ActiveProfile 当前使用的档案
func (m *Manager) ActiveProfile() (model.Profile, bool) {
	p := m.session.Principal()
	if p == nil || p.ActiveProfileID == "" {
		return model.Profile{}, false
	}
	idx := indexOf(p.Profiles, p.ActiveProfileID)
	if idx < 0 {
		return model.Profile{}, false
	}
	return p.Profiles[idx], true
}

// store 更新缓存；是当前登录用户时同步到会话
func (m *Manager) store(principalID string, profiles []model.Profile) {
	m.mu.Lock()
	m.cache[principalID] = cloneProfiles(profiles)
	m.mu.Unlock()

	p := m.session.Principal()
	if p == nil || p.ID.String() != principalID {
		return
	}
	err := m.session.Update(func(current *model.Principal) error {
		current.Profiles = cloneProfiles(profiles)
		return nil
	})
	if err != nil {
		m.logger.Warn("同步档案到会话失败", zap.Error(err))
	}
}

func (m *Manager) clearActive() {
	err := m.session.Update(func(p *model.Principal) error {
		p.ActiveProfileID = ""
		return nil
	})
	if err != nil {
		m.logger.Warn("清除当前档案失败", zap.Error(err))
	}
}

func normalize(in Input) Input {
	return Input{
		Name:   strings.TrimSpace(in.Name),
		Avatar: strings.TrimSpace(in.Avatar),
	}
}

// nameTaken 忽略大小写比较，except 为正在编辑的档案
func nameTaken(profiles []model.Profile, name string, except model.ID) bool {
	for _, p := range profiles {
		if except != "" && model.SameID(p.ID, except) {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(p.Name), name) {
			return true
		}
	}
	return false
}

func indexOf(profiles []model.Profile, id model.ID) int {
	for i, p := range profiles {
		if model.SameID(p.ID, id) {
			return i
		}
	}
	return -1
}

func cloneProfiles(in []model.Profile) []model.Profile {
	out := make([]model.Profile, len(in))
	copy(out, in)
	return out
}
