package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/user/cinedash/internal/api"
	"github.com/user/cinedash/internal/model"
	"github.com/user/cinedash/internal/storage"
)

// StorageKey 本地存储中保存当前用户的键
const StorageKey = "user"

var (
	ErrNotAuthenticated = errors.New("未登录")
	ErrAccountDisabled  = errors.New("账号已被停用")
)

// State 会话状态
type State int

const (
	StateUnknown State = iota
	StateRestoring
	StateAuthenticated
	StateAnonymous
)

func (s State) String() string {
	switch s {
	case StateRestoring:
		return "restoring"
	case StateAuthenticated:
		return "authenticated"
	case StateAnonymous:
		return "anonymous"
	default:
		return "unknown"
	}
}

// Authenticator 登录接口
type Authenticator interface {
	Login(ctx context.Context, email, password string) (*api.LoginResponse, error)
}

// Hydrator 把收藏 ID 补全为可展示的条目，失败的项直接丢弃
type Hydrator interface {
	Hydrate(ctx context.Context, ids []string, token string) []model.Favorite
}

// UserFetcher 重新拉取用户记录
type UserFetcher interface {
	GetUser(ctx context.Context, token, id string) (*model.UserRecord, error)
}

// Store 持有当前唯一的登录用户，内存与本地存储保持一致
type Store struct {
	auth     Authenticator
	storage  storage.Storage
	hydrator Hydrator
	roles    model.RoleIDs
	logger   *zap.Logger

	mu        sync.RWMutex
	state     State
	principal *model.Principal
	role      model.Role
	// 补全失败的收藏：不展示，但保留在本地存储和远端
	unresolved model.FavoriteList
}

func NewStore(auth Authenticator, store storage.Storage, hydrator Hydrator, roles model.RoleIDs, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		auth:     auth,
		storage:  store,
		hydrator: hydrator,
		roles:    roles,
		logger:   logger.With(zap.String("component", "session")),
	}
}

// Restore 启动时读取本地保存的用户，只执行一次，不回写本地存储
// 内容无法解析时清除该键并视为未登录
func (s *Store) Restore(ctx context.Context) error {
	s.mu.Lock()
	if s.state != StateUnknown {
		s.mu.Unlock()
		return nil
	}
	s.state = StateRestoring
	s.mu.Unlock()

	p, err := s.load()
	if err != nil {
		s.finish(nil)
		return err
	}
	if p == nil {
		s.finish(nil)
		return nil
	}

	var failed model.FavoriteList
	if p.Favorites.HasBare() {
		p.Favorites, failed = s.hydrateList(ctx, p.Favorites, p.Token)
	}

	s.mu.Lock()
	s.setLocked(p)
	s.unresolved = failed
	s.mu.Unlock()
	return nil
}

func (s *Store) load() (*model.Principal, error) {
	data, err := s.storage.Get(StorageKey)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		s.logger.Error("读取本地会话失败", zap.Error(err))
		return nil, fmt.Errorf("读取本地会话失败: %w", err)
	}

	var p model.Principal
	if err := json.Unmarshal(data, &p); err != nil || p.ID == "" {
		s.logger.Warn("本地会话已损坏，已清除", zap.Error(err))
		if rmErr := s.storage.Remove(StorageKey); rmErr != nil {
			s.logger.Warn("清除本地会话失败", zap.Error(rmErr))
		}
		return nil, nil
	}
	return &p, nil
}

func (s *Store) finish(p *model.Principal) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.setLocked(p)
}

func (s *Store) setLocked(p *model.Principal) {
	s.principal = p
	if p == nil {
		s.role = model.RoleUnknown
		s.state = StateAnonymous
		s.unresolved = nil
		return
	}
	s.role = s.roles.Resolve(p.Role)
	s.state = StateAuthenticated
}

// Login 登录并建立会话
// 账号停用时返回用户信息与 ErrAccountDisabled，不建立会话
func (s *Store) Login(ctx context.Context, email, password string) (*model.Principal, error) {
	resp, err := s.auth.Login(ctx, email, password)
	if err != nil {
		s.logger.Warn("登录失败", zap.String("email", email), zap.Error(err))
		return nil, err
	}

	p := model.NewPrincipal(resp.User, resp.Token)
	if p.ID == "" {
		return nil, errors.New("登录响应缺少用户 ID")
	}

	if p.Disabled() {
		s.logger.Info("账号已停用", zap.String("user_id", p.ID.String()))
		s.mu.Lock()
		s.setLocked(nil)
		s.mu.Unlock()
		if err := s.storage.Remove(StorageKey); err != nil {
			s.logger.Warn("清除本地会话失败", zap.Error(err))
		}
		return p, ErrAccountDisabled
	}

	var failed model.FavoriteList
	if p.Favorites.HasBare() {
		p.Favorites, failed = s.hydrateList(ctx, p.Favorites, p.Token)
	}

	if err := s.persist(p, failed); err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.setLocked(p)
	s.unresolved = failed
	s.mu.Unlock()

	return p.Clone(), nil
}

// Logout 清除内存与本地存储，返回公共首页
func (s *Store) Logout() (Route, error) {
	s.mu.Lock()
	s.setLocked(nil)
	s.mu.Unlock()

	if err := s.storage.Remove(StorageKey); err != nil {
		s.logger.Error("清除本地会话失败", zap.Error(err))
		return RouteLanding, fmt.Errorf("清除本地会话失败: %w", err)
	}
	return RouteLanding, nil
}

// Principal 返回当前用户的副本，未登录时为 nil
func (s *Store) Principal() *model.Principal {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.principal.Clone()
}

func (s *Store) Role() model.Role {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.role
}

func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Token 当前令牌，未登录时为空
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.principal == nil {
		return ""
	}
	return s.principal.Token
}

// Authenticated 是否已登录
func (s *Store) Authenticated() bool {
	return s.State() == StateAuthenticated
}

// HomeRoute 未登录时返回登录页
func (s *Store) HomeRoute() Route {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.principal == nil {
		return RouteLogin
	}
	return HomeRouteFor(s.role)
}

// Update 唯一的修改入口：在副本上执行 fn，保存成功后再替换内存中的用户
func (s *Store) Update(fn func(p *model.Principal) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.principal == nil {
		return ErrNotAuthenticated
	}

	next := s.principal.Clone()
	if err := fn(next); err != nil {
		return err
	}
	if err := s.persist(next, s.unresolved); err != nil {
		return err
	}
	s.setLocked(next)
	return nil
}

// Unresolved 补全失败的收藏 ID，不包含已重新出现在当前列表中的
func (s *Store) Unresolved() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.principal == nil {
		return nil
	}
	var ids []string
	for _, f := range s.unresolved {
		if !s.principal.Favorites.Contains(f.ID) {
			ids = append(ids, f.ID.String())
		}
	}
	return ids
}

// ForgetUnresolved 放弃补全失败的收藏，下一次保存时不再写回
func (s *Store) ForgetUnresolved() {
	s.mu.Lock()
	s.unresolved = nil
	s.mu.Unlock()
}

// Refresh 重新拉取用户记录并合并，保留令牌与已补全的收藏
func (s *Store) Refresh(ctx context.Context, fetcher UserFetcher) error {
	current := s.Principal()
	if current == nil {
		return ErrNotAuthenticated
	}

	record, err := fetcher.GetUser(ctx, current.Token, current.ID.String())
	if err != nil {
		s.logger.Warn("刷新用户信息失败", zap.Error(err))
		return err
	}

	return s.Update(func(p *model.Principal) error {
		if !model.SameID(p.ID, current.ID) {
			return ErrNotAuthenticated
		}
		p.MergeRecord(*record)
		if p.Disabled() {
			return ErrAccountDisabled
		}
		return nil
	})
}

// persist 补全失败的收藏以 ID 形式一并保存，下次启动时重新补全
func (s *Store) persist(p *model.Principal, unresolved model.FavoriteList) error {
	saved := p
	if len(unresolved) > 0 {
		c := *p
		c.Favorites = p.Favorites.Clone()
		for _, f := range unresolved {
			if !c.Favorites.Contains(f.ID) {
				c.Favorites = append(c.Favorites, model.BareFavorite(f.ID))
			}
		}
		saved = &c
	}

	data, err := json.Marshal(saved)
	if err != nil {
		return fmt.Errorf("序列化会话失败: %w", err)
	}
	if err := s.storage.Set(StorageKey, data); err != nil {
		s.logger.Error("保存本地会话失败", zap.Error(err))
		return fmt.Errorf("保存本地会话失败: %w", err)
	}
	return nil
}

// hydrateList 只补全列表中尚未补全的项，保持原有顺序
// 补全失败的项从列表中去掉，作为 failed 返回
func (s *Store) hydrateList(ctx context.Context, list model.FavoriteList, token string) (out, failed model.FavoriteList) {
	if s.hydrator == nil {
		return list, nil
	}

	var ids []string
	for _, f := range list {
		if f.Bare() {
			ids = append(ids, f.ID.String())
		}
	}

	found := make(map[model.ID]model.Favorite, len(ids))
	for _, f := range s.hydrator.Hydrate(ctx, ids, token) {
		found[f.ID] = f
	}

	out = make(model.FavoriteList, 0, len(list))
	for _, f := range list {
		if !f.Bare() {
			out = append(out, f)
			continue
		}
		if h, ok := found[f.ID]; ok {
			out = append(out, h)
		} else {
			failed = append(failed, f)
		}
	}

	if len(failed) > 0 {
		s.logger.Warn("部分收藏补全失败，暂不展示", zap.Int("failed", len(failed)))
	}
	return out, failed
}
