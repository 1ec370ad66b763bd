package favorites

import (
	"context"

	"go.uber.org/zap"

	"github.com/user/cinedash/internal/model"
	"github.com/user/cinedash/internal/session"
)

// Writer 远端收藏写入接口，只接受 ID 列表
type Writer interface {
	UpdateFavorites(ctx context.Context, token, userID string, ids []string) error
}

// Synchronizer 把收藏列表写回远端并更新本地会话
type Synchronizer struct {
	writer  Writer
	session *session.Store
	logger  *zap.Logger
}

func NewSynchronizer(writer Writer, store *session.Store, logger *zap.Logger) *Synchronizer {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Synchronizer{
		writer:  writer,
		session: store,
		logger:  logger.With(zap.String("component", "favorites")),
	}
}

// Set 远端只保存 ID，本地保留补全后的完整条目
// 补全失败、未展示的收藏仍随列表一起写回，避免被整体替换掉
// 远端写入失败时本地状态保持不变
func (s *Synchronizer) Set(ctx context.Context, list model.FavoriteList) error {
	p := s.session.Principal()
	if p == nil {
		return session.ErrNotAuthenticated
	}

	ids := list.IDs()
	for _, id := range s.session.Unresolved() {
		if !list.Contains(model.ID(id)) {
			ids = append(ids, id)
		}
	}

	if err := s.writer.UpdateFavorites(ctx, p.Token, p.ID.String(), ids); err != nil {
		s.logger.Warn("更新收藏失败", zap.String("user_id", p.ID.String()), zap.Error(err))
		return err
	}

	return s.session.Update(func(current *model.Principal) error {
		if !model.SameID(current.ID, p.ID) {
			return session.ErrNotAuthenticated
		}
		current.Favorites = list.Clone()
		return nil
	})
}

// Clear 清空全部收藏，包括补全失败的
func (s *Synchronizer) Clear(ctx context.Context) error {
	p := s.session.Principal()
	if p == nil {
		return session.ErrNotAuthenticated
	}

	if err := s.writer.UpdateFavorites(ctx, p.Token, p.ID.String(), []string{}); err != nil {
		s.logger.Warn("清空收藏失败", zap.String("user_id", p.ID.String()), zap.Error(err))
		return err
	}

	s.session.ForgetUnresolved()
	return s.session.Update(func(current *model.Principal) error {
		if !model.SameID(current.ID, p.ID) {
			return session.ErrNotAuthenticated
		}
		current.Favorites = model.FavoriteList{}
		return nil
	})
}
