package favorites

import (
	"context"
	"errors"

	"github.com/user/cinedash/internal/model"
	"github.com/user/cinedash/internal/session"
)

var (
	ErrAlreadyFavorite = errors.New("该影片已在收藏中")
	ErrFavoritesFull   = errors.New("收藏已满，最多 5 部")
	ErrNotFavorite     = errors.New("该影片不在收藏中")
)

// Shelf 收藏操作的调用方策略：上限、去重、按 ID 移除
type Shelf struct {
	sync      *Synchronizer
	session   *session.Store
	imageBase string
}

func NewShelf(sync *Synchronizer, store *session.Store, imageBase string) *Shelf {
	return &Shelf{sync: sync, session: store, imageBase: imageBase}
}

// List 当前收藏
func (s *Shelf) List() model.FavoriteList {
	p := s.session.Principal()
	if p == nil {
		return nil
	}
	return p.Favorites
}

// Contains 按字符串比较 ID
func (s *Shelf) Contains(id model.ID) bool {
	return s.List().Contains(id)
}

// Full 收藏数（含补全失败的）是否已达上限
func (s *Shelf) Full() bool {
	return len(s.List())+len(s.session.Unresolved()) >= model.MaxFavorites
}

// Add 已存在返回 ErrAlreadyFavorite，已满返回 ErrFavoritesFull，二者都不发请求
func (s *Shelf) Add(ctx context.Context, movie *model.Movie) error {
	p := s.session.Principal()
	if p == nil {
		return session.ErrNotAuthenticated
	}
	if p.Favorites.Contains(movie.ID) {
		return ErrAlreadyFavorite
	}
	if len(p.Favorites)+len(s.session.Unresolved()) >= model.MaxFavorites {
		return ErrFavoritesFull
	}

	next := append(p.Favorites.Clone(), EntryFromMovie(movie, s.imageBase))
	return s.sync.Set(ctx, next)
}

// Remove 移除指定影片
func (s *Shelf) Remove(ctx context.Context, id model.ID) error {
	p := s.session.Principal()
	if p == nil {
		return session.ErrNotAuthenticated
	}
	if !p.Favorites.Contains(id) {
		return ErrNotFavorite
	}
	return s.sync.Set(ctx, p.Favorites.Without(id))
}

// Clear 清空收藏
func (s *Shelf) Clear(ctx context.Context) error {
	return s.sync.Clear(ctx)
}
