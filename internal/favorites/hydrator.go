package favorites

import (
	"context"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/user/cinedash/internal/model"
	"github.com/user/cinedash/internal/utils"
)

// 详情缺失时的占位文本
const (
	UnknownTitle = "Título Desconocido"
	NoDetail     = "Sin descripción disponible"
)

// MovieFetcher 获取影片详情
type MovieFetcher interface {
	GetMovie(ctx context.Context, token, id string) (*model.Movie, error)
}

// Hydrator 并发拉取影片详情，把收藏 ID 补全为展示条目
type Hydrator struct {
	fetcher   MovieFetcher
	imageBase string
	limit     int
	logger    *zap.Logger
}

func NewHydrator(fetcher MovieFetcher, imageBase string, limit int, logger *zap.Logger) *Hydrator {
	if limit <= 0 {
		limit = 5
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hydrator{
		fetcher:   fetcher,
		imageBase: imageBase,
		limit:     limit,
		logger:    logger.With(zap.String("component", "favorites")),
	}
}

// Hydrate 等待全部请求结束，只保留成功的项，顺序与 ids 一致
func (h *Hydrator) Hydrate(ctx context.Context, ids []string, token string) []model.Favorite {
	if len(ids) == 0 {
		return []model.Favorite{}
	}

	results := make([]*model.Favorite, len(ids))

	var g errgroup.Group
	g.SetLimit(h.limit)
	for i, id := range ids {
		g.Go(func() error {
			movie, err := h.fetcher.GetMovie(ctx, token, id)
			if err != nil {
				h.logger.Warn("获取收藏影片失败", zap.String("movie_id", id), zap.Error(err))
				return nil
			}
			entry := EntryFromMovie(movie, h.imageBase)
			if entry.ID == "" {
				entry.ID = model.ID(id)
			}
			results[i] = &entry
			return nil
		})
	}
	_ = g.Wait()

	out := make([]model.Favorite, 0, len(ids))
	for _, r := range results {
		if r != nil {
			out = append(out, *r)
		}
	}
	return out
}

// EntryFromMovie 由影片详情生成收藏条目，海报转为绝对地址
func EntryFromMovie(m *model.Movie, imageBase string) model.Favorite {
	title := m.DisplayTitle()
	if title == "" {
		title = UnknownTitle
	}
	detail := m.Detail
	if detail == "" {
		detail = NoDetail
	}
	return model.Favorite{
		ID:     m.ID,
		Title:  title,
		Poster: utils.AbsoluteImageURL(imageBase, m.Poster),
		Detail: detail,
	}
}
