package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/user/cinedash/internal/model"
)

type moviesResponse struct {
	Peliculas []model.Movie `json:"peliculas"`
}

type movieResponse struct {
	Pelicula *model.Movie `json:"pelicula"`
}

// ListMovies 影片列表
func (c *Client) ListMovies(ctx context.Context, token string) ([]model.Movie, error) {
	var resp moviesResponse
	if err := c.do(ctx, http.MethodGet, PathMovies, token, nil, &resp); err != nil {
		return nil, err
	}
	if resp.Peliculas == nil {
		return []model.Movie{}, nil
	}
	return resp.Peliculas, nil
}

// GetMovie 影片详情，命中缓存直接返回，并发的相同请求合并为一次
func (c *Client) GetMovie(ctx context.Context, token, id string) (*model.Movie, error) {
	if m, ok := c.movies.Get(id); ok {
		return &m, nil
	}

	val, err, _ := c.group.Do(id, func() (interface{}, error) {
		return c.fetchMovie(ctx, token, id)
	})
	if err != nil {
		return nil, err
	}

	m := *val.(*model.Movie)
	return &m, nil
}

func (c *Client) fetchMovie(ctx context.Context, token, id string) (*model.Movie, error) {
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodGet, PathMovie+url.PathEscape(id), token, nil, &raw); err != nil {
		return nil, err
	}

	movie, err := decodeMovie(raw)
	if err != nil {
		return nil, err
	}
	c.movies.Set(id, *movie)
	return movie, nil
}

// decodeMovie 兼容 {pelicula: {...}} 与直接返回影片对象两种响应
func decodeMovie(raw json.RawMessage) (*model.Movie, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, &Error{Status: http.StatusNotFound, Message: fallbackMessage(http.StatusNotFound)}
	}

	var wrapped movieResponse
	if err := json.Unmarshal(raw, &wrapped); err != nil {
		return nil, fmt.Errorf("解析影片失败: %w", err)
	}
	if wrapped.Pelicula != nil {
		return wrapped.Pelicula, nil
	}

	var movie model.Movie
	if err := json.Unmarshal(raw, &movie); err != nil {
		return nil, fmt.Errorf("解析影片失败: %w", err)
	}
	return &movie, nil
}

// CreateMovie 上传影片
func (c *Client) CreateMovie(ctx context.Context, token string, movie *model.Movie) (*model.Movie, error) {
	var resp movieResponse
	if err := c.do(ctx, http.MethodPost, PathMovieCreate, token, movie, &resp); err != nil {
		return nil, err
	}
	if resp.Pelicula == nil {
		return movie, nil
	}
	return resp.Pelicula, nil
}

// UpdateMovie 修改影片，同时清掉详情缓存
func (c *Client) UpdateMovie(ctx context.Context, token, id string, movie *model.Movie) (*model.Movie, error) {
	defer c.movies.Delete(id)

	var resp movieResponse
	if err := c.do(ctx, http.MethodPut, PathMovieUpdate+url.PathEscape(id), token, movie, &resp); err != nil {
		return nil, err
	}
	if resp.Pelicula == nil {
		return movie, nil
	}
	return resp.Pelicula, nil
}

// ForgetMovie 丢弃某部影片的缓存
func (c *Client) ForgetMovie(id string) {
	c.movies.Delete(id)
}

// ClearCaches 切换账号时清空影片与角色缓存
func (c *Client) ClearCaches() {
	c.logger.Debug("清空缓存", zap.Int("movies", c.movies.Len()), zap.Int("roles", c.roles.ItemCount()))
	c.movies.Clear()
	c.roles.Flush()
}
