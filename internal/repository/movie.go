package repository

import (
	"strings"

	"github.com/google/uuid"

	"github.com/user/cinedash/internal/model"
)

type MovieRepository struct {
	db *DB
}

func NewMovieRepository(db *DB) *MovieRepository {
	return &MovieRepository{db: db}
}

// List 按上传顺序返回全部影片
func (r *MovieRepository) List() []model.Movie {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := make([]model.Movie, 0, len(r.db.movieOrder))
	for _, id := range r.db.movieOrder {
		out = append(out, copyMovie(r.db.movies[id]))
	}
	return out
}

// FindByID 不存在返回 nil
func (r *MovieRepository) FindByID(id string) *model.Movie {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	m, ok := r.db.movies[id]
	if !ok {
		return nil
	}
	c := copyMovie(m)
	return &c
}

// Create 新增影片，标题不区分大小写唯一
func (r *MovieRepository) Create(m model.Movie) (*model.Movie, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if r.db.titleTakenLocked(m.DisplayTitle(), "") {
		return nil, ErrDuplicateTitle
	}
	m.ID = model.ID(uuid.NewString())
	if m.Status == "" {
		m.Status = model.MovieStatusActive
	}

	c := copyMovie(&m)
	r.db.movies[string(m.ID)] = &c
	r.db.movieOrder = append(r.db.movieOrder, string(m.ID))
	return &m, nil
}

// Update 整体替换影片内容，ID 与上传者不变
func (r *MovieRepository) Update(id string, m model.Movie) (*model.Movie, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	existing, ok := r.db.movies[id]
	if !ok {
		return nil, ErrNotFound
	}
	if r.db.titleTakenLocked(m.DisplayTitle(), existing.ID) {
		return nil, ErrDuplicateTitle
	}

	m.ID = existing.ID
	if m.Owner == "" {
		m.Owner = existing.Owner
	}
	if m.Status == "" {
		m.Status = existing.Status
	}

	c := copyMovie(&m)
	r.db.movies[id] = &c
	return &m, nil
}

func (db *DB) titleTakenLocked(title string, except model.ID) bool {
	title = strings.ToLower(strings.TrimSpace(title))
	if title == "" {
		return false
	}
	for _, id := range db.movieOrder {
		m := db.movies[id]
		if except != "" && m.ID == except {
			continue
		}
		if strings.ToLower(strings.TrimSpace(m.DisplayTitle())) == title {
			return true
		}
	}
	return false
}

func copyMovie(m *model.Movie) model.Movie {
	c := *m
	c.Genres = append([]string(nil), m.Genres...)
	c.Directors = append([]string(nil), m.Directors...)
	c.Actors = append([]string(nil), m.Actors...)
	c.Types = append([]string(nil), m.Types...)
	return c
}
