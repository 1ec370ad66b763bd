package service

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/user/cinedash/internal/model"
	"github.com/user/cinedash/internal/session"
	"github.com/user/cinedash/internal/utils"
)

// MovieClient 影片相关的远端接口
type MovieClient interface {
	ListMovies(ctx context.Context, token string) ([]model.Movie, error)
	GetMovie(ctx context.Context, token, id string) (*model.Movie, error)
	CreateMovie(ctx context.Context, token string, movie *model.Movie) (*model.Movie, error)
	UpdateMovie(ctx context.Context, token, id string, movie *model.Movie) (*model.Movie, error)
}

// MovieForm 上传/编辑表单，列表字段以逗号分隔
type MovieForm struct {
	Title     string `validate:"required"`
	Detail    string `validate:"required"`
	Genres    string `validate:"required"`
	Directors string `validate:"required"`
	Actors    string `validate:"required"`
	Types     string `validate:"required"`
	Poster    string `validate:"required"`
	Link      string `validate:"required"`
	Year      int    `validate:"gte=1888,lte=2100"`
	Status    string `validate:"omitempty,oneof=activo inactivo"`
}

// FormFromMovie 用现有影片回填编辑表单
func FormFromMovie(m *model.Movie) MovieForm {
	return MovieForm{
		Title:     m.DisplayTitle(),
		Detail:    m.Detail,
		Genres:    utils.JoinList(m.Genres),
		Directors: utils.JoinList(m.Directors),
		Actors:    utils.JoinList(m.Actors),
		Types:     utils.JoinList(m.Types),
		Poster:    m.Poster,
		Link:      m.Link,
		Year:      m.Year,
		Status:    m.Status,
	}
}

// MovieService 影片管理（上传、编辑、上下架），没有物理删除
type MovieService struct {
	client   MovieClient
	session  *session.Store
	validate *validator.Validate
	logger   *zap.Logger
}

func NewMovieService(client MovieClient, store *session.Store, logger *zap.Logger) *MovieService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MovieService{
		client:   client,
		session:  store,
		validate: validator.New(),
		logger:   logger.With(zap.String("component", "movies")),
	}
}

func (s *MovieService) token() (string, error) {
	token := s.session.Token()
	if token == "" {
		return "", session.ErrNotAuthenticated
	}
	return token, nil
}

func (s *MovieService) adminToken() (string, error) {
	token, err := s.token()
	if err != nil {
		return "", err
	}
	if s.session.Role() != model.RoleAdmin {
		return "", ErrForbidden
	}
	return token, nil
}

// List 全部影片
func (s *MovieService) List(ctx context.Context) ([]model.Movie, error) {
	token, err := s.token()
	if err != nil {
		return nil, err
	}
	return s.client.ListMovies(ctx, token)
}

// Get 影片详情
func (s *MovieService) Get(ctx context.Context, id string) (*model.Movie, error) {
	token, err := s.token()
	if err != nil {
		return nil, err
	}
	return s.client.GetMovie(ctx, token, id)
}

// Create 上传影片：标题不可重复，状态为 activo，上传者为当前用户
func (s *MovieService) Create(ctx context.Context, form MovieForm) (*model.Movie, error) {
	token, err := s.adminToken()
	if err != nil {
		return nil, err
	}
	form = trimForm(form)
	if err := s.validate.Struct(form); err != nil {
		return nil, validationError(err)
	}

	if err := s.checkTitle(ctx, token, form.Title, ""); err != nil {
		return nil, err
	}

	movie := buildMovie(form)
	movie.Status = model.MovieStatusActive
	if p := s.session.Principal(); p != nil {
		movie.Owner = model.Ref(p.ID)
	}

	created, err := s.client.CreateMovie(ctx, token, movie)
	if err != nil {
		s.logger.Warn("上传影片失败", zap.String("title", form.Title), zap.Error(err))
		return nil, err
	}
	s.logger.Info("影片已上传", zap.String("title", form.Title))
	return created, nil
}

// Update 编辑影片，保留原上传者
func (s *MovieService) Update(ctx context.Context, id string, form MovieForm) (*model.Movie, error) {
	token, err := s.adminToken()
	if err != nil {
		return nil, err
	}
	form = trimForm(form)
	if err := s.validate.Struct(form); err != nil {
		return nil, validationError(err)
	}

	existing, err := s.client.GetMovie(ctx, token, id)
	if err != nil {
		return nil, err
	}
	if err := s.checkTitle(ctx, token, form.Title, model.ID(id)); err != nil {
		return nil, err
	}

	movie := buildMovie(form)
	movie.ID = existing.ID
	movie.Owner = existing.Owner
	movie.Status = existing.Status
	if form.Status != "" {
		movie.Status = form.Status
	}

	updated, err := s.client.UpdateMovie(ctx, token, id, movie)
	if err != nil {
		s.logger.Warn("修改影片失败", zap.String("movie_id", id), zap.Error(err))
		return nil, err
	}
	return updated, nil
}

// SetStatus 上架或下架
func (s *MovieService) SetStatus(ctx context.Context, id, status string) (*model.Movie, error) {
	if status != model.MovieStatusActive && status != model.MovieStatusInactive {
		return nil, ErrInvalidStatus
	}
	token, err := s.adminToken()
	if err != nil {
		return nil, err
	}

	movie, err := s.client.GetMovie(ctx, token, id)
	if err != nil {
		return nil, err
	}
	movie.Status = status
	return s.client.UpdateMovie(ctx, token, id, movie)
}

// checkTitle 忽略大小写与首尾空白，except 为正在编辑的影片
func (s *MovieService) checkTitle(ctx context.Context, token, title string, except model.ID) error {
	movies, err := s.client.ListMovies(ctx, token)
	if err != nil {
		return err
	}
	want := strings.ToLower(strings.TrimSpace(title))
	for _, m := range movies {
		if except != "" && model.SameID(m.ID, except) {
			continue
		}
		if strings.ToLower(strings.TrimSpace(m.DisplayTitle())) == want {
			return ErrDuplicateTitle
		}
	}
	return nil
}

func trimForm(f MovieForm) MovieForm {
	f.Title = strings.TrimSpace(f.Title)
	f.Detail = strings.TrimSpace(f.Detail)
	f.Poster = strings.TrimSpace(f.Poster)
	f.Link = strings.TrimSpace(f.Link)
	f.Status = strings.TrimSpace(f.Status)
	return f
}

func buildMovie(f MovieForm) *model.Movie {
	return &model.Movie{
		OriginalTitle: f.Title,
		Detail:        f.Detail,
		Genres:        utils.SplitList(f.Genres),
		Directors:     utils.SplitList(f.Directors),
		Actors:        utils.SplitList(f.Actors),
		Types:         utils.SplitList(f.Types),
		Poster:        f.Poster,
		Link:          utils.EmbedURL(f.Link),
		Year:          f.Year,
	}
}
