package cli

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/user/cinedash/internal/api"
	"github.com/user/cinedash/internal/config"
	"github.com/user/cinedash/internal/favorites"
	"github.com/user/cinedash/internal/logging"
	"github.com/user/cinedash/internal/profile"
	"github.com/user/cinedash/internal/service"
	"github.com/user/cinedash/internal/session"
	"github.com/user/cinedash/internal/storage"
)

// App 终端面板用到的全部依赖，显式注入到各命令
type App struct {
	Config    *config.Config
	Logger    *zap.Logger
	Client    *api.Client
	Storage   storage.Storage
	Session   *session.Store
	Favorites *favorites.Shelf
	Profiles  *profile.Manager
	Movies    *service.MovieService
	Users     *service.UserService
}

// NewApp 按配置组装客户端、存储与各组件
func NewApp(cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	store, err := storage.Open(storage.Options{
		Driver:      cfg.StorageDriver,
		Dir:         cfg.StorageDir,
		DatabaseURL: cfg.DatabaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("打开本地存储失败: %w", err)
	}

	client := api.NewClient(cfg.APIBaseURL,
		api.WithTimeout(cfg.RequestTimeout),
		api.WithLogger(logging.Component(logger, "api")),
		api.WithMovieCache(cfg.MovieCacheSize, cfg.MovieCacheTTL),
		api.WithRoleCacheTTL(cfg.RoleCacheTTL),
	)

	hydrator := favorites.NewHydrator(client, cfg.ImageBaseURL, cfg.HydrateConcurrency, logger)
	sess := session.NewStore(client, store, hydrator, cfg.Roles, logger)
	sync := favorites.NewSynchronizer(client, sess, logger)

	return &App{
		Config:    cfg,
		Logger:    logger,
		Client:    client,
		Storage:   store,
		Session:   sess,
		Favorites: favorites.NewShelf(sync, sess, cfg.ImageBaseURL),
		Profiles:  profile.NewManager(client, sess, logger),
		Movies:    service.NewMovieService(client, sess, logger),
		Users:     service.NewUserService(client, sess, cfg.Roles, logger),
	}, nil
}

// Close 释放存储连接
func (a *App) Close() error {
	if c, ok := a.Storage.(interface{ Close() error }); ok {
		return c.Close()
	}
	return nil
}
