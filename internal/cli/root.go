package cli

import (
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/user/cinedash/internal/config"
	"github.com/user/cinedash/internal/logging"
)

// NewRootCmd 创建 cinedash 根命令
// PersistentPreRunE 组装依赖并等待本地会话恢复完成，之后各子命令才会执行
// 返回的 cleanup 释放日志与存储，命令失败时也要调用
func NewRootCmd() (*cobra.Command, func() error) {
	root, _, cleanup := newRoot()
	return root, cleanup
}

func newRoot() (*cobra.Command, func() *App, func() error) {
	var (
		flagServer     string
		flagLogLevel   string
		flagStorage    string
		flagStorageDir string

		app *App
	)
	deps := func() *App { return app }
	cleanup := func() error {
		if app == nil {
			return nil
		}
		a := app
		app = nil
		_ = a.Logger.Sync()
		return a.Close()
	}

	root := &cobra.Command{
		Use:   "cinedash",
		Short: "cinedash 影视目录管理终端",
		Long:  "cinedash 连接影视目录服务，管理登录会话、收藏、观看档案，以及管理员的影片与用户维护。",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			_ = godotenv.Load()
			cfg := config.Load()

			flags := cmd.Flags()
			if flags.Changed("server") {
				server := strings.TrimRight(flagServer, "/")
				if cfg.ImageBaseURL == cfg.APIBaseURL {
					cfg.ImageBaseURL = server
				}
				cfg.APIBaseURL = server
			}
			if flags.Changed("log-level") {
				cfg.LogLevel = flagLogLevel
			}
			if flags.Changed("storage") {
				cfg.StorageDriver = flagStorage
			}
			if flags.Changed("storage-dir") {
				cfg.StorageDir = flagStorageDir
			}

			logger := logging.NewLogger(cfg.LogLevel)
			a, err := NewApp(cfg, logger)
			if err != nil {
				return err
			}
			if err := a.Session.Restore(cmd.Context()); err != nil {
				return err
			}
			app = a
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flagServer, "server", "", "目录服务地址（或 API_BASE_URL）")
	root.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "日志级别 debug/info/warn/error（或 LOG_LEVEL）")
	root.PersistentFlags().StringVar(&flagStorage, "storage", "", "本地存储 file/memory/postgres（或 STORAGE_DRIVER）")
	root.PersistentFlags().StringVar(&flagStorageDir, "storage-dir", "", "file 存储目录（或 STORAGE_DIR）")

	root.AddCommand(
		newLoginCmd(deps),
		newLogoutCmd(deps),
		newWhoamiCmd(deps),
		newRegisterCmd(deps),
		newFavoritesCmd(deps),
		newProfilesCmd(deps),
		newMoviesCmd(deps),
		newUsersCmd(deps),
		newRolesCmd(deps),
	)

	return root, deps, cleanup
}
