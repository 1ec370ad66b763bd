package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/user/cinedash/internal/model"
	"github.com/user/cinedash/internal/service"
	"github.com/user/cinedash/internal/utils"
)

func newMoviesCmd(deps func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "movies",
		Aliases: []string{"movie"},
		Short:   "浏览与维护影片",
	}
	cmd.AddCommand(
		newMoviesListCmd(deps),
		newMoviesShowCmd(deps),
		newMoviesCreateCmd(deps),
		newMoviesEditCmd(deps),
		newMoviesStatusCmd(deps, "activate", "上架影片", model.MovieStatusActive),
		newMoviesStatusCmd(deps, "deactivate", "下架影片", model.MovieStatusInactive),
	)
	return cmd
}

func newMoviesListCmd(deps func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "列出影片（普通用户只看到上架的）",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := deps()
			if err := guard(a, false); err != nil {
				return err
			}
			movies, err := a.Movies.List(cmd.Context())
			if err != nil {
				return explain(err)
			}
			admin := a.Session.Role() == model.RoleAdmin

			w := out(cmd)
			fmt.Fprintf(w, "%-26s  %-30s  %-6s  %-9s  %s\n", "ID", "TITLE", "YEAR", "STATUS", "FAV")
			fmt.Fprintf(w, "%-26s  %-30s  %-6s  %-9s  %s\n", "--", "-----", "----", "------", "---")
			shown := 0
			for i := range movies {
				m := &movies[i]
				if !admin && !m.Active() {
					continue
				}
				fav := ""
				if a.Favorites.Contains(m.ID) {
					fav = "★"
				}
				fmt.Fprintf(w, "%-26s  %-30s  %-6d  %-9s  %s\n", m.ID, truncate(m.DisplayTitle(), 30), m.Year, m.Status, fav)
				shown++
			}
			if shown == 0 {
				fmt.Fprintln(w, "没有影片")
			}
			return nil
		},
	}
}

func newMoviesShowCmd(deps func() *App) *cobra.Command {
	var refresh bool
	cmd := &cobra.Command{
		Use:   "show <movie-id>",
		Short: "影片详情",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := deps()
			if err := guard(a, false); err != nil {
				return err
			}
			if refresh {
				a.Client.ForgetMovie(args[0])
			}
			m, err := a.Movies.Get(cmd.Context(), args[0])
			if err != nil {
				return explain(err)
			}
			w := out(cmd)
			fmt.Fprintf(w, "标题:   %s\n", m.DisplayTitle())
			fmt.Fprintf(w, "年份:   %d\n", m.Year)
			fmt.Fprintf(w, "类型:   %s\n", dash(utils.JoinList(m.Genres)))
			fmt.Fprintf(w, "导演:   %s\n", dash(utils.JoinList(m.Directors)))
			fmt.Fprintf(w, "演员:   %s\n", dash(utils.JoinList(m.Actors)))
			fmt.Fprintf(w, "海报:   %s\n", dash(utils.AbsoluteImageURL(a.Config.ImageBaseURL, m.Poster)))
			fmt.Fprintf(w, "播放:   %s\n", dash(m.Link))
			fmt.Fprintf(w, "状态:   %s\n", m.Status)
			fmt.Fprintf(w, "\n%s\n", m.Detail)
			return nil
		},
	}
	cmd.Flags().BoolVar(&refresh, "refresh", false, "忽略本地缓存")
	return cmd
}

// movieFlags 上传与编辑共用的表单参数
func movieFlags(cmd *cobra.Command, form *service.MovieForm) {
	f := cmd.Flags()
	f.StringVar(&form.Title, "title", "", "原名")
	f.StringVar(&form.Detail, "detail", "", "简介")
	f.StringVar(&form.Genres, "genres", "", "类型，逗号分隔")
	f.StringVar(&form.Directors, "directors", "", "导演，逗号分隔")
	f.StringVar(&form.Actors, "actors", "", "演员，逗号分隔")
	f.StringVar(&form.Types, "types", "", "分类，逗号分隔")
	f.StringVar(&form.Poster, "poster", "", "海报图片")
	f.StringVar(&form.Link, "link", "", "播放链接（YouTube 链接会转为嵌入地址）")
	f.IntVar(&form.Year, "year", 0, "年份")
}

func newMoviesCreateCmd(deps func() *App) *cobra.Command {
	var form service.MovieForm

	cmd := &cobra.Command{
		Use:   "create",
		Short: "上传影片（管理员）",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := deps()
			if err := guard(a, true); err != nil {
				return err
			}
			created, err := a.Movies.Create(cmd.Context(), form)
			if err != nil {
				return explain(err)
			}
			fmt.Fprintf(out(cmd), "已上传 %s (%s)\n", created.DisplayTitle(), created.ID)
			return nil
		},
	}
	movieFlags(cmd, &form)
	return cmd
}

func newMoviesEditCmd(deps func() *App) *cobra.Command {
	var patch service.MovieForm

	cmd := &cobra.Command{
		Use:   "edit <movie-id>",
		Short: "修改影片（管理员），只改动传入的字段",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := deps()
			if err := guard(a, true); err != nil {
				return err
			}
			existing, err := a.Movies.Get(cmd.Context(), args[0])
			if err != nil {
				return explain(err)
			}

			form := service.FormFromMovie(existing)
			flags := cmd.Flags()
			for name, pair := range map[string][2]*string{
				"title":     {&form.Title, &patch.Title},
				"detail":    {&form.Detail, &patch.Detail},
				"genres":    {&form.Genres, &patch.Genres},
				"directors": {&form.Directors, &patch.Directors},
				"actors":    {&form.Actors, &patch.Actors},
				"types":     {&form.Types, &patch.Types},
				"poster":    {&form.Poster, &patch.Poster},
				"link":      {&form.Link, &patch.Link},
			} {
				if flags.Changed(name) {
					*pair[0] = *pair[1]
				}
			}
			if flags.Changed("year") {
				form.Year = patch.Year
			}

			updated, err := a.Movies.Update(cmd.Context(), args[0], form)
			if err != nil {
				return explain(err)
			}
			fmt.Fprintf(out(cmd), "已更新 %s\n", updated.DisplayTitle())
			return nil
		},
	}
	movieFlags(cmd, &patch)
	return cmd
}

func newMoviesStatusCmd(deps func() *App, use, short, status string) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <movie-id>",
		Short: short + "（管理员）",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := deps()
			if err := guard(a, true); err != nil {
				return err
			}
			m, err := a.Movies.SetStatus(cmd.Context(), args[0], status)
			if err != nil {
				return explain(err)
			}
			fmt.Fprintf(out(cmd), "%s: %s\n", strings.TrimSpace(m.DisplayTitle()), m.Status)
			return nil
		},
	}
}
