package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/user/cinedash/internal/favorites"
	"github.com/user/cinedash/internal/model"
)

func newFavoritesCmd(deps func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "favorites",
		Aliases: []string{"fav"},
		Short:   "管理收藏",
	}
	cmd.AddCommand(
		newFavoritesListCmd(deps),
		newFavoritesAddCmd(deps),
		newFavoritesRemoveCmd(deps),
		newFavoritesClearCmd(deps),
	)
	return cmd
}

func newFavoritesListCmd(deps func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "列出收藏",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := deps()
			if err := guard(a, false); err != nil {
				return err
			}
			list := a.Favorites.List()
			w := out(cmd)
			if len(list) == 0 {
				fmt.Fprintln(w, "还没有收藏")
				return nil
			}
			fmt.Fprintf(w, "%-26s  %-30s  %s\n", "ID", "TITLE", "DETAIL")
			fmt.Fprintf(w, "%-26s  %-30s  %s\n", "--", "-----", "------")
			for _, f := range list {
				fmt.Fprintf(w, "%-26s  %-30s  %s\n", f.ID, truncate(f.Title, 30), truncate(f.Detail, 50))
			}
			fmt.Fprintf(w, "\n(%d/%d)\n", len(list), model.MaxFavorites)
			return nil
		},
	}
}

func newFavoritesAddCmd(deps func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "add <movie-id>",
		Short: "收藏影片",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := deps()
			if err := guard(a, false); err != nil {
				return err
			}
			id := model.ID(args[0])
			if a.Favorites.Contains(id) {
				return explain(favorites.ErrAlreadyFavorite)
			}
			if a.Favorites.Full() {
				return explain(favorites.ErrFavoritesFull)
			}
			movie, err := a.Movies.Get(cmd.Context(), args[0])
			if err != nil {
				return explain(err)
			}
			if err := a.Favorites.Add(cmd.Context(), movie); err != nil {
				return explain(err)
			}
			fmt.Fprintf(out(cmd), "已收藏 %s\n", movie.DisplayTitle())
			return nil
		},
	}
}

func newFavoritesRemoveCmd(deps func() *App) *cobra.Command {
	return &cobra.Command{
		Use:     "remove <movie-id>",
		Aliases: []string{"rm"},
		Short:   "取消收藏",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := deps()
			if err := guard(a, false); err != nil {
				return err
			}
			if err := a.Favorites.Remove(cmd.Context(), model.ID(args[0])); err != nil {
				return explain(err)
			}
			fmt.Fprintf(out(cmd), "已取消收藏 %s\n", args[0])
			return nil
		},
	}
}

func newFavoritesClearCmd(deps func() *App) *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "清空收藏",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a := deps()
			if err := guard(a, false); err != nil {
				return err
			}
			if !yes {
				ok, err := newPrompter(cmd).confirm("确定清空全部收藏吗")
				if err != nil {
					return err
				}
				if !ok {
					fmt.Fprintln(out(cmd), "已取消")
					return nil
				}
			}
			if err := a.Favorites.Clear(cmd.Context()); err != nil {
				return explain(err)
			}
			fmt.Fprintln(out(cmd), "收藏已清空")
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "跳过确认")
	return cmd
}
