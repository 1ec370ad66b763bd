package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/user/cinedash/internal/model"
	"github.com/user/cinedash/internal/profile"
	"github.com/user/cinedash/internal/session"
)

func newProfilesCmd(deps func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "profiles",
		Aliases: []string{"profile"},
		Short:   "管理观看档案",
	}
	cmd.AddCommand(
		newProfilesListCmd(deps),
		newProfilesCreateCmd(deps),
		newProfilesEditCmd(deps),
		newProfilesDeleteCmd(deps),
		newProfilesSelectCmd(deps),
	)
	return cmd
}

// principalID 当前登录用户 ID
func principalID(a *App) string {
	if p := a.Session.Principal(); p != nil {
		return p.ID.String()
	}
	return ""
}

func newProfilesListCmd(deps func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "列出档案",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := deps()
			if err := guard(a, false); err != nil {
				return err
			}
			profiles, err := a.Profiles.List(cmd.Context(), principalID(a))
			if err != nil {
				return explain(err)
			}
			w := out(cmd)
			if len(profiles) == 0 {
				fmt.Fprintln(w, "还没有档案")
				return nil
			}
			active, _ := a.Profiles.ActiveProfile()
			fmt.Fprintf(w, "  %-26s  %-20s  %s\n", "ID", "NAME", "AVATAR")
			for _, p := range profiles {
				mark := " "
				if active.ID != "" && model.SameID(active.ID, p.ID) {
					mark = "*"
				}
				fmt.Fprintf(w, "%s %-26s  %-20s  %s\n", mark, p.ID, p.Name, dash(p.Avatar))
			}
			fmt.Fprintf(w, "\n(%d/%d)\n", len(profiles), model.MaxProfiles)
			return nil
		},
	}
}

func newProfilesCreateCmd(deps func() *App) *cobra.Command {
	var in profile.Input

	cmd := &cobra.Command{
		Use:   "create",
		Short: "新建档案",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := deps()
			if err := guard(a, false); err != nil {
				return err
			}
			p := newPrompter(cmd)
			if err := p.fill(&in.Name, "名称"); err != nil {
				return err
			}
			if err := p.fill(&in.Avatar, "头像"); err != nil {
				return err
			}
			created, err := a.Profiles.Create(cmd.Context(), principalID(a), in)
			if err != nil {
				return explain(err)
			}
			fmt.Fprintf(out(cmd), "已创建档案 %s (%s)\n", created.Name, created.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Name, "name", "", "档案名称")
	cmd.Flags().StringVar(&in.Avatar, "avatar", "", "头像")
	return cmd
}

func newProfilesEditCmd(deps func() *App) *cobra.Command {
	var in profile.Input

	cmd := &cobra.Command{
		Use:   "edit <profile-id>",
		Short: "修改档案",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := deps()
			if err := guard(a, false); err != nil {
				return err
			}
			updated, err := a.Profiles.Update(cmd.Context(), principalID(a), model.ID(args[0]), in)
			if err != nil {
				return explain(err)
			}
			fmt.Fprintf(out(cmd), "已更新档案 %s\n", updated.Name)
			return nil
		},
	}

	cmd.Flags().StringVar(&in.Name, "name", "", "新名称")
	cmd.Flags().StringVar(&in.Avatar, "avatar", "", "新头像（省略则保留原头像）")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newProfilesDeleteCmd(deps func() *App) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:     "delete <profile-id>",
		Aliases: []string{"rm"},
		Short:   "删除档案",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := deps()
			if err := guard(a, false); err != nil {
				return err
			}
			p := newPrompter(cmd)
			confirm := profile.ConfirmFunc(func(ctx context.Context, target model.Profile) (bool, error) {
				if yes {
					return true, nil
				}
				return p.confirm(fmt.Sprintf("确定删除档案 %s 吗", target.Name))
			})

			result, err := a.Profiles.Delete(cmd.Context(), principalID(a), model.ID(args[0]), confirm)
			if err != nil {
				return explain(err)
			}
			w := out(cmd)
			fmt.Fprintf(w, "已删除，剩余 %d 个档案\n", len(result.Remaining))
			if result.BackToSelector {
				fmt.Fprintf(w, "→ %s\n", session.RouteProfileSelector)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "跳过确认")
	return cmd
}

func newProfilesSelectCmd(deps func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "select <profile-id>",
		Short: "切换当前档案",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := deps()
			if err := guard(a, false); err != nil {
				return err
			}
			// 先同步档案列表，保证会话里是最新的
			if _, err := a.Profiles.List(cmd.Context(), principalID(a)); err != nil {
				return explain(err)
			}
			if err := a.Profiles.Select(model.ID(args[0])); err != nil {
				return explain(err)
			}
			active, _ := a.Profiles.ActiveProfile()
			fmt.Fprintf(out(cmd), "当前档案: %s\n→ %s\n", active.Name, a.Session.HomeRoute())
			return nil
		},
	}
}
