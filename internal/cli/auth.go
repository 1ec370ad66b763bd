package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/user/cinedash/internal/model"
	"github.com/user/cinedash/internal/service"
	"github.com/user/cinedash/internal/session"
)

func newLoginCmd(deps func() *App) *cobra.Command {
	var email, password string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "登录",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := deps()
			p := newPrompter(cmd)
			if err := p.fill(&email, "邮箱"); err != nil {
				return err
			}
			if err := p.fill(&password, "密码"); err != nil {
				return err
			}
			if email == "" || password == "" {
				return &CommandError{Message: "请填写邮箱和密码"}
			}

			principal, err := a.Session.Login(cmd.Context(), email, password)
			if errors.Is(err, session.ErrAccountDisabled) {
				return &CommandError{
					Message: fmt.Sprintf("%s %s 的账号已停用，请联系管理员", principal.Name, principal.Surname),
					Route:   session.RouteDisabled,
					Err:     err,
				}
			}
			if err != nil {
				return explain(err)
			}

			w := out(cmd)
			fmt.Fprintf(w, "欢迎，%s %s（%s）\n", principal.Name, principal.Surname, a.Session.Role())
			route := a.Session.HomeRoute()
			if a.Session.Role() == model.RoleUser && len(principal.Profiles) > 0 {
				route = session.RouteProfileSelector
			}
			fmt.Fprintf(w, "→ %s\n", route)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "登录邮箱（省略则提示输入）")
	cmd.Flags().StringVar(&password, "password", "", "密码（省略则提示输入）")
	return cmd
}

func newLogoutCmd(deps func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "退出登录并清除本地会话",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := deps()
			route, err := a.Session.Logout()
			if err != nil {
				return explain(err)
			}
			a.Client.ClearCaches()
			fmt.Fprintf(out(cmd), "已退出登录\n→ %s\n", route)
			return nil
		},
	}
}

func newWhoamiCmd(deps func() *App) *cobra.Command {
	var refresh bool

	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "显示当前会话",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := deps()
			w := out(cmd)
			if refresh && a.Session.Authenticated() {
				if err := a.Session.Refresh(cmd.Context(), a.Client); err != nil {
					return explain(err)
				}
			}
			p := a.Session.Principal()
			if p == nil {
				fmt.Fprintf(w, "未登录\n→ %s\n", session.RouteLanding)
				return nil
			}
			fmt.Fprintf(w, "用户:   %s %s\n", p.Name, p.Surname)
			fmt.Fprintf(w, "邮箱:   %s\n", p.Email)
			fmt.Fprintf(w, "角色:   %s\n", a.Session.Role())
			fmt.Fprintf(w, "收藏:   %d\n", len(p.Favorites))
			fmt.Fprintf(w, "档案:   %d\n", len(p.Profiles))
			if active, ok := a.Profiles.ActiveProfile(); ok {
				fmt.Fprintf(w, "当前档案: %s\n", active.Name)
			}
			fmt.Fprintf(w, "→ %s\n", a.Session.HomeRoute())
			return nil
		},
	}

	cmd.Flags().BoolVar(&refresh, "refresh", false, "先从服务端重新拉取资料")
	return cmd
}

func newRegisterCmd(deps func() *App) *cobra.Command {
	var form service.RegisterForm

	cmd := &cobra.Command{
		Use:   "register",
		Short: "注册新账号",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := deps()
			p := newPrompter(cmd)
			for _, f := range []struct {
				v     *string
				label string
			}{
				{&form.Name, "名字"},
				{&form.Surname, "姓氏"},
				{&form.Email, "邮箱"},
				{&form.Password, "密码"},
			} {
				if err := p.fill(f.v, f.label); err != nil {
					return err
				}
			}
			form.Email = strings.TrimSpace(form.Email)

			if err := a.Users.Register(cmd.Context(), form); err != nil {
				return explain(err)
			}
			fmt.Fprintf(out(cmd), "注册成功，请登录\n→ %s\n", session.RouteLogin)
			return nil
		},
	}

	cmd.Flags().StringVar(&form.Name, "name", "", "名字")
	cmd.Flags().StringVar(&form.Surname, "surname", "", "姓氏")
	cmd.Flags().StringVar(&form.Email, "email", "", "邮箱")
	cmd.Flags().StringVar(&form.Password, "password", "", "密码（至少 6 位）")
	cmd.Flags().StringVar(&form.Avatar, "avatar", "", "头像图片地址（jpg/jpeg/png/webp，省略则用姓名首字母）")
	return cmd
}
