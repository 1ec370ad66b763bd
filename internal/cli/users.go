package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/user/cinedash/internal/model"
	"github.com/user/cinedash/internal/service"
	"github.com/user/cinedash/internal/utils"
)

func newUsersCmd(deps func() *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "users",
		Aliases: []string{"user"},
		Short:   "用户管理（管理员）",
	}
	cmd.AddCommand(
		newUsersListCmd(deps),
		newUsersShowCmd(deps),
		newUsersCreateCmd(deps),
		newUsersEditCmd(deps),
	)
	return cmd
}

func statusLabel(s model.AccountStatus) string {
	if s == model.StatusActive {
		return "启用"
	}
	return "停用"
}

func newUsersListCmd(deps func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "列出用户",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := deps()
			if err := guard(a, true); err != nil {
				return err
			}
			users, err := a.Users.List(cmd.Context())
			if err != nil {
				return explain(err)
			}
			w := out(cmd)
			fmt.Fprintf(w, "%-36s  %-24s  %-28s  %-6s  %s\n", "ID", "NAME", "EMAIL", "ROLE", "STATUS")
			fmt.Fprintf(w, "%-36s  %-24s  %-28s  %-6s  %s\n", "--", "----", "-----", "----", "------")
			for _, u := range users {
				name := truncate(strings.TrimSpace(u.Name+" "+u.Surname), 24)
				fmt.Fprintf(w, "%-36s  %-24s  %-28s  %-6s  %s\n", u.ID, name, u.Email, a.Config.Roles.Resolve(u.Role), statusLabel(u.Status))
			}
			return nil
		},
	}
}

func newUsersShowCmd(deps func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <user-id>",
		Short: "用户详情",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := deps()
			if err := guard(a, true); err != nil {
				return err
			}
			u, err := a.Users.Get(cmd.Context(), args[0])
			if err != nil {
				return explain(err)
			}
			w := out(cmd)
			fmt.Fprintf(w, "用户:   %s %s\n", u.Name, u.Surname)
			fmt.Fprintf(w, "邮箱:   %s\n", u.Email)
			fmt.Fprintf(w, "头像:   %s\n", dash(u.Avatar))
			fmt.Fprintf(w, "角色:   %s\n", a.Config.Roles.Resolve(u.Role))
			fmt.Fprintf(w, "状态:   %s\n", statusLabel(u.Status))
			fmt.Fprintf(w, "收藏:   %s\n", dash(utils.JoinList(u.Favorites.IDs())))
			fmt.Fprintf(w, "档案:   %d\n", len(u.Profiles))
			return nil
		},
	}
}

// resolveRoleFlag 接受角色名或角色 ID
func resolveRoleFlag(roles []model.RoleRecord, value string) string {
	for _, r := range roles {
		if strings.EqualFold(r.Name, value) {
			return r.ID.String()
		}
	}
	return value
}

func newUsersCreateCmd(deps func() *App) *cobra.Command {
	var form service.CreateForm

	cmd := &cobra.Command{
		Use:   "create",
		Short: "创建账号，默认角色为管理员",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := deps()
			if err := guard(a, true); err != nil {
				return err
			}
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

			roles, err := a.Users.Roles(cmd.Context())
			if err != nil {
				return explain(err)
			}
			roleName := form.Role
			form.Role = resolveRoleFlag(roles, roleName)

			if err := a.Users.Create(cmd.Context(), form); err != nil {
				return explain(err)
			}
			fmt.Fprintf(out(cmd), "已创建 %s（%s）\n", strings.ToLower(strings.TrimSpace(form.Email)), roleName)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&form.Name, "name", "", "名字")
	f.StringVar(&form.Surname, "surname", "", "姓氏")
	f.StringVar(&form.Email, "email", "", "邮箱")
	f.StringVar(&form.Password, "password", "", "密码（至少 6 位）")
	f.StringVar(&form.Avatar, "avatar", "", "头像图片地址，省略则用姓名首字母")
	f.StringVar(&form.Role, "role", "admin", "角色名或角色 ID")
	return cmd
}

func newUsersEditCmd(deps func() *App) *cobra.Command {
	var (
		patch  service.UserForm
		status string
	)

	cmd := &cobra.Command{
		Use:   "edit <user-id>",
		Short: "修改用户资料、角色或状态，只改动传入的字段",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a := deps()
			if err := guard(a, true); err != nil {
				return err
			}
			existing, err := a.Users.Get(cmd.Context(), args[0])
			if err != nil {
				return explain(err)
			}

			form := service.UserForm{
				Name:    existing.Name,
				Surname: existing.Surname,
				Email:   existing.Email,
				Status:  existing.Status,
				Role:    existing.Role.String(),
			}
			// 首字母头像在保存时重新生成
			if utils.IsImageRef(existing.Avatar) {
				form.Avatar = existing.Avatar
			}

			flags := cmd.Flags()
			if flags.Changed("name") {
				form.Name = patch.Name
			}
			if flags.Changed("surname") {
				form.Surname = patch.Surname
			}
			if flags.Changed("email") {
				form.Email = patch.Email
			}
			if flags.Changed("avatar") {
				form.Avatar = patch.Avatar
			}
			if flags.Changed("status") {
				switch status {
				case "1", "active", "activo":
					form.Status = model.StatusActive
				case "0", "disabled", "inactivo":
					form.Status = model.StatusDisabled
				default:
					return &CommandError{Message: "状态只能是 active 或 disabled"}
				}
			}
			if flags.Changed("role") {
				roles, err := a.Users.Roles(cmd.Context())
				if err != nil {
					return explain(err)
				}
				form.Role = resolveRoleFlag(roles, patch.Role)
			}

			updated, err := a.Users.Update(cmd.Context(), args[0], form)
			if err != nil {
				return explain(err)
			}
			fmt.Fprintf(out(cmd), "已更新 %s %s（%s，%s）\n", updated.Name, updated.Surname,
				a.Config.Roles.Resolve(updated.Role), statusLabel(updated.Status))
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&patch.Name, "name", "", "名字")
	f.StringVar(&patch.Surname, "surname", "", "姓氏")
	f.StringVar(&patch.Email, "email", "", "邮箱")
	f.StringVar(&patch.Avatar, "avatar", "", "头像图片地址，传空字符串使用首字母")
	f.StringVar(&patch.Role, "role", "", "角色名或角色 ID")
	f.StringVar(&status, "status", "", "active 或 disabled")
	return cmd
}

func newRolesCmd(deps func() *App) *cobra.Command {
	return &cobra.Command{
		Use:   "roles",
		Short: "列出角色（管理员）",
		RunE: func(cmd *cobra.Command, args []string) error {
			a := deps()
			if err := guard(a, true); err != nil {
				return err
			}
			roles, err := a.Users.Roles(cmd.Context())
			if err != nil {
				return explain(err)
			}
			w := out(cmd)
			fmt.Fprintf(w, "%-26s  %s\n", "ID", "NAME")
			for _, r := range roles {
				fmt.Fprintf(w, "%-26s  %s\n", r.ID, r.Name)
			}
			return nil
		},
	}
}
