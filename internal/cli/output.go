package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/user/cinedash/internal/api"
	"github.com/user/cinedash/internal/model"
	"github.com/user/cinedash/internal/service"
	"github.com/user/cinedash/internal/session"
)

// CommandError 面向用户的错误，附带后续跳转
type CommandError struct {
	Message string
	Route   session.Route
	Err     error
}

func (e *CommandError) Error() string {
	if e.Route != session.RouteNone {
		return fmt.Sprintf("%s（跳转 %s）", e.Message, e.Route)
	}
	return e.Message
}

func (e *CommandError) Unwrap() error { return e.Err }

// explain 把底层错误转成提示文案与跳转
func explain(err error) error {
	if err == nil {
		return nil
	}
	var ce *CommandError
	if errors.As(err, &ce) {
		return err
	}
	return &CommandError{
		Message: api.MessageOf(err, err.Error()),
		Route:   session.RouteFor(err),
		Err:     err,
	}
}

// guard 检查登录状态与角色，未知角色只能使用公开命令
func guard(a *App, adminOnly bool) error {
	if a == nil || !a.Session.Authenticated() {
		return explain(session.ErrNotAuthenticated)
	}
	role := a.Session.Role()
	if role == model.RoleUnknown {
		return &CommandError{Message: "当前角色无权访问", Route: session.RouteLanding, Err: service.ErrForbidden}
	}
	if adminOnly && role != model.RoleAdmin {
		return &CommandError{Message: service.ErrForbidden.Error(), Route: a.Session.HomeRoute(), Err: service.ErrForbidden}
	}
	return nil
}

func out(cmd *cobra.Command) io.Writer {
	return cmd.OutOrStdout()
}

// prompter 从命令输入逐行读取
type prompter struct {
	r *bufio.Reader
	w io.Writer
}

func newPrompter(cmd *cobra.Command) *prompter {
	return &prompter{r: bufio.NewReader(cmd.InOrStdin()), w: cmd.OutOrStdout()}
}

func (p *prompter) ask(label string) (string, error) {
	fmt.Fprintf(p.w, "%s: ", label)
	line, err := p.r.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("读取输入失败: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// fill 空值时提示输入
func (p *prompter) fill(value *string, label string) error {
	if *value != "" {
		return nil
	}
	v, err := p.ask(label)
	if err != nil {
		return err
	}
	*value = v
	return nil
}

func (p *prompter) confirm(label string) (bool, error) {
	v, err := p.ask(label + " [y/N]")
	if err != nil {
		if errors.Is(err, io.EOF) {
			return false, nil
		}
		return false, err
	}
	switch strings.ToLower(v) {
	case "y", "yes", "s", "si", "sí":
		return true, nil
	}
	return false, nil
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
