package service

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

var (
	ErrForbidden      = errors.New("需要管理员权限")
	ErrInvalidInput   = errors.New("表单信息不完整")
	ErrDuplicateTitle = errors.New("已存在同名影片")
	ErrInvalidStatus  = errors.New("无效的影片状态")
	ErrInvalidAvatar  = errors.New("头像必须是 JPG、JPEG、PNG 或 WEBP 图片")
	ErrUnknownRole    = errors.New("请选择有效的角色")
	ErrDuplicateEmail = errors.New("该邮箱已被其他用户使用")
)

// validationError 把 validator 的字段错误合并为一条提示
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return fmt.Errorf("%w: %s (%s)", ErrInvalidInput, fe.Field(), fe.Tag())
	}
	return fmt.Errorf("%w: %v", ErrInvalidInput, err)
}
