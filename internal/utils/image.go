package utils

import (
	"net/url"
	"strings"
)

// AbsoluteImageURL 海报/头像地址统一转成绝对地址
// 已经是 http(s) 开头的原样返回，否则拼接图片服务的基础地址
func AbsoluteImageURL(baseURL, ref string) string {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return ""
	}
	if strings.HasPrefix(ref, "http") {
		return ref
	}

	path := strings.TrimPrefix(ref, "/")
	escaped := (&url.URL{Path: path}).EscapedPath()
	return strings.TrimRight(baseURL, "/") + "/" + escaped
}
