package utils

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var imageExtPattern = regexp.MustCompile(`(?i)\.(jpg|jpeg|png|webp)$`)

// IsImageRef 头像地址只接受 jpg/jpeg/png/webp
func IsImageRef(ref string) bool {
	return imageExtPattern.MatchString(strings.TrimSpace(ref))
}

// Initials 没有头像时用姓名首字母代替
func Initials(name, surname string) string {
	return firstLetter(name) + firstLetter(surname)
}

func firstLetter(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	r, _ := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r))
}

// EmbedURL 把 YouTube 观看链接转换为可嵌入的播放地址
func EmbedURL(link string) string {
	link = strings.TrimSpace(link)
	switch {
	case link == "":
		return ""
	case strings.Contains(link, "embed"):
		return link
	case strings.Contains(link, "watch?v="):
		return strings.Replace(link, "watch?v=", "embed/", 1)
	case strings.Contains(link, "/shorts/"):
		return strings.Replace(link, "/shorts/", "/embed/", 1)
	case strings.Contains(link, "youtu.be/"):
		return strings.Replace(link, "youtu.be/", "www.youtube.com/embed/", 1)
	default:
		return link
	}
}

// SplitList 逗号分隔的表单字段拆成列表，去掉空项
func SplitList(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// JoinList SplitList 的逆操作，用于回填编辑表单
func JoinList(items []string) string {
	return strings.Join(items, ", ")
}
