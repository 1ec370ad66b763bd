package model

import (
	"bytes"
	"encoding/json"
)

// MaxFavorites 每个用户最多收藏数
const MaxFavorites = 5

// Favorite 收藏项。远端只保存 ID，标题/海报/简介在本地补全
type Favorite struct {
	ID     ID     `json:"id"`
	Title  string `json:"title"`
	Poster string `json:"poster"`
	Detail string `json:"detalle"`

	bare bool
}

// BareFavorite 只有 ID、尚未补全的收藏项
func BareFavorite(id ID) Favorite {
	return Favorite{ID: id, bare: true}
}

// Bare 是否尚未补全
func (f Favorite) Bare() bool {
	return f.bare
}

// FavoriteList 收藏列表。JSON 中的字符串元素视为未补全的 ID
type FavoriteList []Favorite

func (l *FavoriteList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}

	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	list := make(FavoriteList, 0, len(raw))
	for _, item := range raw {
		item = bytes.TrimSpace(item)
		if len(item) > 0 && item[0] == '{' {
			var wire struct {
				ID     ID     `json:"id"`
				AltID  ID     `json:"_id"`
				Title  string `json:"title"`
				Poster string `json:"poster"`
				Detail string `json:"detalle"`
			}
			if err := json.Unmarshal(item, &wire); err != nil {
				return err
			}
			if wire.ID == "" {
				wire.ID = wire.AltID
			}
			list = append(list, Favorite{ID: wire.ID, Title: wire.Title, Poster: wire.Poster, Detail: wire.Detail})
			continue
		}

		var id ID
		if err := id.UnmarshalJSON(item); err != nil {
			return err
		}
		list = append(list, BareFavorite(id))
	}

	*l = list
	return nil
}

// MarshalJSON 未补全的项原样写回字符串 ID
func (l FavoriteList) MarshalJSON() ([]byte, error) {
	out := make([]any, 0, len(l))
	for _, f := range l {
		if f.bare {
			out = append(out, f.ID)
			continue
		}
		out = append(out, struct {
			ID     ID     `json:"id"`
			Title  string `json:"title"`
			Poster string `json:"poster"`
			Detail string `json:"detalle"`
		}{f.ID, f.Title, f.Poster, f.Detail})
	}
	return json.Marshal(out)
}

// IDs 只取 ID，即远端保存的形式
func (l FavoriteList) IDs() []string {
	ids := make([]string, 0, len(l))
	for _, f := range l {
		ids = append(ids, string(f.ID))
	}
	return ids
}

// HasBare 是否存在未补全的项
func (l FavoriteList) HasBare() bool {
	for _, f := range l {
		if f.bare {
			return true
		}
	}
	return false
}

// Contains 按字符串比较 ID
func (l FavoriteList) Contains(id ID) bool {
	for _, f := range l {
		if SameID(f.ID, id) {
			return true
		}
	}
	return false
}

// Without 返回去掉指定 ID 后的新列表
func (l FavoriteList) Without(id ID) FavoriteList {
	out := make(FavoriteList, 0, len(l))
	for _, f := range l {
		if !SameID(f.ID, id) {
			out = append(out, f)
		}
	}
	return out
}

func (l FavoriteList) Clone() FavoriteList {
	if l == nil {
		return nil
	}
	out := make(FavoriteList, len(l))
	copy(out, l)
	return out
}
