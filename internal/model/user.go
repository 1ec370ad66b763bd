package model

import "encoding/json"

// AccountStatus 账号状态
type AccountStatus int

const (
	StatusDisabled AccountStatus = 0
	StatusActive   AccountStatus = 1
)

// UserRecord 远端返回的用户记录
type UserRecord struct {
	ID        ID            `json:"_id"`
	Name      string        `json:"name"`
	Surname   string        `json:"apellido"`
	Email     string        `json:"correo"`
	Avatar    string        `json:"avatar"`
	Status    AccountStatus `json:"estado"`
	Role      Ref           `json:"role"`
	Favorites FavoriteList  `json:"favoritos"`
	Profiles  []Profile     `json:"perfiles"`
}

// UnmarshalJSON 兼容 _id 与 id 两种主键字段
func (u *UserRecord) UnmarshalJSON(data []byte) error {
	type alias UserRecord
	aux := struct {
		*alias
		AltID ID `json:"id"`
	}{alias: (*alias)(u)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if u.ID == "" {
		u.ID = aux.AltID
	}
	return nil
}

// Principal 当前登录的用户及其令牌，持久化到本地存储
type Principal struct {
	ID              ID            `json:"_id"`
	Name            string        `json:"name"`
	Surname         string        `json:"apellido"`
	Email           string        `json:"correo"`
	Avatar          string        `json:"avatar"`
	Status          AccountStatus `json:"estado"`
	Role            Ref           `json:"role"`
	Token           string        `json:"token,omitempty"`
	Favorites       FavoriteList  `json:"favoritos"`
	Profiles        []Profile     `json:"perfiles"`
	ActiveProfileID ID            `json:"currentProfileId,omitempty"`
}

// NewPrincipal 合并用户记录与令牌
func NewPrincipal(u UserRecord, token string) *Principal {
	return &Principal{
		ID:        u.ID,
		Name:      u.Name,
		Surname:   u.Surname,
		Email:     u.Email,
		Avatar:    u.Avatar,
		Status:    u.Status,
		Role:      u.Role,
		Token:     token,
		Favorites: u.Favorites.Clone(),
		Profiles:  cloneProfiles(u.Profiles),
	}
}

// Disabled 账号是否被停用
func (p *Principal) Disabled() bool {
	return p.Status == StatusDisabled
}

// Clone 深拷贝，避免调用方修改会话内部状态
func (p *Principal) Clone() *Principal {
	if p == nil {
		return nil
	}
	c := *p
	c.Favorites = p.Favorites.Clone()
	c.Profiles = cloneProfiles(p.Profiles)
	return &c
}

// MergeRecord 用最新的用户记录覆盖资料字段，保留令牌和已补全的收藏
func (p *Principal) MergeRecord(u UserRecord) {
	p.Name = u.Name
	p.Surname = u.Surname
	p.Email = u.Email
	p.Avatar = u.Avatar
	p.Status = u.Status
	if u.Role != "" {
		p.Role = u.Role
	}
	if u.Profiles != nil {
		p.Profiles = cloneProfiles(u.Profiles)
	}
}

func cloneProfiles(in []Profile) []Profile {
	if in == nil {
		return nil
	}
	out := make([]Profile, len(in))
	copy(out, in)
	return out
}
