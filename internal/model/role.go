package model

import "encoding/json"

// Role 会话建立时解析出的角色
type Role int

const (
	RoleUnknown Role = iota
	RoleAdmin
	RoleUser
)

func (r Role) String() string {
	switch r {
	case RoleAdmin:
		return "admin"
	case RoleUser:
		return "user"
	default:
		return "unknown"
	}
}

// 后端固定的两个角色 ID
const (
	DefaultAdminRoleID = "69366436d9ae941a18015fc0"
	DefaultUserRoleID  = "6936638cd9ae941a18015fbb"
)

// RoleIDs 管理员与普通用户的角色 ID
type RoleIDs struct {
	Admin string
	User  string
}

// DefaultRoleIDs 返回默认角色 ID
func DefaultRoleIDs() RoleIDs {
	return RoleIDs{Admin: DefaultAdminRoleID, User: DefaultUserRoleID}
}

// Resolve 其它任何值都解析为 RoleUnknown
func (ids RoleIDs) Resolve(ref Ref) Role {
	switch {
	case ref == "":
		return RoleUnknown
	case string(ref) == ids.Admin:
		return RoleAdmin
	case string(ref) == ids.User:
		return RoleUser
	default:
		return RoleUnknown
	}
}

// RoleRecord 角色列表中的一项
type RoleRecord struct {
	ID   ID     `json:"_id"`
	Name string `json:"name"`
}

func (r *RoleRecord) UnmarshalJSON(data []byte) error {
	type alias RoleRecord
	aux := struct {
		*alias
		AltID ID `json:"id"`
	}{alias: (*alias)(r)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if r.ID == "" {
		r.ID = aux.AltID
	}
	return nil
}
