package model

import "encoding/json"

// MaxProfiles 每个用户最多的观看档案数
const MaxProfiles = 5

// ProfileKindStandard 新建档案的默认类型
const ProfileKindStandard = "estandar"

// Profile 观看档案（家庭成员）
type Profile struct {
	ID     ID     `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
	Kind   string `json:"tipo,omitempty"`
}

// UnmarshalJSON 服务端返回 _id，本地统一为 id
func (p *Profile) UnmarshalJSON(data []byte) error {
	type alias Profile
	aux := struct {
		*alias
		AltID ID `json:"_id"`
	}{alias: (*alias)(p)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if p.ID == "" {
		p.ID = aux.AltID
	}
	return nil
}
