package model

import (
	"bytes"
	"encoding/json"
	"strings"
)

// ID 远端标识符，兼容 JSON 字符串与数字两种写法
type ID string

// UnmarshalJSON 数字形式的 ID 按字符串保存
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string {
	return string(id)
}

// SameID 按字符串比较两个标识符
func SameID(a, b ID) bool {
	return strings.TrimSpace(string(a)) == strings.TrimSpace(string(b))
}

// Ref 引用字段：可能是纯字符串 ID，也可能是带 _id 的已展开对象
type Ref string

// UnmarshalJSON 对象形式只保留 _id（或 id）
func (r *Ref) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '{' {
		var obj struct {
			ID    ID `json:"_id"`
			AltID ID `json:"id"`
		}
		if err := json.Unmarshal(data, &obj); err != nil {
			return err
		}
		if obj.ID == "" {
			obj.ID = obj.AltID
		}
		*r = Ref(obj.ID)
		return nil
	}
	var id ID
	if err := id.UnmarshalJSON(data); err != nil {
		return err
	}
	*r = Ref(id)
	return nil
}

func (r Ref) String() string {
	return string(r)
}
