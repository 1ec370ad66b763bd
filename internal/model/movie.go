package model

import "encoding/json"

// 电影上下架状态，不做物理删除
const (
	MovieStatusActive   = "activo"
	MovieStatusInactive = "inactivo"
)

// Movie 影片记录
type Movie struct {
	ID            ID       `json:"_id,omitempty"`
	OriginalTitle string   `json:"original_title"`
	Title         string   `json:"title,omitempty"`
	Detail        string   `json:"detalle"`
	Genres        []string `json:"genero"`
	Directors     []string `json:"Director"`
	Actors        []string `json:"actores"`
	Types         []string `json:"type"`
	Poster        string   `json:"poster"`
	Link          string   `json:"link"`
	Year          int      `json:"anio"`
	Status        string   `json:"estado"`
	Owner         Ref      `json:"usuario,omitempty"`
}

func (m *Movie) UnmarshalJSON(data []byte) error {
	type alias Movie
	aux := struct {
		*alias
		AltID ID `json:"id"`
	}{alias: (*alias)(m)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if m.ID == "" {
		m.ID = aux.AltID
	}
	return nil
}

// DisplayTitle 优先原名
func (m *Movie) DisplayTitle() string {
	if m.OriginalTitle != "" {
		return m.OriginalTitle
	}
	return m.Title
}

// Active 是否上架
func (m *Movie) Active() bool {
	return m.Status == MovieStatusActive
}
