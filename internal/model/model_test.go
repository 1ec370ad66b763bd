package model

import (
	"encoding/json"
	"testing"
)

func TestFavoriteListMixedEntries(t *testing.T) {
	var list FavoriteList
	data := `["a1", {"_id":"b2","title":"Roma","poster":"http://x/roma.jpg","detalle":"d"}, 7]`
	if err := json.Unmarshal([]byte(data), &list); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(list) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(list))
	}
	if !list[0].Bare() || list[0].ID != "a1" {
		t.Errorf("entry 0 = %+v", list[0])
	}
	if list[1].Bare() || list[1].ID != "b2" || list[1].Title != "Roma" {
		t.Errorf("entry 1 = %+v", list[1])
	}
	if !list[2].Bare() || list[2].ID != "7" {
		t.Errorf("numeric id should be kept as string, got %+v", list[2])
	}
	if !list.HasBare() {
		t.Error("expected HasBare")
	}
	if got := list.IDs(); len(got) != 3 || got[0] != "a1" || got[1] != "b2" || got[2] != "7" {
		t.Errorf("IDs() = %v", got)
	}
}

func TestFavoriteListMarshalKeepsBareIDs(t *testing.T) {
	list := FavoriteList{
		BareFavorite("a1"),
		{ID: "b2", Title: "Roma", Poster: "p", Detail: "d"},
	}
	out, err := json.Marshal(list)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `["a1",{"id":"b2","title":"Roma","poster":"p","detalle":"d"}]`
	if string(out) != want {
		t.Fatalf("got %s, want %s", out, want)
	}
}

func TestFavoriteListNull(t *testing.T) {
	var list FavoriteList = FavoriteList{BareFavorite("x")}
	if err := json.Unmarshal([]byte(`null`), &list); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if list != nil {
		t.Fatalf("expected nil list, got %v", list)
	}
}

func TestFavoriteListContainsAndWithout(t *testing.T) {
	list := FavoriteList{BareFavorite("a"), BareFavorite("b"), BareFavorite("c")}
	if !list.Contains("b") || list.Contains("z") {
		t.Fatal("Contains mismatch")
	}
	rest := list.Without("b")
	if len(rest) != 2 || rest[0].ID != "a" || rest[1].ID != "c" {
		t.Fatalf("Without = %v", rest)
	}
	if len(list) != 3 {
		t.Fatal("Without must not modify the receiver")
	}
}

func TestRefAcceptsObjectAndNumber(t *testing.T) {
	var v struct {
		A Ref `json:"a"`
		B Ref `json:"b"`
		C Ref `json:"c"`
	}
	data := `{"a":"r1","b":{"_id":"r2","name":"admin"},"c":12}`
	if err := json.Unmarshal([]byte(data), &v); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if v.A != "r1" || v.B != "r2" || v.C != "12" {
		t.Fatalf("got %+v", v)
	}
}

func TestProfileNormalizesID(t *testing.T) {
	var profiles []Profile
	data := `[{"_id":"p1","name":"Ana","avatar":"a.png"},{"id":"p2","name":"Luis","avatar":"b.png"}]`
	if err := json.Unmarshal([]byte(data), &profiles); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if profiles[0].ID != "p1" || profiles[1].ID != "p2" {
		t.Fatalf("got %+v", profiles)
	}
	out, _ := json.Marshal(profiles[0])
	if string(out) != `{"id":"p1","name":"Ana","avatar":"a.png"}` {
		t.Fatalf("marshal = %s", out)
	}
}

func TestUserRecordDecode(t *testing.T) {
	data := `{"id":"u1","name":"Ana","apellido":"Pérez","correo":"ana@x.com","estado":0,
		"role":{"_id":"` + DefaultAdminRoleID + `"},"favoritos":["m1"],"perfiles":[{"_id":"p1","name":"Ana"}]}`
	var u UserRecord
	if err := json.Unmarshal([]byte(data), &u); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if u.ID != "u1" || u.Status != StatusDisabled || u.Role != DefaultAdminRoleID {
		t.Fatalf("got %+v", u)
	}
	if len(u.Favorites) != 1 || !u.Favorites[0].Bare() || u.Profiles[0].ID != "p1" {
		t.Fatalf("nested fields = %+v / %+v", u.Favorites, u.Profiles)
	}

	p := NewPrincipal(u, "tok")
	if !p.Disabled() || p.Token != "tok" {
		t.Fatalf("principal = %+v", p)
	}
}

func TestRoleResolve(t *testing.T) {
	ids := DefaultRoleIDs()
	cases := map[Ref]Role{
		DefaultAdminRoleID: RoleAdmin,
		DefaultUserRoleID:  RoleUser,
		"":                 RoleUnknown,
		"other":            RoleUnknown,
	}
	for ref, want := range cases {
		if got := ids.Resolve(ref); got != want {
			t.Errorf("Resolve(%q) = %s, want %s", ref, got, want)
		}
	}
}

func TestPrincipalCloneIsIndependent(t *testing.T) {
	p := &Principal{ID: "u1", Favorites: FavoriteList{BareFavorite("a")}, Profiles: []Profile{{ID: "p1"}}}
	c := p.Clone()
	c.Favorites[0].Title = "changed"
	c.Profiles[0].Name = "changed"
	if p.Favorites[0].Title != "" || p.Profiles[0].Name != "" {
		t.Fatal("clone shares state with original")
	}
}

func TestMovieDisplayTitle(t *testing.T) {
	m := &Movie{Title: "Roma (2018)"}
	if m.DisplayTitle() != "Roma (2018)" {
		t.Fatalf("fallback title = %q", m.DisplayTitle())
	}
	m.OriginalTitle = "Roma"
	if m.DisplayTitle() != "Roma" || m.Active() {
		t.Fatalf("got %q active=%v", m.DisplayTitle(), m.Active())
	}
}
