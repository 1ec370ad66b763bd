package utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
)

func TestAbsoluteImageURL(t *testing.T) {
	cases := []struct {
		base, ref, want string
	}{
		{"http://api", "uploads/a.jpg", "http://api/uploads/a.jpg"},
		{"http://api/", "/uploads/a.jpg", "http://api/uploads/a.jpg"},
		{"http://api", "uploads/mi foto.jpg", "http://api/uploads/mi%20foto.jpg"},
		{"http://api", "https://cdn/x.png", "https://cdn/x.png"},
		{"http://api", "  ", ""},
	}
	for _, tc := range cases {
		if got := AbsoluteImageURL(tc.base, tc.ref); got != tc.want {
			t.Errorf("AbsoluteImageURL(%q, %q) = %q, want %q", tc.base, tc.ref, got, tc.want)
		}
	}
}

func TestIsImageRef(t *testing.T) {
	for ref, want := range map[string]bool{
		"a.jpg":           true,
		"http://x/A.JPEG": true,
		"avatar.webp":     true,
		"avatar.png ":     true,
		"avatar.gif":      false,
		"AB":              false,
		"":                false,
		"image.png.exe":   false,
	} {
		if got := IsImageRef(ref); got != want {
			t.Errorf("IsImageRef(%q) = %v, want %v", ref, got, want)
		}
	}
}

func TestInitials(t *testing.T) {
	if got := Initials("ana", "álvarez"); got != "AÁ" {
		t.Errorf("got %q", got)
	}
	if got := Initials(" luis ", ""); got != "L" {
		t.Errorf("got %q", got)
	}
}

func TestEmbedURL(t *testing.T) {
	cases := map[string]string{
		"https://www.youtube.com/watch?v=abc": "https://www.youtube.com/embed/abc",
		"https://youtu.be/abc":                "https://www.youtube.com/embed/abc",
		"https://www.youtube.com/shorts/abc":  "https://www.youtube.com/embed/abc",
		"https://www.youtube.com/embed/abc":   "https://www.youtube.com/embed/abc",
		"https://vimeo.com/123":               "https://vimeo.com/123",
		"":                                    "",
	}
	for in, want := range cases {
		if got := EmbedURL(in); got != want {
			t.Errorf("EmbedURL(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestSplitJoinList(t *testing.T) {
	got := SplitList(" Drama, ,Comedia ,")
	if len(got) != 2 || got[0] != "Drama" || got[1] != "Comedia" {
		t.Fatalf("SplitList = %v", got)
	}
	if JoinList(got) != "Drama, Comedia" {
		t.Fatalf("JoinList = %q", JoinList(got))
	}
}

func TestTTLCacheExpiry(t *testing.T) {
	c := NewTTLCache[string](2, 20*time.Millisecond)
	c.Set("a", "1")
	if v, ok := c.Get("a"); !ok || v != "1" {
		t.Fatalf("Get = %q, %v", v, ok)
	}
	time.Sleep(30 * time.Millisecond)
	if _, ok := c.Get("a"); ok {
		t.Fatal("expected entry to expire")
	}
	if c.Len() != 0 {
		t.Fatalf("expired entry should be removed, len=%d", c.Len())
	}
}

func TestTTLCacheEvictsOldest(t *testing.T) {
	c := NewTTLCache[int](2, time.Minute)
	c.Set("a", 1)
	c.Set("b", 2)
	c.Set("c", 3)
	if _, ok := c.Get("a"); ok {
		t.Fatal("expected a to be evicted")
	}
	c.Delete("b")
	if _, ok := c.Get("b"); ok {
		t.Fatal("expected b to be deleted")
	}
	c.Clear()
	if c.Len() != 0 {
		t.Fatal("expected empty cache after Clear")
	}
}

func TestErrorResponses(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		fn   func(*gin.Context, string)
		code int
		msg  string
	}{
		{Unauthorized, http.StatusUnauthorized, "Token inválido o expirado"},
		{Forbidden, http.StatusForbidden, "Acceso denegado"},
		{NotFound, http.StatusNotFound, "Recurso no encontrado"},
		{InternalServerError, http.StatusInternalServerError, "Error interno del servidor"},
	}
	for _, tc := range cases {
		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		tc.fn(c, "")

		if w.Code != tc.code {
			t.Errorf("status = %d, want %d", w.Code, tc.code)
		}
		var body ErrorBody
		if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if body.Result != "error" || body.Message != tc.msg {
			t.Errorf("body = %+v, want mensaje %q", body, tc.msg)
		}
		if !c.IsAborted() {
			t.Error("expected context to be aborted")
		}
	}
}
