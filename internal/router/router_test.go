package router_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/user/cinedash/internal/api"
	"github.com/user/cinedash/internal/config"
	"github.com/user/cinedash/internal/favorites"
	"github.com/user/cinedash/internal/handler"
	"github.com/user/cinedash/internal/model"
	"github.com/user/cinedash/internal/profile"
	"github.com/user/cinedash/internal/repository"
	"github.com/user/cinedash/internal/router"
	"github.com/user/cinedash/internal/service"
	"github.com/user/cinedash/internal/session"
	"github.com/user/cinedash/internal/storage"
)

type testEnv struct {
	srv    *httptest.Server
	repos  *repository.Repositories
	client *api.Client
}

func startTestServer(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repos := repository.NewRepositories(repository.NewDB(model.DefaultRoleIDs()))
	if err := repos.Seed(); err != nil {
		t.Fatalf("seed: %v", err)
	}
	cfg := &config.Config{AppSecret: "test-secret", JWTExpiry: time.Hour}
	srv := httptest.NewServer(router.NewEngine(handler.NewHandler(repos, cfg, nil), nil))
	t.Cleanup(srv.Close)

	return &testEnv{srv: srv, repos: repos, client: api.NewClient(srv.URL)}
}

func (e *testEnv) session(t *testing.T, mem storage.Storage) *session.Store {
	t.Helper()
	hydrator := favorites.NewHydrator(e.client, e.srv.URL, 3, nil)
	return session.NewStore(e.client, mem, hydrator, model.DefaultRoleIDs(), nil)
}

func TestLoginHydratesFavoritesAndRestores(t *testing.T) {
	env := startTestServer(t)
	mem := storage.NewMemoryStorage()
	store := env.session(t, mem)
	ctx := context.Background()

	p, err := store.Login(ctx, repository.DemoUserEmail, repository.DemoUserPassword)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if store.Role() != model.RoleUser {
		t.Fatalf("expected user role, got %s", store.Role())
	}
	if len(p.Favorites) != 1 || p.Favorites[0].Bare() || p.Favorites[0].Title != "El laberinto del fauno" {
		t.Fatalf("expected hydrated favorite, got %+v", p.Favorites)
	}
	if p.Favorites[0].Poster != env.srv.URL+"/uploads/laberinto.jpg" {
		t.Fatalf("expected absolute poster, got %q", p.Favorites[0].Poster)
	}

	restored := env.session(t, mem)
	if err := restored.Restore(ctx); err != nil {
		t.Fatalf("restore: %v", err)
	}
	if got := restored.Principal(); got == nil || got.Token != p.Token || len(got.Favorites) != 1 {
		t.Fatalf("unexpected restored principal %+v", got)
	}
}

func TestBadCredentials(t *testing.T) {
	env := startTestServer(t)
	store := env.session(t, storage.NewMemoryStorage())

	_, err := store.Login(context.Background(), repository.DemoUserEmail, "wrong")
	if !api.IsUnauthorized(err) {
		t.Fatalf("expected 401, got %v", err)
	}
	if api.MessageOf(err, "") != "Credenciales inválidas" {
		t.Fatalf("expected server message, got %q", api.MessageOf(err, ""))
	}
}

func TestFavoritesRoundTripThroughServer(t *testing.T) {
	env := startTestServer(t)
	store := env.session(t, storage.NewMemoryStorage())
	ctx := context.Background()

	p, err := store.Login(ctx, repository.DemoUserEmail, repository.DemoUserPassword)
	if err != nil {
		t.Fatalf("login: %v", err)
	}

	movies, err := env.client.ListMovies(ctx, p.Token)
	if err != nil || len(movies) != 3 {
		t.Fatalf("list movies: %v (%d)", err, len(movies))
	}

	shelf := favorites.NewShelf(favorites.NewSynchronizer(env.client, store, nil), store, env.srv.URL)
	if err := shelf.Add(ctx, &movies[1]); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := shelf.Add(ctx, &movies[1]); !errors.Is(err, favorites.ErrAlreadyFavorite) {
		t.Fatalf("expected ErrAlreadyFavorite, got %v", err)
	}

	remote := env.repos.User.FindByID(string(p.ID))
	if got := remote.Favorites.IDs(); len(got) != 2 || got[1] != string(movies[1].ID) {
		t.Fatalf("expected server to store ids, got %v", got)
	}
	if !remote.Favorites.HasBare() {
		t.Fatal("server must keep identifiers only")
	}

	if err := shelf.Remove(ctx, movies[0].ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if got := env.repos.User.FindByID(string(p.ID)).Favorites.IDs(); len(got) != 1 {
		t.Fatalf("expected 1 remote favorite, got %v", got)
	}
}

func TestProfileLifecycleThroughServer(t *testing.T) {
	env := startTestServer(t)
	store := env.session(t, storage.NewMemoryStorage())
	ctx := context.Background()

	p, err := store.Login(ctx, repository.DemoUserEmail, repository.DemoUserPassword)
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	uid := p.ID.String()
	mgr := profile.NewManager(env.client, store, nil)

	list, err := mgr.List(ctx, uid)
	if err != nil || len(list) != 1 || list[0].ID == "" {
		t.Fatalf("expected normalized seeded profile, got %+v %v", list, err)
	}

	created, err := mgr.Create(ctx, uid, profile.Input{Name: "Kids", Avatar: "kids.png"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := mgr.Create(ctx, uid, profile.Input{Name: "KIDS", Avatar: "x.png"}); !errors.Is(err, profile.ErrDuplicateName) {
		t.Fatalf("expected ErrDuplicateName, got %v", err)
	}

	updated, err := mgr.Update(ctx, uid, created.ID, profile.Input{Name: "Niños", Avatar: "kids.png"})
	if err != nil || updated.Name != "Niños" {
		t.Fatalf("update: %+v %v", updated, err)
	}

	if err := mgr.Select(created.ID); err != nil {
		t.Fatalf("select: %v", err)
	}
	yes := profile.ConfirmFunc(func(ctx context.Context, p model.Profile) (bool, error) { return true, nil })
	res, err := mgr.Delete(ctx, uid, created.ID, yes)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !res.BackToSelector {
		t.Fatal("deleting the active profile should return to the selector")
	}
	remote, _ := env.repos.Profile.List(uid)
	if len(remote) != 1 {
		t.Fatalf("expected 1 remote profile, got %d", len(remote))
	}
}

func TestAdminGuards(t *testing.T) {
	env := startTestServer(t)
	ctx := context.Background()

	user := env.session(t, storage.NewMemoryStorage())
	up, err := user.Login(ctx, repository.DemoUserEmail, repository.DemoUserPassword)
	if err != nil {
		t.Fatalf("login user: %v", err)
	}
	if _, err := env.client.ListUsers(ctx, up.Token); api.StatusOf(err) != http.StatusForbidden {
		t.Fatalf("expected 403 listing users as user, got %v", err)
	}
	admin := env.session(t, storage.NewMemoryStorage())
	ap, err := admin.Login(ctx, repository.DemoAdminEmail, repository.DemoAdminPassword)
	if err != nil {
		t.Fatalf("login admin: %v", err)
	}
	if _, err := env.client.GetUser(ctx, up.Token, ap.ID.String()); api.StatusOf(err) != http.StatusForbidden {
		t.Fatalf("expected 403 reading another user, got %v", err)
	}
	if admin.HomeRoute() != session.RouteAdmin {
		t.Fatalf("expected admin route, got %s", admin.HomeRoute())
	}

	roles, err := env.client.ListRoles(ctx, ap.Token)
	if err != nil || len(roles) != 2 {
		t.Fatalf("roles: %v %v", roles, err)
	}
	if _, err := env.client.ListRoles(ctx, "bogus"); err != nil {
		t.Fatalf("roles should be served from cache, got %v", err)
	}
}

func TestMovieAdministrationThroughServer(t *testing.T) {
	env := startTestServer(t)
	ctx := context.Background()
	admin := env.session(t, storage.NewMemoryStorage())
	if _, err := admin.Login(ctx, repository.DemoAdminEmail, repository.DemoAdminPassword); err != nil {
		t.Fatalf("login: %v", err)
	}
	movies := service.NewMovieService(env.client, admin, nil)

	created, err := movies.Create(ctx, service.MovieForm{
		Title: "Nueve reinas", Detail: "Dos estafadores.", Genres: "Thriller", Directors: "Fabián Bielinsky",
		Actors: "Ricardo Darín, Gastón Pauls", Types: "Película", Poster: "reinas.jpg",
		Link: "https://youtu.be/xyz", Year: 2000,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID == "" || created.Link != "https://www.youtube.com/embed/xyz" {
		t.Fatalf("unexpected created movie %+v", created)
	}

	if _, err := movies.Get(ctx, created.ID.String()); err != nil {
		t.Fatalf("get: %v", err)
	}
	off, err := movies.SetStatus(ctx, created.ID.String(), model.MovieStatusInactive)
	if err != nil || off.Active() {
		t.Fatalf("deactivate: %+v %v", off, err)
	}
	again, err := movies.Get(ctx, created.ID.String())
	if err != nil || again.Active() {
		t.Fatalf("expected cache evicted after update, got %+v %v", again, err)
	}

	if _, err := movies.Get(ctx, "missing"); !api.IsNotFound(err) {
		t.Fatalf("expected 404, got %v", err)
	}
}

func TestRegisterThenLogin(t *testing.T) {
	env := startTestServer(t)
	ctx := context.Background()
	anon := env.session(t, storage.NewMemoryStorage())
	users := service.NewUserService(env.client, anon, model.DefaultRoleIDs(), nil)

	form := service.RegisterForm{Name: "Lucía", Surname: "Gómez", Email: "lucia@example.com", Password: "secreto"}
	if err := users.Register(ctx, form); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := users.Register(ctx, form); api.StatusOf(err) != http.StatusConflict {
		t.Fatalf("expected 409 on duplicate email, got %v", err)
	}

	p, err := anon.Login(ctx, "lucia@example.com", "secreto")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if p.Avatar != "LG" || anon.Role() != model.RoleUser {
		t.Fatalf("unexpected registered principal %+v role %s", p, anon.Role())
	}
}

func TestDisabledAccount(t *testing.T) {
	env := startTestServer(t)
	ctx := context.Background()
	demo := env.repos.User.FindByEmail(repository.DemoUserEmail)
	disabled := model.StatusDisabled
	if _, err := env.repos.User.Update(string(demo.ID), repository.UserUpdate{Status: &disabled}); err != nil {
		t.Fatalf("disable: %v", err)
	}

	mem := storage.NewMemoryStorage()
	store := env.session(t, mem)
	_, err := store.Login(ctx, repository.DemoUserEmail, repository.DemoUserPassword)
	if !errors.Is(err, session.ErrAccountDisabled) || session.RouteFor(err) != session.RouteDisabled {
		t.Fatalf("expected disabled account, got %v", err)
	}
	if _, err := mem.Get(session.StorageKey); !errors.Is(err, storage.ErrNotFound) {
		t.Fatal("disabled account must not be persisted")
	}
}

func TestExpiredTokenSurfacesAsUnauthorized(t *testing.T) {
	env := startTestServer(t)
	_, err := env.client.ListMovies(context.Background(), "expired-token")
	if session.RouteFor(err) != session.RouteLogin {
		t.Fatalf("expected login route, got %v", err)
	}
}
