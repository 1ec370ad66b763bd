package profile

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/user/cinedash/internal/api"
	"github.com/user/cinedash/internal/model"
	"github.com/user/cinedash/internal/session"
	"github.com/user/cinedash/internal/storage"
)

type fakeClient struct {
	profiles   []model.Profile
	nextID     int
	updateResp *model.Profile

	listCalls, createCalls, updateCalls, deleteCalls int
	lastToken                                        string
	lastRequest                                      api.ProfileRequest
	err                                              error
}

func (f *fakeClient) ListProfiles(ctx context.Context, token, userID string) ([]model.Profile, error) {
	f.listCalls++
	f.lastToken = token
	if f.err != nil {
		return nil, f.err
	}
	out := make([]model.Profile, len(f.profiles))
	copy(out, f.profiles)
	return out, nil
}

func (f *fakeClient) CreateProfile(ctx context.Context, token, userID string, req api.ProfileRequest) (*model.Profile, error) {
	f.createCalls++
	f.lastRequest = req
	if f.err != nil {
		return nil, f.err
	}
	f.nextID++
	p := model.Profile{ID: model.ID(fmt.Sprintf("new-%d", f.nextID)), Name: req.Name, Avatar: req.Avatar, Kind: req.Kind}
	f.profiles = append(f.profiles, p)
	return &p, nil
}

func (f *fakeClient) UpdateProfile(ctx context.Context, token, userID, profileID string, req api.ProfileRequest) (*model.Profile, error) {
	f.updateCalls++
	f.lastRequest = req
	if f.err != nil {
		return nil, f.err
	}
	return f.updateResp, nil
}

func (f *fakeClient) DeleteProfile(ctx context.Context, token, userID, profileID string) error {
	f.deleteCalls++
	return f.err
}

type fakeAuth struct{ resp *api.LoginResponse }

func (a *fakeAuth) Login(ctx context.Context, email, password string) (*api.LoginResponse, error) {
	return a.resp, nil
}

func setup(t *testing.T, profiles ...model.Profile) (*Manager, *fakeClient, *session.Store) {
	t.Helper()
	auth := &fakeAuth{resp: &api.LoginResponse{
		Token: "tok",
		User: model.UserRecord{
			ID:       "u1",
			Status:   model.StatusActive,
			Role:     model.DefaultUserRoleID,
			Profiles: profiles,
		},
	}}
	store := session.NewStore(auth, storage.NewMemoryStorage(), nil, model.DefaultRoleIDs(), nil)
	if _, err := store.Login(context.Background(), "a", "b"); err != nil {
		t.Fatalf("login: %v", err)
	}
	client := &fakeClient{profiles: profiles}
	return NewManager(client, store, nil), client, store
}

func sample() []model.Profile {
	return []model.Profile{
		{ID: "p1", Name: "Ana", Avatar: "a1.png"},
		{ID: "p2", Name: "Kids", Avatar: "a2.png"},
	}
}

func TestListSyncsPrincipal(t *testing.T) {
	m, client, store := setup(t)
	client.profiles = sample()

	got, err := m.List(context.Background(), "u1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(got) != 2 || client.lastToken != "tok" {
		t.Fatalf("unexpected list %v token %q", got, client.lastToken)
	}
	if len(store.Principal().Profiles) != 2 {
		t.Fatal("expected principal profiles synced")
	}
}

func TestCreateRejectsCaseInsensitiveDuplicateWithoutNetwork(t *testing.T) {
	m, client, _ := setup(t, sample()...)

	_, err := m.Create(context.Background(), "u1", Input{Name: "  kIDs ", Avatar: "x.png"})
	if !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("expected ErrDuplicateName, got %v", err)
	}
	if client.createCalls != 0 || client.listCalls != 0 {
		t.Fatalf("duplicate name must not hit the network, got %d create %d list", client.createCalls, client.listCalls)
	}
}

func TestCreateRejectsAtLimit(t *testing.T) {
	var full []model.Profile
	for i := 0; i < model.MaxProfiles; i++ {
		full = append(full, model.Profile{ID: model.ID(fmt.Sprint(i)), Name: fmt.Sprintf("P%d", i), Avatar: "a.png"})
	}
	m, client, _ := setup(t, full...)

	_, err := m.Create(context.Background(), "u1", Input{Name: "Sexto", Avatar: "a.png"})
	if !errors.Is(err, ErrProfileLimit) {
		t.Fatalf("expected ErrProfileLimit, got %v", err)
	}
	if client.createCalls != 0 {
		t.Fatal("limit check must happen before the request")
	}
}

func TestCreateValidatesInput(t *testing.T) {
	m, client, _ := setup(t)
	_, err := m.Create(context.Background(), "u1", Input{Name: "Solo nombre"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
	if client.createCalls != 0 || client.listCalls != 0 {
		t.Fatal("invalid input must not hit the network")
	}
}

func TestCreateAppendsServerRecord(t *testing.T) {
	m, client, store := setup(t, sample()...)

	created, err := m.Create(context.Background(), "u1", Input{Name: "Abuela", Avatar: "a3.png"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.ID != "new-1" || client.lastRequest.Kind != model.ProfileKindStandard {
		t.Fatalf("unexpected create %+v req %+v", created, client.lastRequest)
	}
	profiles := store.Principal().Profiles
	if len(profiles) != 3 || profiles[2].ID != "new-1" {
		t.Fatalf("expected new profile appended, got %+v", profiles)
	}
}

func TestUpdateNoChangesShortCircuits(t *testing.T) {
	m, client, _ := setup(t, sample()...)

	_, err := m.Update(context.Background(), "u1", "p1", Input{Name: "Ana", Avatar: "a1.png"})
	if !errors.Is(err, ErrNoChanges) {
		t.Fatalf("expected ErrNoChanges, got %v", err)
	}
	if client.updateCalls != 0 || client.listCalls != 0 {
		t.Fatalf("no-op update must not hit the network, got %d update %d list", client.updateCalls, client.listCalls)
	}
}

func TestUpdateValidation(t *testing.T) {
	m, client, _ := setup(t, sample()...)

	if _, err := m.Update(context.Background(), "u1", "p1", Input{Name: "   "}); !errors.Is(err, ErrEmptyName) {
		t.Fatalf("expected ErrEmptyName, got %v", err)
	}
	if _, err := m.Update(context.Background(), "u1", "p1", Input{Name: "KIDS", Avatar: "a1.png"}); !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("expected ErrDuplicateName, got %v", err)
	}
	if _, err := m.Update(context.Background(), "u1", "p9", Input{Name: "Otro"}); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
	if client.updateCalls != 0 || client.listCalls != 0 {
		t.Fatal("rejected updates must not hit the network")
	}
}

func TestUpdateRenameSelfCaseOnlyIsAllowed(t *testing.T) {
	m, client, _ := setup(t, sample()...)
	if _, err := m.Update(context.Background(), "u1", "p1", Input{Name: "ANA", Avatar: "a1.png"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	if client.updateCalls != 1 {
		t.Fatalf("expected one update call, got %d", client.updateCalls)
	}
}

func TestUpdateMergesResponseWithoutRefetch(t *testing.T) {
	m, client, store := setup(t, sample()...)
	if _, err := m.List(context.Background(), "u1"); err != nil {
		t.Fatalf("list: %v", err)
	}
	client.updateResp = &model.Profile{ID: "p2", Name: "Niños", Avatar: "server.png"}

	got, err := m.Update(context.Background(), "u1", "p2", Input{Name: "Niños", Avatar: "local.png"})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if got.Avatar != "server.png" {
		t.Fatalf("expected server response merged, got %+v", got)
	}
	if client.listCalls != 1 {
		t.Fatalf("update must not re-fetch the list, got %d list calls", client.listCalls)
	}
	if store.Principal().Profiles[1].Name != "Niños" {
		t.Fatal("expected principal profiles updated")
	}
}

func TestDeleteRequiresConfirmation(t *testing.T) {
	m, client, _ := setup(t, sample()...)
	decline := ConfirmFunc(func(ctx context.Context, p model.Profile) (bool, error) { return false, nil })

	if _, err := m.Delete(context.Background(), "u1", "p1", decline); !errors.Is(err, ErrCancelled) {
		t.Fatalf("expected ErrCancelled, got %v", err)
	}
	if _, err := m.Delete(context.Background(), "u1", "p1", nil); !errors.Is(err, ErrCancelled) {
		t.Fatalf("expected ErrCancelled without confirmer, got %v", err)
	}
	if client.deleteCalls != 0 {
		t.Fatal("declined delete must not hit the network")
	}
}

func TestDeleteActiveProfileReturnsToSelector(t *testing.T) {
	m, _, store := setup(t, sample()...)
	if _, err := m.List(context.Background(), "u1"); err != nil {
		t.Fatalf("list: %v", err)
	}
	if err := m.Select("p1"); err != nil {
		t.Fatalf("select: %v", err)
	}
	if active, ok := m.ActiveProfile(); !ok || active.ID != "p1" {
		t.Fatalf("expected p1 active, got %+v", active)
	}

	accept := ConfirmFunc(func(ctx context.Context, p model.Profile) (bool, error) { return true, nil })
	res, err := m.Delete(context.Background(), "u1", "p1", accept)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !res.BackToSelector || len(res.Remaining) != 1 {
		t.Fatalf("unexpected result %+v", res)
	}
	if _, ok := m.ActiveProfile(); ok {
		t.Fatal("active profile should be cleared")
	}
	if store.Principal().ActiveProfileID != "" {
		t.Fatal("expected active profile id cleared on principal")
	}
}

func TestDeleteLastProfileReturnsToSelector(t *testing.T) {
	m, _, _ := setup(t, model.Profile{ID: "p1", Name: "Solo", Avatar: "a.png"})
	accept := ConfirmFunc(func(ctx context.Context, p model.Profile) (bool, error) { return true, nil })

	res, err := m.Delete(context.Background(), "u1", "p1", accept)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if !res.BackToSelector || len(res.Remaining) != 0 {
		t.Fatalf("unexpected result %+v", res)
	}
}

func TestDeleteOtherProfileStays(t *testing.T) {
	m, _, _ := setup(t, sample()...)
	if err := m.Select("p1"); err != nil {
		t.Fatalf("select: %v", err)
	}
	accept := ConfirmFunc(func(ctx context.Context, p model.Profile) (bool, error) { return true, nil })

	res, err := m.Delete(context.Background(), "u1", "p2", accept)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if res.BackToSelector {
		t.Fatal("deleting a non-active profile should not return to selector")
	}
}

func TestServerErrorPropagates(t *testing.T) {
	m, client, _ := setup(t, sample()...)
	client.err = &api.Error{Status: http.StatusUnauthorized, Message: "Token inválido"}

	_, err := m.List(context.Background(), "u1")
	if session.RouteFor(err) != session.RouteLogin {
		t.Fatalf("expected login route for 401, got %v", err)
	}
}

func TestSelectUnknownProfile(t *testing.T) {
	m, _, _ := setup(t, sample()...)
	if err := m.Select("zzz"); !errors.Is(err, ErrProfileNotFound) {
		t.Fatalf("expected ErrProfileNotFound, got %v", err)
	}
}

func TestCurrentFetchesWhenSessionHasNoProfiles(t *testing.T) {
	m, client, _ := setup(t)
	client.profiles = sample()

	if _, err := m.Create(context.Background(), "u1", Input{Name: "kids", Avatar: "x.png"}); !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("expected ErrDuplicateName, got %v", err)
	}
	if client.listCalls != 1 {
		t.Fatalf("expected one list call, got %d", client.listCalls)
	}
}

func TestCurrentFetchesForOtherUser(t *testing.T) {
	m, client, _ := setup(t, sample()...)
	client.profiles = []model.Profile{{ID: "x1", Name: "Otro", Avatar: "o.png"}}

	if _, err := m.Update(context.Background(), "u2", "x1", Input{Name: "Otro", Avatar: "o.png"}); !errors.Is(err, ErrNoChanges) {
		t.Fatalf("expected ErrNoChanges, got %v", err)
	}
	if client.listCalls != 1 {
		t.Fatalf("another user's profiles come from the server, got %d list calls", client.listCalls)
	}
}
