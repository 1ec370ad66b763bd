package repository

import (
	"strings"

	"github.com/google/uuid"

	"github.com/user/cinedash/internal/model"
)

type ProfileRepository struct {
	db *DB
}

func NewProfileRepository(db *DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// List 用户的全部档案
func (r *ProfileRepository) List(userID string) ([]model.Profile, error) {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	u, ok := r.db.users[userID]
	if !ok {
		return nil, ErrNotFound
	}
	out := make([]model.Profile, len(u.Profiles))
	copy(out, u.Profiles)
	return out, nil
}

// Create 新建档案，服务端分配 ID
func (r *ProfileRepository) Create(userID string, p model.Profile) (*model.Profile, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	u, ok := r.db.users[userID]
	if !ok {
		return nil, ErrNotFound
	}
	if len(u.Profiles) >= model.MaxProfiles {
		return nil, ErrProfileLimit
	}
	if profileNameTaken(u.Profiles, p.Name, "") {
		return nil, ErrDuplicateProfile
	}

	p.ID = model.ID(uuid.NewString())
	if p.Kind == "" {
		p.Kind = model.ProfileKindStandard
	}
	u.Profiles = append(u.Profiles, p)
	return &p, nil
}

// Update 修改名称与头像，空值表示不修改
func (r *ProfileRepository) Update(userID, profileID, name, avatar string) (*model.Profile, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	u, ok := r.db.users[userID]
	if !ok {
		return nil, ErrNotFound
	}
	for i := range u.Profiles {
		if !model.SameID(u.Profiles[i].ID, model.ID(profileID)) {
			continue
		}
		if name != "" {
			if profileNameTaken(u.Profiles, name, u.Profiles[i].ID) {
				return nil, ErrDuplicateProfile
			}
			u.Profiles[i].Name = name
		}
		if avatar != "" {
			u.Profiles[i].Avatar = avatar
		}
		p := u.Profiles[i]
		return &p, nil
	}
	return nil, ErrNotFound
}

// Delete 删除档案
func (r *ProfileRepository) Delete(userID, profileID string) error {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	u, ok := r.db.users[userID]
	if !ok {
		return ErrNotFound
	}
	for i := range u.Profiles {
		if model.SameID(u.Profiles[i].ID, model.ID(profileID)) {
			u.Profiles = append(u.Profiles[:i], u.Profiles[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

func profileNameTaken(profiles []model.Profile, name string, except model.ID) bool {
	name = strings.TrimSpace(name)
	for _, p := range profiles {
		if except != "" && model.SameID(p.ID, except) {
			continue
		}
		if strings.EqualFold(strings.TrimSpace(p.Name), name) {
			return true
		}
	}
	return false
}
