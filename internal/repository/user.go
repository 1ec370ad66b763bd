package repository

import (
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/user/cinedash/internal/model"
)

// User 带密码哈希的用户，哈希不对外输出
type User struct {
	model.UserRecord
	PasswordHash string
}

// NewUser 注册参数
type NewUser struct {
	Email    string
	Password string
	Name     string
	Surname  string
	Avatar   string
	Status   model.AccountStatus
	Role     string
}

// UserUpdate 可修改的字段，nil 表示不修改
type UserUpdate struct {
	Name      *string
	Surname   *string
	Email     *string
	Avatar    *string
	Status    *model.AccountStatus
	Role      *string
	Favorites *[]string
}

type UserRepository struct {
	db *DB
}

func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create 创建用户，邮箱不区分大小写唯一
func (r *UserRepository) Create(in NewUser) (*model.UserRecord, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	if r.db.findByEmailLocked(in.Email) != nil {
		return nil, ErrEmailTaken
	}
	roleID, err := r.db.resolveRoleLocked(in.Role)
	if err != nil {
		return nil, err
	}

	u := &User{
		UserRecord: model.UserRecord{
			ID:        model.ID(uuid.NewString()),
			Name:      in.Name,
			Surname:   in.Surname,
			Email:     strings.TrimSpace(in.Email),
			Avatar:    in.Avatar,
			Status:    in.Status,
			Role:      model.Ref(roleID),
			Favorites: model.FavoriteList{},
			Profiles:  []model.Profile{},
		},
		PasswordHash: string(hash),
	}
	r.db.users[string(u.ID)] = u
	r.db.userOrder = append(r.db.userOrder, string(u.ID))

	rec := copyRecord(u)
	return &rec, nil
}

// FindByEmail 根据邮箱查找用户，不存在返回 nil
func (r *UserRepository) FindByEmail(email string) *User {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	u := r.db.findByEmailLocked(email)
	if u == nil {
		return nil
	}
	c := *u
	c.UserRecord = copyRecord(u)
	return &c
}

// CheckPassword 验证密码
func (r *UserRepository) CheckPassword(u *User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// FindByID 根据 ID 查找用户，不存在返回 nil
func (r *UserRepository) FindByID(id string) *model.UserRecord {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	u, ok := r.db.users[id]
	if !ok {
		return nil
	}
	rec := copyRecord(u)
	return &rec
}

// List 按创建顺序返回全部用户
func (r *UserRepository) List() []model.UserRecord {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()

	out := make([]model.UserRecord, 0, len(r.db.userOrder))
	for _, id := range r.db.userOrder {
		out = append(out, copyRecord(r.db.users[id]))
	}
	return out
}

// Update 修改用户，收藏整体替换为 ID 列表
func (r *UserRepository) Update(id string, in UserUpdate) (*model.UserRecord, error) {
	r.db.mu.Lock()
	defer r.db.mu.Unlock()

	u, ok := r.db.users[id]
	if !ok {
		return nil, ErrNotFound
	}

	if in.Email != nil {
		if other := r.db.findByEmailLocked(*in.Email); other != nil && other.ID != u.ID {
			return nil, ErrEmailTaken
		}
	}
	var roleID string
	if in.Role != nil {
		var err error
		if roleID, err = r.db.resolveRoleLocked(*in.Role); err != nil {
			return nil, err
		}
	}

	if in.Name != nil {
		u.Name = *in.Name
	}
	if in.Surname != nil {
		u.Surname = *in.Surname
	}
	if in.Email != nil {
		u.Email = strings.TrimSpace(*in.Email)
	}
	if in.Avatar != nil {
		u.Avatar = *in.Avatar
	}
	if in.Status != nil {
		u.Status = *in.Status
	}
	if in.Role != nil {
		u.Role = model.Ref(roleID)
	}
	if in.Favorites != nil {
		favs := make(model.FavoriteList, 0, len(*in.Favorites))
		for _, fid := range *in.Favorites {
			if !favs.Contains(model.ID(fid)) {
				favs = append(favs, model.BareFavorite(model.ID(fid)))
			}
		}
		u.Favorites = favs
	}

	rec := copyRecord(u)
	return &rec, nil
}

func (db *DB) findByEmailLocked(email string) *User {
	email = strings.TrimSpace(email)
	for _, id := range db.userOrder {
		if u := db.users[id]; strings.EqualFold(u.Email, email) {
			return u
		}
	}
	return nil
}

// resolveRoleLocked 接受角色 ID 或角色名
func (db *DB) resolveRoleLocked(role string) (string, error) {
	role = strings.TrimSpace(role)
	for _, r := range db.roles {
		if string(r.ID) == role || strings.EqualFold(r.Name, role) {
			return string(r.ID), nil
		}
	}
	return "", ErrUnknownRole
}

func copyRecord(u *User) model.UserRecord {
	rec := u.UserRecord
	rec.Favorites = u.Favorites.Clone()
	rec.Profiles = make([]model.Profile, len(u.Profiles))
	copy(rec.Profiles, u.Profiles)
	return rec
}
