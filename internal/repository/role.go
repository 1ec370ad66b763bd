package repository

import "github.com/user/cinedash/internal/model"

type RoleRepository struct {
	db *DB
}

func NewRoleRepository(db *DB) *RoleRepository {
	return &RoleRepository{db: db}
}

// List 全部角色
func (r *RoleRepository) List() []model.RoleRecord {
	r.db.mu.RLock()
	defer r.db.mu.RUnlock()
	return append([]model.RoleRecord(nil), r.db.roles...)
}

// IDs 管理员与普通用户的角色 ID
func (r *RoleRepository) IDs() model.RoleIDs {
	return r.db.roleIDs
}
