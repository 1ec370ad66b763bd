package repository

import (
	"errors"
	"sync"

	"github.com/user/cinedash/internal/model"
)

var (
	ErrNotFound         = errors.New("registro no encontrado")
	ErrEmailTaken       = errors.New("El correo ya está registrado")
	ErrDuplicateTitle   = errors.New("Ya existe una película con ese título")
	ErrProfileLimit     = errors.New("Límite de perfiles alcanzado")
	ErrDuplicateProfile = errors.New("Ya existe un perfil con ese nombre")
	ErrUnknownRole      = errors.New("Rol inválido")
)

// DB 进程内的目录数据，所有仓库共用一把读写锁
type DB struct {
	mu sync.RWMutex

	users     map[string]*User
	userOrder []string

	movies     map[string]*model.Movie
	movieOrder []string

	roles   []model.RoleRecord
	roleIDs model.RoleIDs
}

// NewDB 创建空目录，角色固定为管理员与普通用户
func NewDB(roles model.RoleIDs) *DB {
	return &DB{
		users:  make(map[string]*User),
		movies: make(map[string]*model.Movie),
		roles: []model.RoleRecord{
			{ID: model.ID(roles.Admin), Name: "admin"},
			{ID: model.ID(roles.User), Name: "user"},
		},
		roleIDs: roles,
	}
}

// Repositories 仓库集合
type Repositories struct {
	DB      *DB
	User    *UserRepository
	Profile *ProfileRepository
	Movie   *MovieRepository
	Role    *RoleRepository
}

// NewRepositories 创建仓库集合
func NewRepositories(db *DB) *Repositories {
	return &Repositories{
		DB:      db,
		User:    NewUserRepository(db),
		Profile: NewProfileRepository(db),
		Movie:   NewMovieRepository(db),
		Role:    NewRoleRepository(db),
	}
}
