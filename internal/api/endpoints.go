package api

import "net/url"

// 目录服务接口路径
const (
	PathLogin       = "/api/auth/login"
	PathRegister    = "/api/agregarUsuario"
	PathUsers       = "/api/mostrarUsuarios"
	PathUser        = "/api/usuario/"
	PathUserUpdate  = "/api/modificarUsuario/"
	PathMovies      = "/api/mostrarPelicula"
	PathMovie       = "/api/peliculas/"
	PathMovieCreate = "/api/agregarPelicula"
	PathMovieUpdate = "/api/modificarPelicula/"
	PathRoles       = "/api/roles"
	profilesSegment = "/perfiles"
)

func userPath(id string) string {
	return PathUser + url.PathEscape(id)
}

func profilesPath(userID string) string {
	return userPath(userID) + profilesSegment
}

func profilePath(userID, profileID string) string {
	return profilesPath(userID) + "/" + url.PathEscape(profileID)
}
