package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/user/cinedash/internal/middleware"
	"github.com/user/cinedash/internal/model"
	"github.com/user/cinedash/internal/utils"
)

type movieRequest struct {
	OriginalTitle string    `json:"original_title" binding:"required"`
	Title         string    `json:"title"`
	Detail        string    `json:"detalle"`
	Genres        []string  `json:"genero"`
	Directors     []string  `json:"Director"`
	Actors        []string  `json:"actores"`
	Types         []string  `json:"type"`
	Poster        string    `json:"poster"`
	Link          string    `json:"link"`
	Year          int       `json:"anio" binding:"omitempty,gte=1888,lte=2100"`
	Status        string    `json:"estado" binding:"omitempty,oneof=activo inactivo"`
	Owner         model.Ref `json:"usuario"`
}

func (r movieRequest) toMovie() model.Movie {
	return model.Movie{
		OriginalTitle: strings.TrimSpace(r.OriginalTitle),
		Title:         r.Title,
		Detail:        r.Detail,
		Genres:        r.Genres,
		Directors:     r.Directors,
		Actors:        r.Actors,
		Types:         r.Types,
		Poster:        r.Poster,
		Link:          r.Link,
		Year:          r.Year,
		Status:        r.Status,
		Owner:         r.Owner,
	}
}

// ListMovies 全部影片
func (h *Handler) ListMovies(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"peliculas": h.Repos.Movie.List()})
}

// GetMovie 影片详情
func (h *Handler) GetMovie(c *gin.Context) {
	movie := h.Repos.Movie.FindByID(c.Param("id"))
	if movie == nil {
		utils.NotFound(c, "Película no encontrada")
		return
	}
	c.JSON(http.StatusOK, gin.H{"pelicula": movie})
}

// CreateMovie 上传影片（管理员），未指定上传者时记为当前用户
func (h *Handler) CreateMovie(c *gin.Context) {
	var req movieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Datos de la película inválidos")
		return
	}

	movie := req.toMovie()
	if movie.Owner == "" {
		movie.Owner = model.Ref(middleware.GetUserID(c))
	}

	created, err := h.Repos.Movie.Create(movie)
	if err != nil {
		h.fail(c, err)
		return
	}
	success(c, http.StatusCreated, "Película guardada", gin.H{"pelicula": created})
}

// UpdateMovie 修改影片（管理员）
func (h *Handler) UpdateMovie(c *gin.Context) {
	var req movieRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Datos de la película inválidos")
		return
	}

	updated, err := h.Repos.Movie.Update(c.Param("id"), req.toMovie())
	if err != nil {
		h.fail(c, err)
		return
	}
	success(c, http.StatusOK, "Película actualizada", gin.H{"pelicula": updated})
}
