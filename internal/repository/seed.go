package repository

import (
	"errors"

	"github.com/user/cinedash/internal/model"
)

// 演示账号
const (
	DemoAdminEmail    = "admin@cinedash.local"
	DemoAdminPassword = "admin123"
	DemoUserEmail     = "demo@cinedash.local"
	DemoUserPassword  = "demo123"
)

// Seed 写入演示数据，已存在的账号与影片会被跳过
func (r *Repositories) Seed() error {
	admin, err := r.seedUser(NewUser{
		Email: DemoAdminEmail, Password: DemoAdminPassword,
		Name: "Admin", Surname: "Cinedash", Avatar: "AC",
		Status: model.StatusActive, Role: "admin",
	})
	if err != nil {
		return err
	}
	demo, err := r.seedUser(NewUser{
		Email: DemoUserEmail, Password: DemoUserPassword,
		Name: "Demo", Surname: "User", Avatar: "DU",
		Status: model.StatusActive, Role: "user",
	})
	if err != nil {
		return err
	}

	movies := []model.Movie{
		{
			OriginalTitle: "El laberinto del fauno", Detail: "Una niña descubre un mundo mágico en la posguerra española.",
			Genres: []string{"Fantasía", "Drama"}, Directors: []string{"Guillermo del Toro"},
			Actors: []string{"Ivana Baquero", "Sergi López"}, Types: []string{"Película"},
			Poster: "uploads/laberinto.jpg", Link: "https://www.youtube.com/embed/EqYiSlkvRuw", Year: 2006,
		},
		{
			OriginalTitle: "Relatos salvajes", Detail: "Seis historias sobre la violencia y la venganza.",
			Genres: []string{"Comedia", "Thriller"}, Directors: []string{"Damián Szifron"},
			Actors: []string{"Ricardo Darín", "Érica Rivas"}, Types: []string{"Película"},
			Poster: "uploads/relatos.jpg", Link: "https://www.youtube.com/embed/3BOEmFMi7Bg", Year: 2014,
		},
		{
			OriginalTitle: "Roma", Detail: "Un año en la vida de una trabajadora doméstica en la Ciudad de México.",
			Genres: []string{"Drama"}, Directors: []string{"Alfonso Cuarón"},
			Actors: []string{"Yalitza Aparicio"}, Types: []string{"Película"},
			Poster: "uploads/roma.jpg", Link: "https://www.youtube.com/embed/6BS27ngZtxg", Year: 2018,
		},
	}

	var ids []string
	for _, m := range movies {
		m.Status = model.MovieStatusActive
		m.Owner = model.Ref(admin.ID)
		created, err := r.Movie.Create(m)
		if errors.Is(err, ErrDuplicateTitle) {
			continue
		}
		if err != nil {
			return err
		}
		ids = append(ids, string(created.ID))
	}

	if len(ids) > 0 {
		favs := ids[:1]
		if _, err := r.User.Update(string(demo.ID), UserUpdate{Favorites: &favs}); err != nil {
			return err
		}
	}
	if profiles, _ := r.Profile.List(string(demo.ID)); len(profiles) == 0 {
		if _, err := r.Profile.Create(string(demo.ID), model.Profile{Name: "Demo", Avatar: "avatar1.png"}); err != nil {
			return err
		}
	}
	return nil
}

func (r *Repositories) seedUser(in NewUser) (*model.UserRecord, error) {
	if u := r.User.FindByEmail(in.Email); u != nil {
		rec := u.UserRecord
		return &rec, nil
	}
	return r.User.Create(in)
}
