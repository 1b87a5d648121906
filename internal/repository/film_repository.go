package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/d60-Lab/filmgraph/internal/model"
	"github.com/d60-Lab/filmgraph/pkg/apperror"
)

// FilmOrder 排序方式
type FilmOrder int

const (
	// OrderByLikes 点赞数降序
	OrderByLikes FilmOrder = iota
	// OrderByReleaseDate 上映日期升序
	OrderByReleaseDate
	// OrderByID id 升序
	OrderByID
)

// FilmQuery 电影排行/检索条件，零值字段不参与过滤
type FilmQuery struct {
	IDs        []int64
	GenreID    int64
	Year       int
	DirectorID int64

	Search         string
	SearchTitle    bool
	SearchDirector bool

	Order FilmOrder
	Limit int
}

type FilmRepository interface {
	Create(ctx context.Context, f *model.Film) error
	Update(ctx context.Context, f *model.Film) error
	Get(ctx context.Context, id int64) (*model.Film, error)
	Exists(ctx context.Context, id int64) (bool, error)
	// Lock 对电影行加行锁，返回实际锁到的 id
	Lock(ctx context.Context, ids ...int64) ([]int64, error)
	Delete(ctx context.Context, id int64) error
	// Find 按条件筛选并返回带点赞数、分级、类型、导演的电影，顺序由 Order 决定，id 升序兜底
	Find(ctx context.Context, q FilmQuery) ([]model.Film, error)
	ReviewIDs(ctx context.Context, filmID int64) ([]int64, error)
}

type filmRepository struct{ db *gorm.DB }

func NewFilmRepository(db *gorm.DB) FilmRepository { return &filmRepository{db: db} }

type filmGenre struct {
	FilmID  int64
	GenreID int64
}

func (filmGenre) TableName() string { return "film_genres" }

type filmDirector struct {
	FilmID     int64
	DirectorID int64
}

func (filmDirector) TableName() string { return "film_directors" }

func (r *filmRepository) Create(ctx context.Context, f *model.Film) error {
	db := r.db.WithContext(ctx)
	if err := db.Omit("Mpa", "Genres", "Directors").Create(f).Error; err != nil {
		return err
	}
	return r.writeLinks(ctx, f)
}

func (r *filmRepository) Update(ctx context.Context, f *model.Film) error {
	db := r.db.WithContext(ctx)
	res := db.Model(&model.Film{}).Where("id = ?", f.ID).Updates(map[string]any{
		"name":         f.Name,
		"description":  f.Description,
		"release_date": f.ReleaseDate,
		"duration":     f.Duration,
		"mpa_id":       f.MpaID,
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("film with id %d not found", f.ID)
	}
	if err := r.deleteLinks(ctx, f.ID); err != nil {
		return err
	}
	return r.writeLinks(ctx, f)
}

func (r *filmRepository) writeLinks(ctx context.Context, f *model.Film) error {
	db := r.db.WithContext(ctx)
	if len(f.Genres) > 0 {
		rows := make([]filmGenre, 0, len(f.Genres))
		for _, g := range f.Genres {
			rows = append(rows, filmGenre{FilmID: f.ID, GenreID: g.ID})
		}
		if err := db.Create(&rows).Error; err != nil {
			return err
		}
	}
	if len(f.Directors) > 0 {
		rows := make([]filmDirector, 0, len(f.Directors))
		for _, d := range f.Directors {
			rows = append(rows, filmDirector{FilmID: f.ID, DirectorID: d.ID})
		}
		if err := db.Create(&rows).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *filmRepository) deleteLinks(ctx context.Context, filmID int64) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("film_id = ?", filmID).Delete(&filmGenre{}).Error; err != nil {
		return err
	}
	return db.Where("film_id = ?", filmID).Delete(&filmDirector{}).Error
}

func (r *filmRepository) Get(ctx context.Context, id int64) (*model.Film, error) {
	films, err := r.Find(ctx, FilmQuery{IDs: []int64{id}})
	if err != nil {
		return nil, err
	}
	if len(films) == 0 {
		return nil, apperror.NotFound("film with id %d not found", id)
	}
	return &films[0], nil
}

func (r *filmRepository) Exists(ctx context.Context, id int64) (bool, error) {
	return exists(ctx, r.db, "films", id)
}

func (r *filmRepository) Delete(ctx context.Context, id int64) error {
	if err := r.deleteLinks(ctx, id); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Delete(&model.Film{}, id).Error
}

func (r *filmRepository) ReviewIDs(ctx context.Context, filmID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Model(&model.Review{}).
		Where("film_id = ?", filmID).
		Order("id").
		Pluck("id", &ids).Error
	return ids, err
}

type filmRank struct {
	ID        int64
	LikeCount int64
}

func (r *filmRepository) Find(ctx context.Context, q FilmQuery) ([]model.Film, error) {
	if q.IDs != nil && len(q.IDs) == 0 {
		return []model.Film{}, nil
	}
	tx := r.db.WithContext(ctx).
		Table("films").
		Select("films.id AS id, COUNT(likes.user_id) AS like_count").
		Joins("LEFT JOIN likes ON likes.film_id = films.id").
		Group("films.id")

	if len(q.IDs) > 0 {
		tx = tx.Where("films.id IN ?", q.IDs)
	}
	if q.GenreID > 0 {
		tx = tx.Where("films.id IN (?)", r.db.Table("film_genres").Select("film_id").Where("genre_id = ?", q.GenreID))
	}
	if q.DirectorID > 0 {
		tx = tx.Where("films.id IN (?)", r.db.Table("film_directors").Select("film_id").Where("director_id = ?", q.DirectorID))
	}
	if q.Year > 0 {
		tx = tx.Where("films.release_date >= ? AND films.release_date < ?",
			model.NewDate(q.Year, 1, 1), model.NewDate(q.Year+1, 1, 1))
	}
	if q.Search != "" && (q.SearchTitle || q.SearchDirector) {
		pattern := likePattern(q.Search)
		var conds []string
		var args []any
		if q.SearchTitle {
			conds = append(conds, `LOWER(films.name) LIKE ? ESCAPE '\'`)
			args = append(args, pattern)
		}
		if q.SearchDirector {
			conds = append(conds, `films.id IN (SELECT fd.film_id FROM film_directors fd JOIN directors d ON d.id = fd.director_id WHERE LOWER(d.name) LIKE ? ESCAPE '\')`)
			args = append(args, pattern)
		}
		tx = tx.Where("("+strings.Join(conds, " OR ")+")", args...)
	}

	switch q.Order {
	case OrderByReleaseDate:
		tx = tx.Order("films.release_date ASC").Order("films.id ASC")
	case OrderByID:
		tx = tx.Order("films.id ASC")
	default:
		tx = tx.Order("like_count DESC").Order("films.id ASC")
	}
	if q.Limit > 0 {
		tx = tx.Limit(q.Limit)
	}

	var ranks []filmRank
	if err := tx.Scan(&ranks).Error; err != nil {
		return nil, err
	}
	return r.hydrate(ctx, ranks)
}

// hydrate 按 ranks 顺序加载完整电影
func (r *filmRepository) hydrate(ctx context.Context, ranks []filmRank) ([]model.Film, error) {
	out := make([]model.Film, 0, len(ranks))
	if len(ranks) == 0 {
		return out, nil
	}
	ids := make([]int64, len(ranks))
	for i, rk := range ranks {
		ids[i] = rk.ID
	}
	var films []model.Film
	err := r.db.WithContext(ctx).
		Preload("Mpa").
		Preload("Genres", func(db *gorm.DB) *gorm.DB { return db.Order("genres.id") }).
		Preload("Directors", func(db *gorm.DB) *gorm.DB { return db.Order("directors.id") }).
		Where("id IN ?", ids).
		Find(&films).Error
	if err != nil {
		return nil, err
	}
	byID := make(map[int64]model.Film, len(films))
	for _, f := range films {
		byID[f.ID] = f
	}
	for _, rk := range ranks {
		f, ok := byID[rk.ID]
		if !ok {
			continue
		}
		f.Likes = rk.LikeCount
		if f.Genres == nil {
			f.Genres = []model.Genre{}
		}
		if f.Directors == nil {
			f.Directors = []model.Director{}
		}
		out = append(out, f)
	}
	return out, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePattern(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(s)) + "%"
}

func (r *filmRepository) Lock(ctx context.Context, ids ...int64) ([]int64, error) {
	return lockIDs(ctx, r.db, "films", ids)
}
