package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/d60-Lab/filmgraph/internal/model"
	"github.com/d60-Lab/filmgraph/pkg/apperror"
)

type DirectorRepository interface {
	Create(ctx context.Context, d *model.Director) error
	Update(ctx context.Context, d *model.Director) error
	Get(ctx context.Context, id int64) (*model.Director, error)
	List(ctx context.Context) ([]model.Director, error)
	Exists(ctx context.Context, id int64) (bool, error)
	// Missing 返回 ids 中不存在的导演 id
	Missing(ctx context.Context, ids []int64) ([]int64, error)
	// Lock 对导演行加行锁，返回实际锁到的 id
	Lock(ctx context.Context, ids ...int64) ([]int64, error)
	Delete(ctx context.Context, id int64) error
}

type directorRepository struct{ db *gorm.DB }

func NewDirectorRepository(db *gorm.DB) DirectorRepository { return &directorRepository{db: db} }

func (r *directorRepository) Create(ctx context.Context, d *model.Director) error {
	return r.db.WithContext(ctx).Create(d).Error
}

func (r *directorRepository) Update(ctx context.Context, d *model.Director) error {
	res := r.db.WithContext(ctx).Model(&model.Director{}).Where("id = ?", d.ID).Update("name", d.Name)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("director with id %d not found", d.ID)
	}
	return nil
}

func (r *directorRepository) Get(ctx context.Context, id int64) (*model.Director, error) {
	var d model.Director
	if err := r.db.WithContext(ctx).First(&d, id).Error; err != nil {
		return nil, notFoundOr(err, "director with id %d not found", id)
	}
	return &d, nil
}

func (r *directorRepository) List(ctx context.Context) ([]model.Director, error) {
	res := []model.Director{}
	err := r.db.WithContext(ctx).Order("id").Find(&res).Error
	return res, err
}

func (r *directorRepository) Exists(ctx context.Context, id int64) (bool, error) {
	return exists(ctx, r.db, "directors", id)
}

func (r *directorRepository) Missing(ctx context.Context, ids []int64) ([]int64, error) {
	return missingIDs(ctx, r.db, "directors", ids)
}

func (r *directorRepository) Lock(ctx context.Context, ids ...int64) ([]int64, error) {
	return lockIDs(ctx, r.db, "directors", ids)
}

func (r *directorRepository) Delete(ctx context.Context, id int64) error {
	db := r.db.WithContext(ctx)
	if err := db.Where("director_id = ?", id).Delete(&filmDirector{}).Error; err != nil {
		return err
	}
	return db.Delete(&model.Director{}, id).Error
}

func missingIDs(ctx context.Context, db *gorm.DB, table string, ids []int64) ([]int64, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var found []int64
	if err := db.WithContext(ctx).Table(table).Where("id IN ?", ids).Pluck("id", &found).Error; err != nil {
		return nil, err
	}
	have := make(map[int64]struct{}, len(found))
	for _, id := range found {
		have[id] = struct{}{}
	}
	var missing []int64
	for _, id := range ids {
		if _, ok := have[id]; !ok {
			missing = append(missing, id)
		}
	}
	return missing, nil
}
