package model

// MinReleaseDate 电影诞生日，上映日期必须晚于该日
var MinReleaseDate = NewDate(1895, 12, 28)

// Mpa 分级（字典表）
type Mpa struct {
	ID   int64  `json:"id" gorm:"primaryKey" binding:"required"`
	Name string `json:"name,omitempty" gorm:"type:varchar(16);not null"`
}

func (Mpa) TableName() string { return "mpa" }

// Genre 类型（字典表）
type Genre struct {
	ID   int64  `json:"id" gorm:"primaryKey" binding:"required"`
	Name string `json:"name,omitempty" gorm:"type:varchar(64);not null"`
}

func (Genre) TableName() string { return "genres" }

// Director 导演
type Director struct {
	ID   int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	Name string `json:"name" gorm:"type:varchar(255);not null" binding:"required,notblank"`
}

func (Director) TableName() string { return "directors" }

// Film 电影；Likes 为派生字段，读时聚合
type Film struct {
	ID          int64      `json:"id" gorm:"primaryKey;autoIncrement"`
	Name        string     `json:"name" gorm:"type:varchar(255);not null" binding:"required,notblank"`
	Description string     `json:"description" gorm:"type:varchar(200);not null" binding:"required,max=200"`
	ReleaseDate Date       `json:"releaseDate" gorm:"index" binding:"required,releasedate"`
	Duration    int        `json:"duration" binding:"required,gt=0"`
	MpaID       int64      `json:"-" gorm:"not null;index"`
	Mpa         *Mpa       `json:"mpa" gorm:"foreignKey:MpaID" binding:"required"`
	Genres      []Genre    `json:"genres" gorm:"many2many:film_genres;"`
	Directors   []Director `json:"directors" gorm:"many2many:film_directors;"`
	Likes       int64      `json:"likes" gorm:"-"`
}

func (Film) TableName() string { return "films" }

// Normalize 去重类型与导演（按 id），保持首次出现顺序
func (f *Film) Normalize() {
	if f.Mpa != nil {
		f.MpaID = f.Mpa.ID
	}
	f.Genres = uniqueByID(f.Genres, func(g Genre) int64 { return g.ID })
	f.Directors = uniqueByID(f.Directors, func(d Director) int64 { return d.ID })
}

func uniqueByID[T any](items []T, id func(T) int64) []T {
	seen := make(map[int64]struct{}, len(items))
	out := make([]T, 0, len(items))
	for _, it := range items {
		k := id(it)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, it)
	}
	return out
}
