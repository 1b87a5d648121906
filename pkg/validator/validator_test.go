package validator

import (
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"

	"github.com/d60-Lab/filmgraph/internal/model"
)

func newValidate() *validator.Validate {
	v := validator.New()
	register(v)
	return v
}

func TestFilmRules(t *testing.T) {
	v := newValidate()
	type film struct {
		Name        string     `validate:"required,notblank"`
		ReleaseDate model.Date `validate:"required,releasedate"`
	}

	cases := []struct {
		name  string
		film  film
		valid bool
	}{
		{"ok", film{"Metropolis", model.NewDate(1927, 1, 10)}, true},
		{"day after cinema birthday", film{"x", model.NewDate(1895, 12, 29)}, true},
		{"cinema birthday", film{"x", model.NewDate(1895, 12, 28)}, false},
		{"missing date", film{"x", model.Date{}}, false},
		{"blank name", film{"   ", model.NewDate(2000, 1, 1)}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := v.Struct(tc.film)
			assert.Equal(t, tc.valid, err == nil, err)
		})
	}
}

func TestUserRules(t *testing.T) {
	v := newValidate()
	type user struct {
		Login    string     `validate:"required,nowhitespace"`
		Birthday model.Date `validate:"required,pastdate"`
	}
	tomorrow := time.Now().UTC().AddDate(0, 0, 1)

	assert.NoError(t, v.Struct(user{"neo", model.NewDate(1990, 5, 5)}))
	assert.Error(t, v.Struct(user{"the one", model.NewDate(1990, 5, 5)}))
	assert.Error(t, v.Struct(user{"neo\t", model.NewDate(1990, 5, 5)}))
	assert.Error(t, v.Struct(user{"neo", model.NewDate(tomorrow.Year(), tomorrow.Month(), tomorrow.Day())}))
	assert.Error(t, v.Struct(user{"neo", model.Date{}}))
}
