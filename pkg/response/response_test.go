package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/filmgraph/pkg/apperror"
)

func perform(t *testing.T, h gin.HandlerFunc) (*httptest.ResponseRecorder, Response) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/x", h)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/x", nil))
	var body Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return w, body
}

func TestError_MapsKinds(t *testing.T) {
	cases := []struct {
		err    error
		status int
		msg    string
	}{
		{apperror.NotFound("user with id %d not found", 3), http.StatusNotFound, "user with id 3 not found"},
		{apperror.FieldValidation("year", "must be a four-digit year"), http.StatusBadRequest, "year: must be a four-digit year"},
		{errors.New("db down"), http.StatusInternalServerError, "internal server error"},
	}
	for _, tc := range cases {
		w, body := perform(t, func(c *gin.Context) { Error(c, tc.err) })
		assert.Equal(t, tc.status, w.Code)
		assert.Equal(t, tc.status, body.Code)
		assert.Equal(t, tc.msg, body.Message)
	}
}

func TestBindError_DescribesFields(t *testing.T) {
	type payload struct {
		Email string `json:"email" binding:"required,email"`
		Name  string `json:"name" binding:"required,max=3"`
	}
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/x", func(c *gin.Context) {
		var p payload
		if err := c.ShouldBindJSON(&p); err != nil {
			BindError(c, err)
			return
		}
		Success(c, p)
	})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(`{"email":"nope","name":"long"}`))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "email: must be a valid email")
	assert.Contains(t, w.Body.String(), "name: must be at most 3 characters")
}

func TestSuccess_Envelope(t *testing.T) {
	w, body := perform(t, func(c *gin.Context) { Success(c, gin.H{"id": 1}) })
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, 0, body.Code)
	assert.Equal(t, map[string]any{"id": float64(1)}, body.Data)
}
