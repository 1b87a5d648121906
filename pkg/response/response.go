package response

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/d60-Lab/filmgraph/pkg/apperror"
	"github.com/d60-Lab/filmgraph/pkg/logger"
)

// Response 统一响应结构
type Response struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{Code: 0, Message: "success", Data: data})
}

func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Response{Code: 0, Message: "success", Data: data})
}

func BadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, Response{Code: http.StatusBadRequest, Message: message})
}

func NotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, Response{Code: http.StatusNotFound, Message: message})
}

func TooManyRequests(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusTooManyRequests, Response{Code: http.StatusTooManyRequests, Message: "too many requests"})
}

// InternalError 记录日志并上报，对外只返回通用信息
func InternalError(c *gin.Context, err error) {
	logger.Error("internal error",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.String("request_id", c.GetString("request_id")),
		zap.Error(err))
	if hub := sentrygin.GetHubFromContext(c); hub != nil {
		hub.CaptureException(err)
	}
	c.JSON(http.StatusInternalServerError, Response{Code: http.StatusInternalServerError, Message: "internal server error"})
}

// Error 按业务错误类别映射状态码
func Error(c *gin.Context, err error) {
	switch apperror.KindOf(err) {
	case apperror.KindNotFound:
		NotFound(c, err.Error())
	case apperror.KindValidation:
		BadRequest(c, err.Error())
	default:
		InternalError(c, err)
	}
}

// BindError 参数绑定/校验失败，逐字段给出原因
func BindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		msgs := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			msgs = append(msgs, describeField(fe))
		}
		BadRequest(c, strings.Join(msgs, "; "))
		return
	}
	BadRequest(c, err.Error())
}

func describeField(fe validator.FieldError) string {
	field := fe.Field()
	if field != "" {
		field = strings.ToLower(field[:1]) + field[1:]
	}
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s: is required", field)
	case "email":
		return fmt.Sprintf("%s: must be a valid email", field)
	case "max":
		return fmt.Sprintf("%s: must be at most %s characters", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s: must be greater than %s", field, fe.Param())
	case "nowhitespace":
		return fmt.Sprintf("%s: must not contain whitespace", field)
	case "notblank":
		return fmt.Sprintf("%s: must not be blank", field)
	case "pastdate":
		return fmt.Sprintf("%s: must be in the past", field)
	case "releasedate":
		return fmt.Sprintf("%s: must be after 1895-12-28", field)
	default:
		return fmt.Sprintf("%s: failed on %s", field, fe.Tag())
	}
}
