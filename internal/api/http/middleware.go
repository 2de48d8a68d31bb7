package http

import (
	"context"
	"errors"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/trend-blog/internal/observability"
	apperrors "github.com/spec-kit/trend-blog/pkg/util"
)

// RegisterMiddlewares attaches global middlewares such as error handling and logging.
func RegisterMiddlewares(app *fiber.App, logger *zap.Logger, metrics *observability.Metrics, timeout time.Duration) {
	if timeout > 0 {
		app.Use(requestTimeoutMiddleware(timeout))
	}
	app.Use(errorHandlingMiddleware(logger, metrics))
	app.Use(observability.RequestLogger(logger, metrics))
}

func requestTimeoutMiddleware(timeout time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx, cancel := context.WithTimeout(c.UserContext(), timeout)
		defer cancel()
		c.SetUserContext(ctx)
		return c.Next()
	}
}

// errorHandlingMiddleware renders every failure as the JSON envelope
// {success:false, message, details?}. Nothing propagates to the platform.
func errorHandlingMiddleware(logger *zap.Logger, metrics *observability.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) (err error) {
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic recovered", zap.Any("panic", r), zap.ByteString("stack", debug.Stack()))
				err = apperrors.NewInternalError(nil)
			}
			if err != nil {
				domainErr := asDomainError(err)
				if metrics != nil {
					metrics.RecordError(c.Path(), c.Method(), domainErr.Code)
				}
				if domainErr.HTTPStatus >= 500 {
					logger.Error("request failed", zap.Error(domainErr))
				}

				response := fiber.Map{
					"success": false,
					"message": domainErr.Message,
				}
				if domainErr.Details != "" {
					response["details"] = domainErr.Details
				}
				c.Status(domainErr.HTTPStatus)
				_ = c.JSON(response)
				err = nil
			}
		}()
		return c.Next()
	}
}

// asDomainError also localizes fiber's own router errors (405, 404) so the
// envelope stays uniform.
func asDomainError(err error) *apperrors.DomainError {
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		return &apperrors.DomainError{
			Code:       http.StatusText(fiberErr.Code),
			Message:    statusMessage(fiberErr.Code),
			HTTPStatus: fiberErr.Code,
		}
	}
	return apperrors.ToDomainError(err)
}

func statusMessage(status int) string {
	switch status {
	case http.StatusMethodNotAllowed:
		return "허용되지 않는 메서드입니다."
	case http.StatusNotFound:
		return "요청한 리소스를 찾을 수 없습니다."
	case http.StatusBadRequest:
		return "요청 형식이 올바르지 않습니다."
	case http.StatusUnauthorized:
		return "인증이 필요합니다."
	case http.StatusForbidden:
		return "접근 권한이 없습니다."
	default:
		return "서버 오류가 발생했습니다."
	}
}
