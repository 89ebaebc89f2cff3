package middleware

import (
	"runtime/debug"

	"github.com/gofiber/fiber/v2"
	httpx "github.com/voxflow/voxflow/pkg/http"
	"github.com/voxflow/voxflow/pkg/log"
)

// ExceptionMiddleware 异常中间件
// 捕获 panic 错误，返回 500 状态码和错误信息
func ExceptionMiddleware(c *fiber.Ctx) error {
	defer func() {
		if err := recover(); err != nil {
			_ = httpx.WithRepErr(c, httpx.InternalError.Code, errorToString(err), c.Path())
			log.Errorf("panic: %v\n%s", err, debug.Stack())
		}
	}()

	return c.Next()
}

func errorToString(err any) string {
	switch v := err.(type) {
	case error:
		// 一律返回服务器错误，避免返回堆栈错误给客户端
		return httpx.InternalError.Msg
	case string:
		return v
	default:
		_ = v
		return httpx.InternalError.Msg
	}
}
