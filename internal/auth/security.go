package auth

import (
	"log/slog"
	"net/http"
	"reflect"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/tidwall/gjson"
	limiterpkg "github.com/ulule/limiter/v3"
	"github.com/ulule/limiter/v3/drivers/store/memory"
)

// Validator adapts validator/v10 to echo.Validator.
type Validator struct {
	validate *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New()
	v.RegisterValidation("jsondoc", validateJSONDocument)
	return &Validator{validate: v}
}

func (v *Validator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

// validateJSONDocument accepts a byte slice or string holding one well-formed
// JSON value.
func validateJSONDocument(fl validator.FieldLevel) bool {
	field := fl.Field()
	switch field.Kind() {
	case reflect.String:
		return gjson.Valid(field.String())
	case reflect.Slice:
		if field.Type().Elem().Kind() != reflect.Uint8 {
			return false
		}
		return gjson.ValidBytes(field.Bytes())
	}
	return false
}

func NewRateLimiter(perMinute int) *limiterpkg.Limiter {
	rate := limiterpkg.Rate{
		Period: time.Minute,
		Limit:  int64(perMinute),
	}
	return limiterpkg.New(memory.NewStore(), rate)
}

// RateLimitMiddleware limits requests per client IP.
func RateLimitMiddleware(limiter *limiterpkg.Limiter) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ip := c.RealIP()
			context, err := limiter.Get(c.Request().Context(), ip)
			if err != nil {
				slog.Error("rate limiter lookup failed", "error", err, "ip", ip)
				return c.JSON(http.StatusInternalServerError, map[string]string{
					"error": "rate limit error",
				})
			}

			header := c.Response().Header()
			header.Set("X-RateLimit-Limit", strconv.FormatInt(context.Limit, 10))
			header.Set("X-RateLimit-Remaining", strconv.FormatInt(context.Remaining, 10))
			header.Set("X-RateLimit-Reset", strconv.FormatInt(context.Reset, 10))

			if context.Reached {
				return c.JSON(http.StatusTooManyRequests, map[string]string{
					"error": "rate limit exceeded",
				})
			}

			return next(c)
		}
	}
}
