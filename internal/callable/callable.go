package callable

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/anonto42/grace-notes/backend/internal/logger"
	"github.com/anonto42/grace-notes/backend/internal/metrics"
	"github.com/labstack/echo/v4"
)

// AuthContextKey is the echo context key the auth middleware stores the
// verified caller under.
const AuthContextKey = "callableAuth"

// Auth describes a verified caller.
type Auth struct {
	UID    string
	Claims map[string]any
}

// Request is a decoded callable request. Auth is nil for anonymous callers.
type Request struct {
	Data json.RawMessage
	Auth *Auth
}

// Func implements one callable function.
type Func func(ctx context.Context, req Request) (any, error)

type requestBody struct {
	Data json.RawMessage `json:"data"`
}

// AuthFrom returns the verified caller stored on c, or nil.
func AuthFrom(c echo.Context) *Auth {
	if a, ok := c.Get(AuthContextKey).(*Auth); ok {
		return a
	}
	return nil
}

// Handler adapts fn to an echo handler speaking the callable protocol.
// Errors that are not *Error, and panics, are reported as ErrInternal.
func Handler(name string, fn Func) echo.HandlerFunc {
	return func(c echo.Context) error {
		var body requestBody
		if err := json.NewDecoder(c.Request().Body).Decode(&body); err != nil {
			return WriteError(c, name, NewError(CodeInvalidArgument, "Bad Request"))
		}

		req := Request{Data: body.Data, Auth: AuthFrom(c)}
		result, err := invoke(c.Request().Context(), fn, req)
		if err != nil {
			return WriteError(c, name, err)
		}

		metrics.RecordCallable(name, "OK")
		return c.JSON(http.StatusOK, echo.Map{"result": result})
	}
}

func invoke(ctx context.Context, fn Func, req Request) (result any, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn(ctx, req)
}

// WriteError writes err in the callable error envelope.
func WriteError(c echo.Context, name string, err error) error {
	var cerr *Error
	if !errors.As(err, &cerr) {
		logger.From(c.Request().Context()).Error("Unhandled error in callable function",
			slog.String("function", name),
			slog.String("error", err.Error()))
		cerr = ErrInternal
	}

	status := cerr.Code.Status()
	metrics.RecordCallable(name, status)
	return c.JSON(cerr.Code.HTTPStatus(), echo.Map{"error": errorBody{
		Status:  status,
		Message: cerr.Message,
		Details: cerr.Details,
	}})
}
