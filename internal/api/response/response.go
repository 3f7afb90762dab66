// Package response writes the API's JSON bodies. Error responses keep the
// `{"message": ...}` wire shape clients already depend on; perrors values
// decide the status code.
package response

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	json "github.com/bytedance/sonic"
	"github.com/valyala/fasthttp"

	"github.com/taskboard/taskboard/internal/perrors"
)

// Generic message for failures whose detail must not leak to clients.
const InternalErrorMessage = "Server error, please try again later."

var devMode bool

// SetDevMode controls whether error responses include internal detail.
// Called once at startup.
func SetDevMode(dev bool) {
	devMode = dev
}

// JSON writes data with the given status code.
func JSON(ctx *fasthttp.RequestCtx, status int, data any) {
	body, err := json.Marshal(data)
	if err != nil {
		slog.Error("Unable to json encode response", slog.Any("error", err))
		ctx.SetStatusCode(http.StatusInternalServerError)
		return
	}

	ctx.Response.Header.Set("content-type", "application/json")
	ctx.SetStatusCode(status)
	ctx.SetBody(body)
}

// Message writes a `{"message": ...}` body with the given status code.
func Message(ctx *fasthttp.RequestCtx, status int, msg string) {
	JSON(ctx, status, map[string]string{"message": msg})
}

// Error maps err to an HTTP status and a message body. A perrors.Err decides
// its own status; anything else is a 500 with a generic message. The internal
// detail is always logged and only exposed in dev mode.
func Error(ctx *fasthttp.RequestCtx, stdCtx context.Context, err error) {
	var perr perrors.Err
	if !errors.As(err, &perr) {
		perr = perrors.NewErrInternalServerError(InternalErrorMessage, err).(perrors.Err)
	}
	perr.Print(stdCtx)

	if devMode {
		JSON(ctx, perr.HttpStatus(), map[string]string{
			"message": perr.Message,
			"error":   perr.Error(),
		})
		return
	}

	Message(ctx, perr.HttpStatus(), perr.Message)
}
