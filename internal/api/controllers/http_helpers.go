package controllers

import (
	"context"
	"strconv"

	"github.com/valyala/fasthttp"

	"github.com/taskboard/taskboard/internal/services/user"
)

// requestContext returns the context for downstream calls. The middleware
// stores a trace-propagated context on the request; fall back to Background
// when it is absent (tests calling handlers directly).
func requestContext(ctx *fasthttp.RequestCtx) context.Context {
	if stdCtx, ok := ctx.UserValue("traceCtx").(context.Context); ok {
		return stdCtx
	}
	return context.Background()
}

// requestActor returns the actor resolved by the authentication middleware.
func requestActor(ctx *fasthttp.RequestCtx) (user.Actor, bool) {
	actor, ok := ctx.UserValue("actor").(user.Actor)
	return actor, ok
}

// formValue reads a url-encoded body field. fasthttp parses the body into
// PostArgs for any method as long as the content type is form-urlencoded,
// which covers the PUT update route as well.
func formValue(ctx *fasthttp.RequestCtx, key string) string {
	return string(ctx.PostArgs().Peek(key))
}

func pathParamInt64(ctx *fasthttp.RequestCtx, key string) (int64, error) {
	val := ctx.UserValue(key)
	if val == nil {
		return 0, strconv.ErrSyntax
	}

	s, ok := val.(string)
	if !ok {
		return 0, strconv.ErrSyntax
	}

	return strconv.ParseInt(s, 10, 64)
}
