package api

import (
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/fasthttp/router"
	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
	"go.opentelemetry.io/otel/propagation"

	"github.com/taskboard/taskboard/internal/api/controllers"
	"github.com/taskboard/taskboard/internal/api/response"
)

var tracePropagator = propagation.TraceContext{}

func (s *Server) initRoutes() fasthttp.RequestHandler {
	r := router.New()

	r.GET("/api/health", func(ctx *fasthttp.RequestCtx) {
		ctx.SetStatusCode(fasthttp.StatusOK)
		_, _ = ctx.Write([]byte("OK"))
	})

	controllers.RegisterAuthRoutes(r, s.services, s.auth)
	controllers.RegisterTaskRoutes(r, s.services)

	r.NotFound = func(ctx *fasthttp.RequestCtx) {
		response.Message(ctx, fasthttp.StatusNotFound, "Unable to find the page.")
	}
	r.MethodNotAllowed = func(ctx *fasthttp.RequestCtx) {
		response.Message(ctx, fasthttp.StatusMethodNotAllowed, "Method not allowed.")
	}

	return s.withMiddlewares(r.Handler)
}

func (s *Server) withMiddlewares(next fasthttp.RequestHandler) fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		applyCORS(ctx)
		if string(ctx.Method()) == fasthttp.MethodOptions {
			ctx.SetStatusCode(fasthttp.StatusNoContent)
			return
		}

		start := time.Now()
		requestID := uuid.NewString()
		method := string(ctx.Method())
		requestURI := string(ctx.URI().FullURI())
		slog.Info("Started processing", slog.String("request_id", requestID), slog.String("method", method), slog.String("request_uri", requestURI))

		h := http.Header{}
		ctx.Request.Header.VisitAll(func(k, v []byte) {
			h[string(k)] = []string{string(v)}
		})
		traceCtx := tracePropagator.Extract(ctx, propagation.HeaderCarrier(h))
		ctx.SetUserValue("traceCtx", traceCtx)

		// Every /tasks route requires a valid bearer token. The resolved
		// actor is the only user identity handlers may use.
		if isProtectedRoute(ctx) {
			actor, err := s.auth.Authenticate(traceCtx, string(ctx.Request.Header.Peek("Authorization")))
			if err != nil {
				response.Message(ctx, fasthttp.StatusForbidden, "not authorized")
				slog.Info("Rejected unauthenticated request", slog.String("request_id", requestID), slog.String("request_uri", requestURI))
				return
			}
			ctx.SetUserValue("actor", actor)
		}

		next(ctx)

		slog.Info("Finished processing", slog.String("request_id", requestID), slog.String("method", method), slog.String("request_uri", requestURI), slog.Duration("duration", time.Since(start)))
	}
}

func applyCORS(ctx *fasthttp.RequestCtx) {
	headers := &ctx.Response.Header
	headers.Set("Access-Control-Allow-Origin", string(ctx.Request.Header.Peek("Origin")))
	headers.Set("Access-Control-Allow-Methods", "GET,POST,PUT,DELETE,OPTIONS")
	headers.Set("Access-Control-Allow-Headers", os.Getenv("ALLOWED_HEADERS"))
	headers.Set("Access-Control-Allow-Credentials", "true")
}

func isProtectedRoute(ctx *fasthttp.RequestCtx) bool {
	path := string(ctx.Path())
	return path == "/tasks" || strings.HasPrefix(path, "/tasks/")
}
