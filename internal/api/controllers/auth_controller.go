package controllers

import (
	"errors"
	"fmt"

	"github.com/fasthttp/router"
	"github.com/valyala/fasthttp"

	"github.com/taskboard/taskboard/internal/api/authenticator"
	"github.com/taskboard/taskboard/internal/api/response"
	"github.com/taskboard/taskboard/internal/perrors"
	"github.com/taskboard/taskboard/internal/services"
	"github.com/taskboard/taskboard/internal/services/user"
)

type jwtResponse struct {
	JWT string `json:"jwt"`
}

func RegisterAuthRoutes(r *router.Router, svc *services.Services, auth *authenticator.Authenticator) {
	// Sign up with username/password; new accounts are always participants.
	r.POST("/auth/sign-up", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		username := formValue(ctx, "username")
		password := formValue(ctx, "password")

		if err := validateCredentials(username, password); err != nil {
			response.Error(ctx, stdCtx, err)
			return
		}

		u, err := svc.User.Register(stdCtx, username, password, user.RoleParticipant)
		if err != nil {
			if errors.Is(err, user.ErrUserAlreadyExists) {
				response.Error(ctx, stdCtx, perrors.NewErrConflict(fmt.Sprintf("User [%s] already exists!", username), err))
				return
			}
			response.Error(ctx, stdCtx, perrors.NewErrInternalServerError(response.InternalErrorMessage, err))
			return
		}

		jwt, err := auth.IssueToken(u.ID)
		if err != nil {
			response.Error(ctx, stdCtx, perrors.NewErrInternalServerError(response.InternalErrorMessage, err))
			return
		}

		response.JSON(ctx, fasthttp.StatusCreated, jwtResponse{JWT: jwt})
	})

	// Log in with username/password.
	r.POST("/auth/login", func(ctx *fasthttp.RequestCtx) {
		stdCtx := requestContext(ctx)

		username := formValue(ctx, "username")
		password := formValue(ctx, "password")

		if err := validateCredentials(username, password); err != nil {
			response.Error(ctx, stdCtx, err)
			return
		}

		u, err := svc.User.Authenticate(stdCtx, username, password)
		if err != nil {
			// Unknown user and wrong password are deliberately the same
			// response.
			if errors.Is(err, user.ErrInvalidCredentials) {
				response.Error(ctx, stdCtx, perrors.NewErrNotFound(fmt.Sprintf("User [%s] does not exist!", username), err))
				return
			}
			response.Error(ctx, stdCtx, perrors.NewErrInternalServerError(response.InternalErrorMessage, err))
			return
		}

		jwt, err := auth.IssueToken(u.ID)
		if err != nil {
			response.Error(ctx, stdCtx, perrors.NewErrInternalServerError(response.InternalErrorMessage, err))
			return
		}

		response.JSON(ctx, fasthttp.StatusOK, jwtResponse{JWT: jwt})
	})
}

func validateCredentials(username, password string) error {
	if len(username) < 8 || len(username) > 40 {
		return perrors.NewErrInvalidRequest("Username must be between 8 and 40 characters.", errors.New("invalid username length"))
	}
	if len(password) < 8 || len(password) > 40 {
		return perrors.NewErrInvalidRequest("Password must be between 8 and 40 characters.", errors.New("invalid password length"))
	}
	if !isAlnum(username) {
		return perrors.NewErrInvalidRequest("Username must only contain letters and numbers.", errors.New("invalid username charset"))
	}
	if !isAlnum(password) {
		return perrors.NewErrInvalidRequest("Password must only contain letters and numbers.", errors.New("invalid password charset"))
	}
	return nil
}

func isAlnum(s string) bool {
	for _, r := range s {
		if !('0' <= r && r <= '9' || 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z') {
			return false
		}
	}
	return len(s) > 0
}
