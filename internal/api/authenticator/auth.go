// Package authenticator turns an Authorization header into an authenticated
// actor. The actor id always comes from a verified token subject and the role
// from the credential store; nothing is ever trusted from the request body or
// query.
package authenticator

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/taskboard/taskboard/internal/config"
	"github.com/taskboard/taskboard/internal/services/user"
	"github.com/taskboard/taskboard/internal/token"
)

// ErrNotAuthorized is returned for every authentication failure: missing
// header, malformed or expired token, bad signature, or an unknown subject.
var ErrNotAuthorized = errors.New("not authorized")

const tokenTTL = time.Hour

type Authenticator struct {
	signKey string
	users   user.Repository
}

func New(conf *config.Config, users user.Repository) *Authenticator {
	return &Authenticator{signKey: conf.JWT_SIGN_KEY, users: users}
}

// IssueToken creates a session token whose subject is the given user id.
func (a *Authenticator) IssueToken(userID int64) (string, error) {
	return token.Issue(a.signKey, tokenTTL, map[string]any{"user_id": userID})
}

// Authenticate validates the bearer token in rawAuthHeader and resolves its
// subject into an actor.
func (a *Authenticator) Authenticate(ctx context.Context, rawAuthHeader string) (user.Actor, error) {
	jwt := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(rawAuthHeader), "Bearer"))
	if jwt == "" {
		return user.Actor{}, ErrNotAuthorized
	}

	if !token.Verify(a.signKey, jwt) {
		return user.Actor{}, ErrNotAuthorized
	}

	claims := token.ExtractClaims(jwt)
	if claims == nil {
		return user.Actor{}, ErrNotAuthorized
	}

	userID := subjectID(claims)
	if userID <= 0 {
		return user.Actor{}, ErrNotAuthorized
	}

	u, err := a.users.GetByID(ctx, userID)
	if err != nil {
		return user.Actor{}, ErrNotAuthorized
	}

	return u.Actor(), nil
}

func subjectID(claims map[string]any) int64 {
	switch v := claims["user_id"].(type) {
	case float64:
		return int64(v)
	case int64:
		return v
	}
	return 0
}
