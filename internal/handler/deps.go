package handler

import (
	"net/http"

	"convlo/internal/app/chat"
	"convlo/internal/app/user"
	"convlo/internal/configs"
	"convlo/internal/pkg/auth/jwt"
)

// IdentityResolver reports the authenticated caller of a request.
type IdentityResolver interface {
	Username(r *http.Request) (string, bool)
}

// IdentityFunc adapts a function to IdentityResolver.
type IdentityFunc func(r *http.Request) (string, bool)

// Username implements IdentityResolver.
func (f IdentityFunc) Username(r *http.Request) (string, bool) {
	return f(r)
}

// AppDeps carries the collaborators shared by every handler.
type AppDeps struct {
	Config     *configs.AppConfig
	Users      user.Directory
	Chats      chat.Service
	Authorizer *chat.Authorizer

	// Identity defaults to the JWT payload stored by jwt.IdentityExtractorMiddleware.
	Identity IdentityResolver
}

func (d *AppDeps) identity() IdentityResolver {
	if d.Identity == nil {
		return IdentityFunc(jwt.UsernameFromRequest)
	}
	return d.Identity
}
