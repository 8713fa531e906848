/*
Package handler provides HTTP handler functions for user registration and login.
*/
package handler

import (
	"errors"
	"net/http"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"convlo/internal/app/user"
	"convlo/internal/pkg/auth/jwt"
	"convlo/internal/pkg/errs"
	"convlo/internal/pkg/logx"
	"convlo/internal/pkg/randx"
	"convlo/internal/pkg/req"
	"convlo/internal/pkg/resp"
)

var (
	usernameRegex = regexp.MustCompile(`^[a-z0-9_]{4,20}$`)
)

type RegisterInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
	NickName string `json:"nickName"`
	Gender   string `json:"gender"`
}

type LoginInput struct {
	Username string `json:"username" validate:"notblank"`
	Password string `json:"password" validate:"required"`
}

// SessionView is returned by register and login.
type SessionView struct {
	Token string        `json:"token"`
	User  user.UserView `json:"user"`
}

// HandleRegister creates a user account and returns a login token for it.
func HandleRegister(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input RegisterInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		input.Username = strings.TrimSpace(input.Username)
		if !usernameRegex.MatchString(input.Username) {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidUsername))
			return
		}

		passwordLen := utf8.RuneCountInString(input.Password)
		if passwordLen < 6 || passwordLen > 50 {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidPassword))
			return
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			logx.Error(err, "register: failed to hash password")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		nickName := strings.TrimSpace(input.NickName)
		if nickName == "" {
			if nickName, err = randx.Nickname(); err != nil {
				nickName = "User_X"
			}
		}

		record := &user.User{
			Username:     input.Username,
			NickName:     nickName,
			Gender:       strings.TrimSpace(input.Gender),
			PasswordHash: string(hashedPassword),
		}

		if err := deps.Users.Create(r.Context(), record); err != nil {
			if errors.Is(err, user.ErrDuplicate) {
				logx.Warn("registration conflict: username already exists", "username", input.Username)
				resp.RespondError(w, r, errs.NewError(errs.ErrUsernameTaken))
				return
			}

			logx.Error(err, "failed to create user", "username", input.Username)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		respondSession(w, r, deps, "註冊成功", record)
	}
}

// HandleLogin verifies user credentials and issues a JWT token.
func HandleLogin(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input LoginInput
		if customErr := req.BindAndValidate(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}
		username := strings.TrimSpace(input.Username)

		record, err := deps.Users.FindByUsername(r.Context(), username)
		if err != nil {
			if !errors.Is(err, user.ErrNotFound) {
				logx.Error(err, "login: user lookup failed", "username", username)
				resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
				return
			}
			logx.Warn("login: unknown username", "username", username)
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidCredentials))
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(record.PasswordHash), []byte(input.Password)); err != nil {
			logx.Warn("login: password mismatch", "username", username)
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidCredentials))
			return
		}

		respondSession(w, r, deps, "登入成功", record)
	}
}

// HandleGetMe returns the authenticated caller's profile.
func HandleGetMe(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, ok := deps.identity().Username(r)
		if !ok {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		record, err := deps.Users.FindByUsername(r.Context(), caller)
		if err != nil {
			if errors.Is(err, user.ErrNotFound) {
				logx.Warn("get_me: token names a missing user", "username", caller)
				resp.RespondError(w, r, errs.NewError(errs.ErrUserNotFound))
				return
			}
			logx.Error(err, "get_me: user lookup failed", "username", caller)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, "獲取會員成功", record.View())
	}
}

func respondSession(w http.ResponseWriter, r *http.Request, deps *AppDeps, message string, record *user.User) {
	token, err := jwt.GenerateToken(&jwt.Payload{Username: record.Username}, deps.Config.JWTSecret, jwt.IdentityExpiration)
	if err != nil {
		logx.Error(err, "jwt generation failed", "username", record.Username)
		resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
		return
	}

	resp.RespondSuccess(w, r, message, SessionView{Token: token, User: record.View()})
}
