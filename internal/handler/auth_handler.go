/*
Package handler provides the HTTP handlers and routing for the RoomHub API.
*/
package handler

import (
	"errors"
	"net/http"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"

	"roomhub/internal/app/store"
	"roomhub/internal/pkg/auth/jwt"
	"roomhub/internal/pkg/errs"
	"roomhub/internal/pkg/logx"
	"roomhub/internal/pkg/req"
	"roomhub/internal/pkg/resp"
)

var (
	// Validated after lowercasing, so mixed-case submissions normalize
	// rather than fail.
	usernameRegex = regexp.MustCompile(`^[a-z0-9_]{4,20}$`)

	emailRegex = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

const (
	minPasswordRunes = 6
	maxPasswordRunes = 50
)

func validPassword(password string) bool {
	n := utf8.RuneCountInString(password)
	return n >= minPasswordRunes && n <= maxPasswordRunes
}

// issueToken mints an identity token for the given user.
func issueToken(deps *AppDeps, u store.User) (string, error) {
	payload := &jwt.Payload{
		ID:       u.ID.String(),
		Username: u.Username,
	}
	return jwt.GenerateToken(payload, deps.Config.JWTSecret, jwt.IdentityExpiration)
}

type RegisterInput struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	FirstName       string `json:"firstName"`
	LastName        string `json:"lastName"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirmPassword"`
}

// HandleRegister creates a new account and signs the user in immediately.
// The username is normalized to lowercase before validation and storage.
func HandleRegister(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if jwt.GetPayloadFromContext(r) != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrAlreadyLoggedIn))
			return
		}

		var input RegisterInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		username := strings.ToLower(strings.TrimSpace(input.Username))
		if !usernameRegex.MatchString(username) {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidUsername))
			return
		}

		email := strings.TrimSpace(input.Email)
		if !emailRegex.MatchString(email) {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidEmail))
			return
		}

		if !validPassword(input.Password) {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidPassword))
			return
		}

		if input.Password != input.ConfirmPassword {
			resp.RespondError(w, r, errs.NewError(errs.ErrPasswordMismatch))
			return
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}

		user, err := deps.Stores.Users.Create(r.Context(), store.CreateUserParams{
			Username:     username,
			Email:        email,
			FirstName:    strings.TrimSpace(input.FirstName),
			LastName:     strings.TrimSpace(input.LastName),
			PasswordHash: string(hashedPassword),
		})
		if err != nil {
			switch {
			case errors.Is(err, store.ErrDuplicateUsername):
				logx.Warn("registration conflict: username exists", "username", username)
				resp.RespondError(w, r, errs.NewError(errs.ErrUsernameTaken))
			case errors.Is(err, store.ErrDuplicateEmail):
				logx.Warn("registration conflict: email exists", "email", email)
				resp.RespondError(w, r, errs.NewError(errs.ErrEmailTaken))
			default:
				logx.Error(err, "failed to create user")
				resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			}
			return
		}

		if err := deps.Stores.Users.UpdateLastLogin(r.Context(), user.ID); err != nil {
			logx.Error(err, "register: failed to update last_login_at", "user_id", user.ID.String())
		}

		token, err := issueToken(deps, user)
		if err != nil {
			logx.Error(err, "failed to generate token after registration")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"token": token,
			"user":  userView(deps, user),
		})
	}
}

type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// HandleLogin verifies credentials and issues an identity token. The lookup
// is by lowercased username; when that misses and the input looks like an
// email address, it retries by email, so either identifier signs in.
func HandleLogin(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if jwt.GetPayloadFromContext(r) != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrAlreadyLoggedIn))
			return
		}

		var input LoginInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		identifier := strings.ToLower(strings.TrimSpace(input.Username))

		user, err := deps.Stores.Users.GetByUsername(r.Context(), identifier)
		if errors.Is(err, store.ErrNotFound) && strings.Contains(identifier, "@") {
			user, err = deps.Stores.Users.GetByEmail(r.Context(), identifier)
		}
		if err != nil {
			logx.Warn("login: user lookup failed", "identifier", identifier)
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidCredentials))
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.Password)); err != nil {
			logx.Warn("login: password mismatch", "username", user.Username)
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidCredentials))
			return
		}

		if err := deps.Stores.Users.UpdateLastLogin(r.Context(), user.ID); err != nil {
			logx.Error(err, "login: failed to update last_login_at", "user_id", user.ID.String())
		}

		token, err := issueToken(deps, user)
		if err != nil {
			logx.Error(err, "login: token generation failed")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"token": token,
			"user":  userView(deps, user),
		})
	}
}

type ChangePasswordInput struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// HandleChangePassword rotates the authenticated user's password after
// verifying the current one.
func HandleChangePassword(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, authErr := authedUserID(r)
		if authErr != nil {
			resp.RespondError(w, r, authErr)
			return
		}

		var input ChangePasswordInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if !validPassword(input.NewPassword) {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidPassword))
			return
		}

		user, err := deps.Stores.Users.GetByID(r.Context(), userID)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUserNotFound))
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(input.OldPassword)); err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrOldPasswordInvalid))
			return
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.NewPassword), bcrypt.DefaultCost)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown, err))
			return
		}

		if err := deps.Stores.Users.UpdatePassword(r.Context(), userID, string(hashedPassword)); err != nil {
			logx.Error(err, "failed to update password", "user_id", userID.String())
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		token, err := issueToken(deps, user)
		if err != nil {
			logx.Error(err, "failed to generate token after password change", "user_id", userID.String())
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"token": token,
		})
	}
}
