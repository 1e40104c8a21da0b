package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"roomhub/internal/app/live"
	"roomhub/internal/app/storage"
	"roomhub/internal/app/store"
	"roomhub/internal/configs"
	"roomhub/internal/pkg/auth/jwt"
	"roomhub/internal/pkg/errs"
)

// AppDeps carries everything the handlers need. Storage is nil when avatar
// object storage is not configured.
type AppDeps struct {
	Config  *configs.AppConfig
	Stores  store.Stores
	Hub     *live.Hub
	Storage storage.Service
}

// FullAssetURL turns a stored object key into a public URL. Empty keys map
// to the empty string.
func (d *AppDeps) FullAssetURL(key string) string {
	if key == "" || d.Config.S3PublicBaseURL == "" {
		return ""
	}
	return d.Config.S3PublicBaseURL + "/" + key
}

// NormalizeAssetKey accepts either a bare object key or a full public URL
// and returns the key. Only keys under avatars/ are accepted; anything else
// is rejected so a profile update cannot point at arbitrary objects.
func (d *AppDeps) NormalizeAssetKey(urlOrKey string) (string, error) {
	key := strings.TrimSpace(urlOrKey)
	if key == "" {
		return "", nil
	}

	if d.Config.S3PublicBaseURL != "" {
		key = strings.TrimPrefix(key, d.Config.S3PublicBaseURL+"/")
	}

	if !strings.HasPrefix(key, "avatars/") || strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid asset key %q", key)
	}

	return key, nil
}

// authedUserID resolves the authenticated user's id from the request, or a
// 401 error when the request is anonymous or the token payload is mangled.
func authedUserID(r *http.Request) (uuid.UUID, *errs.CustomError) {
	identity := jwt.GetPayloadFromContext(r)
	if identity == nil {
		return uuid.Nil, errs.NewError(errs.ErrUnauthorized)
	}

	id, err := uuid.Parse(identity.ID)
	if err != nil {
		return uuid.Nil, errs.NewError(errs.ErrUnauthorized)
	}

	return id, nil
}
