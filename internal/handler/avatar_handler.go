package handler

import (
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"roomhub/internal/pkg/errs"
	"roomhub/internal/pkg/req"
	"roomhub/internal/pkg/resp"
)

const (
	// MaxAvatarSize caps avatar uploads at 5 MB.
	MaxAvatarSize int64 = 5 * 1024 * 1024

	// presignDuration is how long an upload URL stays valid.
	presignDuration = 5 * time.Minute
)

// allowedAvatarMIME maps the permitted image extensions to their MIME types.
// Extension and declared type must agree.
var allowedAvatarMIME = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".webp": "image/webp",
	".gif":  "image/gif",
}

func validateAvatarUpload(fileName, mimeType string, fileSize int64) *errs.CustomError {
	if fileSize <= 0 {
		return errs.NewError(errs.ErrInvalidParams)
	}
	if fileSize > MaxAvatarSize {
		return errs.NewError(errs.ErrFileSizeTooLarge)
	}

	ext := strings.ToLower(filepath.Ext(fileName))
	expected, ok := allowedAvatarMIME[ext]
	if !ok || expected != strings.ToLower(mimeType) {
		return errs.NewError(errs.ErrFileTypeInvalid)
	}

	return nil
}

type PresignAvatarInput struct {
	FileName string `json:"fileName"`
	MimeType string `json:"mimeType"`
	FileSize int64  `json:"fileSize"`
}

// HandlePresignAvatarURL hands the authenticated user a presigned PUT URL
// for a fresh avatar object. The client uploads directly to the bucket and
// then submits the returned key via the profile update endpoint.
func HandlePresignAvatarURL(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, authErr := authedUserID(r); authErr != nil {
			resp.RespondError(w, r, authErr)
			return
		}

		if deps.Storage == nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrFileStorageFailed))
			return
		}

		var input PresignAvatarInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if customErr := validateAvatarUpload(input.FileName, input.MimeType, input.FileSize); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		ext := strings.ToLower(filepath.Ext(input.FileName))
		fileKey := "avatars/" + uuid.New().String() + ext

		url, err := deps.Storage.PresignUpload(r.Context(), fileKey, strings.ToLower(input.MimeType), input.FileSize, presignDuration)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrFileStorageFailed))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"presignedUrl": url,
			"fileKey":      fileKey,
			"avatarUrl":    deps.FullAssetURL(fileKey),
		})
	}
}
