package handler

import (
	"context"
	"net/http"
	"time"

	"roomhub/internal/app/store"
	"roomhub/internal/pkg/errs"
	"roomhub/internal/pkg/logx"
	"roomhub/internal/pkg/req"
	"roomhub/internal/pkg/resp"
)

// HandleGetUserProfile returns the authenticated user's profile.
func HandleGetUserProfile(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, authErr := authedUserID(r)
		if authErr != nil {
			resp.RespondError(w, r, authErr)
			return
		}

		user, err := deps.Stores.Users.GetByID(r.Context(), userID)
		if err != nil {
			logx.Warn("get_profile: user behind token not found", "user_id", userID.String())
			resp.RespondError(w, r, errs.NewError(errs.ErrUnauthorized))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"user": userView(deps, user),
		})
	}
}

type UpdateProfileInput struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Bio       string `json:"bio"`
	AvatarUrl string `json:"avatarUrl"`
}

// HandleUpdateUserProfile updates names, bio, and avatar. A replaced avatar
// object is deleted from storage in the background.
func HandleUpdateUserProfile(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, authErr := authedUserID(r)
		if authErr != nil {
			resp.RespondError(w, r, authErr)
			return
		}

		var input UpdateProfileInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		avatarKey, err := deps.NormalizeAssetKey(input.AvatarUrl)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		oldUser, err := deps.Stores.Users.GetByID(r.Context(), userID)
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrUserNotFound))
			return
		}

		updated, err := deps.Stores.Users.UpdateProfile(r.Context(), store.UpdateProfileParams{
			ID:        userID,
			FirstName: input.FirstName,
			LastName:  input.LastName,
			Bio:       input.Bio,
			AvatarKey: avatarKey,
		})
		if err != nil {
			logx.Error(err, "failed to update profile", "user_id", userID.String())
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		oldKey := oldUser.AvatarKey
		if deps.Storage != nil && oldKey != "" && oldKey != avatarKey {
			go func(key string) {
				ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()
				if err := deps.Storage.Delete(ctx, key); err != nil {
					logx.Warn("failed to delete replaced avatar object", "key", key)
				}
			}(oldKey)
		}

		resp.RespondSuccess(w, r, map[string]any{
			"user": userView(deps, updated),
		})
	}
}
