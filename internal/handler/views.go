package handler

import (
	"time"

	"roomhub/internal/app/store"
)

// userView shapes a store.User for API responses. The password hash never
// leaves the store layer boundary.
func userView(deps *AppDeps, u store.User) map[string]any {
	var lastLogin any
	if u.LastLoginAt != nil {
		lastLogin = u.LastLoginAt.Format(time.RFC3339)
	}

	return map[string]any{
		"id":          u.ID.String(),
		"username":    u.Username,
		"email":       u.Email,
		"firstName":   u.FirstName,
		"lastName":    u.LastName,
		"bio":         u.Bio,
		"avatar":      deps.FullAssetURL(u.AvatarKey),
		"lastLoginAt": lastLogin,
	}
}

func roomView(rm store.Room) map[string]any {
	var hostID any
	if rm.HostID != nil {
		hostID = rm.HostID.String()
	}

	return map[string]any{
		"id":          rm.ID.String(),
		"name":        rm.Name,
		"description": rm.Description,
		"topic":       rm.TopicName,
		"hostId":      hostID,
		"hostName":    rm.HostName,
		"createdAt":   rm.CreatedAt.Format(time.RFC3339),
		"updatedAt":   rm.UpdatedAt.Format(time.RFC3339),
	}
}

func messageView(m store.Message) map[string]any {
	return map[string]any{
		"id":         m.ID.String(),
		"roomId":     m.RoomID.String(),
		"authorId":   m.AuthorID.String(),
		"authorName": m.AuthorName,
		"body":       m.Body,
		"createdAt":  m.CreatedAt.Format(time.RFC3339),
	}
}

func topicView(t store.Topic) map[string]any {
	return map[string]any{
		"id":   t.ID,
		"name": t.Name,
	}
}

// participantView is the reduced user shape listed on room detail.
func participantView(deps *AppDeps, u store.User) map[string]any {
	return map[string]any{
		"id":       u.ID.String(),
		"username": u.Username,
		"avatar":   deps.FullAssetURL(u.AvatarKey),
	}
}
