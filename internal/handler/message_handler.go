package handler

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"roomhub/internal/app/live"
	"roomhub/internal/app/store"
	"roomhub/internal/pkg/errs"
	"roomhub/internal/pkg/logx"
	"roomhub/internal/pkg/req"
	"roomhub/internal/pkg/resp"
)

// MaxMessageBytes caps the body of a single message.
const MaxMessageBytes = 5000

type CreateMessageInput struct {
	Body string `json:"body"`
}

// HandleCreateMessage posts a message into a room. The author joins the
// room's participant set, and live subscribers get the message pushed.
func HandleCreateMessage(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, authErr := authedUserID(r)
		if authErr != nil {
			resp.RespondError(w, r, authErr)
			return
		}

		roomID, idErr := roomIDParam(r)
		if idErr != nil {
			resp.RespondError(w, r, idErr)
			return
		}

		var input CreateMessageInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		body := strings.TrimSpace(input.Body)
		if body == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrMessageBodyEmpty))
			return
		}
		if len(body) > MaxMessageBytes {
			resp.RespondError(w, r, errs.NewError(errs.ErrMessageBodyTooLong))
			return
		}

		if _, err := deps.Stores.Rooms.GetByID(r.Context(), roomID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				resp.RespondError(w, r, errs.NewError(errs.ErrRoomNotFound))
				return
			}
			logx.Error(err, "failed to fetch room", "room_id", roomID.String())
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		message, err := deps.Stores.Messages.Create(r.Context(), store.CreateMessageParams{
			RoomID:   roomID,
			AuthorID: userID,
			Body:     body,
		})
		if err != nil {
			logx.Error(err, "failed to create message", "room_id", roomID.String())
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		// Posting makes the author a participant of the room.
		if err := deps.Stores.Rooms.AddParticipant(r.Context(), roomID, userID); err != nil {
			logx.Error(err, "failed to add poster to participants",
				"room_id", roomID.String(), "user_id", userID.String())
		}

		deps.Hub.Broadcast(roomID, live.MessageEvent{
			Type:       live.EventTypeMessage,
			ID:         message.ID.String(),
			RoomID:     roomID.String(),
			AuthorID:   message.AuthorID.String(),
			AuthorName: message.AuthorName,
			Body:       message.Body,
			Timestamp:  message.CreatedAt.Unix(),
		})

		resp.RespondSuccess(w, r, map[string]any{
			"message": messageView(message),
		})
	}
}

// HandleDeleteMessage deletes a single message. Only the author may delete
// it, and the delete targets exactly the fetched row.
func HandleDeleteMessage(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, authErr := authedUserID(r)
		if authErr != nil {
			resp.RespondError(w, r, authErr)
			return
		}

		messageID, err := uuid.Parse(chi.URLParam(r, "messageID"))
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrMessageNotFound))
			return
		}

		message, err := deps.Stores.Messages.GetByID(r.Context(), messageID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				resp.RespondError(w, r, errs.NewError(errs.ErrMessageNotFound))
				return
			}
			logx.Error(err, "failed to fetch message", "message_id", messageID.String())
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		if message.AuthorID != userID {
			resp.RespondError(w, r, errs.NewError(errs.ErrForbidden))
			return
		}

		if err := deps.Stores.Messages.Delete(r.Context(), message.ID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				resp.RespondError(w, r, errs.NewError(errs.ErrMessageNotFound))
				return
			}
			logx.Error(err, "failed to delete message", "message_id", messageID.String())
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, nil)
	}
}
