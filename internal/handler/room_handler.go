package handler

import (
	"errors"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"roomhub/internal/app/store"
	"roomhub/internal/pkg/errs"
	"roomhub/internal/pkg/logx"
	"roomhub/internal/pkg/req"
	"roomhub/internal/pkg/resp"
)

// maxNameRunes bounds room names and topic names.
const maxNameRunes = 200

// roomIDParam parses the {roomID} URL parameter. Malformed ids behave like
// missing rooms.
func roomIDParam(r *http.Request) (uuid.UUID, *errs.CustomError) {
	id, err := uuid.Parse(chi.URLParam(r, "roomID"))
	if err != nil {
		return uuid.Nil, errs.NewError(errs.ErrRoomNotFound)
	}
	return id, nil
}

// HandleListRooms serves the home listing: rooms matching the optional q
// query (case-insensitive substring over room name, description, and topic
// name; empty q matches everything), the full topic list, and a match count.
func HandleListRooms(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query().Get("q")

		rooms, err := deps.Stores.Rooms.Search(r.Context(), q)
		if err != nil {
			logx.Error(err, "failed to search rooms", "q", q)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		topics, err := deps.Stores.Topics.List(r.Context())
		if err != nil {
			logx.Error(err, "failed to list topics")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		roomViews := make([]map[string]any, 0, len(rooms))
		for _, rm := range rooms {
			roomViews = append(roomViews, roomView(rm))
		}

		topicViews := make([]map[string]any, 0, len(topics))
		for _, t := range topics {
			topicViews = append(topicViews, topicView(t))
		}

		resp.RespondSuccess(w, r, map[string]any{
			"rooms":     roomViews,
			"topics":    topicViews,
			"roomCount": len(rooms),
		})
	}
}

// HandleGetRoom serves room detail: the room, its messages newest first, and
// its participant set.
func HandleGetRoom(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		roomID, idErr := roomIDParam(r)
		if idErr != nil {
			resp.RespondError(w, r, idErr)
			return
		}

		room, err := deps.Stores.Rooms.GetByID(r.Context(), roomID)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				resp.RespondError(w, r, errs.NewError(errs.ErrRoomNotFound))
				return
			}
			logx.Error(err, "failed to fetch room", "room_id", roomID.String())
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		messages, err := deps.Stores.Messages.ListByRoom(r.Context(), roomID)
		if err != nil {
			logx.Error(err, "failed to list room messages", "room_id", roomID.String())
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		participants, err := deps.Stores.Rooms.Participants(r.Context(), roomID)
		if err != nil {
			logx.Error(err, "failed to list room participants", "room_id", roomID.String())
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		messageViews := make([]map[string]any, 0, len(messages))
		for _, m := range messages {
			messageViews = append(messageViews, messageView(m))
		}

		participantViews := make([]map[string]any, 0, len(participants))
		for _, p := range participants {
			participantViews = append(participantViews, participantView(deps, p))
		}

		resp.RespondSuccess(w, r, map[string]any{
			"room":         roomView(room),
			"messages":     messageViews,
			"participants": participantViews,
		})
	}
}

type RoomInput struct {
	Name        string `json:"name"`
	Topic       string `json:"topic"`
	Description string `json:"description"`
}

func (in *RoomInput) validate() *errs.CustomError {
	in.Name = strings.TrimSpace(in.Name)
	in.Topic = strings.TrimSpace(in.Topic)
	in.Description = strings.TrimSpace(in.Description)

	if in.Name == "" || utf8.RuneCountInString(in.Name) > maxNameRunes {
		return errs.NewError(errs.ErrInvalidParams)
	}
	if in.Topic == "" || utf8.RuneCountInString(in.Topic) > maxNameRunes {
		return errs.NewError(errs.ErrInvalidParams)
	}
	return nil
}

// HandleCreateRoom creates a room with the requester as host and first
// participant. The topic is resolved case-insensitively, created on demand.
func HandleCreateRoom(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		userID, authErr := authedUserID(r)
		if authErr != nil {
			resp.RespondError(w, r, authErr)
			return
		}

		var input RoomInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}
		if customErr := input.validate(); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		topic, err := deps.Stores.Topics.GetOrCreate(r.Context(), input.Topic)
		if err != nil {
			logx.Error(err, "failed to resolve topic", "topic", input.Topic)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		room, err := deps.Stores.Rooms.Create(r.Context(), store.CreateRoomParams{
			HostID:      userID,
			TopicID:     topic.ID,
			Name:        input.Name,
			Description: input.Description,
		})
		if err != nil {
			logx.Error(err, "failed to create room")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		if err := deps.Stores.Rooms.AddParticipant(r.Context(), room.ID, userID); err != nil {
			logx.Error(err, "failed to add host to participants", "room_id", room.ID.String())
		}

		resp.RespondSuccess(w, r, map[string]any{
			"room": roomView(room),
		})
	}
}

// hostOnly loads the room and verifies the requester is its host.
func hostOnly(deps *AppDeps, r *http.Request, roomID, userID uuid.UUID) (store.Room, *errs.CustomError) {
	room, err := deps.Stores.Rooms.GetByID(r.Context(), roomID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return store.Room{}, errs.NewError(errs.ErrRoomNotFound)
		}
		logx.Error(err, "failed to fetch room", "room_id", roomID.String())
		return store.Room{}, errs.NewError(errs.ErrUnknown)
	}

	if room.HostID == nil || *room.HostID != userID {
		return store.Room{}, errs.NewError(errs.ErrForbidden)
	}

	return room, nil
}

// HandleUpdateRoom lets the host edit name, topic, and description.
func HandleUpdateRoom(deps *AppDeps) http.HandlerFunc {
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

		if _, customErr := hostOnly(deps, r, roomID, userID); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		var input RoomInput
		if customErr := req.BindJSON(r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}
		if customErr := input.validate(); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		topic, err := deps.Stores.Topics.GetOrCreate(r.Context(), input.Topic)
		if err != nil {
			logx.Error(err, "failed to resolve topic", "topic", input.Topic)
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		room, err := deps.Stores.Rooms.Update(r.Context(), store.UpdateRoomParams{
			ID:          roomID,
			TopicID:     topic.ID,
			Name:        input.Name,
			Description: input.Description,
		})
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				resp.RespondError(w, r, errs.NewError(errs.ErrRoomNotFound))
				return
			}
			logx.Error(err, "failed to update room", "room_id", roomID.String())
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, map[string]any{
			"room": roomView(room),
		})
	}
}

// HandleDeleteRoom lets the host delete the room. Messages and participant
// links go with it via cascade.
func HandleDeleteRoom(deps *AppDeps) http.HandlerFunc {
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

		if _, customErr := hostOnly(deps, r, roomID, userID); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if err := deps.Stores.Rooms.Delete(r.Context(), roomID); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				resp.RespondError(w, r, errs.NewError(errs.ErrRoomNotFound))
				return
			}
			logx.Error(err, "failed to delete room", "room_id", roomID.String())
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		resp.RespondSuccess(w, r, nil)
	}
}

// HandleListTopics serves the full topic list.
func HandleListTopics(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		topics, err := deps.Stores.Topics.List(r.Context())
		if err != nil {
			logx.Error(err, "failed to list topics")
			resp.RespondError(w, r, errs.NewError(errs.ErrUnknown))
			return
		}

		topicViews := make([]map[string]any, 0, len(topics))
		for _, t := range topics {
			topicViews = append(topicViews, topicView(t))
		}

		resp.RespondSuccess(w, r, map[string]any{
			"topics": topicViews,
		})
	}
}
