package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"roomhub/internal/app/store"
	"roomhub/internal/pkg/errs"
)

type roomData struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Topic       string  `json:"topic"`
	HostID      *string `json:"hostId"`
	HostName    string  `json:"hostName"`
}

type roomListData struct {
	Rooms  []roomData `json:"rooms"`
	Topics []struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"topics"`
	RoomCount int `json:"roomCount"`
}

func TestListRoomsSearch(t *testing.T) {
	router, _, ms := newTestEnv(t)
	host := seedUser(t, ms, "mira", "mira@example.com", "hunter22")

	seedRoom(t, ms, host, "Programming", "Python Basics", "learn the language from scratch")
	seedRoom(t, ms, host, "Web", "Advanced Django", "a deep dive into python web frameworks")
	seedRoom(t, ms, host, "Lifestyle", "Cooking Club", "weeknight recipes")

	tests := []struct {
		name      string
		q         string
		wantNames []string
	}{
		{
			// Substring match against room name and description; most
			// recently updated first.
			name:      "partial word matches name and description",
			q:         "pyth",
			wantNames: []string{"Advanced Django", "Python Basics"},
		},
		{
			name:      "case-insensitive topic match",
			q:         "PROGRAMMING",
			wantNames: []string{"Python Basics"},
		},
		{
			name:      "empty query returns every room",
			q:         "",
			wantNames: []string{"Cooking Club", "Advanced Django", "Python Basics"},
		},
		{
			name:      "no match",
			q:         "quantum",
			wantNames: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, env := doJSON(t, router, http.MethodGet, "/api/rooms?q="+tt.q, "", nil)
			if env.Code != 0 {
				t.Fatalf("code = %d (%s)", env.Code, env.Message)
			}

			var data roomListData
			decodeData(t, env, &data)

			if data.RoomCount != len(tt.wantNames) {
				t.Errorf("roomCount = %d, want %d", data.RoomCount, len(tt.wantNames))
			}
			if len(data.Rooms) != len(tt.wantNames) {
				t.Fatalf("got %d rooms, want %d", len(data.Rooms), len(tt.wantNames))
			}
			for i, want := range tt.wantNames {
				if data.Rooms[i].Name != want {
					t.Errorf("rooms[%d] = %q, want %q", i, data.Rooms[i].Name, want)
				}
			}

			// The full topic list rides along regardless of the filter.
			if len(data.Topics) != 3 {
				t.Errorf("got %d topics, want 3", len(data.Topics))
			}
		})
	}
}

func TestListRoomsRecencyOrdering(t *testing.T) {
	router, _, ms := newTestEnv(t)
	host := seedUser(t, ms, "mira", "mira@example.com", "hunter22")

	oldest := seedRoom(t, ms, host, "Programming", "Python Basics", "")
	seedRoom(t, ms, host, "Web", "Advanced Django", "")

	// Editing the oldest room bumps it to the front of the listing.
	if _, err := (memRooms{ms}).Update(context.Background(), store.UpdateRoomParams{
		ID:      oldest.ID,
		TopicID: *oldest.TopicID,
		Name:    oldest.Name,
	}); err != nil {
		t.Fatalf("update room: %v", err)
	}

	_, env := doJSON(t, router, http.MethodGet, "/api/rooms", "", nil)
	var data roomListData
	decodeData(t, env, &data)

	if len(data.Rooms) != 2 || data.Rooms[0].Name != "Python Basics" {
		t.Fatalf("expected the edited room first, got %+v", data.Rooms)
	}
}

func TestGetRoom(t *testing.T) {
	router, _, ms := newTestEnv(t)
	host := seedUser(t, ms, "mira", "mira@example.com", "hunter22")
	poster := seedUser(t, ms, "theo", "theo@example.com", "hunter22")

	room := seedRoom(t, ms, host, "Programming", "Python Basics", "")
	seedMessage(t, ms, room, host, "welcome everyone")
	seedMessage(t, ms, room, poster, "glad to be here")
	if err := (memRooms{ms}).AddParticipant(context.Background(), room.ID, poster.ID); err != nil {
		t.Fatalf("add participant: %v", err)
	}

	_, env := doJSON(t, router, http.MethodGet, "/api/rooms/"+room.ID.String(), "", nil)
	if env.Code != 0 {
		t.Fatalf("code = %d (%s)", env.Code, env.Message)
	}

	var data struct {
		Room     roomData `json:"room"`
		Messages []struct {
			AuthorName string `json:"authorName"`
			Body       string `json:"body"`
		} `json:"messages"`
		Participants []struct {
			Username string `json:"username"`
		} `json:"participants"`
	}
	decodeData(t, env, &data)

	if data.Room.Name != "Python Basics" || data.Room.Topic != "Programming" {
		t.Errorf("room = %+v", data.Room)
	}
	if data.Room.HostName != "mira" {
		t.Errorf("hostName = %q, want %q", data.Room.HostName, "mira")
	}

	// Messages come newest first.
	if len(data.Messages) != 2 {
		t.Fatalf("got %d messages, want 2", len(data.Messages))
	}
	if data.Messages[0].Body != "glad to be here" || data.Messages[0].AuthorName != "theo" {
		t.Errorf("messages[0] = %+v, want theo's newest message first", data.Messages[0])
	}

	if len(data.Participants) != 2 {
		t.Errorf("got %d participants, want 2", len(data.Participants))
	}
}

func TestGetRoomNotFound(t *testing.T) {
	router, _, _ := newTestEnv(t)

	rec, env := doJSON(t, router, http.MethodGet, "/api/rooms/5cce54bf-cbd8-4f26-bbf7-02cfd3b0bb3e", "", nil)
	if rec.Code != http.StatusNotFound || env.Code != errs.ErrRoomNotFound {
		t.Errorf("unknown id: http %d code %d, want 404/%d", rec.Code, env.Code, errs.ErrRoomNotFound)
	}

	rec, env = doJSON(t, router, http.MethodGet, "/api/rooms/not-a-uuid", "", nil)
	if rec.Code != http.StatusNotFound || env.Code != errs.ErrRoomNotFound {
		t.Errorf("malformed id: http %d code %d, want 404/%d", rec.Code, env.Code, errs.ErrRoomNotFound)
	}
}

func TestCreateRoom(t *testing.T) {
	router, deps, ms := newTestEnv(t)
	host := seedUser(t, ms, "mira", "mira@example.com", "hunter22")

	body := map[string]string{
		"name":        "Python Basics",
		"topic":       "Programming",
		"description": "learn the language from scratch",
	}

	rec, env := doJSON(t, router, http.MethodPost, "/api/rooms", "", body)
	if rec.Code != http.StatusUnauthorized || env.Code != errs.ErrUnauthorized {
		t.Fatalf("anonymous create: http %d code %d, want 401/%d", rec.Code, env.Code, errs.ErrUnauthorized)
	}

	_, env = doJSON(t, router, http.MethodPost, "/api/rooms", tokenFor(t, deps, host), body)
	if env.Code != 0 {
		t.Fatalf("create failed: code %d (%s)", env.Code, env.Message)
	}

	var data struct {
		Room roomData `json:"room"`
	}
	decodeData(t, env, &data)

	if data.Room.Topic != "Programming" || data.Room.HostName != "mira" {
		t.Errorf("room = %+v", data.Room)
	}
	if data.Room.HostID == nil || *data.Room.HostID != host.ID.String() {
		t.Errorf("hostId = %v, want %q", data.Room.HostID, host.ID)
	}

	// The host joins the participant set on creation.
	participants, err := memRooms{ms}.Participants(context.Background(), mustUUID(t, data.Room.ID))
	if err != nil {
		t.Fatalf("participants: %v", err)
	}
	if len(participants) != 1 || participants[0].ID != host.ID {
		t.Errorf("participants = %+v, want just the host", participants)
	}
}

func TestCreateRoomReusesTopicCaseInsensitively(t *testing.T) {
	router, deps, ms := newTestEnv(t)
	host := seedUser(t, ms, "mira", "mira@example.com", "hunter22")
	token := tokenFor(t, deps, host)

	_, env := doJSON(t, router, http.MethodPost, "/api/rooms", token, map[string]string{
		"name": "Python Basics", "topic": "Programming",
	})
	if env.Code != 0 {
		t.Fatalf("first create: code %d", env.Code)
	}

	_, env = doJSON(t, router, http.MethodPost, "/api/rooms", token, map[string]string{
		"name": "Go Basics", "topic": "pRoGrAmMiNg",
	})
	if env.Code != 0 {
		t.Fatalf("second create: code %d", env.Code)
	}

	topics, err := memTopics{ms}.List(context.Background())
	if err != nil {
		t.Fatalf("list topics: %v", err)
	}
	if len(topics) != 1 || topics[0].Name != "Programming" {
		t.Errorf("topics = %+v, want the single original spelling", topics)
	}
}

func TestCreateRoomValidation(t *testing.T) {
	router, deps, ms := newTestEnv(t)
	host := seedUser(t, ms, "mira", "mira@example.com", "hunter22")
	token := tokenFor(t, deps, host)

	_, env := doJSON(t, router, http.MethodPost, "/api/rooms", token, map[string]string{
		"name": "   ", "topic": "Programming",
	})
	if env.Code != errs.ErrInvalidParams {
		t.Errorf("blank name: code = %d, want %d", env.Code, errs.ErrInvalidParams)
	}

	_, env = doJSON(t, router, http.MethodPost, "/api/rooms", token, map[string]string{
		"name": "Python Basics", "topic": "",
	})
	if env.Code != errs.ErrInvalidParams {
		t.Errorf("blank topic: code = %d, want %d", env.Code, errs.ErrInvalidParams)
	}
}

func TestUpdateRoomHostOnly(t *testing.T) {
	router, deps, ms := newTestEnv(t)
	host := seedUser(t, ms, "mira", "mira@example.com", "hunter22")
	other := seedUser(t, ms, "theo", "theo@example.com", "hunter22")
	room := seedRoom(t, ms, host, "Programming", "Python Basics", "")

	body := map[string]string{
		"name": "Python Fundamentals", "topic": "Education", "description": "renamed",
	}

	rec, env := doJSON(t, router, http.MethodPut, "/api/rooms/"+room.ID.String(), "", body)
	if rec.Code != http.StatusUnauthorized || env.Code != errs.ErrUnauthorized {
		t.Errorf("anonymous update: http %d code %d", rec.Code, env.Code)
	}

	rec, env = doJSON(t, router, http.MethodPut, "/api/rooms/"+room.ID.String(), tokenFor(t, deps, other), body)
	if rec.Code != http.StatusForbidden || env.Code != errs.ErrForbidden {
		t.Errorf("non-host update: http %d code %d, want 403/%d", rec.Code, env.Code, errs.ErrForbidden)
	}

	_, env = doJSON(t, router, http.MethodPut, "/api/rooms/"+room.ID.String(), tokenFor(t, deps, host), body)
	if env.Code != 0 {
		t.Fatalf("host update failed: code %d (%s)", env.Code, env.Message)
	}

	var data struct {
		Room roomData `json:"room"`
	}
	decodeData(t, env, &data)
	if data.Room.Name != "Python Fundamentals" || data.Room.Topic != "Education" {
		t.Errorf("room after update = %+v", data.Room)
	}
}

func TestDeleteRoomHostOnly(t *testing.T) {
	router, deps, ms := newTestEnv(t)
	host := seedUser(t, ms, "mira", "mira@example.com", "hunter22")
	other := seedUser(t, ms, "theo", "theo@example.com", "hunter22")
	room := seedRoom(t, ms, host, "Programming", "Python Basics", "")
	seedMessage(t, ms, room, host, "first post")

	rec, env := doJSON(t, router, http.MethodDelete, "/api/rooms/"+room.ID.String(), tokenFor(t, deps, other), nil)
	if rec.Code != http.StatusForbidden || env.Code != errs.ErrForbidden {
		t.Errorf("non-host delete: http %d code %d", rec.Code, env.Code)
	}
	if _, err := (memRooms{ms}).GetByID(context.Background(), room.ID); err != nil {
		t.Fatalf("room should survive a forbidden delete: %v", err)
	}

	_, env = doJSON(t, router, http.MethodDelete, "/api/rooms/"+room.ID.String(), tokenFor(t, deps, host), nil)
	if env.Code != 0 {
		t.Fatalf("host delete failed: code %d (%s)", env.Code, env.Message)
	}

	if _, err := (memRooms{ms}).GetByID(context.Background(), room.ID); !errors.Is(err, store.ErrNotFound) {
		t.Errorf("room still present after delete: %v", err)
	}
	msgs, err := memMessages{ms}.ListByRoom(context.Background(), room.ID)
	if err != nil {
		t.Fatalf("list messages: %v", err)
	}
	if len(msgs) != 0 {
		t.Errorf("room messages survived the delete: %d left", len(msgs))
	}
}

func TestListTopics(t *testing.T) {
	router, _, ms := newTestEnv(t)
	host := seedUser(t, ms, "mira", "mira@example.com", "hunter22")
	seedRoom(t, ms, host, "Web", "Advanced Django", "")
	seedRoom(t, ms, host, "Programming", "Python Basics", "")

	_, env := doJSON(t, router, http.MethodGet, "/api/topics", "", nil)
	if env.Code != 0 {
		t.Fatalf("code = %d (%s)", env.Code, env.Message)
	}

	var data struct {
		Topics []struct {
			Name string `json:"name"`
		} `json:"topics"`
	}
	decodeData(t, env, &data)

	// Alphabetical.
	if len(data.Topics) != 2 || data.Topics[0].Name != "Programming" || data.Topics[1].Name != "Web" {
		t.Errorf("topics = %+v", data.Topics)
	}
}
