package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"roomhub/internal/app/live"
	"roomhub/internal/app/store"
	"roomhub/internal/configs"
	"roomhub/internal/pkg/logx"
)

func TestMain(m *testing.M) {
	logx.Init(true)
	os.Exit(m.Run())
}

// envelope mirrors the response envelope with the payload left raw so each
// test can decode the shape it expects.
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// newTestEnv builds a router over a fresh in-memory store. Each test gets its
// own rate limiters, so per-test request counts stay within the bursts.
func newTestEnv(t *testing.T) (http.Handler, *AppDeps, *memStore) {
	t.Helper()

	ms := newMemStore()
	deps := &AppDeps{
		Config: &configs.AppConfig{
			Environment:    "development",
			Port:           8080,
			AllowedOrigins: []string{},
			JWTSecret:      "test-secret",
		},
		Stores: ms.stores(),
		Hub:    live.NewHub(),
	}
	return Router(deps), deps, ms
}

func doJSON(t *testing.T, h http.Handler, method, target, token string, body any) (*httptest.ResponseRecorder, envelope) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request body: %v", err)
		}
		reader = bytes.NewReader(buf)
	}

	r := httptest.NewRequest(method, target, reader)
	if body != nil {
		r.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		r.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, r)

	var env envelope
	if rec.Body.Len() > 0 {
		if err := json.Unmarshal(rec.Body.Bytes(), &env); err != nil {
			t.Fatalf("decode response envelope: %v (body %q)", err, rec.Body.String())
		}
	}
	return rec, env
}

func mustUUID(t *testing.T, s string) uuid.UUID {
	t.Helper()
	id, err := uuid.Parse(s)
	if err != nil {
		t.Fatalf("parse uuid %q: %v", s, err)
	}
	return id
}

func decodeData(t *testing.T, env envelope, out any) {
	t.Helper()
	if err := json.Unmarshal(env.Data, out); err != nil {
		t.Fatalf("decode response data: %v (data %q)", err, string(env.Data))
	}
}

// seedUser inserts a user directly into the store. bcrypt.MinCost keeps the
// hashing cheap; the handlers only compare, they never require a cost.
func seedUser(t *testing.T, ms *memStore, username, email, password string) store.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hash password: %v", err)
	}

	u, err := memUsers{ms}.Create(context.Background(), store.CreateUserParams{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
	})
	if err != nil {
		t.Fatalf("seed user %q: %v", username, err)
	}
	return u
}

func tokenFor(t *testing.T, deps *AppDeps, u store.User) string {
	t.Helper()

	token, err := issueToken(deps, u)
	if err != nil {
		t.Fatalf("issue token for %q: %v", u.Username, err)
	}
	return token
}

// seedRoom inserts a room hosted by host, resolving (or creating) the topic
// and joining the host to the participant set, matching what the create
// handler does.
func seedRoom(t *testing.T, ms *memStore, host store.User, topic, name, description string) store.Room {
	t.Helper()
	ctx := context.Background()

	tp, err := memTopics{ms}.GetOrCreate(ctx, topic)
	if err != nil {
		t.Fatalf("seed topic %q: %v", topic, err)
	}

	rm, err := memRooms{ms}.Create(ctx, store.CreateRoomParams{
		HostID:      host.ID,
		TopicID:     tp.ID,
		Name:        name,
		Description: description,
	})
	if err != nil {
		t.Fatalf("seed room %q: %v", name, err)
	}

	if err := (memRooms{ms}).AddParticipant(ctx, rm.ID, host.ID); err != nil {
		t.Fatalf("seed participant: %v", err)
	}
	return rm
}

func seedMessage(t *testing.T, ms *memStore, room store.Room, author store.User, body string) store.Message {
	t.Helper()

	msg, err := memMessages{ms}.Create(context.Background(), store.CreateMessageParams{
		RoomID:   room.ID,
		AuthorID: author.ID,
		Body:     body,
	})
	if err != nil {
		t.Fatalf("seed message: %v", err)
	}
	return msg
}
