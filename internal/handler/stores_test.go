package handler

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"roomhub/internal/app/store"
)

// memStore is shared in-memory state behind in-memory implementations of the
// four store interfaces, matching the pgstore semantics the handlers rely on:
// lowercase-exact username lookup, case-insensitive email and topic matching,
// substring search, recency ordering, idempotent participant adds, and
// cascading room deletes. A fake clock advances one second per write so
// ordering is deterministic.
type memStore struct {
	mu          sync.Mutex
	users       []store.User
	topics      []store.Topic
	nextTopicID int64
	rooms       []store.Room
	members     map[uuid.UUID][]uuid.UUID
	messages    []store.Message
	now         time.Time
}

func newMemStore() *memStore {
	return &memStore{
		nextTopicID: 1,
		members:     make(map[uuid.UUID][]uuid.UUID),
		now:         time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

func (m *memStore) stores() store.Stores {
	return store.Stores{
		Users:    memUsers{m},
		Topics:   memTopics{m},
		Rooms:    memRooms{m},
		Messages: memMessages{m},
	}
}

func (m *memStore) tick() time.Time {
	m.now = m.now.Add(time.Second)
	return m.now
}

func (m *memStore) topicName(id *int64) string {
	if id == nil {
		return ""
	}
	for _, t := range m.topics {
		if t.ID == *id {
			return t.Name
		}
	}
	return ""
}

func (m *memStore) username(id uuid.UUID) string {
	for _, u := range m.users {
		if u.ID == id {
			return u.Username
		}
	}
	return ""
}

func (m *memStore) roomOut(rm store.Room) store.Room {
	rm.TopicName = m.topicName(rm.TopicID)
	if rm.HostID != nil {
		rm.HostName = m.username(*rm.HostID)
	}
	return rm
}

func (m *memStore) messageOut(msg store.Message) store.Message {
	msg.AuthorName = m.username(msg.AuthorID)
	return msg
}

type memUsers struct{ *memStore }

func (m memUsers) Create(ctx context.Context, params store.CreateUserParams) (store.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Username == params.Username {
			return store.User{}, store.ErrDuplicateUsername
		}
		if strings.EqualFold(u.Email, params.Email) {
			return store.User{}, store.ErrDuplicateEmail
		}
	}

	u := store.User{
		ID:           uuid.New(),
		Username:     params.Username,
		Email:        params.Email,
		FirstName:    params.FirstName,
		LastName:     params.LastName,
		PasswordHash: params.PasswordHash,
		CreatedAt:    m.tick(),
	}
	m.users = append(m.users, u)
	return u, nil
}

func (m memUsers) GetByID(ctx context.Context, id uuid.UUID) (store.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.ID == id {
			return u, nil
		}
	}
	return store.User{}, store.ErrNotFound
}

func (m memUsers) GetByUsername(ctx context.Context, username string) (store.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if u.Username == username {
			return u, nil
		}
	}
	return store.User{}, store.ErrNotFound
}

func (m memUsers) GetByEmail(ctx context.Context, email string) (store.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, u := range m.users {
		if strings.EqualFold(u.Email, email) {
			return u, nil
		}
	}
	return store.User{}, store.ErrNotFound
}

func (m memUsers) UpdateProfile(ctx context.Context, params store.UpdateProfileParams) (store.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.users {
		if m.users[i].ID == params.ID {
			m.users[i].FirstName = params.FirstName
			m.users[i].LastName = params.LastName
			m.users[i].Bio = params.Bio
			m.users[i].AvatarKey = params.AvatarKey
			return m.users[i], nil
		}
	}
	return store.User{}, store.ErrNotFound
}

func (m memUsers) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.users {
		if m.users[i].ID == id {
			m.users[i].PasswordHash = passwordHash
			return nil
		}
	}
	return store.ErrNotFound
}

func (m memUsers) UpdateLastLogin(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.users {
		if m.users[i].ID == id {
			t := m.tick()
			m.users[i].LastLoginAt = &t
			return nil
		}
	}
	return nil
}

type memTopics struct{ *memStore }

func (m memTopics) GetOrCreate(ctx context.Context, name string) (store.Topic, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, t := range m.topics {
		if strings.EqualFold(t.Name, name) {
			return t, nil
		}
	}

	t := store.Topic{ID: m.nextTopicID, Name: name}
	m.nextTopicID++
	m.topics = append(m.topics, t)
	return t, nil
}

func (m memTopics) List(ctx context.Context) ([]store.Topic, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := append([]store.Topic{}, m.topics...)
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type memRooms struct{ *memStore }

func (m memRooms) Create(ctx context.Context, params store.CreateRoomParams) (store.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.tick()
	hostID := params.HostID
	topicID := params.TopicID
	rm := store.Room{
		ID:          uuid.New(),
		HostID:      &hostID,
		TopicID:     &topicID,
		Name:        params.Name,
		Description: params.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	m.rooms = append(m.rooms, rm)
	return m.roomOut(rm), nil
}

func (m memRooms) GetByID(ctx context.Context, id uuid.UUID) (store.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, rm := range m.rooms {
		if rm.ID == id {
			return m.roomOut(rm), nil
		}
	}
	return store.Room{}, store.ErrNotFound
}

func (m memRooms) Search(ctx context.Context, q string) ([]store.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	needle := strings.ToLower(q)
	out := []store.Room{}
	for _, rm := range m.rooms {
		full := m.roomOut(rm)
		if strings.Contains(strings.ToLower(full.Name), needle) ||
			strings.Contains(strings.ToLower(full.Description), needle) ||
			strings.Contains(strings.ToLower(full.TopicName), needle) {
			out = append(out, full)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		if !out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].UpdatedAt.After(out[j].UpdatedAt)
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m memRooms) Update(ctx context.Context, params store.UpdateRoomParams) (store.Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.rooms {
		if m.rooms[i].ID == params.ID {
			topicID := params.TopicID
			m.rooms[i].TopicID = &topicID
			m.rooms[i].Name = params.Name
			m.rooms[i].Description = params.Description
			m.rooms[i].UpdatedAt = m.tick()
			return m.roomOut(m.rooms[i]), nil
		}
	}
	return store.Room{}, store.ErrNotFound
}

func (m memRooms) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.rooms {
		if m.rooms[i].ID == id {
			m.rooms = append(m.rooms[:i], m.rooms[i+1:]...)
			delete(m.members, id)

			kept := m.messages[:0]
			for _, msg := range m.messages {
				if msg.RoomID != id {
					kept = append(kept, msg)
				}
			}
			m.messages = kept
			return nil
		}
	}
	return store.ErrNotFound
}

func (m memRooms) AddParticipant(ctx context.Context, roomID, userID uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, existing := range m.members[roomID] {
		if existing == userID {
			return nil
		}
	}
	m.members[roomID] = append(m.members[roomID], userID)
	return nil
}

func (m memRooms) Participants(ctx context.Context, roomID uuid.UUID) ([]store.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []store.User{}
	for _, userID := range m.members[roomID] {
		for _, u := range m.users {
			if u.ID == userID {
				out = append(out, u)
			}
		}
	}
	return out, nil
}

type memMessages struct{ *memStore }

func (m memMessages) Create(ctx context.Context, params store.CreateMessageParams) (store.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.tick()
	msg := store.Message{
		ID:        uuid.New(),
		RoomID:    params.RoomID,
		AuthorID:  params.AuthorID,
		Body:      params.Body,
		CreatedAt: now,
		UpdatedAt: now,
	}
	m.messages = append(m.messages, msg)
	return m.messageOut(msg), nil
}

func (m memMessages) GetByID(ctx context.Context, id uuid.UUID) (store.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, msg := range m.messages {
		if msg.ID == id {
			return m.messageOut(msg), nil
		}
	}
	return store.Message{}, store.ErrNotFound
}

func (m memMessages) ListByRoom(ctx context.Context, roomID uuid.UUID) ([]store.Message, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := []store.Message{}
	for _, msg := range m.messages {
		if msg.RoomID == roomID {
			out = append(out, m.messageOut(msg))
		}
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (m memMessages) Delete(ctx context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for i := range m.messages {
		if m.messages[i].ID == id {
			m.messages = append(m.messages[:i], m.messages[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}
