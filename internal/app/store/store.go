/*
Package store defines the persistence entities and the store interfaces the
handlers depend on. The production implementation lives in store/pgstore;
tests substitute in-memory fakes behind the same interfaces.
*/
package store

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrNotFound is returned when no row matches the requested identifier.
	ErrNotFound = errors.New("store: not found")

	// ErrDuplicateUsername is returned when the username is already registered.
	ErrDuplicateUsername = errors.New("store: username already taken")

	// ErrDuplicateEmail is returned when the email is already registered.
	ErrDuplicateEmail = errors.New("store: email already taken")
)

// User is a registered account. Username is stored lowercase.
type User struct {
	ID           uuid.UUID
	Username     string
	Email        string
	FirstName    string
	LastName     string
	Bio          string
	AvatarKey    string
	PasswordHash string
	CreatedAt    time.Time
	LastLoginAt  *time.Time
}

// Topic is a free-text label categorizing rooms.
type Topic struct {
	ID   int64
	Name string
}

// Room is a discussion room. HostID and TopicID are nil after the referenced
// row is deleted; HostName and TopicName are denormalized from joins for
// presentation.
type Room struct {
	ID          uuid.UUID
	HostID      *uuid.UUID
	HostName    string
	TopicID     *int64
	TopicName   string
	Name        string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Message is a single post in a room. AuthorName is denormalized from a join.
type Message struct {
	ID         uuid.UUID
	RoomID     uuid.UUID
	AuthorID   uuid.UUID
	AuthorName string
	Body       string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

type CreateUserParams struct {
	Username     string
	Email        string
	FirstName    string
	LastName     string
	PasswordHash string
}

type UpdateProfileParams struct {
	ID        uuid.UUID
	FirstName string
	LastName  string
	Bio       string
	AvatarKey string
}

type CreateRoomParams struct {
	HostID      uuid.UUID
	TopicID     int64
	Name        string
	Description string
}

type UpdateRoomParams struct {
	ID          uuid.UUID
	TopicID     int64
	Name        string
	Description string
}

type CreateMessageParams struct {
	RoomID   uuid.UUID
	AuthorID uuid.UUID
	Body     string
}

// UserStore persists accounts.
type UserStore interface {
	Create(ctx context.Context, params CreateUserParams) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	GetByUsername(ctx context.Context, username string) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	UpdateProfile(ctx context.Context, params UpdateProfileParams) (User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	UpdateLastLogin(ctx context.Context, id uuid.UUID) error
}

// TopicStore persists topics.
type TopicStore interface {
	// GetOrCreate resolves name to a topic, matching case-insensitively and
	// creating the topic when it does not exist yet.
	GetOrCreate(ctx context.Context, name string) (Topic, error)
	List(ctx context.Context) ([]Topic, error)
}

// RoomStore persists rooms and their participant sets.
type RoomStore interface {
	Create(ctx context.Context, params CreateRoomParams) (Room, error)
	GetByID(ctx context.Context, id uuid.UUID) (Room, error)

	// Search returns the rooms whose name, description, or topic name
	// contains q as a case-insensitive substring; an empty q matches every
	// room. Results are ordered most recently updated first, then most
	// recently created.
	Search(ctx context.Context, q string) ([]Room, error)

	Update(ctx context.Context, params UpdateRoomParams) (Room, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// AddParticipant is idempotent: adding an existing participant is a no-op.
	AddParticipant(ctx context.Context, roomID, userID uuid.UUID) error
	Participants(ctx context.Context, roomID uuid.UUID) ([]User, error)
}

// MessageStore persists messages.
type MessageStore interface {
	Create(ctx context.Context, params CreateMessageParams) (Message, error)
	GetByID(ctx context.Context, id uuid.UUID) (Message, error)

	// ListByRoom returns the room's messages newest first.
	ListByRoom(ctx context.Context, roomID uuid.UUID) ([]Message, error)

	// Delete removes exactly the message row with the given id.
	Delete(ctx context.Context, id uuid.UUID) error
}

// Stores bundles the four store interfaces handed to the handlers.
type Stores struct {
	Users    UserStore
	Topics   TopicStore
	Rooms    RoomStore
	Messages MessageStore
}
