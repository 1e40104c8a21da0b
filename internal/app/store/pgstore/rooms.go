package pgstore

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"roomhub/internal/app/store"
)

type roomStore struct {
	pool *pgxpool.Pool
}

const roomSelect = `
	SELECT r.id, r.host_id, coalesce(u.username, ''), r.topic_id, coalesce(t.name, ''),
	       r.name, r.description, r.created_at, r.updated_at
	FROM rooms r
	LEFT JOIN users u ON u.id = r.host_id
	LEFT JOIN topics t ON t.id = r.topic_id`

func scanRoom(row pgx.Row) (store.Room, error) {
	var (
		rm      store.Room
		id      pgtype.UUID
		hostID  pgtype.UUID
		topicID pgtype.Int8
	)

	err := row.Scan(&id, &hostID, &rm.HostName, &topicID, &rm.TopicName,
		&rm.Name, &rm.Description, &rm.CreatedAt, &rm.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return store.Room{}, store.ErrNotFound
		}
		return store.Room{}, fmt.Errorf("scan room: %w", err)
	}

	rm.ID = fromPgUUID(id)
	rm.HostID = optUUID(hostID)
	rm.TopicID = optInt8(topicID)
	return rm, nil
}

func (s *roomStore) Create(ctx context.Context, params store.CreateRoomParams) (store.Room, error) {
	var id pgtype.UUID
	err := s.pool.QueryRow(ctx, `
		INSERT INTO rooms (host_id, topic_id, name, description)
		VALUES ($1, $2, $3, $4)
		RETURNING id`,
		pgUUID(params.HostID), params.TopicID, params.Name, params.Description).Scan(&id)
	if err != nil {
		return store.Room{}, fmt.Errorf("create room: %w", err)
	}

	return s.GetByID(ctx, fromPgUUID(id))
}

func (s *roomStore) GetByID(ctx context.Context, id uuid.UUID) (store.Room, error) {
	row := s.pool.QueryRow(ctx, roomSelect+` WHERE r.id = $1`, pgUUID(id))
	return scanRoom(row)
}

func (s *roomStore) Search(ctx context.Context, q string) ([]store.Room, error) {
	// strpos against an empty needle is 1, so an empty query matches every
	// room without a separate branch.
	rows, err := s.pool.Query(ctx, roomSelect+`
		WHERE strpos(lower(r.name), lower($1)) > 0
		   OR strpos(lower(r.description), lower($1)) > 0
		   OR strpos(lower(coalesce(t.name, '')), lower($1)) > 0
		ORDER BY r.updated_at DESC, r.created_at DESC`,
		q)
	if err != nil {
		return nil, fmt.Errorf("search rooms: %w", err)
	}
	defer rows.Close()

	result := []store.Room{}
	for rows.Next() {
		rm, err := scanRoom(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, rm)
	}

	return result, rows.Err()
}

func (s *roomStore) Update(ctx context.Context, params store.UpdateRoomParams) (store.Room, error) {
	tag, err := s.pool.Exec(ctx, `
		UPDATE rooms
		SET topic_id = $2, name = $3, description = $4, updated_at = now()
		WHERE id = $1`,
		pgUUID(params.ID), params.TopicID, params.Name, params.Description)
	if err != nil {
		return store.Room{}, fmt.Errorf("update room: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.Room{}, store.ErrNotFound
	}

	return s.GetByID(ctx, params.ID)
}

func (s *roomStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM rooms WHERE id = $1`, pgUUID(id))
	if err != nil {
		return fmt.Errorf("delete room: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *roomStore) AddParticipant(ctx context.Context, roomID, userID uuid.UUID) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO room_participants (room_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`,
		pgUUID(roomID), pgUUID(userID))
	if err != nil {
		return fmt.Errorf("add participant: %w", err)
	}
	return nil
}

func (s *roomStore) Participants(ctx context.Context, roomID uuid.UUID) ([]store.User, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT `+prefixedUserColumns+`
		FROM users u
		JOIN room_participants p ON p.user_id = u.id
		WHERE p.room_id = $1
		ORDER BY p.joined_at`,
		pgUUID(roomID))
	if err != nil {
		return nil, fmt.Errorf("list participants: %w", err)
	}
	defer rows.Close()

	users := []store.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}

	return users, rows.Err()
}
