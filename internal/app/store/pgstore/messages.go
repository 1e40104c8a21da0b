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

type messageStore struct {
	pool *pgxpool.Pool
}

const messageSelect = `
	SELECT m.id, m.room_id, m.author_id, u.username, m.body, m.created_at, m.updated_at
	FROM messages m
	JOIN users u ON u.id = m.author_id`

func scanMessage(row pgx.Row) (store.Message, error) {
	var (
		m        store.Message
		id       pgtype.UUID
		roomID   pgtype.UUID
		authorID pgtype.UUID
	)

	err := row.Scan(&id, &roomID, &authorID, &m.AuthorName, &m.Body, &m.CreatedAt, &m.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return store.Message{}, store.ErrNotFound
		}
		return store.Message{}, fmt.Errorf("scan message: %w", err)
	}

	m.ID = fromPgUUID(id)
	m.RoomID = fromPgUUID(roomID)
	m.AuthorID = fromPgUUID(authorID)
	return m, nil
}

func (s *messageStore) Create(ctx context.Context, params store.CreateMessageParams) (store.Message, error) {
	var id pgtype.UUID
	err := s.pool.QueryRow(ctx, `
		INSERT INTO messages (room_id, author_id, body)
		VALUES ($1, $2, $3)
		RETURNING id`,
		pgUUID(params.RoomID), pgUUID(params.AuthorID), params.Body).Scan(&id)
	if err != nil {
		return store.Message{}, fmt.Errorf("create message: %w", err)
	}

	return s.GetByID(ctx, fromPgUUID(id))
}

func (s *messageStore) GetByID(ctx context.Context, id uuid.UUID) (store.Message, error) {
	row := s.pool.QueryRow(ctx, messageSelect+` WHERE m.id = $1`, pgUUID(id))
	return scanMessage(row)
}

func (s *messageStore) ListByRoom(ctx context.Context, roomID uuid.UUID) ([]store.Message, error) {
	rows, err := s.pool.Query(ctx, messageSelect+`
		WHERE m.room_id = $1
		ORDER BY m.created_at DESC, m.id`,
		pgUUID(roomID))
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	defer rows.Close()

	messages := []store.Message{}
	for rows.Next() {
		m, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}

	return messages, rows.Err()
}

func (s *messageStore) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM messages WHERE id = $1`, pgUUID(id))
	if err != nil {
		return fmt.Errorf("delete message: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return store.ErrNotFound
	}
	return nil
}
