/*
Package pgstore implements the store interfaces on PostgreSQL via pgx.
*/
package pgstore

import (
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"roomhub/internal/app/store"
)

// New returns store.Stores backed by the given connection pool.
func New(pool *pgxpool.Pool) store.Stores {
	return store.Stores{
		Users:    &userStore{pool: pool},
		Topics:   &topicStore{pool: pool},
		Rooms:    &roomStore{pool: pool},
		Messages: &messageStore{pool: pool},
	}
}

// pgUUID converts a uuid.UUID to its pgtype wire representation.
func pgUUID(id uuid.UUID) pgtype.UUID {
	return pgtype.UUID{Bytes: [16]byte(id), Valid: true}
}

// fromPgUUID converts a non-null pgtype.UUID back to uuid.UUID.
func fromPgUUID(v pgtype.UUID) uuid.UUID {
	return uuid.UUID(v.Bytes)
}

// optUUID maps a nullable uuid column to a pointer.
func optUUID(v pgtype.UUID) *uuid.UUID {
	if !v.Valid {
		return nil
	}
	id := uuid.UUID(v.Bytes)
	return &id
}

// optTime maps a nullable timestamptz column to a pointer.
func optTime(v pgtype.Timestamptz) *time.Time {
	if !v.Valid {
		return nil
	}
	t := v.Time
	return &t
}

// optInt8 maps a nullable bigint column to a pointer.
func optInt8(v pgtype.Int8) *int64 {
	if !v.Valid {
		return nil
	}
	n := v.Int64
	return &n
}
