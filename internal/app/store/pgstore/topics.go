package pgstore

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"roomhub/internal/app/store"
)

type topicStore struct {
	pool *pgxpool.Pool
}

func (s *topicStore) GetOrCreate(ctx context.Context, name string) (store.Topic, error) {
	// The no-op DO UPDATE makes RETURNING yield the existing row on conflict
	// with the lower(name) unique index.
	row := s.pool.QueryRow(ctx, `
		INSERT INTO topics (name)
		VALUES ($1)
		ON CONFLICT (lower(name)) DO UPDATE SET name = topics.name
		RETURNING id, name`,
		name)

	var t store.Topic
	if err := row.Scan(&t.ID, &t.Name); err != nil {
		return store.Topic{}, fmt.Errorf("get or create topic: %w", err)
	}
	return t, nil
}

func (s *topicStore) List(ctx context.Context) ([]store.Topic, error) {
	rows, err := s.pool.Query(ctx, `SELECT id, name FROM topics ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	defer rows.Close()

	topics := []store.Topic{}
	for rows.Next() {
		var t store.Topic
		if err := rows.Scan(&t.ID, &t.Name); err != nil {
			return nil, fmt.Errorf("scan topic: %w", err)
		}
		topics = append(topics, t)
	}

	return topics, rows.Err()
}
