package library

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// Operation is one recorded CLI command that changed the library.
type Operation struct {
	ID         int64
	Operation  string
	Parameters string
	Status     string
	StartedAt  time.Time
	FinishedAt sql.NullTime
}

func (s *SQLiteLibrary) CreateOperation(operation, parameters string, startedAt time.Time) (*Operation, error) {
	res, err := s.db.ExecContext(context.Background(),
		`INSERT INTO operations (operation, parameters, started_at) VALUES (?, ?, ?)`,
		operation, parameters, startedAt.UTC())
	if err != nil {
		return nil, fmt.Errorf("creating operation: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("creating operation: %w", err)
	}
	return &Operation{ID: id, Operation: operation, Parameters: parameters, StartedAt: startedAt}, nil
}

func (s *SQLiteLibrary) FinishOperation(id int64, status string, finishedAt time.Time) error {
	_, err := s.db.ExecContext(context.Background(),
		`UPDATE operations SET status = ?, finished_at = ? WHERE id = ?`,
		status, finishedAt.UTC(), id)
	if err != nil {
		return fmt.Errorf("finishing operation: %w", err)
	}
	return nil
}

// ListOperations returns the most recent operations, newest first.
func (s *SQLiteLibrary) ListOperations(limit int) ([]*Operation, error) {
	rows, err := s.db.QueryContext(context.Background(),
		`SELECT id, operation, parameters, status, started_at, finished_at
		 FROM operations ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing operations: %w", err)
	}
	defer rows.Close()

	var ops []*Operation
	for rows.Next() {
		var op Operation
		if err := rows.Scan(&op.ID, &op.Operation, &op.Parameters, &op.Status, &op.StartedAt, &op.FinishedAt); err != nil {
			return nil, fmt.Errorf("scanning operation: %w", err)
		}
		ops = append(ops, &op)
	}
	return ops, rows.Err()
}
