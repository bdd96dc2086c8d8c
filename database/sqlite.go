package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"

	"github.com/mbolis/tichi-survey/model"
)

type sqliteStore struct {
	db *sql.DB
}

func openSqlite(path string) (Store, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	// db tuning options
	db.SetMaxOpenConns(20)
	db.SetMaxIdleConns(10)
	db.SetConnMaxIdleTime(5 * time.Minute)
	db.SetConnMaxLifetime(2 * time.Hour)

	err = migrateSqlite(db)
	if err != nil {
		db.Close()
		return nil, err
	}

	return &sqliteStore{db}, nil
}

func (s *sqliteStore) Ready(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: %s", ErrUnavailable, err)
	}
	return nil
}

func (s *sqliteStore) Insert(ctx context.Context, sub *model.Submission) error {
	userInfo, err := json.Marshal(sub.UserInfo)
	if err != nil {
		return fmt.Errorf("marshal userInfo: %w", err)
	}
	responses, err := json.Marshal(sub.Responses)
	if err != nil {
		return fmt.Errorf("marshal responses: %w", err)
	}

	id := uuid.NewString()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO survey_response (id, user_info, responses, submitted_at)
		VALUES (?, ?, ?, ?)`,
		id,
		string(userInfo),
		string(responses),
		sub.SubmittedAt,
	)
	if err != nil {
		return sqliteError(err)
	}

	sub.ID = id
	return nil
}

func (s *sqliteStore) Close() error {
	return s.db.Close()
}

func sqliteError(err error) error {
	var serr sqlite3.Error
	if errors.As(err, &serr) {
		switch serr.ExtendedCode {
		case sqlite3.ErrConstraintUnique, sqlite3.ErrConstraintPrimaryKey:
			return fmt.Errorf("%w: %s", ErrDuplicate, serr)
		case sqlite3.ErrConstraintCheck, sqlite3.ErrConstraintNotNull:
			return model.NewValidationError(serr)
		}
		switch serr.Code {
		case sqlite3.ErrCantOpen, sqlite3.ErrBusy, sqlite3.ErrLocked:
			return fmt.Errorf("%w: %s", ErrUnavailable, serr)
		}
	}
	if errors.Is(err, sql.ErrConnDone) {
		return fmt.Errorf("%w: %s", ErrUnavailable, err)
	}
	return err
}
