package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/mbolis/tichi-survey/config"
	"github.com/mbolis/tichi-survey/model"
)

// Collection is the logical collection (or table) holding survey responses.
const Collection = "TichiSurveyResponses"

var (
	ErrDuplicate   = errors.New("duplicate entry")
	ErrUnavailable = errors.New("store not ready")
)

// Store persists submissions. Insert assigns sub.ID.
type Store interface {
	Ready(ctx context.Context) error
	Insert(ctx context.Context, sub *model.Submission) error
	Close() error
}

// Open picks the backend from the connection string scheme.
func Open(ctx context.Context, cfg config.Config) (Store, error) {
	switch url := cfg.DBUrl; {
	case strings.HasPrefix(url, "mongodb://"), strings.HasPrefix(url, "mongodb+srv://"):
		return openMongo(ctx, url, cfg.DBName)
	case strings.HasPrefix(url, "sqlite3://"):
		return openSqlite(strings.TrimPrefix(url, "sqlite3://"))
	case strings.HasPrefix(url, "file:"):
		return openSqlite(url)
	default:
		return nil, fmt.Errorf("unsupported connection string %q", cfg.MaskedDBUrl())
	}
}
