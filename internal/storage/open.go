package storage

import (
	"fmt"

	"github.com/hammamikhairi/scorekeep/internal/logger"
)

// Backend kinds accepted by Open.
const (
	KindFile   = "file"
	KindMemory = "memory"
	KindRedis  = "redis"
	KindSQL    = "sql"
	KindNone   = "none"
)

// Options selects and configures a backend.
type Options struct {
	Kind        string
	Dir         string // KindFile
	RedisURL    string // KindRedis
	RedisPrefix string // KindRedis
	SQLDriver   string // KindSQL: sqlite3 or postgres
	SQLDSN      string // KindSQL
}

// Open builds the backend described by opts. The returned close func is
// never nil. KindNone yields a nil Backend, which TeamStore treats as no
// storage capability.
func Open(opts Options, log *logger.Logger) (Backend, func() error, error) {
	noop := func() error { return nil }

	switch opts.Kind {
	case KindFile, "":
		return NewFileBackend(opts.Dir, log), noop, nil
	case KindMemory:
		return NewMemoryBackend(log), noop, nil
	case KindRedis:
		rb, err := DialRedis(opts.RedisURL, opts.RedisPrefix, log)
		if err != nil {
			return nil, noop, err
		}
		return rb, rb.Close, nil
	case KindSQL:
		sb, err := OpenSQL(opts.SQLDriver, opts.SQLDSN, log)
		if err != nil {
			return nil, noop, err
		}
		return sb, sb.Close, nil
	case KindNone:
		return nil, noop, nil
	default:
		return nil, noop, fmt.Errorf("unknown storage backend %q", opts.Kind)
	}
}
