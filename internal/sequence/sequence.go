package sequence

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// Format renders the n-th reference, e.g. SO00042.
func Format(prefix string, padding int, n int64) string {
	return fmt.Sprintf("%s%0*d", prefix, padding, n)
}

// Postgres issues references from a database sequence.
type Postgres struct {
	db      *sql.DB
	name    string
	prefix  string
	padding int
}

func NewPostgres(db *sql.DB, name, prefix string, padding int) *Postgres {
	return &Postgres{db: db, name: name, prefix: prefix, padding: padding}
}

func (p *Postgres) Next(ctx context.Context) (string, error) {
	var n int64
	if err := p.db.QueryRowContext(ctx, "SELECT nextval($1::regclass)", p.name).Scan(&n); err != nil {
		return "", fmt.Errorf("reserving reference from %s: %w", p.name, err)
	}

	return Format(p.prefix, p.padding, n), nil
}

// Redis issues references with an atomic INCR on a single key.
type Redis struct {
	client  redis.Cmdable
	key     string
	prefix  string
	padding int
}

func NewRedis(client redis.Cmdable, key, prefix string, padding int) *Redis {
	return &Redis{client: client, key: key, prefix: prefix, padding: padding}
}

func (r *Redis) Next(ctx context.Context) (string, error) {
	n, err := r.client.Incr(ctx, r.key).Result()
	if err != nil {
		return "", fmt.Errorf("reserving reference from %s: %w", r.key, err)
	}

	return Format(r.prefix, r.padding, n), nil
}
