package sequence_test

import (
	"context"
	"errors"
	"testing"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/fieldservice/internal/sequence"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name    string
		prefix  string
		padding int
		n       int64
		want    string
	}{
		{name: "Padded", prefix: "SO", padding: 5, n: 42, want: "SO00042"},
		{name: "Overflow", prefix: "SO", padding: 3, n: 12345, want: "SO12345"},
		{name: "NoPrefix", prefix: "", padding: 4, n: 7, want: "0007"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, sequence.Format(tt.prefix, tt.padding, tt.n))
		})
	}
}

// counter embeds redis.Cmdable so only Incr needs an implementation.
type counter struct {
	redis.Cmdable
	n   int64
	err error
}

func (c *counter) Incr(ctx context.Context, key string) *redis.IntCmd {
	cmd := redis.NewIntCmd(ctx, "incr", key)
	if c.err != nil {
		cmd.SetErr(c.err)
		return cmd
	}

	c.n++
	cmd.SetVal(c.n)

	return cmd
}

func TestRedis_Next(t *testing.T) {
	c := &counter{n: 41}
	issuer := sequence.NewRedis(c, "service_order_seq", "SO", 5)

	got, err := issuer.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "SO00042", got)

	got, err = issuer.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "SO00043", got)

	c.err = errors.New("connection refused")
	_, err = issuer.Next(context.Background())
	assert.Error(t, err)
}
