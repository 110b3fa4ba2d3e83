package assets

import (
	"context"
	"errors"
	"io/fs"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/rotisserie/eris"
)

// Source reads raw asset bytes by slash-separated path.
type Source interface {
	Read(ctx context.Context, path string) ([]byte, error)
}

// FSSource reads assets from a file system, typically os.DirFS or an
// embed.FS.
type FSSource struct {
	fsys fs.FS
}

// NewFSSource returns a Source backed by fsys.
func NewFSSource(fsys fs.FS) *FSSource {
	return &FSSource{fsys: fsys}
}

// Read implements Source.
func (s *FSSource) Read(ctx context.Context, path string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := fs.ReadFile(s.fsys, strings.TrimPrefix(path, "/"))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, eris.Wrapf(ErrNotFound, "read %q", path)
	}
	if err != nil {
		return nil, eris.Wrapf(err, "read %q", path)
	}
	return data, nil
}

// RedisSource reads assets stored as plain string values, keyed by prefix
// plus path.
type RedisSource struct {
	client redis.UniversalClient
	prefix string
}

// RedisOption configures a RedisSource.
type RedisOption func(*RedisSource)

// WithPrefix sets the key prefix. The default is "prefab:asset:".
func WithPrefix(prefix string) RedisOption {
	return func(s *RedisSource) {
		s.prefix = prefix
	}
}

// NewRedisSource returns a Source backed by client.
func NewRedisSource(client redis.UniversalClient, opts ...RedisOption) *RedisSource {
	s := &RedisSource{
		client: client,
		prefix: "prefab:asset:",
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisSource) key(path string) string {
	return s.prefix + strings.TrimPrefix(path, "/")
}

// Read implements Source.
func (s *RedisSource) Read(ctx context.Context, path string) ([]byte, error) {
	data, err := s.client.Get(ctx, s.key(path)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, eris.Wrapf(ErrNotFound, "redis key %q", s.key(path))
	}
	if err != nil {
		return nil, eris.Wrapf(err, "redis get %q", s.key(path))
	}
	return data, nil
}

// Put stores data under path. It is used to seed a cache from disk.
func (s *RedisSource) Put(ctx context.Context, path string, data []byte) error {
	if err := s.client.Set(ctx, s.key(path), data, 0).Err(); err != nil {
		return eris.Wrapf(err, "redis set %q", s.key(path))
	}
	return nil
}
