package prefstore

import (
	"context"

	"github.com/valkey-io/valkey-go"

	"github.com/yanqian/weather-dashboard/internal/domain/preferences"
)

// ValkeyBackend stores records as plain string keys in a Valkey-compatible database.
type ValkeyBackend struct {
	client valkey.Client
	prefix string
}

// NewValkeyBackend constructs a new backend.
func NewValkeyBackend(client valkey.Client, prefix string) *ValkeyBackend {
	if prefix == "" {
		prefix = "weather"
	}
	return &ValkeyBackend{client: client, prefix: prefix}
}

func (b *ValkeyBackend) Get(ctx context.Context, key string) (string, bool, error) {
	payload, err := b.client.Do(ctx, b.client.B().Get().Key(b.key(key)).Build()).ToString()
	if err != nil {
		if valkey.IsValkeyNil(err) {
			return "", false, nil
		}
		return "", false, err
	}
	return payload, true, nil
}

func (b *ValkeyBackend) Set(ctx context.Context, key, value string) error {
	return b.client.Do(ctx, b.client.B().Set().Key(b.key(key)).Value(value).Build()).Error()
}

func (b *ValkeyBackend) Delete(ctx context.Context, key string) error {
	return b.client.Do(ctx, b.client.B().Del().Key(b.key(key)).Build()).Error()
}

func (b *ValkeyBackend) key(key string) string {
	return b.prefix + ":" + key
}

var _ preferences.Backend = (*ValkeyBackend)(nil)
