package metadata

import (
	"context"

	"github.com/pharmtrack/pharmtrack/internal/common"
)

// InMemoryRepository is a map-backed Repository used in tests and anywhere
// persistence across runs is not required.
type InMemoryRepository struct {
	data map[string][]byte
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{data: make(map[string][]byte)}
}

func (r *InMemoryRepository) Get(ctx context.Context, key string) ([]byte, error) {
	v, ok := r.data[key]
	if !ok {
		return nil, common.ErrorNotFound
	}
	return append([]byte(nil), v...), nil
}

func (r *InMemoryRepository) Set(ctx context.Context, key string, value []byte) error {
	r.data[key] = append([]byte(nil), value...)
	return nil
}

func (r *InMemoryRepository) Delete(ctx context.Context, key string) error {
	delete(r.data, key)
	return nil
}

func (r *InMemoryRepository) Clear(ctx context.Context) error {
	r.data = make(map[string][]byte)
	return nil
}

func (r *InMemoryRepository) List(ctx context.Context) (map[string][]byte, error) {
	result := make(map[string][]byte, len(r.data))
	for k, v := range r.data {
		result[k] = append([]byte(nil), v...)
	}
	return result, nil
}
