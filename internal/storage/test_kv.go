package storage

import (
	"context"
	"sync"
)

// TestKV is an in-memory KV, used in tests. Errors can be injected per key.
type TestKV struct {
	mutex     sync.Mutex
	values    map[string]string
	SetErrors map[string]error
	GetErrors map[string]error
}

func NewTestKV() *TestKV {
	return &TestKV{
		values:    make(map[string]string),
		SetErrors: make(map[string]error),
		GetErrors: make(map[string]error),
	}
}

func (kv *TestKV) Get(_ context.Context, key string) (string, bool, error) {
	kv.mutex.Lock()
	defer kv.mutex.Unlock()

	if err := kv.GetErrors[key]; err != nil {
		return "", false, err
	}
	value, ok := kv.values[key]
	return value, ok, nil
}

func (kv *TestKV) Set(_ context.Context, key, value string) error {
	kv.mutex.Lock()
	defer kv.mutex.Unlock()

	if err := kv.SetErrors[key]; err != nil {
		return err
	}
	kv.values[key] = value
	return nil
}

func (kv *TestKV) Close() error {
	return nil
}

// Len returns the number of stored keys.
func (kv *TestKV) Len() int {
	kv.mutex.Lock()
	defer kv.mutex.Unlock()
	return len(kv.values)
}
