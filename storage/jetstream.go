package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
)

// JetStreamStore keeps objects in a NATS JetStream Object Store bucket.
// Objects are still served publicly through this service at baseURL, so the
// URL contract matches the disk backend.
type JetStreamStore struct {
	conn    *nats.Conn
	store   jetstream.ObjectStore
	baseURL string
}

// NewJetStreamStore connects to NATS and opens (or creates) the bucket.
func NewJetStreamStore(ctx context.Context, natsURL, bucket, baseURL string) (*JetStreamStore, error) {
	conn, err := nats.Connect(natsURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	js, err := jetstream.New(conn)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	store, err := js.ObjectStore(ctx, bucket)
	if err != nil {
		store, err = js.CreateObjectStore(ctx, jetstream.ObjectStoreConfig{
			Bucket:      bucket,
			Description: "Product image storage bucket",
		})
		if err != nil {
			conn.Close()
			return nil, fmt.Errorf("failed to create object store bucket: %w", err)
		}
	}

	return &JetStreamStore{
		conn:    conn,
		store:   store,
		baseURL: strings.TrimSuffix(baseURL, "/"),
	}, nil
}

func (s *JetStreamStore) Upload(ctx context.Context, key string, data []byte, contentType string) error {
	if _, err := s.store.GetInfo(ctx, key); err == nil {
		return ErrObjectExists
	}

	meta := jetstream.ObjectMeta{
		Name: key,
		Headers: nats.Header{
			"Content-Type": []string{contentType},
		},
	}
	if _, err := s.store.Put(ctx, meta, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to store object: %w", err)
	}
	return nil
}

func (s *JetStreamStore) Get(ctx context.Context, key string) ([]byte, string, error) {
	result, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, jetstream.ErrObjectNotFound) {
			return nil, "", ErrObjectNotFound
		}
		return nil, "", fmt.Errorf("failed to get object: %w", err)
	}
	defer result.Close()

	data, err := io.ReadAll(result)
	if err != nil {
		return nil, "", fmt.Errorf("failed to read object data: %w", err)
	}

	contentType := "application/octet-stream"
	if info, err := result.Info(); err == nil && info.Headers != nil {
		if ct := info.Headers.Get("Content-Type"); ct != "" {
			contentType = ct
		}
	}
	return data, contentType, nil
}

func (s *JetStreamStore) Remove(ctx context.Context, key string) error {
	if err := s.store.Delete(ctx, key); err != nil {
		if errors.Is(err, jetstream.ErrObjectNotFound) {
			return ErrObjectNotFound
		}
		return fmt.Errorf("failed to delete object: %w", err)
	}
	return nil
}

func (s *JetStreamStore) PublicURL(key string) string {
	return s.baseURL + "/" + key
}

func (s *JetStreamStore) KeyFromPublicURL(url string) string {
	key, ok := strings.CutPrefix(url, s.baseURL+"/")
	if !ok {
		return ""
	}
	return key
}

// Close closes the NATS connection.
func (s *JetStreamStore) Close() error {
	if s.conn != nil {
		s.conn.Close()
	}
	return nil
}
