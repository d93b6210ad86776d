package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/vango-dev/sortable/internal/config"
)

// objectAPI is the part of *s3.Client the S3 store uses.
type objectAPI interface {
	GetObject(ctx context.Context, in *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3 keeps each sortable type as one JSON object, prefix + type + ".json".
// Writes are read-modify-write; the mutex serialises them within a process.
type S3 struct {
	client objectAPI
	bucket string
	prefix string
	mu     sync.Mutex
}

// NewS3 wraps an existing client.
func NewS3(client *s3.Client, bucket, prefix string) *S3 {
	return &S3{client: client, bucket: bucket, prefix: prefix}
}

// OpenS3 builds a client from cfg. Credentials come from
// AWS_ACCESS_KEY_ID / AWS_SECRET_ACCESS_KEY; without them requests are
// anonymous.
func OpenS3(cfg config.StoreConfig) (*S3, error) {
	opts := s3.Options{
		Region:      cfg.Region,
		Credentials: envCredentials(),
	}
	if cfg.Endpoint != "" {
		opts.BaseEndpoint = aws.String(cfg.Endpoint)
		opts.UsePathStyle = true
	}
	return NewS3(s3.New(opts), cfg.Bucket, cfg.Prefix), nil
}

func envCredentials() aws.CredentialsProvider {
	id, secret := os.Getenv("AWS_ACCESS_KEY_ID"), os.Getenv("AWS_SECRET_ACCESS_KEY")
	if id == "" || secret == "" {
		return aws.AnonymousCredentials{}
	}
	return aws.CredentialsProviderFunc(func(context.Context) (aws.Credentials, error) {
		return aws.Credentials{
			AccessKeyID:     id,
			SecretAccessKey: secret,
			SessionToken:    os.Getenv("AWS_SESSION_TOKEN"),
			Source:          "environment",
		}, nil
	})
}

func (s *S3) key(typ string) string { return s.prefix + typ + ".json" }

func (s *S3) load(ctx context.Context, typ string) ([]Entry, error) {
	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(s.key(typ)),
	})
	if err != nil {
		var noKey *types.NoSuchKey
		if errors.As(err, &noKey) {
			return nil, nil
		}
		return nil, fmt.Errorf("s3 get %s: %w", s.key(typ), err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, err
	}
	var entries []Entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("s3 decode %s: %w", s.key(typ), err)
	}
	return entries, nil
}

func (s *S3) save(ctx context.Context, typ string, entries []Entry) error {
	sortEntries(entries)
	data, err := json.Marshal(entries)
	if err != nil {
		return err
	}
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(s.key(typ)),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("s3 put %s: %w", s.key(typ), err)
	}
	return nil
}

// List implements Store.
func (s *S3) List(ctx context.Context, typ string) ([]Entry, error) {
	entries, err := s.load(ctx, typ)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, unknownType(typ)
	}
	sortEntries(entries)
	return entries, nil
}

// Put implements Store.
func (s *S3) Put(ctx context.Context, typ string, e Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load(ctx, typ)
	if err != nil {
		return err
	}
	replaced := false
	for i := range entries {
		if entries[i].ID == e.ID {
			entries[i] = e
			replaced = true
			break
		}
	}
	if !replaced {
		entries = append(entries, e)
	}
	return s.save(ctx, typ, entries)
}

// Reorder implements Store.
func (s *S3) Reorder(ctx context.Context, typ string, orders map[int]int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	entries, err := s.load(ctx, typ)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		return unknownType(typ)
	}
	known := make(map[int]bool, len(entries))
	for _, e := range entries {
		known[e.ID] = true
	}
	if err := checkIDs(typ, known, orders); err != nil {
		return err
	}
	for i := range entries {
		if order, ok := orders[entries[i].ID]; ok {
			entries[i].Order = order
		}
	}
	return s.save(ctx, typ, entries)
}

// Close implements Store.
func (s *S3) Close() error { return nil }
