// Package storage reads and writes the intermediate catalog file on local
// disk or in S3.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ErrUnsupportedLocation is returned for URIs that are neither paths nor s3://.
var ErrUnsupportedLocation = errors.New("unsupported location")

// S3API is the part of the S3 client the catalog needs.
type S3API interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Location is a parsed catalog URI.
type Location struct {
	Bucket string
	Key    string
	Path   string
}

// IsS3 reports whether the location is an S3 object.
func (l Location) IsS3() bool {
	return l.Bucket != ""
}

func (l Location) String() string {
	if l.IsS3() {
		return "s3://" + l.Bucket + "/" + l.Key
	}
	return l.Path
}

// ParseLocation accepts a local path or s3://bucket/key.
func ParseLocation(uri string) (Location, error) {
	if uri == "" {
		return Location{}, fmt.Errorf("%w: empty", ErrUnsupportedLocation)
	}
	if rest, ok := strings.CutPrefix(uri, "s3://"); ok {
		bucket, key, found := strings.Cut(rest, "/")
		if !found || bucket == "" || key == "" {
			return Location{}, fmt.Errorf("%w: %q needs a bucket and a key", ErrUnsupportedLocation, uri)
		}
		return Location{Bucket: bucket, Key: key}, nil
	}
	if i := strings.Index(uri, "://"); i >= 0 {
		return Location{}, fmt.Errorf("%w: scheme %q", ErrUnsupportedLocation, uri[:i])
	}
	return Location{Path: uri}, nil
}

// Storage moves catalog bytes between the process and a location.
type Storage struct {
	s3 S3API
}

// New returns a Storage. client may be nil when only local paths are used.
func New(client S3API) *Storage {
	return &Storage{s3: client}
}

// NewS3Client builds an S3 client from the default AWS configuration chain.
// A non-empty endpoint switches to path-style addressing against it.
func NewS3Client(ctx context.Context, endpoint string) (*s3.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	}), nil
}

// Read returns the full contents at uri.
func (s *Storage) Read(ctx context.Context, uri string) ([]byte, error) {
	loc, err := ParseLocation(uri)
	if err != nil {
		return nil, err
	}
	if !loc.IsS3() {
		data, err := os.ReadFile(loc.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", loc, err)
		}
		return data, nil
	}

	if s.s3 == nil {
		return nil, fmt.Errorf("no S3 client configured for %s", loc)
	}
	out, err := s.s3.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(loc.Bucket),
		Key:    aws.String(loc.Key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get object from S3: %w", err)
	}
	defer out.Body.Close()

	data, err := io.ReadAll(out.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read S3 object body: %w", err)
	}
	return data, nil
}

// Write replaces the contents at uri.
func (s *Storage) Write(ctx context.Context, uri string, data []byte) error {
	loc, err := ParseLocation(uri)
	if err != nil {
		return err
	}
	if !loc.IsS3() {
		if err := os.WriteFile(loc.Path, data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", loc, err)
		}
		return nil
	}

	if s.s3 == nil {
		return fmt.Errorf("no S3 client configured for %s", loc)
	}
	_, err = s.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(loc.Bucket),
		Key:         aws.String(loc.Key),
		Body:        bytes.NewReader(data),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("failed to put object to S3: %w", err)
	}
	return nil
}

// NewFor returns a Storage able to reach every uri. An S3 client is only
// built when one of them is an s3:// location.
func NewFor(ctx context.Context, endpoint string, uris ...string) (*Storage, error) {
	for _, uri := range uris {
		loc, err := ParseLocation(uri)
		if err != nil {
			return nil, err
		}
		if loc.IsS3() {
			client, err := NewS3Client(ctx, endpoint)
			if err != nil {
				return nil, err
			}
			return New(client), nil
		}
	}
	return New(nil), nil
}
