// Package stage implements the staging driver used by the copy
// planner's second rule (spec §4.4 rule 2): an s3:// or file://
// location that sits between a source and a destination that cannot
// copy directly. It is grounded on
// original_source/dbcrossbarlib/src/drivers/redshift/write_local_data.rs,
// which stages through an s3:// temp dir before invoking Redshift's
// write_remote_data; the S3 client plumbing itself is grounded on
// apecloud-myduckserver/storage/object_storage_client.go's
// config.LoadDefaultConfig + s3.NewFromConfig + feature/s3/manager
// pattern.
package stage

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/s3/manager"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/seamusabshere/dbcrossbar/capability"
	"github.com/seamusabshere/dbcrossbar/errs"
)

// Scheme identifies which concrete staging backend a Locator names.
type Scheme int

const (
	SchemeS3 Scheme = iota
	SchemeFile
)

// Locator names a staging bucket/directory and key prefix: e.g.
// "s3://bucket/prefix/" or "file:///tmp/prefix/" (spec §4.4). GCS
// staging is not implemented; see DESIGN.md for why.
type Locator struct {
	Scheme Scheme
	Bucket string // S3 bucket name; unused for SchemeFile.
	Prefix string
}

// ParseLocator splits a staging URL into its scheme, bucket, and key
// prefix.
func ParseLocator(raw string) (*Locator, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("stage: invalid staging locator %q: %w", raw, err)
	}
	switch u.Scheme {
	case "s3":
		return &Locator{Scheme: SchemeS3, Bucket: u.Host, Prefix: strings.TrimPrefix(u.Path, "/")}, nil
	case "file":
		return &Locator{Scheme: SchemeFile, Prefix: u.Path}, nil
	default:
		return nil, fmt.Errorf("stage: unsupported staging scheme %q", u.Scheme)
	}
}

// Features declares the staging driver's capability set: it only ever
// appears as a --temporary candidate, never as a user-named source or
// destination (spec §4.4 "choose a staging driver from the
// user-provided --temporary list").
func Features() capability.Set {
	return capability.NewSet(
		"stage",
		[]capability.Op{capability.OpLocalData, capability.OpStaging},
		[]capability.IfExists{capability.IfExistsOverwrite},
	)
}

// NewTempKey generates a fresh object key beneath loc.Prefix, unique
// per invocation the way find_s3_temp_dir picks a fresh temp directory
// in the original driver.
func NewTempKey(loc *Locator) string {
	name := uuid.NewString() + ".csv"
	if loc.Prefix == "" {
		return name
	}
	return strings.TrimSuffix(loc.Prefix, "/") + "/" + name
}

// WriteStream uploads one CsvStream's bytes to loc under key, the
// staging half of the planner's "copy source -> staging as local CSV
// streams" step (spec §4.4 rule 2).
func WriteStream(ctx context.Context, loc *Locator, key string, r io.Reader) error {
	switch loc.Scheme {
	case SchemeS3:
		return writeStreamS3(ctx, loc, key, r)
	case SchemeFile:
		return writeStreamFile(key, r)
	default:
		return fmt.Errorf("stage: unknown scheme")
	}
}

func writeStreamS3(ctx context.Context, loc *Locator, key string, r io.Reader) error {
	client, err := newS3Client(ctx)
	if err != nil {
		return err
	}
	uploader := manager.NewUploader(client, func(u *manager.Uploader) {
		u.PartSize = 5 * 1024 * 1024
	})
	if _, err := uploader.Upload(ctx, &s3.PutObjectInput{
		Bucket: aws.String(loc.Bucket),
		Key:    aws.String(key),
		Body:   r,
	}); err != nil {
		return &errs.RemoteError{Backend: "stage:s3", Err: fmt.Errorf("uploading s3://%s/%s: %w", loc.Bucket, key, err)}
	}
	return nil
}

func writeStreamFile(key string, r io.Reader) error {
	if err := os.MkdirAll(filepath.Dir(key), 0o755); err != nil {
		return &errs.IoError{Context: "stage:file mkdir", Err: err}
	}
	f, err := os.Create(key)
	if err != nil {
		return &errs.IoError{Context: "stage:file create", Err: err}
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		return &errs.IoError{Context: "stage:file write", Err: err}
	}
	return nil
}

// ReadStream opens key beneath loc for reading, the counterpart used
// once a destination's write_remote_data pulls the staged object back
// out (e.g. Redshift COPY FROM, BigQuery load job).
func ReadStream(ctx context.Context, loc *Locator, key string) (io.ReadCloser, error) {
	switch loc.Scheme {
	case SchemeS3:
		return readStreamS3(ctx, loc, key)
	case SchemeFile:
		f, err := os.Open(key)
		if err != nil {
			return nil, &errs.IoError{Context: "stage:file open", Err: err}
		}
		return f, nil
	default:
		return nil, fmt.Errorf("stage: unknown scheme")
	}
}

func readStreamS3(ctx context.Context, loc *Locator, key string) (io.ReadCloser, error) {
	client, err := newS3Client(ctx)
	if err != nil {
		return nil, err
	}
	out, err := client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(loc.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, &errs.RemoteError{Backend: "stage:s3", Err: fmt.Errorf("downloading s3://%s/%s: %w", loc.Bucket, key, err)}
	}
	return out.Body, nil
}

// Cleanup removes a staged object. cp calls it only after a successful
// copy, so a failed copy leaves its staged object in place; there is no
// option to remove staged objects on failure.
func Cleanup(ctx context.Context, loc *Locator, key string) error {
	switch loc.Scheme {
	case SchemeS3:
		client, err := newS3Client(ctx)
		if err != nil {
			return err
		}
		if _, err := client.DeleteObject(ctx, &s3.DeleteObjectInput{
			Bucket: aws.String(loc.Bucket),
			Key:    aws.String(key),
		}); err != nil {
			return &errs.RemoteError{Backend: "stage:s3", Err: err}
		}
		return nil
	case SchemeFile:
		if err := os.Remove(key); err != nil {
			return &errs.IoError{Context: "stage:file remove", Err: err}
		}
		return nil
	default:
		return nil
	}
}

func newS3Client(ctx context.Context) (*s3.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, &errs.RemoteError{Backend: "stage:s3", Err: fmt.Errorf("loading AWS config: %w", err)}
	}
	return s3.NewFromConfig(cfg), nil
}
