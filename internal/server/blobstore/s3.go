// Package blobstore stores uploaded resume files in an S3-compatible bucket
// (MinIO in development) and returns durable links to them.
package blobstore

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"mime"
	"path"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/jobboard/internal/common"
	"github.com/google/uuid"
)

const PDFContentType = "application/pdf"

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	now = time.Now
)

type objectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// Options configures an S3Store.
type Options struct {
	Region        string
	AccessKey     string
	SecretKey     string
	BaseEndpoint  string
	Bucket        string
	PublicBaseURL string
}

// S3Store uploads resumes with PutObject.
type S3Store struct {
	client     objectPutter
	bucket     string
	publicBase string
}

func NewS3Store(ctx context.Context, opts Options) (*S3Store, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(opts.Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			opts.AccessKey,
			opts.SecretKey,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		if opts.BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(opts.BaseEndpoint)
		}
		// MinIO serves buckets under the path, not as subdomains.
		o.UsePathStyle = true
	})

	publicBase := opts.PublicBaseURL
	if publicBase == "" {
		publicBase = opts.BaseEndpoint
	}
	return newS3Store(client, opts.Bucket, publicBase), nil
}

func newS3Store(client objectPutter, bucket, publicBase string) *S3Store {
	return &S3Store{
		client:     client,
		bucket:     bucket,
		publicBase: strings.TrimRight(publicBase, "/"),
	}
}

// ResumeKey returns a fresh object key of the form resumes/yyyy/mm/dd/<uuid>.pdf.
func ResumeKey() string {
	d := now()
	return fmt.Sprintf("resumes/%04d/%02d/%02d/%s.pdf", d.Year(), d.Month(), d.Day(), uuid.New())
}

// ContentDisposition returns an attachment disposition carrying the base
// name of filename, or a bare "attachment" when no usable name is given.
func ContentDisposition(filename string) string {
	name := path.Base(strings.ReplaceAll(strings.TrimSpace(filename), "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return "attachment"
	}
	if d := mime.FormatMediaType("attachment", map[string]string{"filename": name}); d != "" {
		return d
	}
	return "attachment"
}

// PutResume uploads a PDF and returns its public link. filename becomes the
// object's download name. A context deadline yields common.ErrTimeout, any
// other failure wraps common.ErrBlobStore.
func (s *S3Store) PutResume(ctx context.Context, filename string, data []byte) (string, error) {
	key := ResumeKey()

	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:             aws.String(s.bucket),
		Key:                aws.String(key),
		Body:               bytes.NewReader(data),
		ContentLength:      aws.Int64(int64(len(data))),
		ContentType:        aws.String(PDFContentType),
		ContentDisposition: aws.String(ContentDisposition(filename)),
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return "", common.ErrTimeout
		}
		return "", fmt.Errorf("%w: put object: %v", common.ErrBlobStore, err)
	}

	return s.URL(key), nil
}

// URL returns <public base>/<bucket>/<key>.
func (s *S3Store) URL(key string) string {
	return s.publicBase + "/" + s.bucket + "/" + key
}
