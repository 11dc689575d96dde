// Package storage archives rendered bills in S3-compatible object storage.
package storage

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

var ErrNotConfigured = errors.New("bill archive is not configured")

// BillArchive stores bill documents and returns where they can be fetched
type BillArchive interface {
	Put(ctx context.Context, key string, pdf []byte) (string, error)
}

// ObjectPutter is the subset of *s3.Client the archive uses
type ObjectPutter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// R2Config configures an R2Archive
type R2Config struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	Bucket        string
	PublicBaseURL string
}

// Enabled reports whether enough is set to reach a bucket
func (c R2Config) Enabled() bool {
	return c.Endpoint != "" && c.Bucket != "" && c.AccessKey != "" && c.SecretKey != ""
}

// R2Archive writes bills to a Cloudflare R2 bucket
type R2Archive struct {
	client  ObjectPutter
	bucket  string
	baseURL string
}

// NewR2Archive builds an S3 client for the R2 endpoint
func NewR2Archive(ctx context.Context, cfg R2Config) (*R2Archive, error) {
	if !cfg.Enabled() {
		return nil, ErrNotConfigured
	}

	awsCfg, err := config.LoadDefaultConfig(
		ctx,
		config.WithRegion("auto"),
		config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		),
	)
	if err != nil {
		return nil, fmt.Errorf("load r2 config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(cfg.Endpoint)
		o.UsePathStyle = true
	})
	return NewArchive(client, cfg.Bucket, cfg.PublicBaseURL), nil
}

// NewArchive wraps an existing client
func NewArchive(client ObjectPutter, bucket, publicBaseURL string) *R2Archive {
	return &R2Archive{
		client:  client,
		bucket:  bucket,
		baseURL: strings.TrimRight(publicBaseURL, "/"),
	}
}

// BillKey is the object key for a reservation's bill
func BillKey(reservationID, filename string) string {
	return "bills/" + reservationID + "/" + filename
}

func (a *R2Archive) Put(ctx context.Context, key string, pdf []byte) (string, error) {
	_, err := a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(key),
		Body:        bytes.NewReader(pdf),
		ContentType: aws.String("application/pdf"),
	})
	if err != nil {
		return "", fmt.Errorf("put %s: %w", key, err)
	}

	if a.baseURL == "" {
		return fmt.Sprintf("https://%s/%s", a.bucket, key), nil
	}
	return fmt.Sprintf("%s/%s", a.baseURL, key), nil
}
