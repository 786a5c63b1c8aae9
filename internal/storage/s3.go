// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package storage provides an S3-compatible object storage client for the
// avatar and content image buckets. It wraps the AWS SDK v2 and uses
// path-style addressing so MinIO and Ceph work out of the box.
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	s3types "github.com/aws/aws-sdk-go-v2/service/s3/types"
)

// Client wraps an S3 client. Every bucket it manages is publicly readable.
type Client struct {
	s3        *s3.Client
	buckets   []string
	endpoint  string
	publicURL string // optional CDN/direct URL, bucket name follows it
}

// New creates an S3 storage client with path-style addressing. Returns
// (nil, nil) if endpoint or credentials are empty, allowing the app to
// start without storage.
func New(endpoint, region, accessKey, secretKey, publicURL string, buckets ...string) (*Client, error) {
	if endpoint == "" || accessKey == "" || secretKey == "" {
		return nil, nil
	}
	if len(buckets) == 0 {
		return nil, errors.New("storage: at least one bucket is required")
	}

	endpoint = strings.TrimRight(endpoint, "/")

	s3Client := s3.New(s3.Options{
		Region:       region,
		BaseEndpoint: aws.String(endpoint),
		Credentials:  credentials.NewStaticCredentialsProvider(accessKey, secretKey, ""),
		UsePathStyle: true,
	})

	return &Client{
		s3:        s3Client,
		buckets:   buckets,
		endpoint:  endpoint,
		publicURL: strings.TrimRight(publicURL, "/"),
	}, nil
}

// EnsureBuckets creates any managed bucket that does not exist yet.
func (c *Client) EnsureBuckets(ctx context.Context) error {
	for _, bucket := range c.buckets {
		if _, err := c.s3.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(bucket)}); err == nil {
			continue
		}

		_, err := c.s3.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(bucket)})
		var owned *s3types.BucketAlreadyOwnedByYou
		if err != nil && !errors.As(err, &owned) {
			return fmt.Errorf("s3 create bucket %s: %w", bucket, err)
		}
		slog.Info("storage bucket ready", "bucket", bucket)
	}
	return nil
}

// Upload stores an object with a public-read ACL so it can be linked
// directly from pages.
func (c *Client) Upload(ctx context.Context, bucket, key, contentType string, body io.Reader, size int64) error {
	_, err := c.s3.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(bucket),
		Key:           aws.String(key),
		Body:          body,
		ContentLength: aws.Int64(size),
		ContentType:   aws.String(contentType),
		ACL:           s3types.ObjectCannedACLPublicRead,
	})
	if err != nil {
		return fmt.Errorf("s3 upload %s/%s: %w", bucket, key, err)
	}
	return nil
}

// Delete removes an object from the specified bucket.
func (c *Client) Delete(ctx context.Context, bucket, key string) error {
	_, err := c.s3.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("s3 delete %s/%s: %w", bucket, key, err)
	}
	return nil
}

// FileURL returns the public URL for an object. Uses the configured public
// URL if set, otherwise builds a path-style URL on the endpoint.
func (c *Client) FileURL(bucket, key string) string {
	return c.base() + "/" + bucket + "/" + key
}

// ExtractKey returns the object key for a URL produced by FileURL, or
// ("", false) when the URL does not point into bucket. Both the public URL
// and the raw endpoint are recognised so older links still resolve.
func (c *Client) ExtractKey(bucket, rawURL string) (string, bool) {
	for _, base := range []string{c.publicURL, c.endpoint} {
		if base == "" {
			continue
		}
		prefix := base + "/" + bucket + "/"
		if strings.HasPrefix(rawURL, prefix) && len(rawURL) > len(prefix) {
			return rawURL[len(prefix):], true
		}
	}
	return "", false
}

func (c *Client) base() string {
	if c.publicURL != "" {
		return c.publicURL
	}
	return c.endpoint
}
