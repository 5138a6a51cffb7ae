/*
Copyright © 2024 the FY3-Reader authors.
This file is part of FY3-Reader.

FY3-Reader is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

FY3-Reader is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with FY3-Reader.  If not, see <http://www.gnu.org/licenses/>.
*/


package fy3util

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/cenkalti/backoff"
	"github.com/sirupsen/logrus"
	"gocloud.dev/blob"
	"gocloud.dev/blob/fileblob"
	"gocloud.dev/blob/gcsblob"
	"gocloud.dev/blob/s3blob"
	"gocloud.dev/gcp"
)

// downloadRetries is the number of times a failed HTTP download is retried.
const downloadRetries = 3

// maybeDownload returns a local path for the granule at path.
// Existing local files are returned unchanged. HTTP(S) URLs and blob
// URLs are copied into a temporary directory; the returned cleanup
// function removes it.
func maybeDownload(ctx context.Context, path string) (string, func(), error) {
	nop := func() {}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return path, nop, nil
	}
	var (
		r   io.ReadCloser
		err error
	)
	switch {
	case strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://"):
		r, err = openHTTP(ctx, path)
	case IsBlob(path):
		r, err = openBlob(ctx, path)
	default:
		return path, nop, nil
	}
	if err != nil {
		return "", nop, fmt.Errorf("fy3util: downloading %s: %v", path, err)
	}
	defer r.Close()

	dir, err := os.MkdirTemp("", "fy3")
	if err != nil {
		return "", nop, fmt.Errorf("fy3util: failed creating temporary download directory: %v", err)
	}
	cleanup := func() { os.RemoveAll(dir) }
	name := filepath.Join(dir, baseName(path))
	w, err := os.Create(name)
	if err != nil {
		cleanup()
		return "", nop, fmt.Errorf("fy3util: failed creating file for download: %v", err)
	}
	if _, err = io.Copy(w, r); err != nil {
		w.Close()
		cleanup()
		return "", nop, fmt.Errorf("fy3util: downloading %s: %v", path, err)
	}
	if err = w.Close(); err != nil {
		cleanup()
		return "", nop, err
	}
	return name, cleanup, nil
}

func baseName(path string) string {
	if u, err := url.Parse(path); err == nil && u.Path != "" {
		path = u.Path
	}
	b := filepath.Base(path)
	if b == "." || b == "/" {
		return "granule.h5"
	}
	return b
}

// openHTTP requests path, retrying transport errors and server errors
// with exponential backoff. Client errors are not retried.
func openHTTP(ctx context.Context, path string) (io.ReadCloser, error) {
	var (
		body      io.ReadCloser
		permanent error
	)
	err := backoff.RetryNotify(
		func() error {
			req, err := http.NewRequest(http.MethodGet, path, nil)
			if err != nil {
				permanent = err
				return nil
			}
			resp, err := http.DefaultClient.Do(req.WithContext(ctx))
			if err != nil {
				return err
			}
			switch {
			case resp.StatusCode == http.StatusOK:
				body = resp.Body
				return nil
			case resp.StatusCode >= 500:
				resp.Body.Close()
				return fmt.Errorf("status %s", resp.Status)
			}
			resp.Body.Close()
			permanent = fmt.Errorf("status %s", resp.Status)
			return nil
		},
		backoff.WithMaxRetries(backoff.NewExponentialBackOff(), downloadRetries),
		func(err error, d time.Duration) {
			logrus.WithField("url", path).Warnf("fy3util: %v: retrying in %v", err, d)
		},
	)
	if err != nil {
		return nil, err
	}
	if permanent != nil {
		return nil, permanent
	}
	return body, nil
}

// IsBlob returns whether the given filename represents a blob.
// (i.e., if it starts with `gs://`, 's3://', or 'file://').
func IsBlob(path string) bool {
	return strings.HasPrefix(path, "gs://") || strings.HasPrefix(path, "s3://") || strings.HasPrefix(path, "file://")
}

// OpenBucket returns the blob storage bucket specified by bucketName,
// where bucketName must be in the format 'provider://name'.
// The accepted storage providers are "file" for a local directory,
// "gs" for Google Cloud Storage, and "s3" for AWS S3.
func OpenBucket(ctx context.Context, bucketName string) (*blob.Bucket, error) {
	u, err := url.Parse(bucketName)
	if err != nil {
		return nil, fmt.Errorf("fy3util.OpenBucket: %v", err)
	}
	switch u.Scheme {
	case "file":
		return fileblob.OpenBucket(u.Host+u.Path, nil)
	case "gs":
		return gsBucket(ctx, u.Hostname())
	case "s3":
		return s3Bucket(ctx, u.Hostname())
	default:
		return nil, fmt.Errorf("fy3util.OpenBucket: invalid provider %s", u.Scheme)
	}
}

func gsBucket(ctx context.Context, name string) (*blob.Bucket, error) {
	creds, err := gcp.DefaultCredentials(ctx)
	if err != nil {
		return nil, err
	}
	c, err := gcp.NewHTTPClient(gcp.DefaultTransport(), gcp.CredentialsTokenSource(creds))
	if err != nil {
		return nil, err
	}
	return gcsblob.OpenBucket(ctx, c, name, nil)
}

// s3Bucket opens an s3 storage bucket. It assumes the following
// environment variables are set: AWS_REGION, AWS_ACCESS_KEY_ID, and
// AWS_SECRET_ACCESS_KEY.
func s3Bucket(ctx context.Context, name string) (*blob.Bucket, error) {
	region := os.Getenv("AWS_REGION")
	if region == "" {
		region = "ap-east-1"
	}
	c := &aws.Config{
		Region:      aws.String(region),
		Credentials: credentials.NewEnvCredentials(),
	}
	s, err := session.NewSession(c)
	if err != nil {
		return nil, err
	}
	return s3blob.OpenBucket(ctx, s, name, nil)
}

// openBlob opens a reader for a blob URL. For file:// URLs the bucket
// is the directory holding the file.
func openBlob(ctx context.Context, path string) (io.ReadCloser, error) {
	u, err := url.Parse(path)
	if err != nil {
		return nil, err
	}
	bucketName, key := u.Scheme+"://"+u.Host, strings.TrimPrefix(u.Path, "/")
	if u.Scheme == "file" {
		dir := filepath.Dir(u.Host + u.Path)
		bucketName, key = "file://"+dir, filepath.Base(u.Path)
	}
	bucket, err := OpenBucket(ctx, bucketName)
	if err != nil {
		return nil, err
	}
	r, err := bucket.NewReader(ctx, key, nil)
	if err != nil {
		bucket.Close()
		return nil, err
	}
	return &blobReader{Reader: r, bucket: bucket}, nil
}

type blobReader struct {
	*blob.Reader
	bucket *blob.Bucket
}

func (b *blobReader) Close() error {
	err := b.Reader.Close()
	if cerr := b.bucket.Close(); err == nil {
		err = cerr
	}
	return err
}
