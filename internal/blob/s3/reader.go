package s3blob

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/alanyoungcy/cardarb/internal/domain"
)

// Reader inspects archived objects in the configured bucket.
type Reader struct {
	client *s3.Client
	bucket string
}

// NewReader creates a Reader for the client's bucket.
func NewReader(c *Client) *Reader {
	return &Reader{
		client: c.S3(),
		bucket: c.Bucket(),
	}
}

// Size returns the stored length of the object at path. A missing object
// yields an error wrapping domain.ErrNotFound.
func (r *Reader) Size(ctx context.Context, path string) (int64, error) {
	out, err := r.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(r.bucket),
		Key:    aws.String(path),
	})
	switch {
	case err == nil:
		return aws.ToInt64(out.ContentLength), nil
	case missingObject(err):
		return 0, fmt.Errorf("s3blob: head %s: %w", path, domain.ErrNotFound)
	default:
		return 0, fmt.Errorf("s3blob: head %s: %w", path, err)
	}
}

// missingObject reports whether a HeadObject failure means the key is
// absent. S3-compatible stores sometimes answer with a bare 404.
func missingObject(err error) bool {
	var notFound *types.NotFound
	var noKey *types.NoSuchKey
	if errors.As(err, &notFound) || errors.As(err, &noKey) {
		return true
	}
	var status interface{ HTTPStatusCode() int }
	return errors.As(err, &status) && status.HTTPStatusCode() == http.StatusNotFound
}

var _ ObjectChecker = (*Reader)(nil)
