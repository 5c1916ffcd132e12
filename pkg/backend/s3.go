package backend

import (
	"context"
	"io"
	"net/url"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"

	"github.com/cperrin88/assetfetch/pkg/errors"
)

// s3Backend serves s3:// hrefs. Without requester-pays it runs anonymously,
// so public buckets work with no credentials configured; with requester-pays
// it picks up the ambient AWS credential chain. Retries are handled by the
// SDK according to the configured mode and attempt count.
type s3Backend struct {
	client        *s3.Client
	requesterPays bool
}

func newS3Backend(ctx context.Context, opts Options) (Backend, error) {
	opts = opts.withDefaults()

	cfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(opts.S3Region),
		awsconfig.WithRetryMode(aws.RetryMode(opts.S3RetryMode)),
		awsconfig.WithRetryMaxAttempts(opts.S3MaxAttempts),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to load aws config")
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		if !opts.S3RequesterPays {
			// Requester-pays needs real credentials; everything else can
			// read public buckets unsigned.
			o.Credentials = aws.AnonymousCredentials{}
		}
	})
	return &s3Backend{client: client, requesterPays: opts.S3RequesterPays}, nil
}

func (b *s3Backend) Open(ctx context.Context, href string, mediaType string) (io.ReadCloser, int64, error) {
	bucket, key, err := splitS3Href(href)
	if err != nil {
		return nil, SizeUnknown, err
	}

	input := &s3.GetObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}
	if b.requesterPays {
		input.RequestPayer = types.RequestPayerRequester
	}

	out, err := b.client.GetObject(ctx, input)
	if err != nil {
		return nil, SizeUnknown, errors.Wrapf(err, "failed to get s3://%s/%s", bucket, key)
	}
	if mediaType != "" {
		if err := CheckContentType(aws.ToString(out.ContentType), mediaType); err != nil {
			_ = out.Body.Close()
			return nil, SizeUnknown, err
		}
	}

	size := SizeUnknown
	if out.ContentLength != nil {
		size = *out.ContentLength
	}
	return out.Body, size, nil
}

func (b *s3Backend) AssertExists(ctx context.Context, href string) error {
	bucket, key, err := splitS3Href(href)
	if err != nil {
		return err
	}

	input := &s3.HeadObjectInput{
		Bucket: aws.String(bucket),
		Key:    aws.String(key),
	}
	if b.requesterPays {
		input.RequestPayer = types.RequestPayerRequester
	}
	_, err = b.client.HeadObject(ctx, input)
	return errors.Wrapf(err, "failed to head s3://%s/%s", bucket, key)
}

func (b *s3Backend) Close() error { return nil }

// splitS3Href splits an s3:// href into bucket and key.
func splitS3Href(href string) (string, string, error) {
	u, err := url.Parse(href)
	if err != nil {
		return "", "", errors.Wrapf(err, "invalid href %q", href)
	}
	if u.Scheme != "s3" || u.Host == "" {
		return "", "", errors.Wrapf(ErrUnsupportedScheme, "expected an s3:// href, got %q", href)
	}
	key := strings.TrimPrefix(u.Path, "/")
	if key == "" {
		return "", "", errors.Wrapf(ErrUnsupportedScheme, "href %q has no object key", href)
	}
	return u.Host, key, nil
}
