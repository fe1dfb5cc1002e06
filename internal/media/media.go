package media

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/chai2010/webp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

// AllowedTypes maps accepted upload content types to file extensions.
var AllowedTypes = map[string]string{
	"image/jpg":  "jpg",
	"image/jpeg": "jpeg",
	"image/png":  "png",
	"image/webp": "webp",
	"image/svg":  "svg",
}

// ErrUnsupportedType marks an upload request outside the allowlist, so
// callers can tell a client error from a signing failure.
var ErrUnsupportedType = errors.New("media: content type not allowed")

const thumbnailMaxDim = 320

type Metadata struct {
	Size        int64
	ContentType string
}

type Upload struct {
	UploadURL string `json:"uploadUrl"`
	ViewURL   string `json:"viewUrl"`
	Key       string `json:"key"`
}

// Service owns the media bucket: presigned uploads, metadata, deletion and
// thumbnail generation. The CDN fronts all reads.
type Service struct {
	client    *s3.Client
	presigner *s3.PresignClient
	bucket    string
	cdnDomain string
}

func NewService(client *s3.Client, bucket, cdnDomain string) *Service {
	return &Service{
		client:    client,
		presigner: s3.NewPresignClient(client),
		bucket:    bucket,
		cdnDomain: cdnDomain,
	}
}

func (s *Service) ViewURL(key string) string {
	return fmt.Sprintf("https://%s/%s", s.cdnDomain, key)
}

// PresignUpload hands the client a one-hour PUT URL under a per-entity
// prefix. Unknown content types are rejected before any signing.
func (s *Service) PresignUpload(ctx context.Context, entityType, entityID, contentType string) (*Upload, error) {
	ext, ok := AllowedTypes[contentType]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, contentType)
	}

	key := fmt.Sprintf("%s/%s/%d.%s", entityType, entityID, time.Now().UnixMilli(), ext)

	req, err := s.presigner.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(time.Hour))
	if err != nil {
		return nil, fmt.Errorf("media: presign upload: %w", err)
	}

	return &Upload{
		UploadURL: req.URL,
		ViewURL:   s.ViewURL(key),
		Key:       key,
	}, nil
}

func (s *Service) GetMetadata(ctx context.Context, key string) (*Metadata, error) {
	head, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("media: head object %s: %w", key, err)
	}
	return &Metadata{
		Size:        aws.ToInt64(head.ContentLength),
		ContentType: aws.ToString(head.ContentType),
	}, nil
}

func (s *Service) Delete(ctx context.Context, key string) error {
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return fmt.Errorf("media: delete object %s: %w", key, err)
	}
	return nil
}

// GenerateThumbnail fetches the stored image, scales it down and writes a
// webp thumbnail next to the original. Intended as a best-effort follow-up
// after an upload is attached.
func (s *Service) GenerateThumbnail(ctx context.Context, key string) (string, error) {
	obj, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return "", fmt.Errorf("media: get object %s: %w", key, err)
	}
	defer obj.Body.Close()

	src, _, err := image.Decode(obj.Body)
	if err != nil {
		return "", fmt.Errorf("media: decode %s: %w", key, err)
	}

	encoded, err := EncodeThumbnail(src, thumbnailMaxDim)
	if err != nil {
		return "", err
	}

	thumbKey := thumbnailKey(key)
	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(thumbKey),
		Body:        bytes.NewReader(encoded),
		ContentType: aws.String("image/webp"),
	})
	if err != nil {
		return "", fmt.Errorf("media: put thumbnail %s: %w", thumbKey, err)
	}
	return thumbKey, nil
}

// EncodeThumbnail scales src so its longer side is at most maxDim and
// encodes it as webp. Images already small enough keep their size.
func EncodeThumbnail(src image.Image, maxDim int) ([]byte, error) {
	bounds := src.Bounds()
	w, h := bounds.Dx(), bounds.Dy()

	if w > maxDim || h > maxDim {
		if w >= h {
			h = h * maxDim / w
			w = maxDim
		} else {
			w = w * maxDim / h
			h = maxDim
		}
		if w < 1 {
			w = 1
		}
		if h < 1 {
			h = 1
		}
		dst := image.NewRGBA(image.Rect(0, 0, w, h))
		draw.ApproxBiLinear.Scale(dst, dst.Bounds(), src, bounds, draw.Over, nil)
		src = dst
	}

	var buf bytes.Buffer
	if err := webp.Encode(&buf, src, &webp.Options{Quality: 80}); err != nil {
		return nil, fmt.Errorf("media: encode webp: %w", err)
	}
	return buf.Bytes(), nil
}

func thumbnailKey(key string) string {
	if i := strings.LastIndex(key, "."); i > 0 {
		key = key[:i]
	}
	return key + "_thumb.webp"
}
