package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	v4 "github.com/aws/aws-sdk-go-v2/aws/signer/v4"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"

	"github.com/dmitrijs2005/quickqr/internal/common"
	sc "github.com/dmitrijs2005/quickqr/internal/server/config"
)

// PresignExpiry bounds how long an upload URL stays valid.
const PresignExpiry = 15 * time.Minute

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) *s3.Client {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newS3PresignClient = func(c *s3.Client) *s3.PresignClient {
		return s3.NewPresignClient(c)
	}

	presignPutObject = func(pc *s3.PresignClient, ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.PresignOptions)) (*v4.PresignedHTTPRequest, error) {
		return pc.PresignPutObject(ctx, in, optFns...)
	}
)

// logoExtensions lists the accepted upload types.
var logoExtensions = map[string]string{
	"image/png":  ".png",
	"image/jpeg": ".jpg",
	"image/gif":  ".gif",
	"image/webp": ".webp",
}

// LogoService hands out presigned S3 PUT URLs for logo images.
type LogoService struct {
	config *sc.Config
	now    func() time.Time
}

func NewLogoService(config *sc.Config) *LogoService {
	return &LogoService{config: config, now: time.Now}
}

// storageKey places an object under logos/<owner>/<yyyy>/<mm>/<uuid><ext>.
func (s *LogoService) storageKey(ownerID, ext string) string {
	d := s.now().UTC()
	return fmt.Sprintf("logos/%s/%04d/%02d/%s%s", ownerID, d.Year(), d.Month(), uuid.New(), ext)
}

func (s *LogoService) getPresignClient(ctx context.Context) (*s3.PresignClient, error) {
	cfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(s.config.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.config.S3RootUser,
			s.config.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, err
	}

	client := newS3ClientFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(s.config.S3BaseEndpoint)
		o.UsePathStyle = true
	})

	return newS3PresignClient(client), nil
}

// PresignUpload returns a URL the client can PUT the image to and the URL
// the stored image will be reachable at.
func (s *LogoService) PresignUpload(ctx context.Context, ownerID, contentType string) (uploadURL, publicURL string, err error) {
	ext, ok := logoExtensions[strings.ToLower(strings.TrimSpace(contentType))]
	if !ok {
		return "", "", fmt.Errorf("%w: unsupported logo type %q", common.ErrValidation, contentType)
	}

	presignClient, err := s.getPresignClient(ctx)
	if err != nil {
		return "", "", fmt.Errorf("%w: s3 config: %v", common.ErrInternal, err)
	}

	bucket := s.config.S3Bucket
	key := s.storageKey(ownerID, ext)

	req, err := presignPutObject(presignClient, ctx, &s3.PutObjectInput{
		Bucket:      &bucket,
		Key:         &key,
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(PresignExpiry))
	if err != nil {
		return "", "", fmt.Errorf("%w: presign: %v", common.ErrInternal, err)
	}

	return req.URL, strings.TrimRight(s.config.S3PublicURL, "/") + "/" + key, nil
}
