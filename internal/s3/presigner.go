package s3

import (
	"context"
	"os"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// FilePresigner hands out short-lived PUT URLs so the mobile client uploads
// avatars straight to object storage; the backend only stores the resulting
// {storageId, url} pair.
type FilePresigner struct {
	presignClient *s3.PresignClient
	bucketName    string
	publicBase    string
}

// NewFilePresigner builds a presigner from S3_* / AWS_* env vars. Works with
// MinIO-style endpoints via S3_USE_PATH_STYLE=true.
func NewFilePresigner(ctx context.Context) (*FilePresigner, error) {
	endpoint := os.Getenv("S3_ENDPOINT")
	region := os.Getenv("AWS_REGION")
	bucketName := os.Getenv("S3_BUCKET_NAME")
	accessKey := os.Getenv("AWS_ACCESS_KEY_ID")
	secretKey := os.Getenv("AWS_SECRET_ACCESS_KEY")
	usePathStyle := os.Getenv("S3_USE_PATH_STYLE") == "true"

	resolver := aws.EndpointResolverWithOptionsFunc(func(service, region string, options ...interface{}) (aws.Endpoint, error) {
		return aws.Endpoint{
			URL:               endpoint,
			SigningRegion:     region,
			HostnameImmutable: true,
		}, nil
	})

	cfg, err := config.LoadDefaultConfig(
		ctx,
		config.WithRegion(region),
		config.WithEndpointResolverWithOptions(resolver),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(accessKey, secretKey, "")),
	)
	if err != nil {
		return nil, err
	}

	client := s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.UsePathStyle = usePathStyle
	})

	return &FilePresigner{
		presignClient: s3.NewPresignClient(client),
		bucketName:    bucketName,
		publicBase:    strings.TrimRight(endpoint, "/") + "/" + bucketName,
	}, nil
}

// PresignUpload returns a PUT URL for objectKey, valid for 15 minutes, and
// the public URL the object will have once uploaded.
func (p *FilePresigner) PresignUpload(ctx context.Context, objectKey string) (uploadURL, publicURL string, err error) {
	request, err := p.presignClient.PresignPutObject(
		ctx,
		&s3.PutObjectInput{
			Bucket: aws.String(p.bucketName),
			Key:    aws.String(objectKey),
		},
		func(opts *s3.PresignOptions) {
			opts.Expires = 15 * time.Minute
		},
	)
	if err != nil {
		return "", "", err
	}
	return request.URL, p.publicBase + "/" + objectKey, nil
}
