package filestorage

import (
	"context"
	"fmt"
	"path"
	"time"

	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	consts "github.com/markvault/markvault/internal/config"
)

type S3Storage struct {
	client     *s3.Client
	bucket     string
	tempPath   string
	publicPath string
}

func NewS3Storage(bucket, tempPath, publicPath string) *S3Storage {
	cfg, err := config.LoadDefaultConfig(context.TODO())
	if err != nil {
		panic(err)
	}
	return &S3Storage{
		client:     s3.NewFromConfig(cfg),
		bucket:     bucket,
		tempPath:   tempPath,
		publicPath: publicPath,
	}
}

func (f *S3Storage) GetPublicURL(_ context.Context) (string, error) {
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", f.bucket, "ap-southeast-1", f.publicPath), nil
}

func (f *S3Storage) GetTempUploadURL(ctx context.Context, name string) (string, error) {
	var (
		key           = path.Join(f.tempPath, name)
		presignClient = s3.NewPresignClient(f.client)
	)
	req, err := presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket: &f.bucket,
		Key:    &key,
	}, func(po *s3.PresignOptions) {
		po.Expires = time.Minute * consts.PRESIGN_URL_EXPIRE_MINUTES
	})
	if err != nil {
		return "", err
	}

	return req.URL, nil
}

func (f *S3Storage) MoveTempFilePublic(ctx context.Context, source string, dest string) error {
	var (
		tempSource = f.bucket + "/" + f.tempPath + "/" + source
		tempKey    = path.Join(f.tempPath, source)
		key        = path.Join(f.publicPath, dest, source)
	)
	if _, err := f.client.CopyObject(ctx, &s3.CopyObjectInput{
		Bucket:     &f.bucket,
		CopySource: &tempSource,
		Key:        &key,
	}); err != nil {
		return err
	}
	_, err := f.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: &f.bucket,
		Key:    &tempKey,
	})
	return err
}

func (f *S3Storage) TempPath() string {
	return f.tempPath
}

func (f *S3Storage) GetPresignedURL(ctx context.Context, p string) (string, error) {
	var (
		key           = path.Join(f.publicPath, p)
		presignClient = s3.NewPresignClient(f.client)
	)
	req, err := presignClient.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: &f.bucket,
		Key:    &key,
	}, func(po *s3.PresignOptions) {
		po.Expires = time.Minute * consts.PRESIGN_URL_EXPIRE_MINUTES
	})
	if err != nil {
		return "", err
	}

	return req.URL, nil
}

func (f *S3Storage) DeleteFile(ctx context.Context, p string) error {
	key := path.Join(f.publicPath, p)
	_, err := f.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: &f.bucket,
		Key:    &key,
	})
	return err
}
