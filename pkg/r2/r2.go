// Package r2 stores user avatars in a Cloudflare R2 bucket through the S3
// API.
package r2

import (
	"context"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

type Storage struct {
	accountID  string
	accessKey  string
	secretKey  string
	bucketName string
	cdnBaseURL string
}

func NewStorage(accountID, accessKey, secretKey, bucketName, cdnBaseURL string) *Storage {
	return &Storage{
		accountID:  accountID,
		accessKey:  accessKey,
		secretKey:  secretKey,
		bucketName: bucketName,
		cdnBaseURL: strings.TrimSuffix(cdnBaseURL, "/"),
	}
}

func (s *Storage) client(ctx context.Context) (*s3.Client, error) {
	cfg, err := config.LoadDefaultConfig(ctx,
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.accessKey,
			s.secretKey,
			"",
		)),
	)
	if err != nil {
		return nil, fmt.Errorf("unable to load SDK config: %w", err)
	}

	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(fmt.Sprintf("https://%s.r2.cloudflarestorage.com", s.accountID))
		o.UsePathStyle = true
		o.Region = "auto"
	}), nil
}

// UploadAvatar stores the file under a user-scoped, URL-safe key and returns
// the CDN URL.
func (s *Storage) UploadAvatar(ctx context.Context, userName string, file *multipart.FileHeader) (string, error) {
	ext := filepath.Ext(file.Filename)
	objectKey := filepath.Join("users", slug.Make(userName), "avatar", uuid.New().String()+ext)

	client, err := s.client(ctx)
	if err != nil {
		return "", err
	}

	src, err := file.Open()
	if err != nil {
		return "", fmt.Errorf("could not open file: %w", err)
	}
	defer src.Close()

	_, err = client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(objectKey),
		Body:   src,
	})
	if err != nil {
		return "", fmt.Errorf("could not upload file to R2: %w", err)
	}

	return s.cdnBaseURL + "/" + objectKey, nil
}

// DeleteAvatar removes a previously uploaded avatar by its CDN URL.
func (s *Storage) DeleteAvatar(ctx context.Context, fullURL string) error {
	objectKey := strings.TrimPrefix(fullURL, s.cdnBaseURL+"/")

	client, err := s.client(ctx)
	if err != nil {
		return err
	}

	_, err = client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(objectKey),
	})
	if err != nil {
		return fmt.Errorf("could not delete file from R2: %w", err)
	}

	return nil
}
