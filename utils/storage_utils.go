package utils

import (
	"bytes"
	"fmt"

	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
)

// FileStorage uploads invoice documents to an S3-compatible object store.
type FileStorage struct {
	client   *s3.S3
	bucket   string
	endpoint string
}

func NewFileStorage(accessKey, secretKey, bucket, region, endpoint string) (*FileStorage, error) {
	if bucket == "" {
		return nil, fmt.Errorf("empty storage bucket")
	}

	sess := session.Must(session.NewSession(&aws.Config{
		Region:   aws.String(region),
		Endpoint: aws.String(endpoint),
		Credentials: credentials.NewStaticCredentials(
			accessKey, secretKey, "",
		),
	}))

	return &FileStorage{
		client:   s3.New(sess),
		bucket:   bucket,
		endpoint: endpoint,
	}, nil
}

func (fs *FileStorage) Upload(file []byte, fileName string, folder string, contentType string) (string, error) {
	filePath := fmt.Sprintf("%s/%s", folder, fileName)

	if contentType == "" {
		contentType = "application/octet-stream"
	}

	_, err := fs.client.PutObject(&s3.PutObjectInput{
		Bucket:        aws.String(fs.bucket),
		Key:           aws.String(filePath),
		Body:          bytes.NewReader(file),
		ContentLength: aws.Int64(int64(len(file))),
		ContentType:   aws.String(contentType),
		ACL:           aws.String("public-read"),
	})
	if err != nil {
		return "", fmt.Errorf("unable to upload file to S3: %v", err)
	}

	return fmt.Sprintf("%s/%s/%s", fs.endpoint, fs.bucket, filePath), nil
}
