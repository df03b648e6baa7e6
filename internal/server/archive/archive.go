// Package archive keeps a JSON copy of every deleted account in an
// S3-compatible bucket. Deletions are only committed once the copy is stored.
package archive

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	sc "github.com/dmitrijs2005/saasadmin/internal/server/config"
	"github.com/dmitrijs2005/saasadmin/internal/server/models"
	"github.com/google/uuid"
)

// Archive stores deletion records.
type Archive interface {
	Put(ctx context.Context, rec models.DeletionRecord) error
}

// Nop discards records. Used when no bucket is configured.
type Nop struct{}

func (Nop) Put(context.Context, models.DeletionRecord) error { return nil }

type objectPutter interface {
	PutObject(ctx context.Context, in *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

var (
	loadDefaultAWSConfig = config.LoadDefaultConfig

	newS3ClientFromConfig = func(cfg aws.Config, optFns ...func(*s3.Options)) objectPutter {
		return s3.NewFromConfig(cfg, optFns...)
	}

	newObjectID = uuid.NewString
)

type S3Archive struct {
	client objectPutter
	bucket string
}

// New returns an S3 backed archive, or Nop when cfg names no bucket.
func New(ctx context.Context, cfg *sc.Config) (Archive, error) {
	if cfg.S3Bucket == "" {
		return Nop{}, nil
	}
	return NewS3(ctx, cfg)
}

func NewS3(ctx context.Context, cfg *sc.Config) (*S3Archive, error) {
	awsCfg, err := loadDefaultAWSConfig(ctx,
		config.WithRegion(cfg.S3Region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			cfg.S3RootUser,
			cfg.S3RootPassword,
			"",
		)))
	if err != nil {
		return nil, fmt.Errorf("aws config: %w", err)
	}

	client := newS3ClientFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.S3BaseEndpoint != "" {
			o.BaseEndpoint = aws.String(cfg.S3BaseEndpoint)
			o.UsePathStyle = true
		}
	})

	return &S3Archive{client: client, bucket: cfg.S3Bucket}, nil
}

// Key is the object key of rec: deletions/<yyyy>/<mm>/<dd>/<user id>/<uuid>.json.
func Key(rec models.DeletionRecord) string {
	d := rec.DeletedAt.UTC()
	return fmt.Sprintf("deletions/%04d/%02d/%02d/%s/%s.json",
		d.Year(), d.Month(), d.Day(), rec.Account.ID, newObjectID())
}

func (a *S3Archive) Put(ctx context.Context, rec models.DeletionRecord) error {
	body, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("encode deletion record: %w", err)
	}

	_, err = a.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(a.bucket),
		Key:         aws.String(Key(rec)),
		Body:        bytes.NewReader(body),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return fmt.Errorf("archive put: %w", err)
	}

	return nil
}
