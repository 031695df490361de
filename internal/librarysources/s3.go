package librarysources

import (
	"context"
	"fmt"
	"io"
	"log"
	"path"
	"sort"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type s3Settings struct {
	Region         string `json:"region"`
	Bucket         string `json:"bucket"`
	Key            string `json:"key"`
	Prefix         string `json:"prefix"`
	Pattern        string `json:"pattern"`
	Endpoint       string `json:"endpoint"`
	ForcePathStyle bool   `json:"force_path_style"`
	AccessKey      string `json:"access_key"`
	SecretKey      string `json:"secret_key"`
	SessionToken   string `json:"session_token"`
	MaxObjectBytes int64  `json:"max_object_bytes"`
	Timeout        string `json:"timeout"`
}

type s3Factory struct{}

func (f *s3Factory) ValidateConfig(source SourceConfig) error {
	var settings s3Settings
	if err := decodeConfig(source, &settings); err != nil {
		return err
	}
	if settings.Bucket == "" {
		return fmt.Errorf("bucket is required")
	}
	if settings.Key == "" && settings.Prefix == "" {
		return fmt.Errorf("key or prefix is required")
	}
	if settings.Timeout != "" {
		if _, err := time.ParseDuration(settings.Timeout); err != nil {
			return fmt.Errorf("invalid timeout: %w", err)
		}
	}
	return nil
}

func (f *s3Factory) Create(source SourceConfig) (Source, error) {
	var settings s3Settings
	if err := decodeConfig(source, &settings); err != nil {
		return nil, err
	}
	if settings.Region == "" {
		settings.Region = "us-east-1"
	}
	if settings.MaxObjectBytes == 0 {
		settings.MaxObjectBytes = 10 * 1024 * 1024
	}
	timeout := 30 * time.Second
	if settings.Timeout != "" {
		parsed, err := time.ParseDuration(settings.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid timeout: %w", err)
		}
		timeout = parsed
	}
	return &s3Source{settings: settings, timeout: timeout}, nil
}

// s3Source downloads library documents from a bucket, either a single key or
// every data object below a prefix.
type s3Source struct {
	settings s3Settings
	timeout  time.Duration
	client   *s3.Client
}

func (s *s3Source) connect(ctx context.Context) error {
	if s.client != nil {
		return nil
	}
	opts := []func(*config.LoadOptions) error{
		config.WithRegion(s.settings.Region),
	}
	if s.settings.AccessKey != "" && s.settings.SecretKey != "" {
		creds := credentials.NewStaticCredentialsProvider(
			s.settings.AccessKey,
			s.settings.SecretKey,
			s.settings.SessionToken,
		)
		opts = append(opts, config.WithCredentialsProvider(creds))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return fmt.Errorf("load aws config: %w", err)
	}
	s.client = s3.NewFromConfig(cfg, func(options *s3.Options) {
		options.UsePathStyle = s.settings.ForcePathStyle
		if s.settings.Endpoint != "" {
			options.BaseEndpoint = aws.String(s.settings.Endpoint)
		}
	})
	return nil
}

func (s *s3Source) Fetch(ctx context.Context) ([]Payload, error) {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	if err := s.connect(ctx); err != nil {
		return nil, err
	}

	keys := []string{}
	if s.settings.Key != "" {
		keys = append(keys, s.settings.Key)
	}
	if s.settings.Prefix != "" {
		listed, err := s.list(ctx)
		if err != nil {
			return nil, err
		}
		keys = append(keys, listed...)
	}

	payloads := make([]Payload, 0, len(keys))
	for _, key := range keys {
		data, err := s.get(ctx, key)
		if err != nil {
			return nil, fmt.Errorf("fetching s3://%s/%s: %w", s.settings.Bucket, key, err)
		}
		payloads = append(payloads, Payload{
			Name:   path.Base(key),
			Data:   data,
			Origin: fmt.Sprintf("s3://%s/%s", s.settings.Bucket, key),
		})
	}
	log.Printf("S3 library source fetched %d object(s) from bucket %s", len(payloads), s.settings.Bucket)
	return payloads, nil
}

func (s *s3Source) list(ctx context.Context) ([]string, error) {
	var keys []string
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.settings.Bucket),
		Prefix: aws.String(s.settings.Prefix),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("listing s3://%s/%s: %w", s.settings.Bucket, s.settings.Prefix, err)
		}
		for _, object := range page.Contents {
			key := aws.ToString(object.Key)
			if matchesData(path.Base(key), s.settings.Pattern) {
				keys = append(keys, key)
			}
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (s *s3Source) get(ctx context.Context, key string) ([]byte, error) {
	resp, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.settings.Bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, s.settings.MaxObjectBytes+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > s.settings.MaxObjectBytes {
		return nil, fmt.Errorf("object exceeds %d bytes", s.settings.MaxObjectBytes)
	}
	return data, nil
}

func (s *s3Source) Close() error {
	s.client = nil
	return nil
}
