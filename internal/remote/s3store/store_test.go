package s3store

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/dmitrijs2005/mindstitch/internal/logging"
	"github.com/dmitrijs2005/mindstitch/internal/netx"
	"github.com/dmitrijs2005/mindstitch/internal/remote"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeS3 struct {
	objects map[string][]byte
	types   map[string]string
	headErr error
	putErr  error
	buckets []string
}

func newFakeS3() *fakeS3 {
	return &fakeS3{objects: map[string][]byte{}, types: map[string]string{}}
}

func (f *fakeS3) HeadBucket(_ context.Context, in *s3.HeadBucketInput, _ ...func(*s3.Options)) (*s3.HeadBucketOutput, error) {
	f.buckets = append(f.buckets, aws.ToString(in.Bucket))
	if f.headErr != nil {
		return nil, f.headErr
	}
	return &s3.HeadBucketOutput{}, nil
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.buckets = append(f.buckets, aws.ToString(in.Bucket))
	if f.putErr != nil {
		return nil, f.putErr
	}
	b, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.objects[aws.ToString(in.Key)] = b
	f.types[aws.ToString(in.Key)] = aws.ToString(in.ContentType)
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	b, ok := f.objects[aws.ToString(in.Key)]
	if !ok {
		return nil, errors.New("NoSuchKey")
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(b))}, nil
}

// stubAWS swaps the package seams for the duration of the test.
func stubAWS(t *testing.T, fake *fakeS3) (*awsconfig.LoadOptions, *s3.Options) {
	t.Helper()

	origLoad, origNew := loadDefaultAWSConfig, newS3Client
	t.Cleanup(func() {
		loadDefaultAWSConfig = origLoad
		newS3Client = origNew
	})

	var lo awsconfig.LoadOptions
	var so s3.Options

	loadDefaultAWSConfig = func(_ context.Context, optFns ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		for _, fn := range optFns {
			if err := fn(&lo); err != nil {
				return aws.Config{}, err
			}
		}
		return aws.Config{Region: lo.Region}, nil
	}
	newS3Client = func(_ aws.Config, optFns ...func(*s3.Options)) objectAPI {
		for _, fn := range optFns {
			fn(&so)
		}
		return fake
	}
	return &lo, &so
}

func TestParseURL(t *testing.T) {
	tests := []struct {
		in      string
		bucket  string
		prefix  string
		wantErr bool
	}{
		{"s3://journal", "journal", "", false},
		{"s3://journal/", "journal", "", false},
		{"s3://journal/users/me/", "journal", "users/me", false},
		{"https://journal", "", "", true},
		{"s3:///nobucket", "", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			loc, err := parseURL(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrInvalidURL)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.bucket, loc.bucket)
			assert.Equal(t, tt.prefix, loc.prefix)
		})
	}

	assert.Equal(t, "users/me/MindStitch/a.json", location{bucket: "b", prefix: "users/me"}.key("MindStitch/a.json"))
	assert.Equal(t, "MindStitch/a.json", location{bucket: "b"}.key("/MindStitch/a.json"))
}

func TestStore_RoundTrip(t *testing.T) {
	fake := newFakeS3()
	lo, so := stubAWS(t, fake)

	s := New("eu-west-1", "http://127.0.0.1:9000", netx.DefaultTimeouts, logging.NewNop())
	ctx := context.Background()
	ep := remote.Endpoint{URL: "s3://journal/me", Username: "AKIA", Password: "secret"}

	require.True(t, s.CheckConnection(ctx, ep))
	require.True(t, s.CreateFolder(ctx, ep, "MindStitch"))
	require.NoError(t, s.Upload(ctx, ep, "MindStitch/images/img_1_a.jpg", []byte("jpeg"), ""))
	require.NoError(t, remote.UploadText(ctx, s, ep, "MindStitch/MindStitchBackup.json", "{}"))

	assert.Equal(t, []byte("jpeg"), fake.objects["me/MindStitch/images/img_1_a.jpg"])
	assert.Equal(t, remote.ContentTypeBinary, fake.types["me/MindStitch/images/img_1_a.jpg"])
	assert.Equal(t, remote.ContentTypeJSON, fake.types["me/MindStitch/MindStitchBackup.json"])

	b, ok := s.Download(ctx, ep, "MindStitch/MindStitchBackup.json")
	require.True(t, ok)
	assert.Equal(t, "{}", string(b))

	_, ok = s.Download(ctx, ep, "MindStitch/missing.json")
	assert.False(t, ok)

	assert.Equal(t, "eu-west-1", lo.Region)
	assert.Same(t, s.httpClient, lo.HTTPClient)
	require.NotNil(t, lo.Credentials)
	creds, err := lo.Credentials.Retrieve(ctx)
	require.NoError(t, err)
	assert.Equal(t, "AKIA", creds.AccessKeyID)
	assert.Equal(t, "secret", creds.SecretAccessKey)

	assert.Equal(t, "http://127.0.0.1:9000", aws.ToString(so.BaseEndpoint))
	assert.True(t, so.UsePathStyle)

	for _, b := range fake.buckets {
		assert.Equal(t, "journal", b)
	}
}

func TestStore_Failures(t *testing.T) {
	fake := newFakeS3()
	fake.headErr = errors.New("403 forbidden")
	fake.putErr = errors.New("slow down")
	stubAWS(t, fake)

	s := New("", "", netx.DefaultTimeouts, logging.NewNop())
	ctx := context.Background()
	ep := remote.Endpoint{URL: "s3://journal"}

	assert.False(t, s.CheckConnection(ctx, ep))

	err := s.Upload(ctx, ep, "a", []byte("x"), "")
	require.Error(t, err)
	assert.ErrorContains(t, err, "slow down")

	bad := remote.Endpoint{URL: "not-s3"}
	assert.False(t, s.CheckConnection(ctx, bad))
	assert.ErrorIs(t, s.Upload(ctx, bad, "a", nil, ""), ErrInvalidURL)
	_, ok := s.Download(ctx, bad, "a")
	assert.False(t, ok)
}

func TestStore_ConfigLoadError(t *testing.T) {
	stubAWS(t, newFakeS3())
	loadDefaultAWSConfig = func(context.Context, ...func(*awsconfig.LoadOptions) error) (aws.Config, error) {
		return aws.Config{}, errors.New("no config")
	}

	s := New("", "", netx.DefaultTimeouts, logging.NewNop())
	err := s.Upload(context.Background(), remote.Endpoint{URL: "s3://b"}, "a", nil, "")
	assert.ErrorContains(t, err, "no config")
}

func TestStore_StalledEndpointTimesOut(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	// Keep the SDK away from the developer's own AWS profile.
	dir := t.TempDir()
	t.Setenv("AWS_CONFIG_FILE", filepath.Join(dir, "config"))
	t.Setenv("AWS_SHARED_CREDENTIALS_FILE", filepath.Join(dir, "credentials"))

	origNew := newS3Client
	t.Cleanup(func() { newS3Client = origNew })
	newS3Client = func(cfg aws.Config, optFns ...func(*s3.Options)) objectAPI {
		optFns = append(optFns, func(o *s3.Options) { o.RetryMaxAttempts = 1 })
		return s3.NewFromConfig(cfg, optFns...)
	}

	bound := 100 * time.Millisecond
	s := New("us-east-1", srv.URL, netx.Timeouts{Connect: bound, Write: bound, Read: bound}, logging.NewNop())
	ep := remote.Endpoint{URL: "s3://journal", Username: "AKIA", Password: "secret"}

	start := time.Now()
	_, ok := s.Download(context.Background(), ep, "MindStitch/MindStitchBackup.json")
	elapsed := time.Since(start)

	assert.False(t, ok)
	assert.Less(t, elapsed, 2*time.Second)

	start = time.Now()
	assert.False(t, s.CheckConnection(context.Background(), ep))
	assert.Less(t, time.Since(start), 2*time.Second)
}
