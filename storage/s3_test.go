package storage

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/s3"
)

type fakePutter struct {
	calls    int
	failures int
	lastIn   *s3.PutObjectInput
}

func (f *fakePutter) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	f.calls++
	f.lastIn = in
	if f.calls <= f.failures {
		return nil, errors.New("transient s3 failure")
	}
	return &s3.PutObjectOutput{}, nil
}

func writeArtifact(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "front_label.png")
	if err := os.WriteFile(path, []byte("png bytes"), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

func newUploader(p objectPutter) *S3Uploader {
	return &S3Uploader{client: p, bucket: "labels", maxRetries: 3, backoffBase: time.Millisecond}
}

func TestUpload(t *testing.T) {
	putter := &fakePutter{}
	u := newUploader(putter)

	err := u.Upload(context.Background(), writeArtifact(t), "output/US/berry/limited/front_label.png")
	if err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if putter.calls != 1 {
		t.Fatalf("expected 1 put, got %d", putter.calls)
	}
	if got := *putter.lastIn.Key; got != "output/US/berry/limited/front_label.png" {
		t.Fatalf("unexpected key: %q", got)
	}
	if got := *putter.lastIn.ContentType; got != "image/png" {
		t.Fatalf("unexpected content type: %q", got)
	}
	body, _ := io.ReadAll(putter.lastIn.Body)
	if string(body) != "png bytes" {
		t.Fatalf("unexpected body: %q", body)
	}
}

func TestUploadRetriesTransientFailures(t *testing.T) {
	putter := &fakePutter{failures: 2}
	u := newUploader(putter)

	if err := u.Upload(context.Background(), writeArtifact(t), "k"); err != nil {
		t.Fatalf("Upload() error = %v", err)
	}
	if putter.calls != 3 {
		t.Fatalf("expected 3 attempts, got %d", putter.calls)
	}
}

func TestUploadGivesUpAfterMaxRetries(t *testing.T) {
	putter := &fakePutter{failures: 100}
	u := &S3Uploader{client: putter, bucket: "labels", maxRetries: 2, backoffBase: time.Millisecond}

	if err := u.Upload(context.Background(), writeArtifact(t), "k"); err == nil {
		t.Fatal("expected error after exhausting retries")
	}
	if putter.calls != 3 { // initial attempt + 2 retries
		t.Fatalf("expected 3 attempts, got %d", putter.calls)
	}
}

func TestUploadMissingFile(t *testing.T) {
	putter := &fakePutter{}
	u := newUploader(putter)

	err := u.Upload(context.Background(), filepath.Join(t.TempDir(), "missing.png"), "k")
	if err == nil {
		t.Fatal("expected error for missing local file")
	}
	if putter.calls != 0 {
		t.Fatal("missing file must not reach S3")
	}
}

func TestUploadEmptyKey(t *testing.T) {
	u := newUploader(&fakePutter{})
	if err := u.Upload(context.Background(), writeArtifact(t), "  "); err == nil {
		t.Fatal("expected error for blank key")
	}
}
