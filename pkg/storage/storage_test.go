package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

type apiError struct{ code string }

func (e *apiError) Error() string                 { return e.code }
func (e *apiError) ErrorCode() string             { return e.code }
func (e *apiError) ErrorMessage() string          { return e.code }
func (e *apiError) ErrorFault() smithy.ErrorFault { return smithy.FaultClient }

// fakeS3 keeps objects in memory and counts PUTs.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	puts    int
	putErr  error
}

func newFakeS3() *fakeS3 { return &fakeS3{objects: map[string][]byte{}} }

func (f *fakeS3) GetObject(_ context.Context, in *s3.GetObjectInput, _ ...func(*s3.Options)) (*s3.GetObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[*in.Key]
	if !ok {
		return nil, &apiError{code: "NoSuchKey"}
	}
	return &s3.GetObjectOutput{Body: io.NopCloser(bytes.NewReader(data))}, nil
}

func (f *fakeS3) PutObject(_ context.Context, in *s3.PutObjectInput, _ ...func(*s3.Options)) (*s3.PutObjectOutput, error) {
	if f.putErr != nil {
		return nil, f.putErr
	}
	data, err := io.ReadAll(in.Body)
	if err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[*in.Key] = data
	f.puts++
	return &s3.PutObjectOutput{}, nil
}

func (f *fakeS3) DeleteObject(_ context.Context, in *s3.DeleteObjectInput, _ ...func(*s3.Options)) (*s3.DeleteObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, *in.Key)
	return &s3.DeleteObjectOutput{}, nil
}

func (f *fakeS3) HeadObject(_ context.Context, in *s3.HeadObjectInput, _ ...func(*s3.Options)) (*s3.HeadObjectOutput, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.objects[*in.Key]; !ok {
		return nil, &apiError{code: "NotFound"}
	}
	return &s3.HeadObjectOutput{}, nil
}

func stores(t *testing.T) map[string]FileStore {
	t.Helper()
	local, err := NewLocal(t.TempDir())
	if err != nil {
		t.Fatalf("NewLocal: %v", err)
	}
	return map[string]FileStore{
		"local": local,
		"s3":    NewS3(newFakeS3(), "bucket", "todos"),
	}
}

func TestRoundTrip(t *testing.T) {
	ctx := context.Background()
	for name, fs := range stores(t) {
		t.Run(name, func(t *testing.T) {
			if _, err := ReadFile(ctx, fs, "a/todos.csv"); !errors.Is(err, os.ErrNotExist) {
				t.Fatalf("Read missing: err = %v, want ErrNotExist", err)
			}
			if ok, err := fs.Exists(ctx, "a/todos.csv"); err != nil || ok {
				t.Fatalf("Exists missing = %v, %v", ok, err)
			}

			if err := WriteFile(ctx, fs, "a/todos.csv", []byte("v1")); err != nil {
				t.Fatalf("WriteFile: %v", err)
			}
			if err := WriteFile(ctx, fs, "a/todos.csv", []byte("v2")); err != nil {
				t.Fatalf("WriteFile: %v", err)
			}
			got, err := ReadFile(ctx, fs, "a/todos.csv")
			if err != nil || string(got) != "v2" {
				t.Fatalf("ReadFile = %q, %v", got, err)
			}
			if ok, err := fs.Exists(ctx, "a/todos.csv"); err != nil || !ok {
				t.Fatalf("Exists = %v, %v", ok, err)
			}

			if err := fs.Delete(ctx, "a/todos.csv"); err != nil {
				t.Fatalf("Delete: %v", err)
			}
			if err := fs.Delete(ctx, "a/todos.csv"); err != nil {
				t.Fatalf("Delete again: %v", err)
			}
		})
	}
}

func TestWriteInvisibleUntilClose(t *testing.T) {
	ctx := context.Background()
	for name, fs := range stores(t) {
		t.Run(name, func(t *testing.T) {
			if err := WriteFile(ctx, fs, "f", []byte("old")); err != nil {
				t.Fatal(err)
			}
			w, err := fs.Write(ctx, "f")
			if err != nil {
				t.Fatal(err)
			}
			if _, err := w.Write([]byte("new")); err != nil {
				t.Fatal(err)
			}
			if got, _ := ReadFile(ctx, fs, "f"); string(got) != "old" {
				t.Fatalf("before Close = %q, want old", got)
			}
			if err := w.Close(); err != nil {
				t.Fatal(err)
			}
			if got, _ := ReadFile(ctx, fs, "f"); string(got) != "new" {
				t.Fatalf("after Close = %q, want new", got)
			}
		})
	}
}

func TestAbortKeepsOldContent(t *testing.T) {
	ctx := context.Background()
	for name, fs := range stores(t) {
		t.Run(name, func(t *testing.T) {
			if err := WriteFile(ctx, fs, "f", []byte("old")); err != nil {
				t.Fatal(err)
			}
			w, err := fs.Write(ctx, "f")
			if err != nil {
				t.Fatal(err)
			}
			w.Write([]byte("partial"))
			if err := w.Abort(); err != nil {
				t.Fatal(err)
			}
			if got, _ := ReadFile(ctx, fs, "f"); string(got) != "old" {
				t.Fatalf("after Abort = %q, want old", got)
			}
		})
	}
}

func TestLocalLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	l, err := NewLocal(dir)
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	WriteFile(ctx, l, "todos.csv", []byte("x"))
	w, _ := l.Write(ctx, "todos.csv")
	w.Abort()

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "todos.csv" {
		t.Fatalf("dir entries = %v", entries)
	}
	if _, err := os.Stat(filepath.Join(dir, "todos.csv")); err != nil {
		t.Fatal(err)
	}
}

func TestS3SinglePut(t *testing.T) {
	ctx := context.Background()
	fake := newFakeS3()
	s := NewS3(fake, "bucket", "")

	w, _ := s.Write(ctx, "todos.csv")
	w.Write([]byte("a,"))
	w.Write([]byte("b\n"))
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	if fake.puts != 1 {
		t.Fatalf("puts = %d, want 1", fake.puts)
	}
	if string(fake.objects["todos.csv"]) != "a,b\n" {
		t.Fatalf("object = %q", fake.objects["todos.csv"])
	}

	fake.putErr = errors.New("boom")
	if err := WriteFile(ctx, s, "todos.csv", []byte("c")); err == nil {
		t.Fatal("WriteFile: want error")
	}
	if string(fake.objects["todos.csv"]) != "a,b\n" {
		t.Fatalf("object changed after failed put: %q", fake.objects["todos.csv"])
	}
}
