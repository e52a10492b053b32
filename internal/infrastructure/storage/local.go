package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"smart-hr/internal/config"
)

var (
	ErrEmptyFile    = errors.New("empty file")
	ErrFileTooLarge = errors.New("file too large")
)

var unsafeName = regexp.MustCompile(`[^a-zA-Z0-9.]`)

// Local stores uploads under Dir/Bucket and serves them from PublicBase.
type Local struct {
	root       string
	bucket     string
	publicBase string
	maxBytes   int64
	now        func() time.Time
}

func NewLocal(cfg config.StorageConfig) (*Local, error) {
	bucket := strings.Trim(cfg.Bucket, "/")
	if bucket == "" {
		bucket = "CV"
	}
	root := cfg.Dir
	if root == "" {
		root = "uploads"
	}
	if err := os.MkdirAll(filepath.Join(root, bucket), 0o755); err != nil {
		return nil, fmt.Errorf("create storage dir: %w", err)
	}
	return &Local{
		root:       root,
		bucket:     bucket,
		publicBase: strings.TrimRight(cfg.PublicBase, "/"),
		maxBytes:   cfg.MaxBytes,
		now:        time.Now,
	}, nil
}

func (l *Local) Root() string { return l.root }

// Upload writes r and returns the public URL of the stored object.
func (l *Local) Upload(ctx context.Context, name string, r io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	object := ObjectName(name, l.now())
	dst := filepath.Join(l.root, l.bucket, object)

	f, err := os.CreateTemp(filepath.Join(l.root, l.bucket), ".upload-*")
	if err != nil {
		return "", err
	}
	tmp := f.Name()
	defer func() {
		_ = os.Remove(tmp)
	}()

	src := r
	if l.maxBytes > 0 {
		src = io.LimitReader(r, l.maxBytes+1)
	}
	n, err := io.Copy(f, src)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return "", err
	}
	if n == 0 {
		return "", ErrEmptyFile
	}
	if l.maxBytes > 0 && n > l.maxBytes {
		return "", ErrFileTooLarge
	}
	if err := os.Rename(tmp, dst); err != nil {
		return "", err
	}
	return path.Join(l.publicBase, l.bucket, object), nil
}

// ObjectName prefixes the upload time in milliseconds and replaces every
// character outside [a-zA-Z0-9.] with an underscore.
func ObjectName(name string, at time.Time) string {
	base := filepath.Base(strings.TrimSpace(name))
	if base == "." || base == "/" || base == "" {
		base = "file"
	}
	return fmt.Sprintf("%d-%s", at.UnixMilli(), unsafeName.ReplaceAllString(base, "_"))
}
