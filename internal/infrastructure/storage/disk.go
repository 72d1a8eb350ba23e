package storage

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"net/url"
	"os"
	"path/filepath"
	"strings"
)

var errUnsafePath = errors.New("storage: path escapes bucket")

// Disk keeps objects under root/<bucket>/<path> and serves them from
// publicBase/<bucket>/<path>.
type Disk struct {
	root       string
	publicBase string
}

func NewDisk(root, publicBase string) *Disk {
	return &Disk{root: root, publicBase: strings.TrimRight(publicBase, "/")}
}

func (d *Disk) Root() string { return d.root }

func (d *Disk) resolve(bucket, path string) (string, error) {
	clean := filepath.Clean("/" + filepath.FromSlash(path))
	if bucket == "" || strings.ContainsAny(bucket, `/\`) || clean == string(filepath.Separator) {
		return "", errUnsafePath
	}
	return filepath.Join(d.root, bucket, clean), nil
}

func (d *Disk) Put(ctx context.Context, bucket, path string, body io.Reader, _ int64, _ string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	full, err := d.resolve(bucket, path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return err
	}
	f, err := os.OpenFile(full, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		os.Remove(full)
		return err
	}
	return f.Close()
}

func (d *Disk) Remove(_ context.Context, bucket string, paths ...string) error {
	for _, p := range paths {
		full, err := d.resolve(bucket, p)
		if err != nil {
			return err
		}
		if err := os.Remove(full); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
	}
	return nil
}

func (d *Disk) PublicURL(bucket, path string) string {
	return d.publicBase + "/" + url.PathEscape(bucket) + "/" + escapePath(path)
}
