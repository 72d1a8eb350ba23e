// Package upload puts user files into storage buckets.
package upload

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path"
	"strings"
	"time"
	"unicode"

	"mammy-coker-hub/internal/domain/user"
	"mammy-coker-hub/internal/pkg/logging"
)

type Bucket string

const (
	BucketAvatars      Bucket = "avatars"
	BucketCertificates Bucket = "certificates"
	BucketPortfolio    Bucket = "portfolio"
	BucketLogos        Bucket = "logos"
)

// MaxSize is the largest accepted upload in bytes.
const MaxSize = 5 << 20

var (
	ErrUnknownBucket   = errors.New("unknown bucket")
	ErrTooLarge        = errors.New("file exceeds 5 MB")
	ErrUnsupportedType = errors.New("file type not allowed")
	ErrEmptyFile       = errors.New("file is empty")
	ErrNotYourFile     = errors.New("file belongs to another user")
)

var imageTypes = []string{"image/jpeg", "image/png", "image/webp", "image/gif"}

var allowedTypes = map[Bucket][]string{
	BucketAvatars:      imageTypes,
	BucketLogos:        imageTypes,
	BucketPortfolio:    imageTypes,
	BucketCertificates: append([]string{"application/pdf"}, imageTypes...),
}

func ParseBucket(s string) (Bucket, error) {
	b := Bucket(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := allowedTypes[b]; !ok {
		return "", ErrUnknownBucket
	}
	return b, nil
}

type Store interface {
	Put(ctx context.Context, bucket, path string, body io.Reader, size int64, contentType string) error
	Remove(ctx context.Context, bucket string, paths ...string) error
	PublicURL(bucket, path string) string
}

type File struct {
	Name string
	Size int64
	Body io.Reader
}

type Object struct {
	Bucket      Bucket `json:"bucket"`
	Path        string `json:"path"`
	URL         string `json:"url"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

type Service struct {
	store  Store
	logger *logging.Logger
	now    func() time.Time
}

func NewService(store Store, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Service{store: store, logger: logger.With("component", "upload"), now: time.Now}
}

// Upload stores f at <userID>/<unixMillis>_<name> in bucket. The content type
// is sniffed from the bytes, not taken from the client.
func (s *Service) Upload(ctx context.Context, actor user.Actor, bucket Bucket, f File) (Object, error) {
	allowed, ok := allowedTypes[bucket]
	if !ok {
		return Object{}, ErrUnknownBucket
	}
	if f.Size > MaxSize {
		return Object{}, ErrTooLarge
	}
	if f.Size == 0 || f.Body == nil {
		return Object{}, ErrEmptyFile
	}

	br := bufio.NewReaderSize(f.Body, 512)
	head, err := br.Peek(512)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return Object{}, err
	}
	ct := http.DetectContentType(head)
	if i := strings.IndexByte(ct, ';'); i >= 0 {
		ct = ct[:i]
	}
	if !contains(allowed, ct) {
		return Object{}, fmt.Errorf("%w: %s", ErrUnsupportedType, ct)
	}

	p := ObjectPath(actor.ID.String(), s.now(), f.Name)
	body := io.LimitReader(br, MaxSize)
	if err := s.store.Put(ctx, string(bucket), p, body, f.Size, ct); err != nil {
		return Object{}, err
	}

	s.logger.Info("file uploaded", "bucket", bucket, "path", p, "size", f.Size)
	return Object{Bucket: bucket, Path: p, URL: s.store.PublicURL(string(bucket), p), ContentType: ct, Size: f.Size}, nil
}

// Delete removes an object the actor owns.
func (s *Service) Delete(ctx context.Context, actor user.Actor, bucket Bucket, objectPath string) error {
	if _, ok := allowedTypes[bucket]; !ok {
		return ErrUnknownBucket
	}
	clean := path.Clean("/" + objectPath)[1:]
	if !strings.HasPrefix(clean, actor.ID.String()+"/") {
		return ErrNotYourFile
	}
	return s.store.Remove(ctx, string(bucket), clean)
}

func (s *Service) PublicURL(bucket Bucket, objectPath string) string {
	return s.store.PublicURL(string(bucket), objectPath)
}

// ObjectPath builds the storage key for a user's upload.
func ObjectPath(userID string, at time.Time, filename string) string {
	return fmt.Sprintf("%s/%d_%s", userID, at.UnixMilli(), SanitizeFilename(filename))
}

// SanitizeFilename keeps the base name's letters, digits, dot, dash and
// underscore; anything else becomes an underscore.
func SanitizeFilename(name string) string {
	name = path.Base(strings.ReplaceAll(strings.TrimSpace(name), `\`, "/"))
	var b strings.Builder
	for _, r := range name {
		switch {
		case r < unicode.MaxASCII && (unicode.IsLetter(r) || unicode.IsDigit(r)), r == '.', r == '-', r == '_':
			b.WriteRune(r)
		default:
			b.WriteByte('_')
		}
	}
	out := strings.TrimLeft(b.String(), ".")
	if out == "" || out == "_" {
		return "file"
	}
	if len(out) > 100 {
		out = out[len(out)-100:]
	}
	return out
}

func contains(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
