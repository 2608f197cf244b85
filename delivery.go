package pp5

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"os/exec"
	"path"
	"path/filepath"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/go-rod/rod/lib/launcher"
	"go.uber.org/zap"
	"google.golang.org/api/googleapi"

	"github.com/alnah/go-pp5/internal/fileutil"
	"github.com/alnah/go-pp5/internal/process"
)

// Delivery reports where a document ended up.
type Delivery struct {
	Viewed   bool   // opened in a viewer
	Location string // file path or object URI
}

// Saver stores a document under name and returns its location.
type Saver interface {
	Save(ctx context.Context, name string, pdf []byte) (string, error)
}

// viewer opens a file for the user.
type viewer interface {
	Open(ctx context.Context, path string) error
}

// Deliverer shows a document when a viewer is available and saves it
// otherwise.
type Deliverer struct {
	saver  Saver
	viewer viewer
	logger *zap.Logger
}

// DeliverOption configures a Deliverer.
type DeliverOption func(*Deliverer)

// WithViewer enables opening documents in a browser. An empty browserPath
// searches the usual install locations.
func WithViewer(browserPath string) DeliverOption {
	return func(d *Deliverer) {
		d.viewer = newBrowserViewer(browserPath)
	}
}

// WithDeliveryLogger sets the logger. A nil logger disables logging.
func WithDeliveryLogger(logger *zap.Logger) DeliverOption {
	return func(d *Deliverer) {
		if logger == nil {
			logger = zap.NewNop()
		}
		d.logger = logger
	}
}

// withViewerBackend replaces the viewer. Used by tests.
func withViewerBackend(v viewer) DeliverOption {
	return func(d *Deliverer) {
		d.viewer = v
	}
}

// NewDeliverer creates a Deliverer that falls back to saver.
// Panics if saver is nil (programmer error).
func NewDeliverer(saver Saver, opts ...DeliverOption) *Deliverer {
	if saver == nil {
		panic("pp5: NewDeliverer saver must not be nil")
	}
	d := &Deliverer{saver: saver, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Deliver opens doc in the viewer, or saves it when viewing is disabled or
// fails.
func (d *Deliverer) Deliver(ctx context.Context, doc *Document) (Delivery, error) {
	if doc == nil || len(doc.PDF) == 0 {
		return Delivery{}, fmt.Errorf("%w: empty document", ErrSave)
	}
	if d.viewer != nil {
		p, err := d.view(ctx, doc)
		if err == nil {
			return Delivery{Viewed: true, Location: p}, nil
		}
		if ctx.Err() != nil {
			return Delivery{}, ctx.Err()
		}
		d.logger.Warn("viewer unavailable, saving instead", zap.String("file", doc.Filename), zap.Error(err))
	}

	loc, err := d.saver.Save(ctx, doc.Filename, doc.PDF)
	if err != nil {
		return Delivery{}, err
	}
	d.logger.Info("report saved", zap.String("location", loc))
	return Delivery{Location: loc}, nil
}

// view writes doc to a temporary file and hands it to the viewer. The file
// is left in place for the viewer unless opening fails.
func (d *Deliverer) view(ctx context.Context, doc *Document) (string, error) {
	p, cleanup, err := fileutil.WriteTempFile(doc.PDF, "pdf")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrViewerLaunch, err)
	}
	if err := d.viewer.Open(ctx, p); err != nil {
		cleanup()
		return "", err
	}
	return p, nil
}

// browserViewer opens PDFs in a Chromium-family browser.
type browserViewer struct {
	bin      string
	lookPath func() (string, bool)
	settle   time.Duration // how long an early exit still counts as failure
}

func newBrowserViewer(bin string) *browserViewer {
	return &browserViewer{bin: bin, lookPath: launcher.LookPath, settle: 750 * time.Millisecond}
}

// Open starts the browser detached from this process. A browser that exits
// with an error during the settle period did not show the file.
func (v *browserViewer) Open(ctx context.Context, file string) error {
	bin := v.bin
	if bin == "" {
		found, ok := v.lookPath()
		if !ok {
			return ErrViewerNotFound
		}
		bin = found
	}
	abs, err := filepath.Abs(file)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrViewerLaunch, err)
	}
	target := (&url.URL{Scheme: "file", Path: filepath.ToSlash(abs)}).String()

	cmd := exec.Command(bin, target)
	process.Detach(cmd)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("%w: %v", ErrViewerLaunch, err)
	}

	exited := make(chan error, 1)
	go func() { exited <- cmd.Wait() }()
	timer := time.NewTimer(v.settle)
	defer timer.Stop()

	select {
	case err := <-exited:
		if err != nil {
			return fmt.Errorf("%w: %v", ErrViewerLaunch, err)
		}
		return nil
	case <-timer.C:
		return nil
	case <-ctx.Done():
		process.KillProcessGroup(cmd.Process.Pid)
		return ctx.Err()
	}
}

// DirSaver writes documents into a local directory. Existing files are
// never replaced.
type DirSaver struct {
	Dir string
}

// Save implements Saver.
func (s DirSaver) Save(ctx context.Context, name string, pdf []byte) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	dir := s.Dir
	if dir == "" {
		dir = "."
	}
	p, err := fileutil.WriteNewFile(dir, name, pdf, 0o644)
	if errors.Is(err, os.ErrExist) {
		return "", fmt.Errorf("%w: %w: %s", ErrSave, ErrObjectExists, filepath.Join(dir, name))
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrSave, err)
	}
	return p, nil
}

// objectWriter is the part of a Cloud Storage writer the saver uses.
type objectWriter interface {
	io.Writer
	Close() error
}

// BucketSaver uploads documents to a Cloud Storage bucket. Objects are only
// created when absent, and transient failures are retried with exponential
// backoff.
type BucketSaver struct {
	bucket   string
	prefix   string
	open     func(ctx context.Context, object string) objectWriter
	attempts int
	backoff  time.Duration
	logger   *zap.Logger
}

// BucketOption configures a BucketSaver.
type BucketOption func(*BucketSaver)

// WithBucketRetry sets the number of upload attempts and the first delay.
// Panics if attempts < 1 or backoff < 0 (programmer error).
func WithBucketRetry(attempts int, backoff time.Duration) BucketOption {
	if attempts < 1 || backoff < 0 {
		panic("pp5: WithBucketRetry needs attempts >= 1 and backoff >= 0")
	}
	return func(s *BucketSaver) {
		s.attempts, s.backoff = attempts, backoff
	}
}

// WithBucketLogger sets the logger. A nil logger disables logging.
func WithBucketLogger(logger *zap.Logger) BucketOption {
	return func(s *BucketSaver) {
		if logger == nil {
			logger = zap.NewNop()
		}
		s.logger = logger
	}
}

// NewBucketSaver stores objects as <prefix>/<name> in bucket.
func NewBucketSaver(client *storage.Client, bucket, prefix string, opts ...BucketOption) *BucketSaver {
	handle := client.Bucket(bucket)
	s := newBucketSaver(bucket, prefix, func(ctx context.Context, object string) objectWriter {
		w := handle.Object(object).If(storage.Conditions{DoesNotExist: true}).NewWriter(ctx)
		w.ContentType = "application/pdf"
		return w
	})
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func newBucketSaver(bucket, prefix string, open func(context.Context, string) objectWriter) *BucketSaver {
	return &BucketSaver{
		bucket:   bucket,
		prefix:   strings.Trim(prefix, "/"),
		open:     open,
		attempts: 3,
		backoff:  500 * time.Millisecond,
		logger:   zap.NewNop(),
	}
}

// Save implements Saver. The location is a gs:// URI.
func (s *BucketSaver) Save(ctx context.Context, name string, pdf []byte) (string, error) {
	object := path.Join(s.prefix, name)
	uri := "gs://" + s.bucket + "/" + object

	delay := s.backoff
	var err error
	for attempt := 1; attempt <= s.attempts; attempt++ {
		if err = s.write(ctx, object, pdf); err == nil {
			return uri, nil
		}
		if attempt == s.attempts || !retryableUpload(err) {
			break
		}
		s.logger.Warn("upload failed, retrying",
			zap.String("object", uri), zap.Int("attempt", attempt), zap.Duration("delay", delay), zap.Error(err))
		select {
		case <-ctx.Done():
			return "", fmt.Errorf("%w: %s: %w", ErrSave, uri, ctx.Err())
		case <-time.After(delay):
		}
		delay *= 2
	}
	return "", fmt.Errorf("%w: %s: %w", ErrSave, uri, err)
}

func (s *BucketSaver) write(ctx context.Context, object string, pdf []byte) error {
	w := s.open(ctx, object)
	if _, err := w.Write(pdf); err != nil {
		_ = w.Close()
		return classifyUploadError(err)
	}
	if err := w.Close(); err != nil {
		return classifyUploadError(err)
	}
	return nil
}

// classifyUploadError maps a failed DoesNotExist precondition to
// ErrObjectExists.
func classifyUploadError(err error) error {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) && gerr.Code == http.StatusPreconditionFailed {
		return fmt.Errorf("%w: %v", ErrObjectExists, err)
	}
	return err
}

func retryableUpload(err error) bool {
	if errors.Is(err, ErrObjectExists) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code == http.StatusTooManyRequests || gerr.Code >= http.StatusInternalServerError
	}
	return true
}
