// Package objecttree provides a leaf collection of the objects below a prefix
// in a MinIO or S3-compatible bucket.
//
// Remote objects are not files, so the collection mirrors each one into a
// local cache directory as the traversal reaches it and visits the mirrored
// path. Listing is incremental: a visitor that stops early cancels the
// listing and nothing further is downloaded.
//
// Remote state cannot be watched; the collection registers its cache
// directory instead.
//
// Example:
//
//	objects, err := objecttree.New(objecttree.Config{
//	    Endpoint:  "localhost:9000",
//	    Bucket:    "artifacts",
//	    AccessKey: key,
//	    SecretKey: secret,
//	    Prefix:    "releases/v1",
//	}, billy.NewLocal(), "/var/cache/artifacts")
package objecttree

import (
	"context"
	"io"
	"log/slog"
	"path"
	"strings"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/jmgilman/go/filecollection/collection"
	"github.com/jmgilman/go/filecollection/errors"
	"github.com/jmgilman/go/filecollection/filetree"
	"github.com/jmgilman/go/filecollection/fs/core"
	"github.com/jmgilman/go/filecollection/watchpoint"
)

// ObjectTreeVisitor is the capability for receiving Objects leaves.
type ObjectTreeVisitor interface {
	VisitObjectTree(leaf *Objects)
}

// Option configures an object tree.
type Option func(*options)

type options struct {
	logger  *slog.Logger
	include []string
	exclude []string
}

// WithLogger sets the logger used to report listing and downloads.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithInclude restricts the collection to keys whose path relative to the
// prefix matches any of patterns.
func WithInclude(patterns ...string) Option {
	return func(o *options) {
		o.include = append(o.include, patterns...)
	}
}

// WithExclude drops keys whose path relative to the prefix matches any of
// patterns. Excluded objects are never downloaded.
func WithExclude(patterns ...string) Option {
	return func(o *options) {
		o.exclude = append(o.exclude, patterns...)
	}
}

// Objects is the set of objects below a bucket prefix, mirrored into a local
// cache directory.
type Objects struct {
	store    store
	bucket   string
	prefix   string
	cache    core.WriteFS
	cacheDir string
	patterns *filetree.Patterns
	logger   *slog.Logger
}

// New returns the objects described by cfg, mirrored below cacheDir in
// cache. No request is made until the collection is resolved.
func New(cfg Config, cache core.WriteFS, cacheDir string, opts ...Option) (*Objects, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	client := cfg.Client
	if client == nil {
		var err error
		client, err = minio.New(cfg.Endpoint, &minio.Options{
			Creds:  credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
			Secure: cfg.UseSSL,
		})
		if err != nil {
			return nil, errors.WrapWithContext(err, errors.CodeInvalidConfig, "failed to create object store client", map[string]any{
				"endpoint": cfg.Endpoint,
			})
		}
	}

	return newObjects(&minioStore{client: client, bucket: cfg.Bucket}, cfg.Bucket, cfg.Prefix, cache, cacheDir, opts...)
}

func newObjects(s store, bucket, prefix string, cache core.WriteFS, cacheDir string, opts ...Option) (*Objects, error) {
	if cache == nil {
		return nil, errors.New(errors.CodeInvalidInput, "cache filesystem is required")
	}
	if cacheDir == "" {
		return nil, errors.New(errors.CodeInvalidInput, "cache directory cannot be empty")
	}
	o := options{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&o)
	}
	patterns, err := filetree.NewPatterns(o.include, o.exclude)
	if err != nil {
		return nil, err
	}
	return &Objects{
		store:    s,
		bucket:   bucket,
		prefix:   normalizePrefix(prefix),
		cache:    cache,
		cacheDir: watchpoint.Clean(cacheDir),
		patterns: patterns,
		logger:   o.logger,
	}, nil
}

// Bucket returns the bucket name.
func (o *Objects) Bucket() string {
	return o.bucket
}

// Prefix returns the normalized key prefix, empty for the whole bucket.
func (o *Objects) Prefix() string {
	return o.prefix
}

// CacheDir returns the directory objects are mirrored into.
func (o *Objects) CacheDir() string {
	return o.cacheDir
}

// String returns the bucket and prefix as a URL-like location.
func (o *Objects) String() string {
	return "s3://" + path.Join(o.bucket, o.prefix)
}

// RegisterWatchPoints registers the cache directory.
func (o *Objects) RegisterWatchPoints(builder watchpoint.Builder) {
	builder.AddDirectory(o.cacheDir)
}

// VisitLeafCollections reports o through VisitObjectTree when supported.
func (o *Objects) VisitLeafCollections(visitor collection.LeafVisitor) {
	if v, ok := visitor.(ObjectTreeVisitor); ok {
		v.VisitObjectTree(o)
		return
	}
	visitor.VisitCollection(o)
}

// VisitContents lists the objects in key order, mirrors each selected one
// into the cache and visits its cached path.
func (o *Objects) VisitContents(ctx context.Context, visitor collection.Visitor) (bool, error) {
	o.logger.DebugContext(ctx, "resolving object tree", "bucket", o.bucket, "prefix", o.prefix)

	// cancelling stops the listing goroutine when the visitor stops early
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	listPrefix := o.prefix
	if listPrefix != "" {
		listPrefix += "/"
	}

	for object := range o.store.list(ctx, listPrefix) {
		if object.Err != nil {
			return false, translate(object.Err, "failed to list objects", map[string]any{
				"bucket": o.bucket,
				"prefix": o.prefix,
			})
		}
		if strings.HasSuffix(object.Key, "/") {
			continue
		}

		rel, err := relativeKey(listPrefix, object.Key)
		if err != nil {
			return false, errors.WithContextMap(err, map[string]any{"bucket": o.bucket})
		}
		if !o.patterns.Selects(rel) {
			continue
		}

		target := path.Join(o.cacheDir, rel)
		if err := o.mirror(ctx, object.Key, target); err != nil {
			return false, err
		}

		more, err := visitor(collection.File(target))
		if err != nil || !more {
			return false, err
		}
	}

	if err := ctx.Err(); err != nil {
		return false, err
	}
	return true, nil
}

// mirror downloads key into target.
func (o *Objects) mirror(ctx context.Context, key, target string) error {
	fields := map[string]any{"bucket": o.bucket, "key": key, "target": target}

	body, err := o.store.fetch(ctx, key)
	if err != nil {
		return translate(err, "failed to fetch object", fields)
	}
	defer func() { _ = body.Close() }()

	if err := o.cache.MkdirAll(path.Dir(target), 0o755); err != nil {
		return errors.WrapWithContext(err, errors.CodeResolveFailed, "failed to create cache directory", fields)
	}
	out, err := o.cache.Create(target)
	if err != nil {
		return errors.WrapWithContext(err, errors.CodeResolveFailed, "failed to create cache file", fields)
	}
	if _, err := io.Copy(out, body); err != nil {
		_ = out.Close()
		return translate(err, "failed to download object", fields)
	}
	if err := out.Close(); err != nil {
		return errors.WrapWithContext(err, errors.CodeResolveFailed, "failed to write cache file", fields)
	}

	o.logger.DebugContext(ctx, "mirrored object", "key", key, "target", target)
	return nil
}

// relativeKey strips prefix from key and rejects keys that would escape the
// cache directory.
func relativeKey(prefix, key string) (string, error) {
	rel := path.Clean(strings.TrimPrefix(key, prefix))
	if rel == "." || path.IsAbs(rel) || rel == ".." || strings.HasPrefix(rel, "../") {
		return "", errors.WithContext(
			errors.Newf(errors.CodeResolveFailed, "object key %q cannot be mirrored", key),
			"key", key,
		)
	}
	return rel, nil
}

var _ collection.Node = (*Objects)(nil)
