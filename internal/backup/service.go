// Package backup copies the whole journal to a remote store and brings it
// back.
//
// A backup uploads every referenced image to MindStitch/images, rewrites the
// image locators to backup://<name> and uploads one manifest,
// MindStitch/MindStitchBackup.json. A restore downloads the manifest,
// materializes backup:// images into a local cache and inserts every record
// as a new row.
package backup

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/dmitrijs2005/mindstitch/internal/content"
	"github.com/dmitrijs2005/mindstitch/internal/filex"
	"github.com/dmitrijs2005/mindstitch/internal/logging"
	"github.com/dmitrijs2005/mindstitch/internal/models"
	"github.com/dmitrijs2005/mindstitch/internal/remote"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

// Journal is the local side of a backup run.
type Journal interface {
	// Snapshot returns every idea and todo.
	Snapshot(ctx context.Context) ([]models.Idea, []models.Todo, error)
	// ImportAll inserts all records as new rows, atomically.
	ImportAll(ctx context.Context, ideas []models.Idea, todos []models.Todo) error
}

// Report summarizes a run.
type Report struct {
	Ideas            int `json:"ideas"`
	Todos            int `json:"todos"`
	ImagesUploaded   int `json:"images_uploaded"`
	ImagesDownloaded int `json:"images_downloaded"`
	ImagesReused     int `json:"images_reused"`
	ImagesFailed     int `json:"images_failed"`
}

type Service struct {
	journal   Journal
	store     remote.Store
	resources ResourceReader
	cacheDir  string
	workers   int
	now       func() time.Time
	logger    logging.Logger
}

type Option func(*Service)

// WithWorkers bounds concurrent image transfers. Values below 1 mean one.
func WithWorkers(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.workers = n
		}
	}
}

func WithResources(r ResourceReader) Option {
	return func(s *Service) { s.resources = r }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService wires a backup service. dataDir anchors relative image paths
// and holds the restored image cache.
func NewService(journal Journal, store remote.Store, dataDir string, logger logging.Logger, opts ...Option) *Service {
	s := &Service{
		journal:   journal,
		store:     store,
		resources: FileResources{BaseDir: dataDir},
		cacheDir:  filepath.Join(dataDir, CacheDirName),
		workers:   1,
		now:       time.Now,
		logger:    logger,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// CacheDir is where restored images are written.
func (s *Service) CacheDir() string {
	return s.cacheDir
}

// TestConnection reports whether ep is reachable with its credentials.
func (s *Service) TestConnection(ctx context.Context, ep remote.Endpoint) bool {
	return s.store.CheckConnection(ctx, ep)
}

func (s *Service) runLogger(op string) logging.Logger {
	return s.logger.With("run_id", uuid.NewString(), "op", op)
}

// imageJob is one image block of one idea.
type imageJob struct {
	idea  int
	uri   string
	name  string
	done  bool
	final string
}

func (s *Service) Backup(ctx context.Context, ep remote.Endpoint) (*Report, error) {
	log := s.runLogger("backup")

	ideas, todos, err := s.journal.Snapshot(ctx)
	if err != nil {
		return nil, fmt.Errorf("read journal: %w", err)
	}
	if len(ideas) == 0 && len(todos) == 0 {
		return nil, ErrNothingToBackup
	}

	for _, folder := range []string{RootFolder, ImagesFolder} {
		ok := s.store.CreateFolder(ctx, ep, folder)
		log.Debug(ctx, "create folder", "folder", folder, "ok", ok)
	}

	var jobs []*imageJob
	perIdea := make([][]*imageJob, len(ideas))
	for i := range ideas {
		for _, img := range content.Images(ideas[i].Blocks()) {
			j := &imageJob{idea: i, uri: img.URI, name: ImageName(ideas[i].ID, img.URI)}
			jobs = append(jobs, j)
			perIdea[i] = append(perIdea[i], j)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for _, j := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			s.uploadImage(gctx, log, ep, j)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	report := &Report{Ideas: len(ideas), Todos: len(todos)}
	for i := range ideas {
		if len(perIdea[i]) == 0 {
			continue
		}
		k := 0
		changed := false
		blocks := content.MapImages(ideas[i].Blocks(), func(img content.Image) content.Image {
			j := perIdea[i][k]
			k++
			if j.done {
				img.URI = j.final
				changed = true
			}
			return img
		})
		if changed {
			ideas[i].SetBlocks(blocks)
		}
	}
	for _, j := range jobs {
		if j.done {
			report.ImagesUploaded++
		} else {
			report.ImagesFailed++
		}
	}

	data, err := json.Marshal(models.NewManifest(ideas, todos, s.now()))
	if err != nil {
		return nil, fmt.Errorf("encode manifest: %w", err)
	}
	if err := remote.UploadText(ctx, s.store, ep, ManifestPath, string(data)); err != nil {
		log.Error(ctx, "manifest upload failed", "error", err)
		return nil, fmt.Errorf("%w: %w", ErrManifestUpload, err)
	}

	log.Info(ctx, "backup finished",
		"ideas", report.Ideas, "todos", report.Todos,
		"images_uploaded", report.ImagesUploaded, "images_failed", report.ImagesFailed)
	return report, nil
}

// uploadImage sends one image. Failures leave the job undone and are only
// logged.
func (s *Service) uploadImage(ctx context.Context, log logging.Logger, ep remote.Endpoint, j *imageJob) {
	data, err := s.resources.Read(ctx, j.uri)
	if err != nil {
		log.Warn(ctx, "image not readable, keeping locator", "uri", j.uri, "error", err)
		return
	}
	if err := s.store.Upload(ctx, ep, ImagesFolder+"/"+j.name, data, ""); err != nil {
		log.Warn(ctx, "image upload failed, keeping locator", "name", j.name, "error", err)
		return
	}
	j.done = true
	j.final = SentinelScheme + j.name
}

func (s *Service) Restore(ctx context.Context, ep remote.Endpoint) (*Report, error) {
	log := s.runLogger("restore")

	data, ok := s.store.Download(ctx, ep, ManifestPath)
	if !ok {
		return nil, ErrNoBackupFound
	}

	var m models.Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrManifestInvalid, err)
	}

	names := map[string]struct{}{}
	for _, idea := range m.Ideas {
		for _, img := range content.Images(idea.Blocks()) {
			if name, ok := sentinelName(img.URI); ok {
				names[name] = struct{}{}
			}
		}
	}

	report := &Report{Ideas: len(m.Ideas), Todos: len(m.Todos)}
	resolved := make(map[string]string, len(names))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for name := range names {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			path, reused, ok := s.materialize(gctx, log, ep, name)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case !ok:
				report.ImagesFailed++
			case reused:
				report.ImagesReused++
				resolved[name] = FileURI(path)
			default:
				report.ImagesDownloaded++
				resolved[name] = FileURI(path)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	for i := range m.Ideas {
		blocks := m.Ideas[i].Blocks()
		if !content.HasImages(blocks) {
			continue
		}
		changed := false
		blocks = content.MapImages(blocks, func(img content.Image) content.Image {
			if name, ok := sentinelName(img.URI); ok {
				if uri, ok := resolved[name]; ok {
					img.URI = uri
					changed = true
				}
			}
			return img
		})
		if changed {
			m.Ideas[i].SetBlocks(blocks)
		}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := s.journal.ImportAll(ctx, m.Ideas, m.Todos); err != nil {
		return nil, fmt.Errorf("import backup: %w", err)
	}

	log.Info(ctx, "restore finished",
		"ideas", report.Ideas, "todos", report.Todos,
		"images_downloaded", report.ImagesDownloaded, "images_reused", report.ImagesReused,
		"images_failed", report.ImagesFailed)
	return report, nil
}

// materialize makes sure the named image exists in the cache. It returns
// the cache path, whether an existing file was reused and whether the image
// is available at all.
func (s *Service) materialize(ctx context.Context, log logging.Logger, ep remote.Endpoint, name string) (string, bool, bool) {
	if !validName(name) {
		log.Warn(ctx, "rejecting image name", "name", name)
		return "", false, false
	}

	path, err := filepath.Abs(filepath.Join(s.cacheDir, name))
	if err != nil {
		log.Warn(ctx, "cache path", "name", name, "error", err)
		return "", false, false
	}
	if filex.Exists(path) {
		return path, true, true
	}

	data, ok := s.store.Download(ctx, ep, ImagesFolder+"/"+name)
	if !ok {
		log.Warn(ctx, "image download failed, keeping sentinel", "name", name)
		return "", false, false
	}
	if err := filex.WriteFileAtomic(path, data, 0o600); err != nil {
		log.Warn(ctx, "image cache write failed, keeping sentinel", "name", name, "error", err)
		return "", false, false
	}
	return path, false, true
}
