package manifest

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"
	"strings"

	"github.com/handiism/avatar-customizer/internal/manifest/dto"
)

// ErrManifestUnavailable is returned when the file listing cannot be
// fetched or decoded. The caller keeps its previous catalog.
var ErrManifestUnavailable = errors.New("manifest unavailable")

// Source kinds.
const (
	SourceGitHub   = "github"
	SourceJSDelivr = "jsdelivr"
	SourceDir      = "dir"
)

// Default endpoints. Overridable through SourceConfig for mirrors and tests.
const (
	DefaultGitHubAPI    = "https://api.github.com"
	DefaultGitHubRaw    = "https://raw.githubusercontent.com"
	DefaultJSDelivrData = "https://data.jsdelivr.com"
	DefaultJSDelivrCDN  = "https://cdn.jsdelivr.net"
)

// Fetcher is the transport a remote Source needs.
//
// *http.Client from internal/http satisfies it.
type Fetcher interface {
	GetJSON(ctx context.Context, url string, v any) error
}

// Source produces the flattened file listing of one repository ref.
type Source interface {
	// List returns every file path of the listing. Errors wrap
	// ErrManifestUnavailable.
	List(ctx context.Context) ([]string, error)

	// BaseURL is the location listed paths are resolved against.
	BaseURL() string
}

// SourceConfig selects and parameterizes a Source.
type SourceConfig struct {
	Kind string
	User string
	Repo string
	Ref  string
	Dir  string

	// APIBase overrides the listing endpoint host (GitHub API or jsDelivr data).
	APIBase string
	// CDNBase overrides the asset host (raw.githubusercontent or jsDelivr CDN).
	CDNBase string
}

// NewSource creates the Source described by cfg.
func NewSource(cfg SourceConfig, fetcher Fetcher) (Source, error) {
	switch cfg.Kind {
	case SourceGitHub, "":
		if err := requireRepo(cfg); err != nil {
			return nil, err
		}
		return &GitHubTreeSource{
			fetcher: fetcher,
			user:    cfg.User,
			repo:    cfg.Repo,
			ref:     cfg.Ref,
			apiBase: orDefault(cfg.APIBase, DefaultGitHubAPI),
			rawBase: orDefault(cfg.CDNBase, DefaultGitHubRaw),
		}, nil
	case SourceJSDelivr:
		if err := requireRepo(cfg); err != nil {
			return nil, err
		}
		return &JSDelivrSource{
			fetcher:  fetcher,
			user:     cfg.User,
			repo:     cfg.Repo,
			ref:      cfg.Ref,
			dataBase: orDefault(cfg.APIBase, DefaultJSDelivrData),
			cdnBase:  orDefault(cfg.CDNBase, DefaultJSDelivrCDN),
		}, nil
	case SourceDir:
		if strings.TrimSpace(cfg.Dir) == "" {
			return nil, errors.New("dir source requires a directory")
		}
		return NewDirSource(cfg.Dir), nil
	default:
		return nil, fmt.Errorf("unknown source kind %q", cfg.Kind)
	}
}

// GitHubTreeSource lists files through the GitHub git trees API and serves
// them from raw.githubusercontent.com.
type GitHubTreeSource struct {
	fetcher          Fetcher
	user, repo, ref  string
	apiBase, rawBase string
}

// ListURL returns the recursive tree endpoint.
func (s *GitHubTreeSource) ListURL() string {
	return fmt.Sprintf("%s/repos/%s/%s/git/trees/%s?recursive=1", trimSlash(s.apiBase), s.user, s.repo, s.ref)
}

// BaseURL implements Source.
func (s *GitHubTreeSource) BaseURL() string {
	return fmt.Sprintf("%s/%s/%s/%s/", trimSlash(s.rawBase), s.user, s.repo, s.ref)
}

// List implements Source. Only blob entries are returned.
func (s *GitHubTreeSource) List(ctx context.Context) ([]string, error) {
	var tree dto.JSONTree
	url := s.ListURL()
	if err := s.fetcher.GetJSON(ctx, url, &tree); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrManifestUnavailable, url, err)
	}
	return tree.Paths(), nil
}

// JSDelivrSource lists files through the jsDelivr data API and serves them
// from the jsDelivr CDN.
type JSDelivrSource struct {
	fetcher           Fetcher
	user, repo, ref   string
	dataBase, cdnBase string
}

// ListURL returns the flat listing endpoint.
func (s *JSDelivrSource) ListURL() string {
	return fmt.Sprintf("%s/v1/package/gh/%s/%s@%s/flat", trimSlash(s.dataBase), s.user, s.repo, s.ref)
}

// BaseURL implements Source.
func (s *JSDelivrSource) BaseURL() string {
	return fmt.Sprintf("%s/gh/%s/%s@%s/", trimSlash(s.cdnBase), s.user, s.repo, s.ref)
}

// List implements Source.
func (s *JSDelivrSource) List(ctx context.Context) ([]string, error) {
	var flat dto.JSONFlat
	url := s.ListURL()
	if err := s.fetcher.GetJSON(ctx, url, &flat); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrManifestUnavailable, url, err)
	}
	return flat.Paths(), nil
}

// DirSource lists files of a local checkout. Paths are slash-separated and
// relative to the directory, the same shape a remote listing has.
type DirSource struct {
	dir string
}

// NewDirSource creates a DirSource rooted at dir.
func NewDirSource(dir string) *DirSource {
	return &DirSource{dir: dir}
}

// BaseURL implements Source. It is the directory with a trailing slash.
func (s *DirSource) BaseURL() string {
	return filepath.ToSlash(filepath.Clean(s.dir)) + "/"
}

// List implements Source.
func (s *DirSource) List(ctx context.Context) ([]string, error) {
	var paths []string
	err := filepath.WalkDir(s.dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.dir, path)
		if err != nil {
			return err
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrManifestUnavailable, s.dir, err)
	}
	return paths, nil
}

func requireRepo(cfg SourceConfig) error {
	if cfg.User == "" || cfg.Repo == "" || cfg.Ref == "" {
		return fmt.Errorf("%s source requires user, repo and ref", orDefault(cfg.Kind, SourceGitHub))
	}
	return nil
}

func orDefault(v, def string) string {
	if strings.TrimSpace(v) == "" {
		return def
	}
	return v
}

func trimSlash(s string) string {
	return strings.TrimRight(s, "/")
}
