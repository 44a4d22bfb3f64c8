package manifest

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	httpclient "github.com/handiism/avatar-customizer/internal/http"
	"github.com/handiism/avatar-customizer/internal/model"
)

func testPartConfig(parts ...string) *model.PartConfig {
	return &model.PartConfig{Parts: parts, Extension: ".webp"}
}

func TestClassifier_Classify(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		wantSkip  Skip
		wantPart  string
		wantShape int
		wantPrev  bool
	}{
		{name: "primary", path: "assets/face/1.webp", wantPart: "face", wantShape: 1},
		{name: "preview hyphen is a separator", path: "assets/face/preview-1.webp", wantPart: "face", wantShape: 1, wantPrev: true},
		{name: "negative id", path: "assets/hair/-3.webp", wantPart: "hair", wantShape: -3},
		{name: "negative after underscore", path: "assets/hair/hair_-2.webp", wantPart: "hair", wantShape: -2},
		{name: "zero id", path: "assets/skin/0.webp", wantPart: "skin", wantShape: 0},
		{name: "first number wins", path: "assets/glass/g12_v3.webp", wantPart: "glass", wantShape: 12},
		{name: "leading slashes", path: "///assets/face/5.webp", wantPart: "face", wantShape: 5},
		{name: "case-insensitive extension", path: "assets/face/5.WEBP", wantPart: "face", wantShape: 5},
		{name: "case-insensitive part dir", path: "Assets/FACE/5.webp", wantPart: "face", wantShape: 5},
		{name: "preview any case", path: "assets/face/PreView_8.webp", wantPart: "face", wantShape: 8, wantPrev: true},
		{name: "nested directories", path: "assets/v2/hair/long/4.webp", wantPart: "hair", wantShape: 4},
		{name: "first configured part wins", path: "assets/hair/face/4.webp", wantPart: "face", wantShape: 4},
		{name: "wrong extension", path: "assets/face/1.png", wantSkip: SkipExtension},
		{name: "part must be a directory", path: "assets/face1.webp", wantSkip: SkipNoPart},
		{name: "part not at root without slash", path: "face/1.webp", wantSkip: SkipNoPart},
		{name: "unknown part", path: "assets/hat/1.webp", wantSkip: SkipNoPart},
		{name: "no digits", path: "assets/face/smile.webp", wantSkip: SkipNoShapeID},
		{name: "digits only in directory", path: "assets/face/v2/smile.webp", wantSkip: SkipNoShapeID},
		{name: "shape id overflows int", path: "assets/face/99999999999999999999.webp", wantSkip: SkipShapeIDRange},
		{name: "negative shape id overflows int", path: "assets/face/-99999999999999999999.webp", wantSkip: SkipShapeIDRange},
	}

	classifier := NewClassifier(testPartConfig("face", "skin", "hair", "clothes", "glass"))

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, skip := classifier.Classify(tt.path)
			if skip != tt.wantSkip {
				t.Fatalf("Classify(%q) skip = %v, want %v", tt.path, skip, tt.wantSkip)
			}
			if skip != SkipNone {
				return
			}
			if got.Part != tt.wantPart {
				t.Errorf("Part = %q, want %q", got.Part, tt.wantPart)
			}
			if got.ShapeID != tt.wantShape {
				t.Errorf("ShapeID = %d, want %d", got.ShapeID, tt.wantShape)
			}
			if got.IsPreview != tt.wantPrev {
				t.Errorf("IsPreview = %v, want %v", got.IsPreview, tt.wantPrev)
			}
		})
	}
}

func TestClassifier_ConfiguredExtension(t *testing.T) {
	classifier := NewClassifier(&model.PartConfig{Parts: []string{"face"}, Extension: "png"})

	if _, skip := classifier.Classify("assets/face/1.png"); skip != SkipNone {
		t.Errorf("png should be accepted when configured, got %v", skip)
	}
	if _, skip := classifier.Classify("assets/face/1.webp"); skip != SkipExtension {
		t.Errorf("webp should be rejected when png is configured, got %v", skip)
	}
}

func TestBuilder_EndToEnd(t *testing.T) {
	builder := NewBuilder(testPartConfig("face", "hair"), "https://cdn.test/repo/")
	catalog, report := builder.Build([]string{
		"assets/face/1.webp",
		"assets/face/preview-1.webp",
		"assets/hair/-3.webp",
	})

	want := []model.AssetRecord{
		{Part: "face", ShapeID: 1, PrimaryURL: "https://cdn.test/repo/assets/face/1.webp", PreviewURL: "https://cdn.test/repo/assets/face/preview-1.webp", DisplayName: "preview-1.webp"},
	}
	if diff := cmp.Diff(want, catalog.Records("face")); diff != "" {
		t.Errorf("face records mismatch (-want +got):\n%s", diff)
	}

	hair, ok := catalog.Lookup("hair", -3)
	if !ok {
		t.Fatal("hair:-3 missing")
	}
	if hair.PreviewURL != hair.PrimaryURL || hair.PrimaryURL != "https://cdn.test/repo/assets/hair/-3.webp" {
		t.Errorf("hair:-3 = %+v, want preview falling back to primary", hair)
	}

	if report.Accepted != 3 || report.Listed != 3 {
		t.Errorf("report = %+v, want 3 listed and 3 accepted", report)
	}
	if diff := cmp.Diff(map[string]int{"face": 1, "hair": 1}, report.Shapes); diff != "" {
		t.Errorf("report.Shapes mismatch (-want +got):\n%s", diff)
	}
}

func TestBuilder_MergeIsOrderIndependent(t *testing.T) {
	builder := NewBuilder(testPartConfig("face"), "")
	primaryFirst, _ := builder.Build([]string{"assets/face/2.webp", "assets/face/2_preview.webp"})
	previewFirst, _ := builder.Build([]string{"assets/face/2_preview.webp", "assets/face/2.webp"})

	for name, c := range map[string]*model.Catalog{"primary first": primaryFirst, "preview first": previewFirst} {
		rec, _ := c.Lookup("face", 2)
		if rec.PrimaryURL != "assets/face/2.webp" {
			t.Errorf("%s: PrimaryURL = %q, want %q", name, rec.PrimaryURL, "assets/face/2.webp")
		}
		if rec.PreviewURL != "assets/face/2_preview.webp" {
			t.Errorf("%s: PreviewURL = %q, want %q", name, rec.PreviewURL, "assets/face/2_preview.webp")
		}
	}
}

func TestBuilder_PreviewOnly(t *testing.T) {
	builder := NewBuilder(testPartConfig("glass"), "")
	catalog, _ := builder.Build([]string{"assets/glass/preview7.webp"})

	rec, ok := catalog.Lookup("glass", 7)
	if !ok {
		t.Fatal("glass:7 missing")
	}
	if rec.PrimaryURL != "" {
		t.Errorf("PrimaryURL = %q, want absent", rec.PrimaryURL)
	}
	if rec.PreviewURL != "assets/glass/preview7.webp" {
		t.Errorf("PreviewURL = %q, want %q", rec.PreviewURL, "assets/glass/preview7.webp")
	}
}

func TestBuilder_DuplicatesNeverOverwrite(t *testing.T) {
	builder := NewBuilder(testPartConfig("hair"), "")
	catalog, report := builder.Build([]string{
		"assets/hair/4.webp",
		"assets/hair/old/4.webp",
	})

	rec, _ := catalog.Lookup("hair", 4)
	if rec.PrimaryURL != "assets/hair/4.webp" {
		t.Errorf("PrimaryURL = %q, want first file to win", rec.PrimaryURL)
	}
	if rec.DisplayName != "4.webp" {
		t.Errorf("DisplayName = %q, want %q", rec.DisplayName, "4.webp")
	}
	if report.Accepted != 2 {
		t.Errorf("Accepted = %d, want 2", report.Accepted)
	}
}

func TestBuilder_SkipsAreCounted(t *testing.T) {
	builder := NewBuilder(testPartConfig("face"), "")
	catalog, report := builder.Build([]string{
		"README.md",
		"assets/face/x.webp",
		"assets/hat/1.webp",
		"assets/face/1.webp",
	})

	want := map[Skip]int{SkipExtension: 1, SkipNoShapeID: 1, SkipNoPart: 1}
	if diff := cmp.Diff(want, report.Skipped); diff != "" {
		t.Errorf("Skipped mismatch (-want +got):\n%s", diff)
	}
	if catalog.Total() != 1 {
		t.Errorf("Total() = %d, want 1", catalog.Total())
	}
}

func TestBuilder_Idempotent(t *testing.T) {
	paths := []string{
		"assets/face/1.webp", "assets/face/preview-1.webp", "assets/face/-1.webp",
		"assets/hair/-3.webp", "assets/hair/10.webp", "assets/glass/0.webp",
	}
	builder := NewBuilder(testPartConfig("face", "hair", "glass"), "https://cdn.test/")

	first, _ := builder.Build(paths)
	second, _ := builder.Build(paths)

	if diff := cmp.Diff(first, second, cmp.AllowUnexported(model.Catalog{})); diff != "" {
		t.Errorf("rebuilding should give an identical catalog (-first +second):\n%s", diff)
	}
}

func TestResolveURL(t *testing.T) {
	tests := []struct {
		base, path, want string
	}{
		{"https://cdn.test/repo/", "assets/a.webp", "https://cdn.test/repo/assets/a.webp"},
		{"https://cdn.test/repo", "/assets/a.webp", "https://cdn.test/repo/assets/a.webp"},
		{"", "//assets/a.webp", "assets/a.webp"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := ResolveURL(tt.base, tt.path); got != tt.want {
				t.Errorf("ResolveURL(%q, %q) = %q, want %q", tt.base, tt.path, got, tt.want)
			}
		})
	}
}

func TestGitHubTreeSource_List(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.RequestURI()
		w.Write([]byte(`{"sha":"abc","tree":[
			{"path":"assets","type":"tree"},
			{"path":"assets/face/1.webp","type":"blob"},
			{"path":"assets/hair/-3.webp","type":"blob"}
		],"truncated":false}`))
	}))
	defer srv.Close()

	src, err := NewSource(SourceConfig{Kind: SourceGitHub, User: "u", Repo: "r", Ref: "main", APIBase: srv.URL}, httpclient.NewClient("", 0))
	if err != nil {
		t.Fatalf("NewSource failed: %v", err)
	}

	paths, err := src.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if diff := cmp.Diff([]string{"assets/face/1.webp", "assets/hair/-3.webp"}, paths); diff != "" {
		t.Errorf("paths mismatch (-want +got):\n%s", diff)
	}
	if gotPath != "/repos/u/r/git/trees/main?recursive=1" {
		t.Errorf("request = %q, want the recursive tree endpoint", gotPath)
	}
	if src.BaseURL() != "https://raw.githubusercontent.com/u/r/main/" {
		t.Errorf("BaseURL() = %q", src.BaseURL())
	}
}

func TestJSDelivrSource_List(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(`{"default":null,"files":[{"name":"/assets/face/1.webp"},{"name":"/README.md"}]}`))
	}))
	defer srv.Close()

	src, err := NewSource(SourceConfig{Kind: SourceJSDelivr, User: "u", Repo: "r", Ref: "v1", APIBase: srv.URL, CDNBase: "https://cdn.test/"}, httpclient.NewClient("", 0))
	if err != nil {
		t.Fatalf("NewSource failed: %v", err)
	}

	paths, err := src.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(paths) != 2 || paths[0] != "/assets/face/1.webp" {
		t.Errorf("paths = %v", paths)
	}
	if gotPath != "/v1/package/gh/u/r@v1/flat" {
		t.Errorf("request path = %q, want the flat endpoint", gotPath)
	}
	if src.BaseURL() != "https://cdn.test/gh/u/r@v1/" {
		t.Errorf("BaseURL() = %q", src.BaseURL())
	}
}

func TestSource_ManifestUnavailable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	}))
	defer srv.Close()

	for _, kind := range []string{SourceGitHub, SourceJSDelivr} {
		t.Run(kind, func(t *testing.T) {
			src, err := NewSource(SourceConfig{Kind: kind, User: "u", Repo: "r", Ref: "main", APIBase: srv.URL}, httpclient.NewClient("", 0))
			if err != nil {
				t.Fatalf("NewSource failed: %v", err)
			}
			_, err = src.List(context.Background())
			if !errors.Is(err, ErrManifestUnavailable) {
				t.Errorf("expected ErrManifestUnavailable, got %v", err)
			}
		})
	}
}

func TestNewSource_Validation(t *testing.T) {
	tests := []struct {
		name string
		cfg  SourceConfig
	}{
		{"github without repo", SourceConfig{Kind: SourceGitHub, User: "u", Ref: "main"}},
		{"dir without path", SourceConfig{Kind: SourceDir}},
		{"unknown kind", SourceConfig{Kind: "ftp"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewSource(tt.cfg, nil); err == nil {
				t.Error("expected error but got none")
			}
		})
	}
}

func TestDirSource_List(t *testing.T) {
	dir := t.TempDir()
	for _, rel := range []string{"assets/face/1.webp", "assets/hair/-3.webp", "README.md"} {
		full := filepath.Join(dir, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	src := NewDirSource(dir)
	paths, err := src.List(context.Background())
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	want := []string{"README.md", "assets/face/1.webp", "assets/hair/-3.webp"}
	if diff := cmp.Diff(want, paths); diff != "" {
		t.Errorf("paths mismatch (-want +got):\n%s", diff)
	}

	catalog, _ := NewBuilder(testPartConfig("face", "hair"), src.BaseURL()).Build(paths)
	rec, _ := catalog.Lookup("face", 1)
	if rec.PrimaryURL != filepath.ToSlash(dir)+"/assets/face/1.webp" {
		t.Errorf("PrimaryURL = %q, want a path under the directory", rec.PrimaryURL)
	}
}

func TestDirSource_Missing(t *testing.T) {
	src := NewDirSource(filepath.Join(t.TempDir(), "missing"))
	if _, err := src.List(context.Background()); !errors.Is(err, ErrManifestUnavailable) {
		t.Errorf("expected ErrManifestUnavailable, got %v", err)
	}
}
