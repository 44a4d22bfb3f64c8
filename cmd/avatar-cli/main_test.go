package main

import (
	"bytes"
	"encoding/json"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParsePicks(t *testing.T) {
	tests := []struct {
		input   string
		want    []pick
		wantErr bool
	}{
		{"", nil, false},
		{"face=1,hair=-3", []pick{{"face", 1}, {"hair", -3}}, false},
		{" Face = 0 , ", []pick{{"face", 0}}, false},
		{"face", nil, true},
		{"face=x", nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := parsePicks(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("parsePicks(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if diff := cmp.Diff(tt.want, got, cmp.AllowUnexported(pick{})); diff != "" {
				t.Errorf("parsePicks(%q) mismatch (-want +got):\n%s", tt.input, diff)
			}
		})
	}
}

func writePNG(t *testing.T, path string, c color.Color) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}
}

// fixture lays out a local asset repository of PNG layers.
func fixture(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	writePNG(t, filepath.Join(root, "assets", "face", "1.png"), color.RGBA{R: 255, A: 255})
	writePNG(t, filepath.Join(root, "assets", "face", "preview-1.png"), color.RGBA{G: 255, A: 255})
	writePNG(t, filepath.Join(root, "assets", "hair", "-3.png"), color.RGBA{B: 255, A: 255})
	writePNG(t, filepath.Join(root, "assets", "hair", "2.png"), color.RGBA{R: 9, A: 255})
	return root
}

func execute(t *testing.T, args ...string) string {
	t.Helper()
	t.Setenv("AVATAR_EXTENSION", ".png")
	t.Setenv("AVATAR_PARTS", "face,hair")

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&bytes.Buffer{})
	rootCmd.SetArgs(args)
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("avatar-cli %s: %v", strings.Join(args, " "), err)
	}
	return out.String()
}

func TestCLI_Catalog(t *testing.T) {
	out := execute(t, "catalog", "--dir", fixture(t))

	for _, want := range []string{"face", "hair", "-3 2", "3 shapes"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestCLI_ViewsKeyed(t *testing.T) {
	out := execute(t, "views", "--keyed", "--dir", fixture(t))
	keyed = false

	var got map[string]map[string]struct {
		URL        *string `json:"url"`
		PreviewURL *string `json:"previewUrl"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	face := got["face"]["1"]
	if face.URL == nil || !strings.HasSuffix(*face.URL, "assets/face/1.png") {
		t.Errorf("face url = %v", face.URL)
	}
	if face.PreviewURL == nil || !strings.HasSuffix(*face.PreviewURL, "assets/face/preview-1.png") {
		t.Errorf("face previewUrl = %v", face.PreviewURL)
	}
}

func TestCLI_Render(t *testing.T) {
	root := fixture(t)
	out := filepath.Join(t.TempDir(), "avatar.png")

	msg := execute(t, "render", "--dir", root, "--pick", "hair=2", "--out", out, "--scale", "2")
	picks, outputPath, scale = "", "", 1

	if !strings.Contains(msg, "2 layers") {
		t.Errorf("output = %q, want 2 layers drawn", msg)
	}
	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if got := img.Bounds().Dx(); got != 128 {
		t.Errorf("width = %d, want 128", got)
	}
	r, _, _, _ := img.At(0, 0).RGBA()
	if r>>8 != 9 {
		t.Errorf("top layer red = %d, want 9 from hair 2", r>>8)
	}
}
