package media

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeTestTree(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	files := map[string][]byte{
		"photo.jpg":          []byte("jpeg bytes"),
		"clip.mp4":           []byte("mp4 bytes"),
		"notes.txt":          []byte("not media"),
		"nested/inner.png":   []byte("png bytes"),
		".hidden/secret.jpg": []byte("hidden"),
	}
	for name, content := range files {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, content, 0o644); err != nil {
			t.Fatal(err)
		}
	}
	return dir
}

func collectDiscovered(t *testing.T, d *MediaDiscoverer, root string) ([]FileSource, []error) {
	t.Helper()
	fileCh, errCh := d.Discover(context.Background(), root)

	var files []FileSource
	var errs []error
	for fileCh != nil || errCh != nil {
		select {
		case f, ok := <-fileCh:
			if !ok {
				fileCh = nil
				continue
			}
			files = append(files, f)
		case err, ok := <-errCh:
			if !ok {
				errCh = nil
				continue
			}
			errs = append(errs, err)
		}
	}
	return files, errs
}

func TestMediaDiscoverer_FindsOnlyMedia(t *testing.T) {
	root := writeTestTree(t)

	files, errs := collectDiscovered(t, NewMediaDiscoverer(), root)
	if len(errs) != 0 {
		t.Fatalf("unexpected discovery errors: %v", errs)
	}

	found := map[string]MediaKind{}
	for _, f := range files {
		found[f.Name] = f.Kind
	}

	if len(found) != 3 {
		t.Fatalf("discovered %d files, want 3: %v", len(found), found)
	}
	if found["photo.jpg"] != KindImage {
		t.Errorf("photo.jpg kind = %s, want %s", found["photo.jpg"], KindImage)
	}
	if found["inner.png"] != KindImage {
		t.Errorf("inner.png kind = %s, want %s", found["inner.png"], KindImage)
	}
	if found["clip.mp4"] != KindVideo {
		t.Errorf("clip.mp4 kind = %s, want %s", found["clip.mp4"], KindVideo)
	}
	if _, ok := found["notes.txt"]; ok {
		t.Error("notes.txt should not be discovered")
	}
	if _, ok := found["secret.jpg"]; ok {
		t.Error("files under hidden directories should be skipped")
	}
}

func TestMediaDiscoverer_PopulatesSourceFields(t *testing.T) {
	root := writeTestTree(t)

	d := NewMediaDiscoverer(WithMediaExtensions("jpg"), WithFingerprint(true))
	files, errs := collectDiscovered(t, d, root)
	if len(errs) != 0 {
		t.Fatalf("unexpected discovery errors: %v", errs)
	}
	if len(files) != 1 {
		t.Fatalf("discovered %d files, want 1", len(files))
	}

	f := files[0]
	if f.Name != "photo.jpg" {
		t.Errorf("Name = %s, want photo.jpg", f.Name)
	}
	if f.ContentType != "image/jpeg" {
		t.Errorf("ContentType = %s, want image/jpeg", f.ContentType)
	}
	if f.Size != int64(len("jpeg bytes")) {
		t.Errorf("Size = %d, want %d", f.Size, len("jpeg bytes"))
	}

	want, err := FingerprintFile(f.Path)
	if err != nil {
		t.Fatal(err)
	}
	if f.Fingerprint != want {
		t.Errorf("Fingerprint = %s, want %s", f.Fingerprint, want)
	}
}

func TestMediaDiscoverer_NonexistentRoot(t *testing.T) {
	d := NewMediaDiscoverer()
	files, errs := collectDiscovered(t, d, filepath.Join(t.TempDir(), "missing"))

	if len(files) != 0 {
		t.Errorf("discovered %d files under a missing root, want 0", len(files))
	}
	if len(errs) == 0 {
		t.Error("expected an error for a missing root directory")
	}
}
