package vault

import (
	"bytes"
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/zip"

	"github.com/echocapsule/mediakit/internal/assemble"
	"github.com/echocapsule/mediakit/internal/media"
)

func openTestVault(t *testing.T) *Vault {
	t.Helper()
	v, err := Open(t.TempDir())
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { v.Close() })
	return v
}

func TestSaveListGetRoundTrip(t *testing.T) {
	v := openTestVault(t)
	ctx := context.Background()

	payload := []byte("jpeg bytes go here")
	item := assemble.Enhanced{
		Data:     payload,
		Type:     media.TypePhoto,
		Filename: "beach.jpg",
		Metadata: &assemble.Metadata{Brightness: 150, Contrast: 100, Saturation: 100},
	}
	if err := v.Save(ctx, item); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	items, err := v.List(ctx)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("List() = %d items, want 1", len(items))
	}

	got := items[0]
	if got.Filename != "beach.jpg" {
		t.Errorf("Filename = %q, want beach.jpg", got.Filename)
	}
	if got.Type != media.TypePhoto {
		t.Errorf("Type = %q, want photo", got.Type)
	}
	if got.Size != int64(len(payload)) {
		t.Errorf("Size = %d, want %d", got.Size, len(payload))
	}
	if got.Metadata == nil || got.Metadata.Brightness != 150 {
		t.Errorf("Metadata = %+v, want Brightness 150", got.Metadata)
	}

	_, data, err := v.Get(ctx, got.ID)
	if err != nil {
		t.Fatalf("Get() error: %v", err)
	}
	if !bytes.Equal(data, payload) {
		t.Error("payload round-trip altered the bytes")
	}
}

func TestSavePassthroughHasNoMetadata(t *testing.T) {
	v := openTestVault(t)
	ctx := context.Background()

	item := assemble.Enhanced{Data: []byte("original"), Type: media.TypeAudio, Filename: "voice.wav"}
	if err := v.Save(ctx, item); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	items, err := v.List(ctx)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}
	if items[0].Metadata != nil {
		t.Errorf("passthrough item carries metadata: %+v", items[0].Metadata)
	}
}

func TestGetMissing(t *testing.T) {
	v := openTestVault(t)

	if _, _, err := v.Get(context.Background(), "no-such-id"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() error = %v, want ErrNotFound", err)
	}
}

func TestDeleteRemovesItemAndPayload(t *testing.T) {
	v := openTestVault(t)
	ctx := context.Background()

	if err := v.Save(ctx, assemble.Enhanced{Data: []byte("x"), Type: media.TypePhoto, Filename: "a.jpg"}); err != nil {
		t.Fatalf("Save() error: %v", err)
	}
	items, err := v.List(ctx)
	if err != nil {
		t.Fatalf("List() error: %v", err)
	}

	if err := v.Delete(ctx, items[0].ID); err != nil {
		t.Fatalf("Delete() error: %v", err)
	}

	if _, _, err := v.Get(ctx, items[0].ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get() after delete = %v, want ErrNotFound", err)
	}
	if err := v.Delete(ctx, items[0].ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second Delete() = %v, want ErrNotFound", err)
	}
}

func TestExportZip(t *testing.T) {
	v := openTestVault(t)
	ctx := context.Background()

	want := map[string][]byte{
		"beach.jpg": []byte("photo payload"),
		"voice.wav": []byte("audio payload"),
	}
	for name, data := range want {
		typ := media.TypePhoto
		if filepath.Ext(name) == ".wav" {
			typ = media.TypeAudio
		}
		if err := v.Save(ctx, assemble.Enhanced{Data: data, Type: typ, Filename: name}); err != nil {
			t.Fatalf("Save(%s) error: %v", name, err)
		}
	}

	dest := filepath.Join(t.TempDir(), "export.zip")
	if err := v.ExportZip(ctx, dest); err != nil {
		t.Fatalf("ExportZip() error: %v", err)
	}

	zr, err := zip.OpenReader(dest)
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	defer zr.Close()

	if len(zr.File) != len(want) {
		t.Fatalf("archive holds %d entries, want %d", len(zr.File), len(want))
	}
	for _, zf := range zr.File {
		var matched string
		for name := range want {
			if len(zf.Name) > len(name) && zf.Name[len(zf.Name)-len(name):] == name {
				matched = name
			}
		}
		if matched == "" {
			t.Errorf("unexpected archive entry %q", zf.Name)
			continue
		}

		rc, err := zf.Open()
		if err != nil {
			t.Fatalf("open archive entry %q: %v", zf.Name, err)
		}
		var buf bytes.Buffer
		if _, err := buf.ReadFrom(rc); err != nil {
			t.Fatalf("read archive entry %q: %v", zf.Name, err)
		}
		rc.Close()
		if !bytes.Equal(buf.Bytes(), want[matched]) {
			t.Errorf("archive entry %q payload mismatch", zf.Name)
		}
	}
}

func TestExportZipCancelled(t *testing.T) {
	v := openTestVault(t)
	if err := v.Save(context.Background(), assemble.Enhanced{Data: []byte("x"), Type: media.TypePhoto, Filename: "a.jpg"}); err != nil {
		t.Fatalf("Save() error: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	dest := filepath.Join(t.TempDir(), "export.zip")
	if err := v.ExportZip(ctx, dest); err == nil {
		t.Error("ExportZip() with cancelled context did not fail")
	}
}
