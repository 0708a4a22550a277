package vault

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/zip"
	"github.com/rs/zerolog/log"
)

// ExportZip writes every vault payload into a zip archive at dest, named by
// creation time and original filename so the bundle is browsable outside the
// app.
func (v *Vault) ExportZip(ctx context.Context, dest string) error {
	items, err := v.List(ctx)
	if err != nil {
		return err
	}

	f, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("create export archive: %w", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)

	for _, it := range items {
		if err := ctx.Err(); err != nil {
			zw.Close()
			return err
		}

		_, data, err := v.Get(ctx, it.ID)
		if err != nil {
			zw.Close()
			return fmt.Errorf("export item %s: %w", it.ID, err)
		}

		name := fmt.Sprintf("%s-%s", it.CreatedAt.Format("2006-01-02"), it.Filename)
		w, err := zw.Create(name)
		if err != nil {
			zw.Close()
			return fmt.Errorf("add %s to archive: %w", name, err)
		}
		if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
			zw.Close()
			return fmt.Errorf("write %s to archive: %w", name, err)
		}
	}

	if err := zw.Close(); err != nil {
		return fmt.Errorf("finalize export archive: %w", err)
	}

	log.Info().Int("items", len(items)).Str("dest", dest).Msg("Vault exported")
	return nil
}
