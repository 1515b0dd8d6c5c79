package cli

import (
	"context"
	"fmt"
	"log"
	"mime"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/cloudsafe/cloudsafe/internal/client/models"
	"github.com/cloudsafe/cloudsafe/internal/filex"
)

// statFile is a test seam for os.Stat.
var statFile = os.Stat

// ListFiles prints the stored files and caches the listing so that delete
// can update it without another round trip.
func (a *App) ListFiles(ctx context.Context) error {
	sess, ok := a.requireSession(ctx)
	if !ok {
		return nil
	}

	files, err := a.fileService.List(ctx, sess)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}

	a.files = files
	if len(files) == 0 {
		fmt.Println("No files stored yet.")
		return nil
	}

	for _, f := range files {
		fmt.Printf("%-50s %12d  %s\n", f.Key, f.SizeBytes, f.LastModified.Format("2006-01-02 15:04"))
	}
	return nil
}

// Upload collects a batch of local paths and uploads each one. Uploads are
// independent: a failed file is reported and the rest continue.
func (a *App) Upload(ctx context.Context) error {
	sess, ok := a.requireSession(ctx)
	if !ok {
		return nil
	}

	paths, err := GetLines(a.reader, "Enter file paths to upload", os.Stdout)
	if err != nil {
		return err
	}
	if len(paths) == 0 {
		fmt.Println("Nothing to upload.")
		return nil
	}

	intents := make([]models.UploadIntent, 0, len(paths))
	for _, p := range paths {
		info, err := statFile(p)
		if err != nil {
			fmt.Printf("skipping %s: %s\n", p, err.Error())
			continue
		}
		intents = append(intents, models.UploadIntent{
			ID:          uuid.NewString(),
			Path:        p,
			Name:        filepath.Base(p),
			SizeBytes:   info.Size(),
			ContentType: contentTypeFor(p),
		})
	}
	if len(intents) == 0 {
		return nil
	}

	results := a.fileService.Upload(ctx, sess, intents)
	for _, r := range results {
		if r.Err != nil {
			fmt.Printf("FAILED  %s: %s\n", r.Name, r.Err.Error())
		} else {
			fmt.Printf("OK      %s -> %s\n", r.Name, r.StorageKey)
		}
	}
	return nil
}

// Download prompts for a storage key and streams the file into the
// configured download directory.
func (a *App) Download(ctx context.Context) error {
	sess, ok := a.requireSession(ctx)
	if !ok {
		return nil
	}

	key, err := getSimpleText(a.reader, "Enter storage key to download", os.Stdout)
	if err != nil {
		return err
	}

	dir, err := filex.EnsureSubDir(a.config.DownloadDir)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}

	dest, err := a.fileService.Download(ctx, sess, key, dir)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}

	fmt.Printf("Saved to %s\n", dest)
	return nil
}

// Delete prompts for a storage key and removes the file on the backend.
// The cached listing is updated only when the backend confirmed the delete.
func (a *App) Delete(ctx context.Context) error {
	sess, ok := a.requireSession(ctx)
	if !ok {
		return nil
	}

	key, err := getSimpleText(a.reader, "Enter storage key to delete", os.Stdout)
	if err != nil {
		return err
	}

	remaining, err := a.fileService.Delete(ctx, sess, key, a.files)
	if err != nil {
		log.Printf("Error: %s", err.Error())
		return err
	}

	a.files = remaining
	fmt.Println("Deleted")
	return nil
}

func contentTypeFor(path string) string {
	if ct := mime.TypeByExtension(filepath.Ext(path)); ct != "" {
		return ct
	}
	return "application/octet-stream"
}
