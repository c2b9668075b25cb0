package app

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/reelzone/backend/internal/config"
	"github.com/reelzone/backend/internal/models"
)

// seedFile is the on-disk shape of a catalog seed.
type seedFile struct {
	Videos []models.Draft `json:"videos"`
	// Featured names the title of the seeded video to spotlight.
	Featured string `json:"featured"`
}

type seedReport struct {
	Added    int
	Skipped  int
	Featured string
}

func runSeed(ctx context.Context, cfg config.Config, args []string) error {
	if len(args) == 0 {
		return errors.New("expected seed name (e.g. dev)")
	}

	dir, err := absPath(cfg.SeedDir)
	if err != nil {
		return err
	}
	name := args[0]
	if !strings.HasSuffix(name, ".json") {
		name += ".json"
	}

	seed, err := readSeed(filepath.Join(dir, name))
	if err != nil {
		return err
	}

	svc, err := buildServices(ctx, cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			slog.Error("close backends", "error", err)
		}
	}()

	report, err := applySeed(ctx, svc, seed)
	if err != nil {
		return fmt.Errorf("apply seed %s: %w", name, err)
	}
	slog.Info("applied seed", "seed", name, "added", report.Added, "skipped", report.Skipped, "featured", report.Featured)
	return nil
}

func readSeed(path string) (seedFile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return seedFile{}, fmt.Errorf("read seed: %w", err)
	}
	var seed seedFile
	if err := json.Unmarshal(raw, &seed); err != nil {
		return seedFile{}, fmt.Errorf("decode seed %s: %w", filepath.Base(path), err)
	}
	return seed, nil
}

// applySeed adds every seed video whose URL is not already in the catalog, so running
// the same seed twice is harmless.
func applySeed(ctx context.Context, svc *services, seed seedFile) (seedReport, error) {
	var report seedReport

	existing := make(map[string]string)
	for _, v := range svc.catalog.List(ctx) {
		existing[v.URL] = v.ID
	}

	byTitle := make(map[string]string)
	for _, draft := range seed.Videos {
		if strings.TrimSpace(draft.Title) == "" || strings.TrimSpace(draft.URL) == "" {
			return report, fmt.Errorf("seed video needs a title and url: %+v", draft)
		}
		if id, ok := existing[draft.URL]; ok {
			report.Skipped++
			byTitle[draft.Title] = id
			continue
		}
		video, err := svc.catalog.Add(ctx, draft)
		if err != nil {
			return report, err
		}
		existing[video.URL] = video.ID
		byTitle[video.Title] = video.ID
		report.Added++
	}

	if seed.Featured != "" {
		id, ok := byTitle[seed.Featured]
		if !ok {
			return report, fmt.Errorf("featured video %q is not part of the seed", seed.Featured)
		}
		if _, err := svc.featured.Set(ctx, id); err != nil {
			return report, err
		}
		report.Featured = id
	}
	return report, nil
}
