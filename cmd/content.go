package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/desertthunder/acms/internal/formatter"
	"github.com/desertthunder/acms/internal/models"
	"github.com/desertthunder/acms/internal/shared"
	"github.com/desertthunder/acms/internal/tasks"
)

// ContentList prints one page of content summaries.
func (r *Runner) ContentList(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	page := cmd.Int("page")
	size := cmd.Int("size")
	if page < 0 || size < 1 {
		return fmt.Errorf("%w: page must be >= 0 and size >= 1", shared.ErrInvalidFlag)
	}

	return r.withSyncer(ctx, func(syncer *tasks.ContentSyncer) error {
		summaries, err := syncer.FetchPage(ctx, page, size, cmd.String("search"))
		if err != nil {
			return err
		}

		r.logger.Debug("fetched page", "page", page, "size", size, "items", len(summaries))

		data, err := formatter.RenderSummaries(format, summaries)
		if err != nil {
			return err
		}
		return r.writeRendered(data, cmd.String("output"))
	})
}

// ContentGet prints a single content item.
func (r *Runner) ContentGet(ctx context.Context, cmd *cli.Command) error {
	format, err := formatter.ParseFormat(cmd.String("format"))
	if err != nil {
		return err
	}

	return r.withSyncer(ctx, func(syncer *tasks.ContentSyncer) error {
		record, err := syncer.FetchOne(ctx, cmd.String("id"))
		if err != nil {
			return err
		}

		data, err := formatter.RenderRecord(format, record)
		if err != nil {
			return err
		}
		return r.writeRendered(data, cmd.String("output"))
	})
}

// ContentSave saves a JSON record. A record carrying createdAt updates the
// stored item; one without it is created.
func (r *Runner) ContentSave(ctx context.Context, cmd *cli.Command) error {
	if cmd.Bool("publish") && cmd.Bool("draft") {
		return fmt.Errorf("%w: --publish and --draft are mutually exclusive", shared.ErrInvalidFlag)
	}

	record, err := r.readRecord(cmd.String("file"))
	if err != nil {
		return err
	}

	switch {
	case cmd.Bool("publish"):
		record.Published = true
	case cmd.Bool("draft"):
		record.Published = false
	}

	return r.withSyncer(ctx, func(syncer *tasks.ContentSyncer) error {
		result, err := syncer.Save(ctx, record)
		if err != nil {
			return err
		}

		if cmd.Bool("json") {
			return r.writeJSON(result, true)
		}

		verb := "Updated"
		if result.Created {
			verb = "Created"
		}
		return r.writePlain("✓ %s %q\n  ID: %s\n  Focus areas: %d\n",
			verb, record.Title, result.ID, len(result.FocusAreaIDs))
	})
}

// ContentDelete removes a content item.
func (r *Runner) ContentDelete(ctx context.Context, cmd *cli.Command) error {
	id := cmd.String("id")

	return r.withSyncer(ctx, func(syncer *tasks.ContentSyncer) error {
		if err := syncer.Remove(ctx, id); err != nil {
			return err
		}
		return r.writePlain("✓ Deleted %s\n", id)
	})
}

func (r *Runner) readRecord(path string) (*models.ContentRecord, error) {
	var data []byte
	var err error

	switch path {
	case "":
		return nil, fmt.Errorf("%w: --file", shared.ErrMissingArgument)
	case "-":
		data, err = io.ReadAll(r.input)
	default:
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read record: %w", err)
	}

	var record models.ContentRecord
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("%w: malformed content record: %w", shared.ErrInvalidInput, err)
	}
	return &record, nil
}
