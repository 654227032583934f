package app

import (
	"context"
	"fmt"
	"os"
	"time"

	"stash-go/internal/config"
	"stash-go/internal/model"
	"stash-go/internal/stash"
	"stash-go/internal/transport"
)

// App is the application layer between the CLI and the Client. It
// constructs the transport and client from config, exposes high-level
// operations on raw JSON documents, and owns the log file lifecycle.
type App struct {
	cfg     *config.Config
	client  *stash.Client
	logFile *os.File
}

// NewApp creates a fully wired App from the given config.
// operation identifies the CLI command being run (e.g. "Save",
// "Fetch"); it tags every log line of this invocation.
// The caller must call Close when done.
func NewApp(cfg *config.Config, operation string) (*App, error) {
	tr, err := transport.NewFromConfig(cfg)
	if err != nil {
		return nil, fmt.Errorf("creating transport: %w", err)
	}

	opID := fmt.Sprintf("%s-%s", operation, time.Now().UTC().Format("20060102T150405Z"))
	logger, logFile, err := newLogger(cfg.LogDir, opID)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	return &App{
		cfg:     cfg,
		client:  stash.NewClient(tr, logger),
		logFile: logFile,
	}, nil
}

// SaveDocument saves one JSON document into the given class. A
// document carrying an objectId updates that object; otherwise a new
// object is created. Returns the post-save record.
func (a *App) SaveDocument(ctx context.Context, class string, doc []byte) (model.Dynamic, error) {
	rec, err := model.FromJSON(class, doc)
	if err != nil {
		return model.Dynamic{}, err
	}
	return stash.Save(ctx, a.client, rec)
}

// SaveDocuments saves several JSON documents into the given class as
// one batch request. Results come back in input order.
func (a *App) SaveDocuments(ctx context.Context, class string, docs [][]byte) ([]model.Dynamic, error) {
	recs := make([]model.Dynamic, 0, len(docs))
	for i, doc := range docs {
		rec, err := model.FromJSON(class, doc)
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		recs = append(recs, rec)
	}
	return stash.SaveAll(ctx, a.client, recs)
}

// FetchObject retrieves an object by class and identifier.
func (a *App) FetchObject(ctx context.Context, class, objectID string) (model.Dynamic, error) {
	rec := model.NewDynamic(class).WithIdentity(objectID, time.Time{}, time.Time{})
	return stash.Fetch(ctx, a.client, rec)
}

// DeleteObject removes an object by class and identifier.
func (a *App) DeleteObject(ctx context.Context, class, objectID string) error {
	rec := model.NewDynamic(class).WithIdentity(objectID, time.Time{}, time.Time{})
	return a.client.Delete(ctx, rec)
}

// Close releases the app's resources.
func (a *App) Close() error {
	if a.logFile != nil {
		return a.logFile.Close()
	}
	return nil
}
