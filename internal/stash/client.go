package stash

import (
	"context"
	"encoding/json"
	"fmt"

	"stash-go/internal/object"
	"stash-go/internal/rest"
)

// Executor runs one command against the store and returns the raw
// response body. Implementations own all transport concerns:
// concurrency, timeouts, cancellation, and any retry policy. The core
// never retries and places no ordering constraint on the executor.
type Executor interface {
	Do(ctx context.Context, cmd rest.Command) ([]byte, error)
}

// Client coordinates command building, execution and reconciliation.
// It holds no per-record state; record values flow through unchanged
// except for the server-assigned identity fields.
type Client struct {
	exec   Executor
	logger Logger
}

// NewClient creates a Client using the given executor.
func NewClient(exec Executor, logger Logger) *Client {
	return &Client{exec: exec, logger: logger}
}

// Save persists rec and returns the post-save record value with the
// server-assigned identity merged in. rec is not modified; an unsaved
// record creates, a saved one updates in place.
func Save[T object.Record[T]](ctx context.Context, c *Client, rec T) (T, error) {
	var zero T

	cmd, err := rest.BuildSave(rec)
	if err != nil {
		return zero, fmt.Errorf("building save: %w", err)
	}

	raw, err := c.exec.Do(ctx, cmd)
	if err != nil {
		return zero, fmt.Errorf("executing %s %s: %w", cmd.Method, cmd.Path, err)
	}

	out, err := rest.Reconcile(raw, rec)
	if err != nil {
		return zero, fmt.Errorf("reconciling %s save: %w", rec.ClassName(), err)
	}

	c.logger.Debug("object saved", "class", out.ClassName(), "objectId", out.ID())
	return out, nil
}

// Fetch retrieves the current server state of rec. The input record
// supplies the class name and identifier; the response body is decoded
// into a copy of the input, so fields absent from the body keep their
// local values.
func Fetch[T object.Record[T]](ctx context.Context, c *Client, rec T) (T, error) {
	var zero T

	cmd, err := rest.BuildFetch(rec)
	if err != nil {
		return zero, fmt.Errorf("building fetch: %w", err)
	}

	raw, err := c.exec.Do(ctx, cmd)
	if err != nil {
		return zero, fmt.Errorf("executing %s %s: %w", cmd.Method, cmd.Path, err)
	}

	out := rec
	if err := json.Unmarshal(raw, &out); err != nil {
		return zero, fmt.Errorf("decoding %s fetch response: %w", rec.ClassName(), err)
	}
	return out, nil
}

// SaveAll persists recs in one batch request. Results are reconciled
// positionally: response entry i belongs to recs[i]. An empty input
// issues no request.
func SaveAll[T object.Record[T]](ctx context.Context, c *Client, recs []T) ([]T, error) {
	if len(recs) == 0 {
		return nil, nil
	}

	batch, err := rest.BuildSaveAll(recs)
	if err != nil {
		return nil, fmt.Errorf("building batch: %w", err)
	}
	cmd, err := batch.Command()
	if err != nil {
		return nil, fmt.Errorf("packaging batch: %w", err)
	}

	raw, err := c.exec.Do(ctx, cmd)
	if err != nil {
		return nil, fmt.Errorf("executing %s %s: %w", cmd.Method, cmd.Path, err)
	}

	out, err := rest.ReconcileAll(raw, recs)
	if err != nil {
		return nil, fmt.Errorf("reconciling batch: %w", err)
	}

	c.logger.Debug("batch saved", "count", len(out))
	return out, nil
}

// Delete removes o from the store. The record value itself is left
// alone; the caller decides what to do with a deleted record's
// identity.
func (c *Client) Delete(ctx context.Context, o object.Object) error {
	cmd, err := rest.BuildDelete(o)
	if err != nil {
		return fmt.Errorf("building delete: %w", err)
	}

	if _, err := c.exec.Do(ctx, cmd); err != nil {
		return fmt.Errorf("executing %s %s: %w", cmd.Method, cmd.Path, err)
	}

	c.logger.Debug("object deleted", "class", o.ClassName(), "objectId", o.ID())
	return nil
}
