package rest

import (
	"encoding/json"
	"fmt"
	"net/http"

	"stash-go/internal/object"
	"stash-go/internal/wire"
)

// BatchPath is the endpoint executing a batch of commands as one call.
const BatchPath = "/batch"

// Batch is an ordered sequence of commands executed as one remote
// request. Entries share no state; each is built independently from
// its source record.
type Batch struct {
	Commands []Command
}

// BuildSaveAll builds one save command per record, in input order.
// A failure on any record aborts the whole batch.
func BuildSaveAll[T object.Record[T]](recs []T) (Batch, error) {
	cmds := make([]Command, 0, len(recs))
	for i, r := range recs {
		cmd, err := BuildSave(r)
		if err != nil {
			return Batch{}, fmt.Errorf("building save for record %d: %w", i, err)
		}
		cmds = append(cmds, cmd)
	}
	return Batch{Commands: cmds}, nil
}

type batchRequest struct {
	Requests []batchEntry `json:"requests"`
}

type batchEntry struct {
	Method string          `json:"method"`
	Path   string          `json:"path"`
	Body   json.RawMessage `json:"body,omitempty"`
}

// Command packages the batch as a single POST /batch command.
func (b Batch) Command() (Command, error) {
	entries := make([]batchEntry, len(b.Commands))
	for i, c := range b.Commands {
		entries[i] = batchEntry{Method: c.Method, Path: c.Path, Body: c.Body}
	}
	body, err := json.Marshal(batchRequest{Requests: entries})
	if err != nil {
		return Command{}, &wire.Error{
			Code:    wire.CodeInvalidJSON,
			Message: fmt.Sprintf("encoding batch body: %v", err),
		}
	}
	return Command{Method: http.MethodPost, Path: BatchPath, Body: body}, nil
}

// batchResult is one entry of a batch response: a success ack or an
// error document, never both.
type batchResult struct {
	Success json.RawMessage `json:"success"`
	Error   *wire.Error     `json:"error"`
}

// ReconcileAll decodes a batch response and applies entry i to
// recs[i]. Correspondence is positional; the response must have
// exactly one entry per record, and a length mismatch is a protocol
// error, never a silent truncation.
func ReconcileAll[T object.Record[T]](raw []byte, recs []T) ([]T, error) {
	var results []batchResult
	if err := json.Unmarshal(raw, &results); err != nil {
		return nil, fmt.Errorf("decoding batch response: %w", err)
	}
	if len(results) != len(recs) {
		return nil, fmt.Errorf("%w: %d entries for %d records", ErrBatchMismatch, len(results), len(recs))
	}

	out := make([]T, len(recs))
	for i, res := range results {
		if res.Error != nil {
			return nil, fmt.Errorf("batch entry %d: %w", i, res.Error)
		}
		if res.Success == nil {
			return nil, fmt.Errorf("batch entry %d has neither success nor error", i)
		}
		rec, err := Reconcile(res.Success, recs[i])
		if err != nil {
			return nil, fmt.Errorf("batch entry %d: %w", i, err)
		}
		out[i] = rec
	}
	return out, nil
}
