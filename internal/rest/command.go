package rest

import (
	"encoding/json"
	"fmt"
	"net/http"

	"stash-go/internal/object"
	"stash-go/internal/wire"
)

// Command describes one remote call: method, path, and an optional
// JSON body. It carries no transport state and does not change once
// built; execution belongs to the Executor collaborator.
type Command struct {
	Method string
	Path   string
	Body   json.RawMessage
}

// BuildSave describes the save operation for o. A saved record updates
// in place at its remote path; an unsaved one creates into the class
// collection. The full current record state is serialized, including
// an already-present identifier and timestamps on update; the server
// ignores or validates those. o is never mutated.
func BuildSave(o object.Object) (Command, error) {
	body, err := json.Marshal(o)
	if err != nil {
		return Command{}, &wire.Error{
			Code:    wire.CodeInvalidJSON,
			Message: fmt.Sprintf("encoding %s body: %v", o.ClassName(), err),
		}
	}
	if object.Saved(o) {
		return Command{Method: http.MethodPut, Path: object.RemotePath(o), Body: body}, nil
	}
	return Command{Method: http.MethodPost, Path: object.ClassPath(o), Body: body}, nil
}

// BuildFetch describes fetching o's current server state. The record
// must already carry an identifier; there is no path for an unsaved
// record.
func BuildFetch(o object.Object) (Command, error) {
	if !object.Saved(o) {
		return Command{}, fmt.Errorf("fetching %s: %w", o.ClassName(), ErrNotAddressable)
	}
	return Command{Method: http.MethodGet, Path: object.RemotePath(o)}, nil
}

// BuildDelete describes removing o from the store. Same addressing
// rule as BuildFetch.
func BuildDelete(o object.Object) (Command, error) {
	if !object.Saved(o) {
		return Command{}, fmt.Errorf("deleting %s: %w", o.ClassName(), ErrNotAddressable)
	}
	return Command{Method: http.MethodDelete, Path: object.RemotePath(o)}, nil
}
