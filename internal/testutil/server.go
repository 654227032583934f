// Package testutil provides an in-memory fake Stash backend for
// integration tests. It implements the store's REST surface for
// classes and batches and is safe for concurrent use.
package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"stash-go/internal/wire"
)

type storedObject struct {
	fields    map[string]json.RawMessage
	createdAt time.Time
	updatedAt time.Time
}

// FakeServer holds objects per class in memory and assigns uuid
// object IDs on create. Timestamps are truncated to milliseconds to
// match the wire date precision.
type FakeServer struct {
	mu      sync.RWMutex
	classes map[string]map[string]*storedObject
}

func NewFakeServer() *FakeServer {
	return &FakeServer{classes: make(map[string]map[string]*storedObject)}
}

// Handler returns the router serving the fake store's REST surface.
func (s *FakeServer) Handler() http.Handler {
	r := chi.NewRouter()
	r.Post("/classes/{class}", s.handleCreate)
	r.Get("/classes/{class}/{id}", s.handleGet)
	r.Put("/classes/{class}/{id}", s.handleUpdate)
	r.Delete("/classes/{class}/{id}", s.handleDelete)
	r.Post("/batch", s.handleBatch)
	return r
}

// Count returns the number of stored objects in the given class.
func (s *FakeServer) Count(class string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.classes[class])
}

func now() time.Time {
	return time.Now().UTC().Truncate(time.Millisecond)
}

// identity fields are server-owned; incoming bodies may carry them on
// updates and they are discarded.
func stripIdentity(fields map[string]json.RawMessage) {
	delete(fields, "objectId")
	delete(fields, "createdAt")
	delete(fields, "updatedAt")
}

func (s *FakeServer) create(class string, body []byte) (map[string]any, *wire.Error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, &wire.Error{Code: wire.CodeInvalidJSON, Message: "invalid JSON body"}
	}
	stripIdentity(fields)

	s.mu.Lock()
	defer s.mu.Unlock()

	objects, ok := s.classes[class]
	if !ok {
		objects = make(map[string]*storedObject)
		s.classes[class] = objects
	}

	id := uuid.New().String()
	ts := now()
	objects[id] = &storedObject{fields: fields, createdAt: ts, updatedAt: ts}

	created := wire.NewDate(ts)
	return map[string]any{"objectId": id, "createdAt": created}, nil
}

func (s *FakeServer) update(class, id string, body []byte) (map[string]any, *wire.Error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil {
		return nil, &wire.Error{Code: wire.CodeInvalidJSON, Message: "invalid JSON body"}
	}
	stripIdentity(fields)

	s.mu.Lock()
	defer s.mu.Unlock()

	obj, ok := s.classes[class][id]
	if !ok {
		return nil, &wire.Error{Code: wire.CodeObjectNotFound, Message: "object not found"}
	}

	obj.fields = fields
	obj.updatedAt = now()
	updated := wire.NewDate(obj.updatedAt)
	return map[string]any{"updatedAt": updated}, nil
}

func (s *FakeServer) handleCreate(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, &wire.Error{Code: wire.CodeInvalidJSON, Message: "unreadable body"})
		return
	}
	ack, werr := s.create(chi.URLParam(r, "class"), body)
	if werr != nil {
		writeError(w, http.StatusBadRequest, werr)
		return
	}
	writeJSON(w, http.StatusCreated, ack)
}

func (s *FakeServer) handleUpdate(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, &wire.Error{Code: wire.CodeInvalidJSON, Message: "unreadable body"})
		return
	}
	ack, werr := s.update(chi.URLParam(r, "class"), chi.URLParam(r, "id"), body)
	if werr != nil {
		writeError(w, statusFor(werr), werr)
		return
	}
	writeJSON(w, http.StatusOK, ack)
}

func (s *FakeServer) handleGet(w http.ResponseWriter, r *http.Request) {
	class, id := chi.URLParam(r, "class"), chi.URLParam(r, "id")

	s.mu.RLock()
	obj, ok := s.classes[class][id]
	var doc map[string]any
	if ok {
		doc = make(map[string]any, len(obj.fields)+3)
		for k, v := range obj.fields {
			doc[k] = v
		}
		doc["objectId"] = id
		doc["createdAt"] = wire.NewDate(obj.createdAt)
		doc["updatedAt"] = wire.NewDate(obj.updatedAt)
	}
	s.mu.RUnlock()

	if !ok {
		writeError(w, http.StatusNotFound, &wire.Error{Code: wire.CodeObjectNotFound, Message: "object not found"})
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *FakeServer) handleDelete(w http.ResponseWriter, r *http.Request) {
	class, id := chi.URLParam(r, "class"), chi.URLParam(r, "id")

	s.mu.Lock()
	_, ok := s.classes[class][id]
	if ok {
		delete(s.classes[class], id)
	}
	s.mu.Unlock()

	if !ok {
		writeError(w, http.StatusNotFound, &wire.Error{Code: wire.CodeObjectNotFound, Message: "object not found"})
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{})
}

type batchEntry struct {
	Method string          `json:"method"`
	Path   string          `json:"path"`
	Body   json.RawMessage `json:"body"`
}

type batchRequest struct {
	Requests []batchEntry `json:"requests"`
}

func (s *FakeServer) handleBatch(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, &wire.Error{Code: wire.CodeInvalidJSON, Message: "unreadable body"})
		return
	}
	var req batchRequest
	if err := json.Unmarshal(body, &req); err != nil {
		writeError(w, http.StatusBadRequest, &wire.Error{Code: wire.CodeInvalidJSON, Message: "invalid batch body"})
		return
	}

	results := make([]map[string]any, 0, len(req.Requests))
	for _, entry := range req.Requests {
		ack, werr := s.dispatch(entry)
		if werr != nil {
			results = append(results, map[string]any{"error": werr})
			continue
		}
		results = append(results, map[string]any{"success": ack})
	}
	writeJSON(w, http.StatusOK, results)
}

// dispatch routes one batch entry to the create/update handlers by
// parsing its path the way the real store does.
func (s *FakeServer) dispatch(entry batchEntry) (map[string]any, *wire.Error) {
	parts := strings.Split(strings.TrimPrefix(entry.Path, "/"), "/")
	switch {
	case entry.Method == http.MethodPost && len(parts) == 2 && parts[0] == "classes":
		return s.create(parts[1], entry.Body)
	case entry.Method == http.MethodPut && len(parts) == 3 && parts[0] == "classes":
		return s.update(parts[1], parts[2], entry.Body)
	default:
		return nil, &wire.Error{Code: wire.CodeOtherCause, Message: fmt.Sprintf("unsupported batch entry %s %s", entry.Method, entry.Path)}
	}
}

func readBody(r *http.Request) ([]byte, error) {
	defer r.Body.Close()
	return io.ReadAll(r.Body)
}

func statusFor(e *wire.Error) int {
	if e.Code == wire.CodeObjectNotFound {
		return http.StatusNotFound
	}
	return http.StatusBadRequest
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, e *wire.Error) {
	writeJSON(w, status, e)
}
