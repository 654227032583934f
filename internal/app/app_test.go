package app_test

import (
	"context"
	"net/http/httptest"
	"testing"

	"stash-go/internal/app"
	"stash-go/internal/config"
	"stash-go/internal/testutil"
)

func setup(t *testing.T) *app.App {
	t.Helper()
	fake := testutil.NewFakeServer()
	srv := httptest.NewServer(fake.Handler())
	t.Cleanup(srv.Close)

	cfg := config.NewConfig(srv.URL, "test-app", t.TempDir())
	a, err := app.NewApp(cfg, "Test")
	if err != nil {
		t.Fatalf("NewApp() error = %v", err)
	}
	t.Cleanup(func() { a.Close() })
	return a
}

func TestApp_SaveAndFetch(t *testing.T) {
	a := setup(t)

	saved, err := a.SaveDocument(context.Background(), "Game", []byte(`{"name":"chess","players":2}`))
	if err != nil {
		t.Fatalf("SaveDocument() error = %v", err)
	}
	if saved.ID() == "" {
		t.Fatal("saved document has no identifier")
	}

	got, err := a.FetchObject(context.Background(), "Game", saved.ID())
	if err != nil {
		t.Fatalf("FetchObject() error = %v", err)
	}
	if v, _ := got.Get("name"); v != "chess" {
		t.Errorf("Get(name) = %v, want chess", v)
	}
}

func TestApp_SaveDocument_update(t *testing.T) {
	a := setup(t)

	saved, err := a.SaveDocument(context.Background(), "Game", []byte(`{"name":"chess"}`))
	if err != nil {
		t.Fatalf("SaveDocument() error = %v", err)
	}

	// A document carrying the objectId updates the existing object.
	doc := `{"objectId":"` + saved.ID() + `","name":"go"}`
	updated, err := a.SaveDocument(context.Background(), "Game", []byte(doc))
	if err != nil {
		t.Fatalf("update SaveDocument() error = %v", err)
	}
	if updated.ID() != saved.ID() {
		t.Errorf("update changed identifier: %q -> %q", saved.ID(), updated.ID())
	}

	got, err := a.FetchObject(context.Background(), "Game", saved.ID())
	if err != nil {
		t.Fatalf("FetchObject() error = %v", err)
	}
	if v, _ := got.Get("name"); v != "go" {
		t.Errorf("Get(name) = %v, want go", v)
	}
}

func TestApp_SaveDocuments(t *testing.T) {
	a := setup(t)

	docs := [][]byte{
		[]byte(`{"name":"chess"}`),
		[]byte(`{"name":"go"}`),
	}
	recs, err := a.SaveDocuments(context.Background(), "Game", docs)
	if err != nil {
		t.Fatalf("SaveDocuments() error = %v", err)
	}
	if len(recs) != 2 {
		t.Fatalf("got %d records, want 2", len(recs))
	}
	for i, rec := range recs {
		if rec.ID() == "" {
			t.Errorf("record %d has no identifier", i)
		}
	}
	if v, _ := recs[1].Get("name"); v != "go" {
		t.Errorf("order not preserved: recs[1] name = %v", v)
	}
}

func TestApp_DeleteObject(t *testing.T) {
	a := setup(t)

	saved, err := a.SaveDocument(context.Background(), "Game", []byte(`{"name":"chess"}`))
	if err != nil {
		t.Fatalf("SaveDocument() error = %v", err)
	}

	if err := a.DeleteObject(context.Background(), "Game", saved.ID()); err != nil {
		t.Fatalf("DeleteObject() error = %v", err)
	}

	if _, err := a.FetchObject(context.Background(), "Game", saved.ID()); err == nil {
		t.Fatal("expected error fetching a deleted object")
	}
}

func TestApp_SaveDocument_badJSON(t *testing.T) {
	a := setup(t)

	if _, err := a.SaveDocument(context.Background(), "Game", []byte(`{"name":`)); err == nil {
		t.Fatal("expected error for malformed document")
	}
}
