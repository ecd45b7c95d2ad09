package project

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"floor-sketch/internal/element"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	f := New("apartment")
	f.Elements = []element.Element{
		element.NewLine(0, 0, 100, 0, f.PixelsPerUnit),
		element.NewDoor(50, 0, 40, 0, f.PixelsPerUnit, &element.Attachment{LineID: "w1"}),
	}
	f.View = f.View.Pan(30, -10)

	path := filepath.Join(t.TempDir(), "apartment.json")
	if err := f.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}

	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.ID != f.ID || got.Name != "apartment" {
		t.Errorf("identity = %s/%s", got.ID, got.Name)
	}
	if got.View != f.View {
		t.Errorf("view = %+v, want %+v", got.View, f.View)
	}
	if len(got.Elements) != 2 {
		t.Fatalf("got %d elements", len(got.Elements))
	}
	// Derived fields survive the round trip untouched.
	if got.Elements[0].Line.LengthCm != f.Elements[0].Line.LengthCm {
		t.Errorf("lengthCm = %v", got.Elements[0].Line.LengthCm)
	}
	if att := got.Elements[1].Door.Attachment; att == nil || att.LineID != "w1" {
		t.Errorf("attachment = %+v", att)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.json")); err == nil {
		t.Fatal("expected an error")
	}
}

func TestLoadRepairsInvalidSettings(t *testing.T) {
	f := New("broken")
	f.PixelsPerUnit = 0
	f.LabelFontSize = -3
	f.View.Scale = 0

	path := filepath.Join(t.TempDir(), "broken.json")
	if err := f.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got.PixelsPerUnit != DefaultPixelsPerUnit || got.LabelFontSize != DefaultLabelFontSize {
		t.Errorf("settings = %v/%v", got.PixelsPerUnit, got.LabelFontSize)
	}
	if got.View.Scale != 1 {
		t.Errorf("view scale = %v, want default", got.View.Scale)
	}
}

func TestStoreCRUD(t *testing.T) {
	ctx := context.Background()
	store, err := OpenStore(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	a := New("first")
	b := New("second")
	b.Modified = b.Modified.Add(1) // strictly newer than a

	if err := store.Add(ctx, a, "/plans/a.json"); err != nil {
		t.Fatalf("add: %v", err)
	}
	if err := store.Add(ctx, b, "/plans/b.json"); err != nil {
		t.Fatalf("add: %v", err)
	}

	entries, err := store.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(entries) != 2 || entries[0].ID != b.ID {
		t.Fatalf("list = %+v, want newest first", entries)
	}

	if err := store.Rename(ctx, a.ID, "renamed"); err != nil {
		t.Fatalf("rename: %v", err)
	}
	got, err := store.Get(ctx, a.ID)
	if err != nil || got.Name != "renamed" {
		t.Errorf("get after rename = %+v, %v", got, err)
	}

	// Renaming also bumps modified, so a now lists first.
	entries, _ = store.List(ctx)
	if entries[0].ID != a.ID {
		t.Errorf("list head = %s, want the renamed plan", entries[0].ID)
	}

	if err := store.Delete(ctx, b.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := store.Get(ctx, b.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("get deleted = %v, want ErrNotFound", err)
	}
	if err := store.Touch(ctx, b.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("touch deleted = %v, want ErrNotFound", err)
	}
}

func TestStoreAddUpserts(t *testing.T) {
	ctx := context.Background()
	store, err := OpenStore(filepath.Join(t.TempDir(), "index.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	f := New("plan")
	if err := store.Add(ctx, f, "/old.json"); err != nil {
		t.Fatalf("add: %v", err)
	}
	f.Name = "plan v2"
	if err := store.Add(ctx, f, "/new.json"); err != nil {
		t.Fatalf("re-add: %v", err)
	}

	got, err := store.Get(ctx, f.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Name != "plan v2" || got.Path != "/new.json" {
		t.Errorf("entry = %+v", got)
	}
}
