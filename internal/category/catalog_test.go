package category

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"nathanbeddoewebdev/demodash/internal/dataset"

	"github.com/google/go-cmp/cmp"
)

const header = "Наименование муниципального образования;2019;2020;2021;2022;2023;2024\n"

func utf8Loader() *dataset.Loader {
	return &dataset.Loader{
		Detector:  dataset.DetectorFunc(func([]byte) (string, error) { return "utf-8", nil }),
		Fallbacks: []string{dataset.FallbackUnicode, dataset.FallbackLegacy},
	}
}

func writeAll(t *testing.T, dir string, cats []Category) {
	t.Helper()
	for _, c := range cats {
		body := header + "Орёл;1;2;3;4;5;6\nЛивны;6;5;4;3;2;1\n"
		if err := os.WriteFile(filepath.Join(dir, c.File), []byte(body), 0o644); err != nil {
			t.Fatalf("failed to write %s: %v", c.File, err)
		}
	}
}

func TestDefaults(t *testing.T) {
	cats := Defaults()
	if len(cats) != 5 {
		t.Fatalf("expected 5 categories, got %d", len(cats))
	}

	wantLabels := []string{
		"Дети 1-6 лет",
		"Дети 3-18 лет",
		"Дети 5-18 лет",
		"Население 3-79 лет",
		"Среднегодовая численность",
	}
	var got []string
	for _, c := range cats {
		got = append(got, c.Label)
	}
	if diff := cmp.Diff(wantLabels, got); diff != "" {
		t.Errorf("labels mismatch (-want +got):\n%s", diff)
	}

	// Callers must not be able to mutate the registry.
	cats[0].File = "changed.csv"
	if Defaults()[0].File != "Ch_1_6.csv" {
		t.Error("Defaults returned shared storage")
	}
}

func TestWithFiles(t *testing.T) {
	cats := WithFiles(Defaults(), map[string]string{"ch_5_18": "Ch_5_18.csv", "rpop": "  "})
	if cats[2].File != "Ch_5_18.csv" {
		t.Errorf("expected override, got %q", cats[2].File)
	}
	if cats[4].File != "RPop.csv" {
		t.Errorf("blank override must be ignored, got %q", cats[4].File)
	}
}

func TestFind(t *testing.T) {
	cats := Defaults()
	for _, key := range []string{"rpop", "RPOP", "Среднегодовая численность", " rpop "} {
		c, ok := Find(cats, key)
		if !ok || c.ID != "rpop" {
			t.Errorf("Find(%q) = %v, %v", key, c, ok)
		}
	}
	if _, ok := Find(cats, "adults"); ok {
		t.Error("expected no match for unknown key")
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	cats := Defaults()
	writeAll(t, dir, cats)

	cat, err := Load(context.Background(), dataset.NewStore(utf8Loader(), nil), dir, cats)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cat.Len() != 5 {
		t.Fatalf("expected 5 entries, got %d", cat.Len())
	}
	if cat.Reference().ID != "ch_1_6" {
		t.Errorf("expected first category as reference, got %q", cat.Reference().ID)
	}
	if diff := cmp.Diff([]string{"Орёл", "Ливны"}, cat.Locations()); diff != "" {
		t.Errorf("locations mismatch (-want +got):\n%s", diff)
	}

	e, err := cat.Find("pop_3_79")
	if err != nil {
		t.Fatalf("Find failed: %v", err)
	}
	if e.Path != filepath.Join(dir, "Pop_3_79.csv") {
		t.Errorf("unexpected path %q", e.Path)
	}
	if cat.Index("Дети 5-18 лет") != 2 {
		t.Errorf("expected index 2, got %d", cat.Index("Дети 5-18 лет"))
	}
}

func TestLoad_MissingFileNamesCategory(t *testing.T) {
	dir := t.TempDir()
	cats := Defaults()
	writeAll(t, dir, cats[:4])

	_, err := Load(context.Background(), dataset.NewStore(utf8Loader(), nil), dir, cats)
	if err == nil {
		t.Fatal("expected error for missing file")
	}

	var lerr *LoadError
	if !errors.As(err, &lerr) {
		t.Fatalf("expected *LoadError, got %T: %v", err, err)
	}
	if lerr.Category.ID != "rpop" {
		t.Errorf("expected rpop to fail, got %q", lerr.Category.ID)
	}
	if !errors.Is(err, dataset.ErrUnreadable) {
		t.Errorf("expected ErrUnreadable in chain, got %v", err)
	}
}

func TestCatalog_FindUnknown(t *testing.T) {
	dir := t.TempDir()
	cats := Defaults()[:1]
	writeAll(t, dir, cats)

	cat, err := Load(context.Background(), dataset.NewStore(utf8Loader(), nil), dir, cats)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if _, err := cat.Find("rpop"); !errors.Is(err, ErrUnknownCategory) {
		t.Errorf("expected ErrUnknownCategory, got %v", err)
	}
}

func TestLoad_NoCategories(t *testing.T) {
	if _, err := Load(context.Background(), dataset.NewStore(utf8Loader(), nil), t.TempDir(), nil); err == nil {
		t.Fatal("expected error for empty category list")
	}
}
