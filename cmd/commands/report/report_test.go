package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"nathanbeddoewebdev/demodash/internal/category"
	"nathanbeddoewebdev/demodash/internal/config"
	"nathanbeddoewebdev/demodash/internal/database"
	"nathanbeddoewebdev/demodash/internal/dataset"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
)

const header = "Наименование муниципального образования ;2019;2020;2021;2022;2023;2024\n"

// setupData writes the five category files and isolates config, cache and
// database paths. RPop.csv does not list "Ливны".
func setupData(t *testing.T) string {
	t.Helper()
	config.SetPath(filepath.Join(t.TempDir(), "config.json"))
	t.Cleanup(config.ResetPath)
	database.SetPath(filepath.Join(t.TempDir(), "demodash.db"))
	t.Cleanup(database.ResetPath)
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	dir := t.TempDir()
	for _, c := range category.Defaults() {
		body := header +
			" г. Орёл ;300;310;320;330;340;350\n" +
			"Мценск;120;118;;115;114;113\n" +
			"Ливны;150;151;152;153;154;155\n"
		if c.ID == "rpop" {
			body = header + "г. Орёл;3000;3100;3200;3300;3400;3500\nМценск;1200;1180;1170;1150;1140;1130\n"
		}
		if err := os.WriteFile(filepath.Join(dir, c.File), []byte(body), 0o644); err != nil {
			t.Fatalf("write %s: %v", c.File, err)
		}
	}
	return dir
}

// execCmd runs sub under a root carrying the persistent --data-dir flag.
func execCmd(t *testing.T, sub *cobra.Command, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	root := &cobra.Command{Use: "demodash", SilenceUsage: true, SilenceErrors: true}
	root.PersistentFlags().String("data-dir", "", "")
	root.AddCommand(sub)

	var outBuf, errBuf bytes.Buffer
	root.SetOut(&outBuf)
	root.SetErr(&errBuf)
	root.SetArgs(args)
	err = root.Execute()
	return outBuf.String(), errBuf.String(), err
}

func TestReport_Defaults(t *testing.T) {
	dir := setupData(t)

	stdout, _, err := execCmd(t, NewCommand(), "report", "--data-dir", dir, "--width", "90")
	if err != nil {
		t.Fatalf("report failed: %v", err)
	}
	for _, want := range []string{
		"Демография Орловской области: г. Орёл",
		"Динамика численности",
		"Топ-5 по категории (2019 год)",
		"Дети 1-6 лет",
		"Дети 3-18 лет",
		"Дети_1-6_лет.csv",
	} {
		if !strings.Contains(stdout, want) {
			t.Errorf("report missing %q", want)
		}
	}
	if strings.Contains(stdout, "Дети 5-18 лет") {
		t.Error("only the first two categories should be selected by default")
	}
}

func TestReport_Flags(t *testing.T) {
	dir := setupData(t)

	stdout, _, err := execCmd(t, NewCommand(), "report", "--data-dir", dir,
		"--location", "Ливны", "--category", "rpop", "--category", "ch_5_18", "--year", "2023")
	if err != nil {
		t.Fatalf("report failed: %v", err)
	}
	for _, want := range []string{"Ливны", "(2023 год)", "Нет данных для: Среднегодовая численность"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("report missing %q", want)
		}
	}
}

func TestReport_LocationTypedLoosely(t *testing.T) {
	dir := setupData(t)

	stdout, _, err := execCmd(t, NewCommand(), "report", "--data-dir", dir, "--location", "г.  орел")
	if err != nil {
		t.Fatalf("report failed: %v", err)
	}
	if !strings.Contains(stdout, "Демография Орловской области: г. Орёл") {
		t.Errorf("expected the location resolved to г. Орёл:\n%s", stdout)
	}
}

func TestReport_UnknownLocation(t *testing.T) {
	dir := setupData(t)

	_, _, err := execCmd(t, NewCommand(), "report", "--data-dir", dir, "--location", "Атлантида")
	if !errors.Is(err, dataset.ErrUnknownLocation) {
		t.Errorf("expected ErrUnknownLocation, got %v", err)
	}
}

func TestReport_MissingFile(t *testing.T) {
	dir := setupData(t)
	if err := os.Remove(filepath.Join(dir, "Ch-5-18.csv")); err != nil {
		t.Fatal(err)
	}

	_, _, err := execCmd(t, NewCommand(), "report", "--data-dir", dir)
	if err == nil {
		t.Fatal("expected startup failure")
	}
	if !errors.Is(err, dataset.ErrUnreadable) {
		t.Errorf("expected ErrUnreadable, got %v", err)
	}
	if !strings.Contains(err.Error(), "file.ch_5_18") {
		t.Errorf("expected hint naming the config key, got %v", err)
	}
}

func TestTop_Table(t *testing.T) {
	dir := setupData(t)

	stdout, _, err := execCmd(t, TopCommand(), "top", "--data-dir", dir, "--category", "ch_1_6", "-n", "2")
	if err != nil {
		t.Fatalf("top failed: %v", err)
	}
	orel := strings.Index(stdout, "г. Орёл")
	livny := strings.Index(stdout, "Ливны")
	if orel < 0 || livny < 0 || orel > livny {
		t.Errorf("expected г. Орёл before Ливны:\n%s", stdout)
	}
	if strings.Contains(stdout, "Мценск") {
		t.Errorf("-n 2 should drop the third row:\n%s", stdout)
	}
}

func TestTop_JSON(t *testing.T) {
	dir := setupData(t)

	stdout, _, err := execCmd(t, TopCommand(), "top", "--data-dir", dir,
		"--category", "Дети 1-6 лет", "--year", "2021", "-o", "json")
	if err != nil {
		t.Fatalf("top failed: %v", err)
	}

	var got struct {
		Category string           `json:"category"`
		Year     int              `json:"year"`
		Rows     []dataset.Ranked `json:"rows"`
	}
	if err := json.Unmarshal([]byte(stdout), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, stdout)
	}
	want := []dataset.Ranked{{Name: "г. Орёл", Value: 320}, {Name: "Ливны", Value: 152}}
	if diff := cmp.Diff(want, got.Rows); diff != "" {
		t.Errorf("rows mismatch (-want +got):\n%s", diff)
	}
	if got.Year != 2021 || got.Category != "Дети 1-6 лет" {
		t.Errorf("unexpected header: %+v", got)
	}
}

func TestTop_RequiresCategory(t *testing.T) {
	dir := setupData(t)
	if _, _, err := execCmd(t, TopCommand(), "top", "--data-dir", dir); err == nil {
		t.Error("expected error without --category")
	}
}

func TestTrend_JSON(t *testing.T) {
	dir := setupData(t)

	stdout, _, err := execCmd(t, TrendCommand(), "trend", "--data-dir", dir,
		"--location", "Мценск", "--category", "ch_1_6", "-o", "json")
	if err != nil {
		t.Fatalf("trend failed: %v", err)
	}

	var got []trendJSON
	if err := json.Unmarshal([]byte(stdout), &got); err != nil {
		t.Fatalf("invalid JSON: %v\n%s", err, stdout)
	}
	if len(got) != 1 || len(got[0].Values) != 6 {
		t.Fatalf("unexpected shape: %+v", got)
	}
	if got[0].Values[2].Value != nil {
		t.Errorf("blank 2021 cell should be null, got %v", *got[0].Values[2].Value)
	}
	if v := got[0].Values[0].Value; v == nil || *v != 120 {
		t.Errorf("2019 value = %v, want 120", v)
	}
}

func TestTrend_MissingCategoryAndPNG(t *testing.T) {
	dir := setupData(t)
	png := filepath.Join(t.TempDir(), "charts", "livny.png")

	stdout, stderr, err := execCmd(t, TrendCommand(), "trend", "--data-dir", dir,
		"--location", "Ливны", "--png", png)
	if err != nil {
		t.Fatalf("trend failed: %v", err)
	}
	if !strings.Contains(stdout, "YEAR") || !strings.Contains(stdout, "2024") {
		t.Errorf("expected a year table:\n%s", stdout)
	}
	if !strings.Contains(stderr, "Среднегодовая численность") {
		t.Errorf("expected warning for the category without Ливны, got %q", stderr)
	}
	if _, err := os.Stat(png); err != nil {
		t.Errorf("expected PNG at %s: %v", png, err)
	}
}
