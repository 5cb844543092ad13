package tui

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"nathanbeddoewebdev/demodash/internal/category"
	"nathanbeddoewebdev/demodash/internal/report"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/huh/spinner"
)

// ErrAborted is returned when a user cancels an interactive flow.
var ErrAborted = errors.New("aborted by user")

// WizardResult is what the report wizard collected.
type WizardResult struct {
	Selection report.Selection

	// Export is set when the user asked to export the selected categories.
	Export bool
}

// Accessible reports whether forms should run in accessible mode.
func Accessible() bool {
	return os.Getenv("ACCESSIBLE") != ""
}

// ReportForm asks for a location, categories and a year, prefilled with
// prefill, and whether to export the result.
func ReportForm(cat *category.Catalog, prefill report.Selection) (*WizardResult, error) {
	accessible := Accessible()
	sel := prefill
	sel.Labels = append([]string(nil), prefill.Labels...)

	locations := cat.Locations()
	if len(locations) == 0 {
		return nil, fmt.Errorf("no locations available")
	}
	locationOpts := make([]huh.Option[string], len(locations))
	for i, l := range locations {
		locationOpts[i] = huh.NewOption(l, l)
	}

	categoryOpts := make([]huh.Option[string], 0, cat.Len())
	for _, e := range cat.Entries() {
		categoryOpts = append(categoryOpts, huh.NewOption(e.Label, e.Label).Selected(sel.Has(e.Label)))
	}

	years := cat.Reference().Data.Years
	yearOpts := make([]huh.Option[int], len(years))
	for i, y := range years {
		yearOpts[i] = huh.NewOption(fmt.Sprintf("%d", y), y)
	}

	locationField := huh.NewSelect[string]().
		Title("Населённый пункт").
		Options(locationOpts...).
		Value(&sel.Location).
		Filtering(true).
		Height(selectHeight(len(locationOpts), 12))

	categoryField := huh.NewMultiSelect[string]().
		Title("Категории").
		Options(categoryOpts...).
		Value(&sel.Labels).
		Height(cat.Len() + 2)

	yearField := huh.NewSelect[int]().
		Title("Год для Топ-5").
		Options(yearOpts...).
		Value(&sel.Year)

	if err := runForm(accessible,
		huh.NewGroup(locationField),
		huh.NewGroup(categoryField, yearField),
	); err != nil {
		return nil, err
	}

	// MultiSelect returns values in pick order; the report wants catalog order.
	picked := sel.Labels
	sel.Labels = nil
	for _, l := range cat.Labels() {
		for _, p := range picked {
			if p == l {
				sel.Labels = append(sel.Labels, l)
			}
		}
	}

	var doExport bool
	if len(sel.Labels) > 0 {
		confirm := huh.NewConfirm().
			Title("Экспортировать выбранные категории?").
			Description(strings.Join(sel.Labels, ", ")).
			Affirmative("Да").
			Negative("Нет").
			Value(&doExport)
		if err := runForm(accessible, huh.NewGroup(confirm)); err != nil {
			return nil, err
		}
	}

	return &WizardResult{Selection: sel, Export: doExport}, nil
}

// runForm creates and runs a huh.Form, translating ErrUserAborted to ErrAborted.
func runForm(accessible bool, groups ...*huh.Group) error {
	err := huh.NewForm(groups...).WithAccessible(accessible).Run()
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return ErrAborted
		}
		return err
	}
	return nil
}

// RunWithSpinner runs action behind a spinner on stderr.
func RunWithSpinner(title string, action func(ctx context.Context) error) error {
	err := spinner.New().
		Title(title).
		Accessible(Accessible()).
		Output(os.Stderr).
		ActionWithErr(action).
		Run()
	if errors.Is(err, huh.ErrUserAborted) || errors.Is(err, context.Canceled) {
		return ErrAborted
	}
	return err
}

func selectHeight(optionCount, max int) int {
	if optionCount < max {
		return optionCount
	}
	return max
}
