package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"nathanbeddoewebdev/demodash/internal/logger"
)

// Delimiter separates fields in the source files.
const Delimiter = ';'

// NameAliases are long-form headers renamed to NameColumn on load.
var NameAliases = []string{
	"Наименование муниципального образования",
}

// Attempt records one try of the encoding chain.
type Attempt struct {
	Encoding string
	Err      error
}

// DecodeError is returned when every candidate encoding failed.
type DecodeError struct {
	Path     string
	Attempts []Attempt
}

func (e *DecodeError) Error() string {
	parts := make([]string, len(e.Attempts))
	for i, a := range e.Attempts {
		parts[i] = fmt.Sprintf("%s: %v", a.Encoding, a.Err)
	}
	return fmt.Sprintf("%s: %v (tried %s)", e.Path, ErrDecode, strings.Join(parts, "; "))
}

func (e *DecodeError) Unwrap() error { return ErrDecode }

// Loader reads and normalizes population files.
type Loader struct {
	// Detector guesses the encoding from the first SampleSize bytes.
	Detector Detector

	// Fallbacks are tried in order after the detector's guess.
	Fallbacks []string

	// Years are the columns every file must carry.
	Years []int

	Logger logger.Logger
}

// NewLoader returns a Loader with the chardet detector, the standard
// fallback chain and the 2019–2024 year columns.
func NewLoader(log logger.Logger) *Loader {
	if log == nil {
		log = logger.Nop{}
	}
	return &Loader{
		Detector:  ChardetDetector(),
		Fallbacks: []string{FallbackUnicode, FallbackLegacy},
		Years:     DefaultYears(),
		Logger:    log,
	}
}

// Load reads path and returns the normalized DataSet.
func (ld *Loader) Load(path string) (*DataSet, error) {
	t, err := ld.ReadTable(path)
	if err != nil {
		return nil, err
	}

	d, err := ld.FromTable(path, t)
	if err != nil {
		return nil, err
	}

	ld.log().Info("dataset loaded",
		"path", path,
		"detected", t.Detected,
		"encoding", t.Encoding,
		"rows", len(d.Rows),
	)
	return d, nil
}

// ReadTable reads path, decodes it through the encoding chain and
// normalizes its headers. Year columns are not validated yet.
func (ld *Loader) ReadTable(path string) (*Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrUnreadable, path, err)
	}
	return ld.parse(path, raw)
}

// FromTable validates t and builds the DataSet for path.
func (ld *Loader) FromTable(path string, t *Table) (*DataSet, error) {
	return t.dataSet(path, ld.years())
}

// Table is a decoded and header-normalized file, before year parsing.
type Table struct {
	Detected string     `json:"detected"`
	Encoding string     `json:"encoding"`
	Columns  []string   `json:"columns"`
	Records  [][]string `json:"records"`
}

func (t *Table) dataSet(path string, years []int) (*DataSet, error) {
	d, err := build(path, t.Columns, t.Records, years)
	if err != nil {
		return nil, err
	}
	d.Detected = t.Detected
	d.Encoding = t.Encoding
	return d, nil
}

// parse runs the encoding chain over raw and normalizes the winning table.
func (ld *Loader) parse(path string, raw []byte) (*Table, error) {
	sample := raw
	if len(sample) > SampleSize {
		sample = sample[:SampleSize]
	}

	var guess string
	if ld.Detector != nil {
		g, err := ld.Detector.Detect(sample)
		if err != nil {
			ld.log().Warn("encoding detection failed", "path", path, "error", err)
		}
		guess = g
	}

	derr := &DecodeError{Path: path}
	for _, label := range candidates(guess, ld.Fallbacks) {
		columns, records, err := decodeTable(raw, label)
		if err != nil {
			ld.log().Debug("encoding rejected", "path", path, "encoding", label, "error", err)
			derr.Attempts = append(derr.Attempts, Attempt{Encoding: label, Err: err})
			continue
		}

		columns, records = normalize(columns, records)
		return &Table{
			Detected: guess,
			Encoding: canonicalLabel(label),
			Columns:  columns,
			Records:  records,
		}, nil
	}

	if len(derr.Attempts) == 0 {
		derr.Attempts = append(derr.Attempts, Attempt{Encoding: "(none)", Err: errors.New("no candidate encodings")})
	}
	return nil, derr
}

// decodeTable decodes raw with label and splits it into header and records.
func decodeTable(raw []byte, label string) ([]string, [][]string, error) {
	text, err := decode(raw, label)
	if err != nil {
		return nil, nil, err
	}

	r := csv.NewReader(strings.NewReader(text))
	r.Comma = Delimiter
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err == io.EOF {
		return nil, nil, errors.New("file is empty")
	}
	if err != nil {
		return nil, nil, fmt.Errorf("parse header: %w", err)
	}

	var records [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("parse: %w", err)
		}
		if blank(rec) {
			continue
		}
		records = append(records, rec)
	}
	return header, records, nil
}

// normalize trims headers, renames the long-form municipality header to
// NameColumn and trims every Name value.
func normalize(columns []string, records [][]string) ([]string, [][]string) {
	out := make([]string, len(columns))
	for i, c := range columns {
		c = strings.TrimPrefix(c, "\ufeff")
		out[i] = strings.TrimSpace(c)
	}

	for i, c := range out {
		for _, alias := range NameAliases {
			if c == alias {
				out[i] = NameColumn
			}
		}
	}

	nameCol := indexOf(out, NameColumn)
	if nameCol >= 0 {
		for _, rec := range records {
			if nameCol < len(rec) {
				rec[nameCol] = strings.TrimSpace(rec[nameCol])
			}
		}
	}
	return out, records
}

func blank(rec []string) bool {
	for _, c := range rec {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func (ld *Loader) years() []int {
	if len(ld.Years) == 0 {
		return DefaultYears()
	}
	return ld.Years
}

func (ld *Loader) log() logger.Logger {
	if ld.Logger == nil {
		return logger.Nop{}
	}
	return ld.Logger
}
