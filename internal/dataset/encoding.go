package dataset

import (
	"bytes"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding/htmlindex"
)

// SampleSize is how many leading bytes the detector inspects.
const SampleSize = 10_000

// Fallback encodings tried, in order, after the detector's guess.
const (
	FallbackUnicode = "utf-8"
	FallbackLegacy  = "windows-1251"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

var errUndecodable = errors.New("bytes not valid in this encoding")

// Detector guesses the character encoding of a byte sample.
type Detector interface {
	Detect(sample []byte) (string, error)
}

// DetectorFunc adapts a function to the Detector interface.
type DetectorFunc func(sample []byte) (string, error)

// Detect calls f(sample).
func (f DetectorFunc) Detect(sample []byte) (string, error) { return f(sample) }

// ChardetDetector returns a statistical detector backed by chardet.
func ChardetDetector() Detector {
	return DetectorFunc(func(sample []byte) (string, error) {
		res, err := chardet.NewTextDetector().DetectBest(sample)
		if err != nil {
			return "", err
		}
		if res == nil {
			return "", nil
		}
		return strings.ToLower(res.Charset), nil
	})
}

// candidates returns guess followed by the fallbacks, without duplicates.
func candidates(guess string, fallbacks []string) []string {
	out := make([]string, 0, len(fallbacks)+1)
	seen := make(map[string]bool, len(fallbacks)+1)
	for _, label := range append([]string{guess}, fallbacks...) {
		key := canonicalLabel(label)
		if key == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, label)
	}
	return out
}

// canonicalLabel maps aliases such as "cp1251" and "windows-1251" to one name.
func canonicalLabel(label string) string {
	label = strings.ToLower(strings.TrimSpace(label))
	if label == "" {
		return ""
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return label
	}
	name, err := htmlindex.Name(enc)
	if err != nil {
		return label
	}
	return name
}

// decode converts raw to UTF-8 text using the named encoding. Unlike the
// x/text decoders, which substitute U+FFFD, it fails on any byte sequence
// the encoding cannot represent.
func decode(raw []byte, label string) (string, error) {
	enc, err := htmlindex.Get(strings.ToLower(strings.TrimSpace(label)))
	if err != nil {
		return "", fmt.Errorf("unsupported encoding %q: %w", label, err)
	}

	if name, _ := htmlindex.Name(enc); name == "utf-8" {
		raw = bytes.TrimPrefix(raw, utf8BOM)
		if !utf8.Valid(raw) {
			return "", errUndecodable
		}
		return string(raw), nil
	}

	out, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", err
	}
	if bytes.ContainsRune(out, utf8.RuneError) {
		return "", errUndecodable
	}
	return string(out), nil
}
