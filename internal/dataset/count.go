package dataset

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// groupSeparators are stripped from numbers before parsing.
var groupSeparators = strings.NewReplacer(
	" ", "",
	"\u00a0", "",
	"\u202f", "",
	"\t", "",
)

// ParseCount parses a population cell. Blank cells yield NaN. Spaces are
// digit-group separators and a comma is a decimal separator.
func ParseCount(cell string) (float64, error) {
	s := strings.TrimSpace(cell)
	if s == "" {
		return math.NaN(), nil
	}

	s = groupSeparators.Replace(s)
	s = strings.Replace(s, ",", ".", 1)

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(v, 0) || math.IsNaN(v) {
		return 0, fmt.Errorf("%w: %q", ErrBadValue, cell)
	}
	return v, nil
}
