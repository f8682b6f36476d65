package ingest

import (
	"math"
	"strconv"
	"strings"
)

// parseNumeric parses s as a number, tolerating a trailing "%", non-breaking
// spaces and locale thousands separators. A zero DecimalSeparator detects
// the decimal mark per value.
func parseNumeric(s string, opt Options) (float64, bool) {
	raw := strings.TrimSpace(s)
	if strings.HasSuffix(raw, "%") {
		raw = strings.TrimSpace(strings.TrimSuffix(raw, "%"))
	}
	raw = strings.ReplaceAll(raw, "\u00A0", " ")
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0, false
	}
	dec, thou := opt.DecimalSeparator, opt.ThousandsSeparator
	if dec == 0 {
		dec, thou = detectSeparators(raw, thou)
	}
	if thou == 0 {
		for _, sep := range []rune{',', '.', ' '} {
			if sep != dec {
				raw = strings.ReplaceAll(raw, string(sep), "")
			}
		}
	} else if thou != dec {
		raw = strings.ReplaceAll(raw, string(thou), "")
	}
	if dec != '.' {
		raw = strings.ReplaceAll(raw, string(dec), ".")
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// detectSeparators picks the decimal mark of raw: the later of ',' and '.'
// when both occur, ',' when it is the only mark and appears once, '.'
// otherwise. Repeated commas ("1,234,567") are thousands groups.
func detectSeparators(raw string, thou rune) (rune, rune) {
	cpos := strings.LastIndex(raw, ",")
	dpos := strings.LastIndex(raw, ".")
	switch {
	case cpos >= 0 && dpos >= 0:
		if cpos > dpos {
			return ',', '.'
		}
		return '.', ','
	case cpos >= 0 && strings.Count(raw, ",") == 1:
		return ',', thou
	case cpos >= 0:
		return '.', ','
	}
	return '.', thou
}
