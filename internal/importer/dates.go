package importer

import (
	"fmt"
	"strings"
	"time"
)

// defaultDateFormats are tried in order when the caller configures none.
// Day-first layouts are deliberately absent from the defaults: "02/01/2006"
// is ambiguous against US statements and must be opted into via config.
var defaultDateFormats = []string{
	"2006-01-02",
	"01/02/2006",
	"1/2/2006",
	"2006/01/02",
	"Jan 2, 2006",
	"2 Jan 2006",
	"01-02-2006",
}

// ParseDate parses a statement date with a tolerant multi-format parser.
// formats may be empty, in which case the defaults apply.
func ParseDate(raw string, formats []string) (time.Time, error) {
	if len(formats) == 0 {
		formats = defaultDateFormats
	}
	trimmed := strings.TrimSpace(raw)
	for _, layout := range formats {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", raw)
}
