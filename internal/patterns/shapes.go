package patterns

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"
)

var (
	emailShape   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	nameShape    = regexp.MustCompile(`^[a-zA-Zа-яА-Я\s\-']+$`)
	companyShape = regexp.MustCompile(`^[a-zA-Zа-яА-Я0-9\s\-\.\&\,\(\)]+$`)
	uuidShape    = regexp.MustCompile(`(?i)^[0-9a-f]{8}-[0-9a-f]{4}-[1-5][0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)
)

// dateLayouts are tried in order by ParseDate
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05Z",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
	"2006/01/02",
	"02.01.2006 15:04:05",
	"02.01.2006 15:04",
	"02.01.2006",
	"01/02/2006 15:04:05",
	"01/02/2006",
	time.RFC1123Z,
	time.RFC1123,
	time.RFC850,
	time.ANSIC,
	"Jan 2, 2006",
	"January 2, 2006",
	"2 Jan 2006",
	"2 January 2006",
}

// Digits strips every non-digit rune
func Digits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func IsEmail(s string) bool {
	return emailShape.MatchString(strings.TrimSpace(s))
}

// IsPhone reports whether s carries 10 to 15 digits once formatting is stripped
func IsPhone(s string) bool {
	n := len(Digits(s))
	return n >= 10 && n <= 15
}

// IsPersonName accepts letters, spaces, hyphens and apostrophes, 2 to 50 characters
func IsPersonName(s string) bool {
	n := utf8.RuneCountInString(s)
	if n < 2 || n > 50 {
		return false
	}
	return nameShape.MatchString(s) && !IsEmail(s) && !IsPhone(s)
}

func IsCompanyName(s string) bool {
	if utf8.RuneCountInString(s) < 2 {
		return false
	}
	if IsEmail(s) || IsPhone(s) {
		return false
	}
	return companyShape.MatchString(s)
}

// IsAbsoluteURL requires a scheme and a host
func IsAbsoluteURL(s string) bool {
	s = strings.TrimSpace(s)
	if s == "" || strings.ContainsAny(s, " \t\n") {
		return false
	}
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	return u.Scheme != "" && u.Host != ""
}

func IsUUID(s string) bool {
	return uuidShape.MatchString(strings.TrimSpace(s))
}

// ParseDate tries the known layouts in order
func ParseDate(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// IsDate reports whether v is a time value or a parseable date string
func IsDate(v interface{}) bool {
	switch val := v.(type) {
	case time.Time:
		return !val.IsZero()
	case *time.Time:
		return val != nil && !val.IsZero()
	case string:
		_, ok := ParseDate(val)
		return ok
	}
	return false
}

// IsNumeric reports whether v is a number or a string holding one
func IsNumeric(v interface{}) bool {
	switch val := v.(type) {
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return true
	case string:
		s := strings.TrimSpace(val)
		if s == "" {
			return false
		}
		_, err := strconv.ParseFloat(s, 64)
		return err == nil
	}
	return false
}

// HasUpper reports whether s contains any upper case letter
func HasUpper(s string) bool {
	for _, r := range s {
		if unicode.IsUpper(r) {
			return true
		}
	}
	return false
}

// IsBlank reports whether a raw cell carries no data
func IsBlank(v interface{}) bool {
	if v == nil {
		return true
	}
	if s, ok := v.(string); ok {
		return s == ""
	}
	return false
}
