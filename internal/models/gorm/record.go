package gorm

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"infinite-experiment/contactimport/internal/models/dtos"
	"infinite-experiment/contactimport/internal/patterns"
)

// IDColumn is the destination column holding a record's UUID
const IDColumn = "идентификатор"

const dateLayout = "2006-01-02"

// textColumns binds destination column names to optional string fields
type textColumns map[string]**string

func (cols textColumns) fill(row dtos.Row, extra JSONB) {
	for key, val := range row {
		p, ok := cols[key]
		if !ok {
			extra[key] = val
			continue
		}
		if s := toText(val); s != "" {
			*p = &s
		}
	}
}

func (cols textColumns) dump(row dtos.Row) {
	for key, p := range cols {
		if *p != nil {
			row[key] = **p
		}
	}
}

func toText(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(val)
	case time.Time:
		return val.UTC().Format(time.RFC3339)
	default:
		return fmt.Sprint(val)
	}
}

// takeID pulls a usable UUID out of the row, or mints one
func takeID(row dtos.Row) string {
	if s, ok := row[IDColumn].(string); ok && patterns.IsUUID(s) {
		return strings.ToLower(strings.TrimSpace(s))
	}
	return uuid.NewString()
}

// takeTime removes a date column from extra when it parses
func takeTime(extra JSONB, key string) *time.Time {
	val, ok := extra[key]
	if !ok {
		return nil
	}
	var t time.Time
	switch v := val.(type) {
	case time.Time:
		t = v
	case string:
		parsed, ok := patterns.ParseDate(v)
		if !ok {
			return nil
		}
		t = parsed
	default:
		return nil
	}
	delete(extra, key)
	t = t.UTC()
	return &t
}

func mergeExtra(row dtos.Row, extra JSONB) {
	for k, v := range extra {
		if _, taken := row[k]; !taken {
			row[k] = v
		}
	}
}
