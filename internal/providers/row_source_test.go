package providers

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"infinite-experiment/contactimport/internal/models/dtos"
)

func TestNewCSVSource(t *testing.T) {
	data := "\ufeffИмя, Email ,,Имя\n" +
		"Иван,ivan@example.com,x,Петров\n" +
		",,,\n" +
		"Анна,  ,y\n"

	src, err := NewCSVSource(strings.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, []string{"Имя", "Email", "column_3", "Имя_2"}, src.Headers())

	n, err := src.Count(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	rows := src.Rows()
	assert.Equal(t, dtos.Row{"Имя": "Иван", "Email": "ivan@example.com", "column_3": "x", "Имя_2": "Петров"}, rows[0])
	assert.Equal(t, dtos.Row{"Имя": "Анна", "Email": nil, "column_3": "y", "Имя_2": nil}, rows[1])
}

func TestNewCSVSource_Semicolon(t *testing.T) {
	src, err := NewCSVSource(strings.NewReader("a;b\n1;\"x, y\"\n"))
	require.NoError(t, err)

	assert.Equal(t, []string{"a", "b"}, src.Headers())
	assert.Equal(t, "x, y", src.Rows()[0]["b"])
}

func TestNewCSVSource_Empty(t *testing.T) {
	_, err := NewCSVSource(strings.NewReader(""))
	assert.ErrorIs(t, err, ErrEmptyFile)
}

func TestUniqueHeaders(t *testing.T) {
	assert.Equal(t,
		[]string{"name", "name_2", "name_3", "column_4"},
		UniqueHeaders([]string{"name", " name", "name ", ""}),
	)
	assert.Equal(t,
		[]string{"name_2", "name", "name_3"},
		UniqueHeaders([]string{"name_2", "name", "name"}),
	)
}

func TestSliceSource_Fetch(t *testing.T) {
	src := SliceSource{{"a": 1}, {"a": 2}, {"a": 3}}
	ctx := context.Background()

	tests := []struct {
		name          string
		offset, limit int
		want          int
	}{
		{"first page", 0, 2, 2},
		{"tail", 2, 2, 1},
		{"past end", 3, 2, 0},
		{"negative", -1, 2, 0},
		{"zero limit", 0, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := src.Fetch(ctx, tt.offset, tt.limit)
			require.NoError(t, err)
			assert.Len(t, rows, tt.want)
		})
	}

	n, _ := src.Count(ctx)
	assert.Equal(t, 3, n)
}
