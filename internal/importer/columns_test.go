package importer

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/parabens-app/parabens-server/internal/domain"
)

func TestMapHeaderSynonyms(t *testing.T) {
	tests := []struct {
		name   string
		header []string
	}{
		{"english", []string{"Name", "Email", "Birthdate", "Role", "Tag"}},
		{"portuguese", []string{"Nome", "E-mail", "Data de Nascimento", "Cargo", "Grupo"}},
		{"mixed case and spacing", []string{" nome ", "MAIL", "DOB", "title", "tags"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cols, err := MapHeader(tt.header)
			require.NoError(t, err)
			for i, field := range []string{"name", "email", "birthdate", "role", "tag"} {
				assert.Equal(t, i, cols[field], "field %s", field)
			}
		})
	}
}

func TestMapHeaderMissingRequiredColumn(t *testing.T) {
	_, err := MapHeader([]string{"Nome", "Cargo"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email")
}

func TestParseDateStrategies(t *testing.T) {
	want := time.Date(1990, 3, 15, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		in   string
	}{
		{"DD/MM/YYYY", "15/03/1990"},
		{"YYYY-MM-DD", "1990-03-15"},
		{"DD-MM-YYYY", "15-03-1990"},
		{"YYYY/MM/DD", "1990/03/15"},
		{"excel serial", "32947"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseDate(tt.in)
			require.NoError(t, err)
			assert.Equal(t, want.Format("2006-01-02"), got.Format("2006-01-02"))
		})
	}
}

func TestParseDateRejectsGarbage(t *testing.T) {
	for _, in := range []string{"", "not a date", "99/99/9999"} {
		_, err := ParseDate(in)
		assert.Error(t, err, "input %q", in)
	}
}

func TestParseRows(t *testing.T) {
	header := []string{"Nome", "Email", "Nascimento", "Cargo", "Tag"}
	rows := [][]string{
		{"Ana", "ana@acme.com", "15/03/1990", "Gerente", "vendas"},
		{"", "", "", "", ""}, // blank line, skipped
		{"Bob", "bob@acme.com", "1988-12-01"},
	}

	out, err := ParseRows(header, rows)
	require.NoError(t, err)
	require.Len(t, out, 2)

	assert.Equal(t, "Ana", out[0].Name)
	assert.Equal(t, "vendas", out[0].TagName)
	assert.Equal(t, "Gerente", out[0].Role)
	assert.Equal(t, "1990-03-15", out[0].Birthdate.Format("2006-01-02"))

	assert.Equal(t, "Bob", out[1].Name)
	assert.Empty(t, out[1].TagName)
}

func TestParseRowsReportsSpreadsheetRowNumbers(t *testing.T) {
	header := []string{"Nome", "Email", "Nascimento"}
	rows := [][]string{
		{"Ana", "ana@acme.com", "15/03/1990"},
		{"Bad", "bad@acme.com", "yesterday"},
	}

	_, err := ParseRows(header, rows)
	require.Error(t, err)
	// Header is row 1, so the bad data row is row 3.
	assert.Contains(t, err.Error(), "row 3")
}

func TestRosterRoundTrip(t *testing.T) {
	people := []*domain.Person{
		{
			ID:        "per-1",
			Name:      "Ana",
			Email:     "ana@acme.com",
			Birthdate: time.Date(1990, 3, 15, 0, 0, 0, 0, time.UTC),
			Role:      "Gerente",
			Tags:      []*domain.Tag{{ID: "tag-1", Name: "vendas"}},
		},
		{
			ID:        "per-2",
			Name:      "Bob",
			Email:     "bob@acme.com",
			Birthdate: time.Date(1988, 12, 1, 0, 0, 0, 0, time.UTC),
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteRoster(&buf, people))

	rows, err := ReadRoster(&buf)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Ana", rows[0].Name)
	assert.Equal(t, "1990-03-15", rows[0].Birthdate.Format("2006-01-02"))
	assert.Equal(t, "Gerente", rows[0].Role)
}
