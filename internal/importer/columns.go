// Package importer maps spreadsheet rosters onto people. Column headers are
// matched against a declared synonym table and dates are parsed with a fixed
// strategy order, so the accepted input formats are explicit rather than
// guessed per file.
package importer

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/parabens-app/parabens-server/internal/errors"
)

// Row is one roster entry extracted from a spreadsheet.
type Row struct {
	Name      string
	Email     string
	Birthdate time.Time
	Role      string
	TagName   string
}

// Column synonyms, matched case-insensitively after trimming.
var columnSynonyms = map[string]string{
	"name":      "name",
	"nome":      "name",
	"full name": "name",

	"email":  "email",
	"e-mail": "email",
	"mail":   "email",

	"birthdate":          "birthdate",
	"birthday":           "birthdate",
	"data de nascimento": "birthdate",
	"nascimento":         "birthdate",
	"date of birth":      "birthdate",
	"dob":                "birthdate",

	"role":  "role",
	"cargo": "role",
	"title": "role",

	"tag":   "tag",
	"tags":  "tag",
	"grupo": "tag",
	"group": "tag",
}

// dateLayouts are tried in order; the first successful parse wins.
var dateLayouts = []string{
	"02/01/2006", // DD/MM/YYYY
	"2006-01-02", // YYYY-MM-DD
	"02-01-2006", // DD-MM-YYYY
	"2006/01/02", // YYYY/MM/DD
}

// excelEpoch is day zero of Excel's 1900 date system.
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// columnMap maps canonical field names to their column index.
type columnMap map[string]int

// MapHeader resolves a header row to field positions.
// Name, email and birthdate columns are required; role and tag are optional.
func MapHeader(header []string) (columnMap, error) {
	cols := columnMap{}
	for i, cell := range header {
		key := strings.ToLower(strings.TrimSpace(cell))
		if field, ok := columnSynonyms[key]; ok {
			if _, taken := cols[field]; !taken {
				cols[field] = i
			}
		}
	}

	for _, required := range []string{"name", "email", "birthdate"} {
		if _, ok := cols[required]; !ok {
			return nil, errors.Validation("missing required column: " + required)
		}
	}
	return cols, nil
}

// ParseDate parses a birthdate cell. Each layout is tried in order; a bare
// number is treated as an Excel serial date.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, errors.Validation("empty date")
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}

	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 {
		return excelEpoch.AddDate(0, 0, int(serial)), nil
	}

	return time.Time{}, errors.Validation("unrecognized date format: " + s)
}

// ParseRows converts data rows into roster entries using the header mapping.
// Row numbers in errors are 1-based and include the header row, matching what
// a user sees in their spreadsheet program.
func ParseRows(header []string, rows [][]string) ([]*Row, error) {
	cols, err := MapHeader(header)
	if err != nil {
		return nil, err
	}

	cell := func(row []string, field string) string {
		i, ok := cols[field]
		if !ok || i >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[i])
	}

	var out []*Row
	for n, row := range rows {
		rowNum := n + 2

		name := cell(row, "name")
		email := cell(row, "email")
		rawDate := cell(row, "birthdate")
		if name == "" && email == "" && rawDate == "" {
			continue // blank line
		}
		if name == "" || email == "" {
			return nil, errors.Validation(fmt.Sprintf("row %d: name and email are required", rowNum))
		}

		birthdate, err := ParseDate(rawDate)
		if err != nil {
			return nil, errors.Validation(fmt.Sprintf("row %d: %v", rowNum, err))
		}

		out = append(out, &Row{
			Name:      name,
			Email:     email,
			Birthdate: birthdate,
			Role:      cell(row, "role"),
			TagName:   cell(row, "tag"),
		})
	}

	if len(out) == 0 {
		return nil, errors.Validation("spreadsheet has no data rows")
	}
	return out, nil
}
