package importer

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/parabens-app/parabens-server/internal/domain"
	"github.com/parabens-app/parabens-server/internal/errors"
)

// ReadRoster parses an xlsx upload into roster entries. The first sheet is
// used; its first row must be a header the synonym table can resolve.
func ReadRoster(r io.Reader) ([]*Row, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, errors.Validation("could not read spreadsheet").WithCause(err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.Validation("spreadsheet has no sheets")
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheets[0], err)
	}
	if len(rows) < 2 {
		return nil, errors.Validation("spreadsheet has no data rows")
	}

	return ParseRows(rows[0], rows[1:])
}

// WriteRoster writes a company roster as an xlsx workbook.
// Columns mirror the import format so an export can be re-imported.
func WriteRoster(w io.Writer, people []*domain.Person) error {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "People"
	f.SetSheetName("Sheet1", sheet)

	headers := []string{"ID", "Nome", "Email", "Data de Nascimento", "Cargo", "Tags"}
	for i, h := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}

	for rowIdx, p := range people {
		var tagNames string
		for i, t := range p.Tags {
			if i > 0 {
				tagNames += ", "
			}
			tagNames += t.Name
		}

		values := []any{
			p.ID,
			p.Name,
			p.Email,
			p.Birthdate.UTC().Format("2006-01-02"),
			p.Role,
			tagNames,
		}
		for colIdx, v := range values {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return err
			}
		}
	}

	_, err := f.WriteTo(w)
	return err
}
