package metadata

import (
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/xuri/excelize/v2"

	"heater-inference/models"
)

const (
	tagNameHeader     = "Tagname"
	descriptionHeader = "opis"
	unitHeader        = "Jednostka"
)

// ReadDescriptions reads the tag description spreadsheet and returns a map from lower case tag name to
// "<description> <unit>".
func ReadDescriptions(fileName string) (map[string]string, error) {
	f, err := excelize.OpenFile(fileName)
	if err != nil {
		log.Error(err)
		return nil, models.MissingFile(fileName, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		log.Error(err)
		return nil, models.ParseFailure(fileName, err)
	}
	return DescriptionsFromRows(fileName, rows)
}

// DescriptionsFromRows builds the description map from spreadsheet rows, the first row being the header
func DescriptionsFromRows(source string, rows [][]string) (map[string]string, error) {
	if len(rows) == 0 {
		return nil, models.SchemaMismatch(source, "spreadsheet is empty")
	}
	header := map[string]int{}
	for i, name := range rows[0] {
		header[strings.TrimSpace(name)] = i
	}
	for _, required := range []string{tagNameHeader, descriptionHeader, unitHeader} {
		if _, ok := header[required]; !ok {
			return nil, models.SchemaMismatch(source, "column %q not found", required)
		}
	}

	descriptions := make(map[string]string, len(rows)-1)
	for _, row := range rows[1:] {
		tag := cell(row, header[tagNameHeader])
		if tag == "" {
			continue
		}
		description := fmt.Sprintf("%s %s", cell(row, header[descriptionHeader]), cell(row, header[unitHeader]))
		descriptions[strings.ToLower(tag)] = description
	}
	return descriptions, nil
}

// RenameColumns returns the column names with every name found in descriptions replaced by its description.
// Lookups are case insensitive.
func RenameColumns(columns []string, descriptions map[string]string) []string {
	renamed := make([]string, len(columns))
	for i, column := range columns {
		if description, ok := descriptions[strings.ToLower(column)]; ok {
			renamed[i] = description
		} else {
			renamed[i] = column
		}
	}
	return renamed
}

// cell tolerates short rows, GetRows drops trailing empty cells
func cell(row []string, i int) string {
	if i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}
