// internal/app/features/uploadcsv/csvutil/parser.go
package csvutil

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dalemusser/clubhub/internal/app/system/htmlsanitize"
	"github.com/dalemusser/clubhub/internal/domain/models"
	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Columns is the required header, in order. The trailing gender column may
// be omitted from both the header and the rows.
var Columns = []string{"name", "studentno", "department", "email", "year", "gender"}

const minFields = 5

// ParsedMember is one validated data row.
type ParsedMember struct {
	Line       int
	Name       string
	StudentNo  string
	Department string
	Email      string
	Year       string
	Gender     string // "" or a canonical models.Gender* value
}

// Member converts the row to a models.Member ready for insertion.
func (p ParsedMember) Member() models.Member {
	return models.Member{
		Name:       p.Name,
		StudentNo:  p.StudentNo,
		Department: p.Department,
		Email:      p.Email,
		Year:       p.Year,
		Gender:     p.Gender,
	}
}

// ParsedResult holds the rows that validated and every row error found.
// Callers must not persist Members when Errors is non-empty.
type ParsedResult struct {
	Members []ParsedMember
	Errors  []RowError
}

// HasErrors returns true if there are any validation errors.
func (r *ParsedResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// ParseOptions tunes ParseMembersCSV.
type ParseOptions struct {
	MaxRows int // 0 means unlimited
}

var (
	validate  = validator.New()
	titleCase = cases.Title(language.Und)
)

// ParseMembersCSV reads a member file:
//
//	name,studentNo,department,email,year[,gender]
//
// Fields follow RFC 4180 quoting, so a quoted comma stays inside its field.
// The header is required and checked. Every data row is validated and all
// problems are collected; the returned error is reserved for read failures
// and ErrTooManyRows.
func ParseMembersCSV(r io.Reader, opts ParseOptions) (ParsedResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // row width is validated per row
	reader.TrimLeadingSpace = true

	var result ParsedResult

	header, err := reader.Read()
	if err == io.EOF {
		result.Errors = append(result.Errors, RowError{Reason: "file is empty; a header row is required"})
		return result, nil
	}
	if err != nil {
		if rowErr, ok := asRowError(err); ok {
			result.Errors = append(result.Errors, rowErr)
			return result, nil
		}
		return result, err
	}
	if len(header) > 0 {
		header[0] = strings.TrimPrefix(header[0], "\ufeff")
	}
	if reason := checkHeader(header); reason != "" {
		result.Errors = append(result.Errors, RowError{Line: 1, Reason: reason, Raw: header})
		return result, nil
	}

	seen := make(map[string]int) // student number -> first line
	rows := 0
	// Every non-blank data row counts toward MaxRows, valid or not.
	countRow := func() error {
		rows++
		if opts.MaxRows > 0 && rows > opts.MaxRows {
			return ErrTooManyRows
		}
		return nil
	}
	for {
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			if rowErr, ok := asRowError(err); ok {
				if err := countRow(); err != nil {
					return ParsedResult{}, err
				}
				result.Errors = append(result.Errors, rowErr)
				continue
			}
			return ParsedResult{}, err
		}
		line, _ := reader.FieldPos(0)

		member, rowErr := parseRow(rec, line)
		if member == nil && rowErr == nil {
			continue // blank row
		}
		if err := countRow(); err != nil {
			return ParsedResult{}, err
		}
		if rowErr != nil {
			result.Errors = append(result.Errors, *rowErr)
			continue
		}

		key := strings.ToLower(member.StudentNo)
		if first, dup := seen[key]; dup {
			result.Errors = append(result.Errors, RowError{
				Line:   line,
				Reason: fmt.Sprintf("duplicate student number %q (first appears on line %d)", member.StudentNo, first),
				Raw:    rec,
			})
			continue
		}
		seen[key] = line

		result.Members = append(result.Members, *member)
	}

	return result, nil
}

// asRowError turns a csv syntax error (bare quote, unterminated field) into a
// RowError for its line. Other errors are I/O failures.
func asRowError(err error) (RowError, bool) {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return RowError{Line: pe.StartLine, Reason: pe.Err.Error()}, true
	}
	return RowError{}, false
}

func normalizeHeaderCell(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer("_", "", " ", "", "-", "").Replace(s)
}

// checkHeader returns "" when the header matches Columns, with or without the
// trailing gender column.
func checkHeader(rec []string) string {
	want := "name,studentNo,department,email,year,gender"
	if len(rec) != len(Columns) && len(rec) != len(Columns)-1 {
		return fmt.Sprintf("header must be %q (gender optional), got %d columns", want, len(rec))
	}
	for i, cell := range rec {
		if normalizeHeaderCell(cell) != Columns[i] {
			return fmt.Sprintf("header must be %q (gender optional); column %d is %q", want, i+1, strings.TrimSpace(cell))
		}
	}
	return ""
}

// NormalizeGender folds g to a canonical gender. The empty string is valid and
// means no gender given.
func NormalizeGender(g string) (string, bool) {
	g = strings.TrimSpace(g)
	if g == "" {
		return "", true
	}
	g = titleCase.String(g)
	return g, models.IsValidGender(g)
}

// parseRow validates one record. It returns nil, nil for a blank row.
func parseRow(rec []string, line int) (*ParsedMember, *RowError) {
	allEmpty := true
	for i := range rec {
		rec[i] = strings.TrimSpace(rec[i])
		if rec[i] != "" {
			allEmpty = false
		}
	}
	if allEmpty {
		return nil, nil
	}

	fail := func(reason string) (*ParsedMember, *RowError) {
		return nil, &RowError{Line: line, Reason: reason, Raw: rec}
	}

	if len(rec) < minFields || len(rec) > len(Columns) {
		return fail(fmt.Sprintf("expected %d or %d fields, got %d (quote fields that contain commas)", minFields, len(Columns), len(rec)))
	}

	// Free-text columns are reduced to plain text before the required check,
	// so a markup-only value counts as missing.
	m := &ParsedMember{
		Line:       line,
		Name:       htmlsanitize.PlainText(rec[0]),
		StudentNo:  htmlsanitize.PlainText(rec[1]),
		Department: htmlsanitize.PlainText(rec[2]),
		Email:      rec[3],
		Year:       htmlsanitize.PlainText(rec[4]),
	}

	var missing []string
	for i, v := range []string{m.Name, m.StudentNo, m.Department, m.Email, m.Year} {
		if v == "" {
			missing = append(missing, Columns[i])
		}
	}
	if len(missing) > 0 {
		return fail("missing " + strings.Join(missing, ", "))
	}

	if err := validate.Var(m.Email, "email"); err != nil {
		return fail(fmt.Sprintf("invalid email %q", m.Email))
	}

	if len(rec) == len(Columns) {
		g, ok := NormalizeGender(rec[5])
		if !ok {
			return fail(fmt.Sprintf("invalid gender %q (allowed: Male, Female, Others)", rec[5]))
		}
		m.Gender = g
	}

	return m, nil
}
