// Package export writes scraped pages to csv files.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"tmdb-scraper/internal/components/assert"
	"tmdb-scraper/internal/components/telemetry"
	"tmdb-scraper/internal/scrapers/tmdb"
)

const (
	report_dir_write_page     = "dir.write-page"
	report_dir_write_combined = "dir.write-combined"
)

// CombinedFileName is the file all successfully scraped pages end up in.
const CombinedFileName = "Combined_Data_ScrapedData.csv"

var header = []string{"Title", "Rating", "Genre", "Cast"}

var ErrBadHeader = errors.New("unexpected csv header")

func PageFileName(page int) string {
	return fmt.Sprintf("DataFrame_Page_%d_ScrapedData.csv", page)
}

// Combine concatenates the records of every page in the order given.
func Combine(pages []tmdb.PageResult) []tmdb.MovieRecord {
	records := []tmdb.MovieRecord{}
	for _, p := range pages {
		records = append(records, p.Records...)
	}
	return records
}

// WriteCSV creates or truncates the file at `path` and writes the records to it.
func WriteCSV(path string, records []tmdb.MovieRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	err = writeRecords(f, records)
	if err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	return f.Close()
}

func writeRecords(out io.Writer, records []tmdb.MovieRecord) error {
	w := csv.NewWriter(out)
	err := w.Write(header)
	if err != nil {
		return err
	}
	for _, r := range records {
		err = w.Write([]string{
			r.Title,
			r.Rating,
			FormatList(r.Genres),
			FormatList(r.Cast),
		})
		if err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// ReadCSV reads back a file written by WriteCSV.
func ReadCSV(path string) ([]tmdb.MovieRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = len(header)

	first, err := r.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("%w: %s is empty", ErrBadHeader, path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if strings.Join(first, ",") != strings.Join(header, ",") {
		return nil, fmt.Errorf("%w: %v", ErrBadHeader, first)
	}

	records := []tmdb.MovieRecord{}
	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}

		genres, err := ParseList(row[2])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: genres: %w", path, len(records)+2, err)
		}
		cast, err := ParseList(row[3])
		if err != nil {
			return nil, fmt.Errorf("%s line %d: cast: %w", path, len(records)+2, err)
		}
		records = append(records, tmdb.MovieRecord{
			Title:  row[0],
			Rating: row[1],
			Genres: genres,
			Cast:   cast,
		})
	}
	return records, nil
}

// Dir writes page files into a directory, it implements tmdb.Sink.
type Dir struct {
	path string
	tel  telemetry.API
}

// NewDir creates the directory if it does not exist yet.
func NewDir(path string, tel telemetry.API) (Dir, error) {
	assert.NotEmptyStr(path)
	assert.NotNil(tel)

	err := os.MkdirAll(path, 0755)
	if err != nil {
		return Dir{}, err
	}
	return Dir{
		path: path,
		tel:  telemetry.NewScopedAPI("export", tel),
	}, nil
}

func (d Dir) WritePage(page tmdb.PageResult) (string, error) {
	path := filepath.Join(d.path, PageFileName(page.Page))
	err := WriteCSV(path, page.Records)
	if err != nil {
		d.tel.ReportBroken(report_dir_write_page, err, page.Page)
		return "", err
	}
	d.tel.ReportDebug("wrote page", page.Page, path, len(page.Records))
	return path, nil
}

func (d Dir) WriteCombined(pages []tmdb.PageResult) (string, error) {
	path := filepath.Join(d.path, CombinedFileName)
	records := Combine(pages)
	err := WriteCSV(path, records)
	if err != nil {
		d.tel.ReportBroken(report_dir_write_combined, err)
		return "", err
	}
	d.tel.ReportDebug("wrote combined", path, len(records))
	return path, nil
}
