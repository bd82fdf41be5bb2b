//nolint:testpackage // wires the crawler with in-package fakes
package registry

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/opendatamd/regcrawl/internal/ckan"
	"github.com/opendatamd/regcrawl/internal/entity"
	"github.com/opendatamd/regcrawl/internal/logger"
	"github.com/opendatamd/regcrawl/internal/testhelpers"
)

const (
	companiesCatalog  = "https://date.example.md/dataset/companies"
	companiesResource = "https://date.example.md/resource/companies"
	nonprofitsPage    = "https://dataset.example.md/dataset/nonprofits"
)

// crawlFetcher fakes both HTML pages and file downloads.
type crawlFetcher struct {
	pages map[string]string
	files map[string]string
}

func (f *crawlFetcher) FetchHTML(_ context.Context, rawURL string, _ int) (*goquery.Document, error) {
	page, ok := f.pages[rawURL]
	if !ok {
		return nil, fmt.Errorf("no page for %s", rawURL)
	}
	return goquery.NewDocumentFromReader(strings.NewReader(page))
}

func (f *crawlFetcher) FetchResource(_ context.Context, name, rawURL string) (string, error) {
	path, ok := f.files[rawURL]
	if !ok {
		return "", fmt.Errorf("no file for %s (%s)", rawURL, name)
	}
	return path, nil
}

// writeWorkbook builds an xlsx file on disk with one sheet.
func writeWorkbook(t *testing.T, path, sheetName string, rows [][]any) string {
	t.Helper()

	f := excelize.NewFile()
	require.NoError(t, f.SetSheetName("Sheet1", sheetName))
	for rowIdx, row := range rows {
		for colIdx, value := range row {
			cell, err := excelize.CoordinatesToCellName(colIdx+1, rowIdx+1)
			require.NoError(t, err)
			require.NoError(t, f.SetCellValue(sheetName, cell, value))
		}
	}
	require.NoError(t, f.SaveAs(path))
	return path
}

func TestCrawlerRun(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	companiesPath := writeWorkbook(t, filepath.Join(dir, "companies.xlsx"), companiesSheet, [][]any{
		{"IDNO/ Cod fiscal", "Denumirea completă", "Adresa", "Data înregistrării",
			"Data lichidării", "Forma org./jurid.", "Lista conducătorilor",
			"Lista fondatorilor", "Lista beneficiarilor efectivi"},
		{"1003600000000", "SRL Alfa", "Chișinău", "1998-07-15", "",
			"SRL", "Ana Popescu [Director],Ion Rusu", "SRL Beta (50%),Ion Rusu (50%)", "John Smith (US)"},
	})
	nonprofitsPath := writeWorkbook(t, filepath.Join(dir, "nonprofits.xlsx"), nonprofitsSheetName, [][]any{
		{"Registrul organizațiilor necomerciale"},
		{"Extras din registrul de stat"},
		{"Generat la cerere"},
		{"Data generării: 01.01.2025"},
		{"IDNO/ Cod fiscal", "Denumirea", "Conducător", "Forma juridică de organizare",
			"Adresa", "Codul unității administrativ-teritoriale", "Data înregistrării", "Data lichidării"},
		{"1012620000001", "AO Speranța", "Maria Lungu", "Asociație obștească",
			"str. Ștefan cel Mare 1", "0110", "15.07.1998", ""},
	})

	// The nonprofits listing link carries today's date so the recency
	// guard passes.
	nonprofitsDataURL := fmt.Sprintf(
		"https://dataset.example.md/resources/list.%s.xlsx",
		time.Now().Format("2006.01.02"),
	)
	fetcher := &crawlFetcher{
		pages: map[string]string{
			companiesCatalog: fmt.Sprintf(
				`<html><body><li class="resource-item"><a href=%q>r</a></li></body></html>`,
				companiesResource,
			),
			companiesResource: `<html><body><div class="actions"><a href="https://files.example.md/companies.xlsx">d</a></div></body></html>`,
			nonprofitsPage: fmt.Sprintf(
				`<html><body><li class="resource-item"><a class="resource-url-analytics" href=%q>d</a></li></body></html>`,
				nonprofitsDataURL,
			),
		},
		files: map[string]string{
			"https://files.example.md/companies.xlsx": companiesPath,
			nonprofitsDataURL:                         nonprofitsPath,
		},
	}

	sink := testhelpers.NewCaptureEmitter()
	log := logger.NewNoOp()
	crawler := NewCrawler(Config{
		CompaniesCatalogURL: companiesCatalog,
		NonprofitsURL:       nonprofitsPage,
		OutputDir:           filepath.Join(dir, "out"),
	}, log, fetcher, ckan.NewLocator(fetcher, log, 1), ckan.NewSelector(log), sink)

	summary, err := crawler.Run(context.Background())
	require.NoError(t, err)
	require.NotNil(t, summary)
	assert.NotEmpty(t, summary.RunID)

	// One company with 2 directors, 2 founders, 1 beneficial owner, plus
	// one organization with its director.
	assert.Len(t, sink.BySchema(entity.Company), 1)
	assert.Len(t, sink.BySchema(entity.Organization), 1)
	assert.Len(t, sink.BySchema(entity.Person), 1)
	assert.Len(t, sink.BySchema(entity.LegalEntity), 5)
	assert.Len(t, sink.BySchema(entity.Directorship), 3)
	assert.Len(t, sink.BySchema(entity.Ownership), 3)
	assert.Equal(t, len(sink.Entities), summary.Total)

	// The raw nonprofits workbook is exported alongside the entity
	// stream.
	assert.FileExists(t, filepath.Join(dir, "out", "nonprofits.xlsx"))
	assert.FileExists(t, filepath.Join(dir, "out", "nonprofits.xlsx.meta.json"))
}

func TestCrawlerRunWrongNonprofitsSheet(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	badPath := writeWorkbook(t, filepath.Join(dir, "bad.xlsx"), "Sheet1", [][]any{{"x"}})

	nonprofitsDataURL := fmt.Sprintf(
		"https://dataset.example.md/resources/list.%s.xlsx",
		time.Now().Format("2006.01.02"),
	)
	companiesPath := writeWorkbook(t, filepath.Join(dir, "companies.xlsx"), companiesSheet, [][]any{
		{"Denumirea completă", "IDNO/ Cod fiscal"},
	})
	fetcher := &crawlFetcher{
		pages: map[string]string{
			companiesCatalog: fmt.Sprintf(
				`<html><body><li class="resource-item"><a href=%q>r</a></li></body></html>`,
				companiesResource,
			),
			companiesResource: `<html><body><div class="actions"><a href="https://files.example.md/companies.xlsx">d</a></div></body></html>`,
			nonprofitsPage: fmt.Sprintf(
				`<html><body><li class="resource-item"><a class="resource-url-analytics" href=%q>d</a></li></body></html>`,
				nonprofitsDataURL,
			),
		},
		files: map[string]string{
			"https://files.example.md/companies.xlsx": companiesPath,
			nonprofitsDataURL:                         badPath,
		},
	}

	log := logger.NewNoOp()
	crawler := NewCrawler(Config{
		CompaniesCatalogURL: companiesCatalog,
		NonprofitsURL:       nonprofitsPage,
		OutputDir:           filepath.Join(dir, "out"),
	}, log, fetcher, ckan.NewLocator(fetcher, log, 1), ckan.NewSelector(log), testhelpers.NewCaptureEmitter())

	_, err := crawler.Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unexpected nonprofits workbook structure")
}
