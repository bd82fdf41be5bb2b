// Package registry extracts company and non-profit records from the
// Moldovan state registry exports and maps them onto the canonical
// entity graph.
package registry

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/opendatamd/regcrawl/internal/emit"
	"github.com/opendatamd/regcrawl/internal/entity"
	"github.com/opendatamd/regcrawl/internal/logger"
	"github.com/opendatamd/regcrawl/internal/sheet"
)

// Column labels of the companies sheet.
const (
	companiesSheet = "Company"

	colTaxNumber         = "IDNO/ Cod fiscal"
	colCompanyName       = "Denumirea completă"
	colAddress           = "Adresa"
	colIncorporationDate = "Data înregistrării"
	colDissolutionDate   = "Data lichidării"
	colLegalForm         = "Forma org./jurid."
	colDirectors         = "Lista conducătorilor"
	colFounders          = "Lista fondatorilor"
	colOwners            = "Lista beneficiarilor efectivi"
)

// beneficialOwnersRole is the fixed role label on beneficial owner
// relationships, as published by the registry.
const beneficialOwnersRole = "beneficiarilor efectivi"

// progressInterval is the row interval for progress log lines.
const progressInterval = 10000

// minDirectorNameLen filters splitting noise from the directors field.
const minDirectorNameLen = 3

// ignoreColumns are known columns that the parser deliberately does not
// consume.
var ignoreColumns = []string{
	"Codul unităţii administrativ-teritoriale",
	"Genuri de activitate nelicentiate",
	"Genuri de activitate licentiate",
}

// numericField matches a founders cell that holds a stray integer
// instead of text, a known artifact on the last row of some exports.
var numericField = regexp.MustCompile(`^\d+$`)

// CompanyParser maps company sheet rows to Company entities with their
// director, founder and beneficial owner sub-records.
type CompanyParser struct {
	log     logger.Interface
	emitter emit.Emitter
}

// NewCompanyParser creates a CompanyParser.
func NewCompanyParser(log logger.Interface, emitter emit.Emitter) *CompanyParser {
	return &CompanyParser{
		log:     log.WithComponent("companies"),
		emitter: emitter,
	}
}

// ParseWorkbook reads the company sheet row by row. The first row whose
// cells contain the full-name column label is the header row; all
// subsequent rows are mapped against it.
func (p *CompanyParser) ParseWorkbook(ctx context.Context, f *excelize.File) error {
	rows, err := f.Rows(companiesSheet)
	if err != nil {
		return fmt.Errorf("open sheet %q: %w", companiesSheet, err)
	}
	defer rows.Close()

	var headers []string
	idx := 0
	for rows.Next() {
		cells, err := rows.Columns()
		if err != nil {
			return fmt.Errorf("read row %d: %w", idx, err)
		}
		if headers == nil {
			if containsCell(cells, colCompanyName) {
				headers = headerNames(cells)
			}
			idx++
			continue
		}

		row := make(sheet.Row, len(headers))
		for i, header := range headers {
			if i < len(cells) {
				row[header] = strings.TrimSpace(cells[i])
			} else {
				row[header] = ""
			}
		}
		if err := p.parseCompany(ctx, row); err != nil {
			return err
		}

		idx++
		if idx%progressInterval == 0 {
			p.log.Info("Reading companies...", "rows", idx)
		}
	}
	if err := rows.Error(); err != nil {
		return fmt.Errorf("iterate company rows: %w", err)
	}
	if headers == nil {
		return fmt.Errorf("%w: no row contains %q", sheet.ErrNoHeader, colCompanyName)
	}
	return nil
}

// headerNames builds column names from the header row, taking the
// substring before a " (" delimiter where present.
func headerNames(cells []string) []string {
	headers := make([]string, len(cells))
	for i, cell := range cells {
		name, _, _ := strings.Cut(cell, " (")
		headers[i] = name
	}
	return headers
}

func containsCell(cells []string, label string) bool {
	for _, cell := range cells {
		if cell == label {
			return true
		}
	}
	return false
}

// parseCompany maps one row to a Company entity plus its sub-records.
// A row without a derivable identity is logged and skipped; no row-level
// error aborts the run.
func (p *CompanyParser) parseCompany(ctx context.Context, row sheet.Row) error {
	idno := row.Pop(colTaxNumber)
	name := row.Pop(colCompanyName)
	addr := row.Pop(colAddress)

	company := entity.New(entity.Company)
	if idno != "" {
		company.ID = "oc-companies-md-" + idno
	} else {
		company.ID = entity.MakeID(name, addr)
	}
	if company.ID == "" {
		p.log.Error("Cannot generate company key",
			"idno", idno,
			"name", name,
			"address", addr,
		)
		return nil
	}

	company.Add("name", name)
	company.Add("taxNumber", idno)
	company.Add("incorporationDate", row.Pop(colIncorporationDate))
	company.Add("dissolutionDate", row.Pop(colDissolutionDate))
	company.Add("jurisdiction", "md")
	company.Add("address", addr)
	company.Add("legalForm", row.Pop(colLegalForm))
	if err := p.emitter.Emit(ctx, company); err != nil {
		return err
	}

	if err := p.parseDirectors(ctx, company, row.Pop(colDirectors)); err != nil {
		return err
	}
	if err := p.parseFounders(ctx, company, row.Pop(colFounders)); err != nil {
		return err
	}
	if err := p.parseOwners(ctx, company, row.Pop(colOwners)); err != nil {
		return err
	}

	entity.AuditData(p.log, row, ignoreColumns)
	return nil
}

// parseDirectors splits the raw directors field on "]," and emits a
// LegalEntity plus Directorship per candidate. A trailing "[role]"
// segment is split off best-effort. Candidates shorter than three
// characters after trimming are noise and skipped entirely.
func (p *CompanyParser) parseDirectors(ctx context.Context, company *entity.Entity, directors string) error {
	if directors == "" {
		return nil
	}
	for _, director := range strings.Split(directors, "],") {
		role := ""
		if i := strings.LastIndex(director, "["); i >= 0 {
			role = strings.TrimSpace(strings.ReplaceAll(director[i+1:], "]", ""))
			director = director[:i]
		}
		director = strings.TrimSpace(director)
		if len([]rune(director)) < minDirectorNameLen {
			continue
		}

		dir := entity.New(entity.LegalEntity)
		dir.ID = entity.MakeID(company.ID, director)
		dir.Add("name", director)
		if err := p.emitter.Emit(ctx, dir); err != nil {
			return err
		}

		dship := entity.New(entity.Directorship)
		dship.ID = entity.MakeID("Directorship", company.ID, director, role)
		dship.Add("organization", company.ID)
		dship.Add("director", dir.ID)
		dship.Add("role", role)
		if err := p.emitter.Emit(ctx, dship); err != nil {
			return err
		}
	}
	return nil
}

// parseFounders splits the raw founders field on ")," and emits a
// LegalEntity plus Ownership per candidate, with an optional trailing
// "(percentage)" segment as the ownership role.
func (p *CompanyParser) parseFounders(ctx context.Context, company *entity.Entity, founders string) error {
	if founders == "" {
		return nil
	}
	// Some exports end with a stray row count in the founders cell.
	if numericField.MatchString(founders) {
		p.log.Info("Skipping numeric founders field", "value", founders)
		return nil
	}
	for _, founder := range strings.Split(founders, "),") {
		founder = strings.ReplaceAll(founder, ")", "")
		percentage := ""
		if i := strings.LastIndex(founder, "("); i >= 0 {
			percentage = founder[i+1:]
			founder = founder[:i]
		}
		founder = strings.TrimSpace(founder)
		if founder == "" {
			continue
		}

		found := entity.New(entity.LegalEntity)
		found.ID = entity.MakeID(company.ID, founder)
		found.Add("name", founder)
		if err := p.emitter.Emit(ctx, found); err != nil {
			return err
		}

		own := entity.New(entity.Ownership)
		own.ID = entity.MakeID("Ownership", company.ID, founder)
		own.Add("asset", company.ID)
		own.Add("owner", found.ID)
		own.Add("role", percentage)
		if err := p.emitter.Emit(ctx, own); err != nil {
			return err
		}
	}
	return nil
}

// parseOwners splits the raw beneficial owners field on ")," and emits a
// LegalEntity plus Ownership per candidate. A trailing "(country)"
// segment is normalized to an ISO code; unknown tokens are logged but
// the owner is still emitted without a country.
func (p *CompanyParser) parseOwners(ctx context.Context, company *entity.Entity, owners string) error {
	if owners == "" {
		return nil
	}
	for _, owner := range strings.Split(owners, "),") {
		owner = strings.ReplaceAll(owner, ")", "")
		country := ""
		if i := strings.LastIndex(owner, "("); i >= 0 {
			country = owner[i+1:]
			owner = owner[:i]
		}
		owner = strings.TrimSpace(owner)

		bo := entity.New(entity.LegalEntity)
		bo.ID = entity.MakeID(company.ID, owner)
		bo.Add("name", owner)
		bo.Add("country", country)
		if country != "" && !bo.Has("country") {
			p.log.Warn("Unknown country code", "country", country)
		}
		if !bo.Has("name") {
			continue
		}
		if err := p.emitter.Emit(ctx, bo); err != nil {
			return err
		}

		own := entity.New(entity.Ownership)
		own.ID = entity.MakeID("Ownership", company.ID, owner)
		own.Add("asset", company.ID)
		own.Add("owner", bo.ID)
		own.Add("role", beneficialOwnersRole)
		if err := p.emitter.Emit(ctx, own); err != nil {
			return err
		}
	}
	return nil
}
