package registry

import (
	"context"

	"github.com/opendatamd/regcrawl/internal/address"
	"github.com/opendatamd/regcrawl/internal/dates"
	"github.com/opendatamd/regcrawl/internal/emit"
	"github.com/opendatamd/regcrawl/internal/entity"
	"github.com/opendatamd/regcrawl/internal/logger"
	"github.com/opendatamd/regcrawl/internal/sheet"
)

// Shape of the nonprofits sheet.
const (
	nonprofitsSheetName = "organizations"
	nonprofitsSkipRows  = 4
)

// nonprofitHeaders maps the raw header labels of the nonprofits sheet to
// canonical column keys.
var nonprofitHeaders = map[string]string{
	"IDNO/ Cod fiscal":                         "tax_number",
	"Denumirea":                                "name",
	"Conducător":                               "director",
	"Forma juridică de organizare":             "legal_form",
	"Adresa":                                   "address",
	"Codul unității administrativ-teritoriale": "admin_unit_code",
	"Data înregistrării":                       "incorporation_date",
	"Data lichidării":                          "dissolution_date",
}

// NonprofitParser maps nonprofit sheet rows to Organization entities
// with an optional director relationship.
type NonprofitParser struct {
	log     logger.Interface
	emitter emit.Emitter
}

// NewNonprofitParser creates a NonprofitParser.
func NewNonprofitParser(log logger.Interface, emitter emit.Emitter) *NonprofitParser {
	return &NonprofitParser{
		log:     log.WithComponent("nonprofits"),
		emitter: emitter,
	}
}

// ParseRow maps one header-labeled row to an Organization entity.
func (p *NonprofitParser) ParseRow(ctx context.Context, row sheet.Row) error {
	taxNumber := row.Pop("tax_number")
	name := row.Pop("name")
	director := row.Pop("director")

	if taxNumber == "" && name == "" {
		p.log.Warn("Row is missing both tax number and name, skipping")
		return nil
	}

	org := entity.New(entity.Organization)
	org.ID = entity.MakeID(taxNumber, name)
	if org.ID == "" {
		p.log.Error("Cannot generate organization key",
			"tax_number", taxNumber,
			"name", name,
		)
		return nil
	}
	org.Add("name", name)
	org.Add("legalForm", row.Pop("legal_form"))
	org.Add("country", "md")
	org.Add("taxNumber", taxNumber)

	addr := address.Make(row.Pop("address"), row.Pop("admin_unit_code"))
	address.Copy(org, addr)
	dates.Apply(org, "incorporationDate", row.Pop("incorporation_date"))
	dates.Apply(org, "dissolutionDate", row.Pop("dissolution_date"))

	if director != "" {
		dir := entity.New(entity.Person)
		dir.ID = entity.MakeID(director)
		dir.Add("name", director)

		dship := entity.New(entity.Directorship)
		dship.ID = entity.MakeID(org.ID, dir.ID)
		dship.Add("organization", org.ID)
		dship.Add("director", dir.ID)

		if err := p.emitter.Emit(ctx, dir); err != nil {
			return err
		}
		if err := p.emitter.Emit(ctx, dship); err != nil {
			return err
		}
	}

	if err := p.emitter.Emit(ctx, org); err != nil {
		return err
	}
	entity.AuditData(p.log, row, nil)
	return nil
}
