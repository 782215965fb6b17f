// Package document assembles canonical missions into ordered content-block
// sequences ready for the external rendering engine.
package document

import (
	"errors"
	"fmt"
	"strings"

	"github.com/16205/pmereporter/core/decay"
	"github.com/16205/pmereporter/core/logger"
	"github.com/16205/pmereporter/core/model"
	"github.com/16205/pmereporter/core/textfit"
)

var (
	// ErrUnresolvedLocation means the mission still carries the location
	// sentinel; the enrichment step must run before compilation.
	ErrUnresolvedLocation = errors.New("intervention location not resolved")
	// ErrUnknownSource means a mission references a source key absent from
	// the registry snapshot.
	ErrUnknownSource = errors.New("unknown source")
)

const dateLayout = "02 Jan 2006"

// commentSeparator visually divides comment fragments gathered from
// different upstream locations.
var commentSeparator = "\n" + strings.Repeat("-", 40) + "\n"

// Config carries the document-level settings. The address table maps a
// departure place to its postal address; injecting it keeps the compiler
// reusable with different depot sets.
type Config struct {
	Company          string            `json:"company"`
	Addresses        map[string]string `json:"addresses"`
	CommentMaxHeight float64           `json:"comment_max_height"`
}

// SetDefaults applies sane defaults.
func (c *Config) SetDefaults() {
	if c.CommentMaxHeight == 0 {
		c.CommentMaxHeight = 500
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.Company == "" {
		return fmt.Errorf("company is required")
	}
	if c.CommentMaxHeight <= 0 {
		return fmt.Errorf("comment_max_height must be positive")
	}
	return nil
}

// Compiler turns missions into document plans.
type Compiler struct {
	cfg     Config
	measure textfit.HeightFunc
	log     logger.Logger
}

// New returns a Compiler. measure is the height oracle of the rendering
// engine, already bound to the remarks region width and style.
func New(cfg Config, measure textfit.HeightFunc, log logger.Logger) *Compiler {
	return &Compiler{cfg: cfg, measure: measure, log: log}
}

// CompileAll compiles every mission whose key appears in selected, in input
// order. An empty selection means all missions. Compilation stops at the
// first failing mission; plans built so far are returned alongside the error.
func (c *Compiler) CompileAll(missions []model.Mission, sources model.Registry, selected []string) ([]Plan, error) {
	var filter map[string]bool
	if len(selected) > 0 {
		filter = make(map[string]bool, len(selected))
		for _, k := range selected {
			filter[k] = true
		}
	}
	var plans []Plan
	for _, m := range missions {
		if filter != nil && !filter[m.Key] {
			continue
		}
		p, err := c.Compile(m, sources)
		if err != nil {
			return plans, err
		}
		plans = append(plans, *p)
	}
	return plans, nil
}

// Compile assembles the ordered block sequence for one mission.
func (c *Compiler) Compile(m model.Mission, sources model.Registry) (*Plan, error) {
	if m.Location == model.LocationUnresolved {
		return nil, fmt.Errorf("mission %s: %w", m.Key, ErrUnresolvedLocation)
	}

	plan := &Plan{
		MissionKey:  m.Key,
		MissionDate: m.Start,
	}
	for _, r := range m.Resources {
		plan.ResourceNames = append(plan.ResourceNames, r.FileName())
	}

	plan.Blocks = append(plan.Blocks,
		heading(1, fmt.Sprintf("Mission order n° %s - %s", m.Key, c.cfg.Company)),
		heading(2, "Mission details"),
	)
	c.missionDetails(plan, m)
	c.techniqueTables(plan, m)

	if m.HasSources() {
		if err := c.adrSection(plan, m, sources); err != nil {
			return nil, err
		}
	}
	return plan, nil
}

func (c *Compiler) missionDetails(plan *Plan, m model.Mission) {
	plan.Blocks = append(plan.Blocks,
		keyValue("Date of intervention", m.Start.Format(dateLayout)),
		keyValue("Start time", m.Start.Format("15:04")),
		keyValue("End time", m.End.Format("15:04")),
	)

	for i, r := range m.Resources {
		label := "Agent"
		if len(m.Resources) > 1 {
			label = fmt.Sprintf("Agent %d", i+1)
		}
		plan.Blocks = append(plan.Blocks, keyValue(label, joinLines(r.FullName(), r.Mobile, r.Phone)))
	}
	for i, cust := range m.Customers {
		label := "Client"
		if len(m.Customers) > 1 {
			label = fmt.Sprintf("Client %d", i+1)
		}
		plan.Blocks = append(plan.Blocks, keyValue(label, joinLines(cust.Label, cust.Phone1, cust.Phone2)))
	}

	if m.ServiceOrder != "" {
		plan.Blocks = append(plan.Blocks, keyValue("Service order n°", m.ServiceOrder))
	}
	if m.Location != "" {
		plan.Blocks = append(plan.Blocks, keyValue("Intervention location", Clean(m.Location)))
	}
	if m.DeparturePlace != "" {
		plan.Blocks = append(plan.Blocks, keyValue("Departure location", m.DeparturePlace))
	}
	if m.Vehicle != "" {
		plan.Blocks = append(plan.Blocks, keyValue("Vehicle", m.Vehicle))
	}
	if m.Equipment != "" {
		plan.Blocks = append(plan.Blocks, keyValue("Equipment", m.Equipment))
	}

	if len(m.Comments) > 0 {
		cleaned := make([]string, 0, len(m.Comments))
		for _, comment := range m.Comments {
			if text := Clean(comment); text != "" {
				cleaned = append(cleaned, text)
			}
		}
		if len(cleaned) > 0 {
			remarks := strings.Join(cleaned, commentSeparator)
			for _, segment := range textfit.Fit(remarks, c.cfg.CommentMaxHeight, c.measure) {
				plan.Blocks = append(plan.Blocks, keyValue("Remarks/comments", segment))
			}
		}
	}
}

func (c *Compiler) techniqueTables(plan *Plan, m model.Mission) {
	if len(m.Techniques) > 0 {
		plan.Blocks = append(plan.Blocks, heading(4, "Techniques"))
		for i, tech := range m.Techniques {
			plan.Blocks = append(plan.Blocks, keyValue(fmt.Sprintf("Technique %d", i+1), tech))
		}
	}
	if len(m.NormCriteria) > 0 {
		plan.Blocks = append(plan.Blocks, heading(4, "Norms & criteria"))
		for i, nc := range m.NormCriteria {
			plan.Blocks = append(plan.Blocks, keyValue(fmt.Sprintf("Norm/Criteria %d", i+1), nc))
		}
	}
}

// adrSection emits the dangerous-goods compliance part: sender/receiver
// address tables, one technical table per source, and the signature roles.
func (c *Compiler) adrSection(plan *Plan, m model.Mission, sources model.Registry) error {
	plan.Blocks = append(plan.Blocks,
		pageBreak(),
		heading(2, "ADR Informatie / Information ADR"),
	)

	c.addressTables(plan, m)

	plan.Blocks = append(plan.Blocks, heading(4, "Getransporteerde ADR stoffen: / Marchandises ADR transportées:"))
	for i, key := range m.Sources {
		src, ok := sources[key]
		if !ok {
			return fmt.Errorf("mission %s: %w: %q", m.Key, ErrUnknownSource, key)
		}
		if len(m.Sources) > 1 {
			plan.Blocks = append(plan.Blocks, heading(5, fmt.Sprintf("Isotope %d", i+1)))
		}
		if err := c.sourceTable(plan, m, src); err != nil {
			return fmt.Errorf("mission %s: source %s: %w", m.Key, key, err)
		}
		if len(m.Sources) > 1 && i < len(m.Sources)-1 {
			plan.Blocks = append(plan.Blocks, pageBreak())
		}
	}

	plan.Blocks = append(plan.Blocks,
		heading(4, "Signatures"),
		paragraph("Verzender / Expéditeur"),
		paragraph("Vervoerder / Transporteur"),
		paragraph("Bestemmeling / Destinataire"),
	)
	return nil
}

func (c *Compiler) addressTables(plan *Plan, m model.Mission) {
	depot, ok := c.cfg.Addresses[m.DeparturePlace]
	if !ok {
		warning := fmt.Sprintf("no postal address registered for departure place %q", m.DeparturePlace)
		c.log.Warnf("mission %s: %s", m.Key, warning)
		plan.Warnings = append(plan.Warnings, warning)
	}

	company := c.cfg.Company
	if depot != "" {
		// Blank line between company name and depot address, as printed on
		// the upstream forms.
		company += "\n\n" + depot
	}
	var client string
	if len(m.Customers) > 0 {
		client = joinLines(m.Customers[0].Label, Clean(m.Location))
	} else {
		client = Clean(m.Location)
	}

	sender, receiver := company, client
	if m.Return {
		sender, receiver = client, company
	}

	if m.OneWayTransport {
		plan.Blocks = append(plan.Blocks,
			keyValue("Verzender / Expéditeur", sender),
			keyValue("Bestemmeling / Destinataire", receiver),
		)
		return
	}

	// Round trip: outbound then return, directions mirrored.
	plan.Blocks = append(plan.Blocks,
		heading(5, "Aller / Heen"),
		keyValue("Verzender / Expéditeur", sender),
		keyValue("Bestemmeling / Destinataire", receiver),
		heading(5, "Retour / Terug"),
		keyValue("Verzender / Expéditeur", receiver),
		keyValue("Bestemmeling / Destinataire", sender),
	)
}

func (c *Compiler) sourceTable(plan *Plan, m model.Mission, src model.Source) error {
	gbq, ci, err := decay.Activity(src.ActivityGBq, src.CalibrationDate, src.Isotope, m.Start)
	if err != nil {
		return err
	}

	date := m.Start.Format(dateLayout)
	plan.Blocks = append(plan.Blocks,
		keyValue("Identificatie / Identification", src.Key),
		keyValue("Beschrijving / Description", fmt.Sprintf(
			"%s RADIOACTIEVE STOFFEN, IN COLLI VAN TYPE %s, 7, (E) / %s MATIÈRES RADIOACTIVES EN COLIS DE TYPE %s, 7, (E)",
			src.UNNumber, src.Package, src.UNNumber, src.Package)),
		keyValue("Isotoop / Isotope", src.Isotope),
		keyValue(fmt.Sprintf("Activiteit op %s / Activité le %s", date, date), fmt.Sprintf("%.2f GBq - %.2f Ci", gbq, ci)),
		keyValue("Label / Étiquette", src.Label),
		keyValue("Transportindex / Indice de transport", src.TransportIndex),
		keyValue("Fysische toestand / État physique", src.PhysicalState),
		keyValue("Goedkeuringscertificaat / Certificat d'approbation", src.Certificate),
	)
	if src.CertificateSF != "" {
		plan.Blocks = append(plan.Blocks,
			keyValue("Goedkeuringscertificaat - Special Form / Certificat d'approbation - Forme spéciale", src.CertificateSF))
	}
	if src.FocusMM != "" {
		plan.Blocks = append(plan.Blocks, keyValue("Focus / Foyer", src.FocusMM+" mm"))
	}
	return nil
}

// joinLines joins the non-empty parts with newlines.
func joinLines(parts ...string) string {
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return strings.Join(out, "\n")
}
