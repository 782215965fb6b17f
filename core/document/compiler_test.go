package document

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/16205/pmereporter/core/model"
	"github.com/16205/pmereporter/infra/logger"
)

func testConfig() Config {
	cfg := Config{
		Company: "Vinçotte NV",
		Addresses: map[string]string{
			"Houdeng":  "Chaussée Paul Houtart 88\n7100 Houdeng-Goegnies",
			"Wijnegem": "Bijkhoevelaan 7\n2110 Wijnegem",
		},
	}
	cfg.SetDefaults()
	return cfg
}

func charHeight(text string) float64 { return float64(len([]rune(text))) }

func newTestCompiler() *Compiler {
	return New(testConfig(), charHeight, logger.NopLogger{})
}

func testMission() model.Mission {
	start := time.Date(2026, 3, 12, 9, 0, 0, 0, time.UTC)
	return model.Mission{
		Key:   "12345",
		Start: start,
		End:   start.Add(2 * time.Hour),
		Resources: []model.Resource{
			{LastName: "Peeters", FirstName: "Ann", Mobile: "0470 11 22 33"},
		},
		Customers: []model.Customer{
			{Label: "Acme NV", Phone1: "04 222 33 44"},
		},
		ServiceOrder:   "789",
		DeparturePlace: "Houdeng",
		Location:       "Rue Haute 12\n1000 Bruxelles",
	}
}

func testRegistry() model.Registry {
	return model.Registry{
		"S-12": {
			Key:             "S-12",
			Isotope:         "Ir-192",
			ActivityGBq:     100,
			CalibrationDate: time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
			UNNumber:        "UN 2916",
			Package:         "B(U)",
			Label:           "III-GEEL",
			TransportIndex:  "0.4",
			PhysicalState:   "Solid / special form",
			Certificate:     "BE/1234/B(U)-96",
		},
		"S-7": {
			Key:             "S-7",
			Isotope:         "Se-75",
			ActivityGBq:     80,
			CalibrationDate: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC),
			UNNumber:        "UN 2916",
			Package:         "B(U)",
			Label:           "II-GEEL",
			TransportIndex:  "0.2",
			PhysicalState:   "Solid / special form",
			Certificate:     "BE/5678/B(U)-96",
			CertificateSF:   "BE/5678/S-96",
			FocusMM:         "3",
		},
	}
}

func findRow(t *testing.T, blocks []Block, key string) Block {
	t.Helper()
	for _, b := range blocks {
		if b.Kind == KindKeyValue && b.Key == key {
			return b
		}
	}
	t.Fatalf("no %q row in %d blocks", key, len(blocks))
	return Block{}
}

func countKind(blocks []Block, k Kind) int {
	n := 0
	for _, b := range blocks {
		if b.Kind == k {
			n++
		}
	}
	return n
}

func TestCompileMissionDetails(t *testing.T) {
	plan, err := newTestCompiler().Compile(testMission(), testRegistry())
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if plan.MissionKey != "12345" {
		t.Errorf("mission key = %q", plan.MissionKey)
	}
	if len(plan.ResourceNames) != 1 || plan.ResourceNames[0] != "Peeters Ann" {
		t.Errorf("resource names = %q", plan.ResourceNames)
	}
	if plan.Blocks[0].Kind != KindHeading || !strings.Contains(plan.Blocks[0].Text, "12345") {
		t.Errorf("title block = %+v", plan.Blocks[0])
	}
	if got := findRow(t, plan.Blocks, "Date of intervention").Text; got != "12 Mar 2026" {
		t.Errorf("date row = %q", got)
	}
	if got := findRow(t, plan.Blocks, "Start time").Text; got != "09:00" {
		t.Errorf("start row = %q", got)
	}
	if got := findRow(t, plan.Blocks, "Agent").Text; got != "Ann Peeters\n0470 11 22 33" {
		t.Errorf("agent row = %q", got)
	}
	if got := findRow(t, plan.Blocks, "Service order n°").Text; got != "789" {
		t.Errorf("service order row = %q", got)
	}
}

func TestCompileNoSourcesNoADR(t *testing.T) {
	plan, err := newTestCompiler().Compile(testMission(), testRegistry())
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	for _, b := range plan.Blocks {
		if b.Kind == KindPageBreak {
			t.Fatalf("mission without sources must not page-break into an ADR section")
		}
		if strings.Contains(b.Text, "ADR") {
			t.Fatalf("unexpected ADR block: %+v", b)
		}
	}
}

func TestCompileUnresolvedLocationFailsFast(t *testing.T) {
	m := testMission()
	m.Location = model.LocationUnresolved
	_, err := newTestCompiler().Compile(m, testRegistry())
	if !errors.Is(err, ErrUnresolvedLocation) {
		t.Fatalf("want ErrUnresolvedLocation, got %v", err)
	}
	if !strings.Contains(err.Error(), "12345") {
		t.Errorf("error should name the mission: %v", err)
	}
}

func TestCompileADRSection(t *testing.T) {
	m := testMission()
	m.Sources = []string{"S-12"}
	plan, err := newTestCompiler().Compile(m, testRegistry())
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if countKind(plan.Blocks, KindPageBreak) != 1 {
		t.Errorf("want exactly one page break before the ADR section")
	}
	desc := findRow(t, plan.Blocks, "Beschrijving / Description").Text
	if !strings.Contains(desc, "UN 2916 RADIOACTIEVE STOFFEN, IN COLLI VAN TYPE B(U), 7, (E)") ||
		!strings.Contains(desc, "UN 2916 MATIÈRES RADIOACTIVES EN COLIS DE TYPE B(U), 7, (E)") {
		t.Errorf("description row = %q", desc)
	}
	// 61 days after calibration: 100 * 0.5^(61/73.83) = 56.40 GBq.
	act := findRow(t, plan.Blocks, "Activiteit op 12 Mar 2026 / Activité le 12 Mar 2026").Text
	if act != "56.40 GBq - 1.52 Ci" {
		t.Errorf("activity row = %q", act)
	}
	sigs := 0
	for _, b := range plan.Blocks {
		if b.Kind == KindParagraph {
			sigs++
		}
	}
	if sigs != 3 {
		t.Errorf("want the three signature roles, got %d paragraphs", sigs)
	}
}

func TestCompileADRRoundTripAddresses(t *testing.T) {
	m := testMission()
	m.Sources = []string{"S-12"}
	m.OneWayTransport = false
	plan, err := newTestCompiler().Compile(m, testRegistry())
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	var headings []string
	for _, b := range plan.Blocks {
		if b.Kind == KindHeading && b.Level == 5 {
			headings = append(headings, b.Text)
		}
	}
	if len(headings) != 2 || headings[0] != "Aller / Heen" || headings[1] != "Retour / Terug" {
		t.Fatalf("round trip headings = %q", headings)
	}
	var senders []string
	for _, b := range plan.Blocks {
		if b.Kind == KindKeyValue && b.Key == "Verzender / Expéditeur" {
			senders = append(senders, b.Text)
		}
	}
	if len(senders) != 2 {
		t.Fatalf("want two sender rows, got %d", len(senders))
	}
	if !strings.Contains(senders[0], "Vinçotte NV") || !strings.Contains(senders[0], "7100 Houdeng-Goegnies") {
		t.Errorf("outbound sender = %q", senders[0])
	}
	if !strings.Contains(senders[1], "Acme NV") {
		t.Errorf("return sender = %q", senders[1])
	}
}

func TestCompileADROneWayReversedOnReturn(t *testing.T) {
	m := testMission()
	m.Sources = []string{"S-12"}
	m.OneWayTransport = true
	m.Return = true
	plan, err := newTestCompiler().Compile(m, testRegistry())
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	sender := findRow(t, plan.Blocks, "Verzender / Expéditeur").Text
	receiver := findRow(t, plan.Blocks, "Bestemmeling / Destinataire").Text
	if !strings.Contains(sender, "Acme NV") {
		t.Errorf("return leg sender should be the client, got %q", sender)
	}
	if !strings.Contains(receiver, "Vinçotte NV") {
		t.Errorf("return leg receiver should be the company, got %q", receiver)
	}
	if countKind(plan.Blocks, KindKeyValue) == 0 {
		t.Fatal("no rows emitted")
	}
	for _, b := range plan.Blocks {
		if b.Kind == KindHeading && (b.Text == "Aller / Heen" || b.Text == "Retour / Terug") {
			t.Errorf("one-way transport must emit a single address table")
		}
	}
}

func TestCompileMultiSourcePageBreaks(t *testing.T) {
	m := testMission()
	m.Sources = []string{"S-12", "S-7"}
	plan, err := newTestCompiler().Compile(m, testRegistry())
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	// One break before the ADR section plus one between the two sources.
	if got := countKind(plan.Blocks, KindPageBreak); got != 2 {
		t.Errorf("page breaks = %d, want 2", got)
	}
	var isoHeadings []string
	for _, b := range plan.Blocks {
		if b.Kind == KindHeading && strings.HasPrefix(b.Text, "Isotope ") {
			isoHeadings = append(isoHeadings, b.Text)
		}
	}
	if len(isoHeadings) != 2 {
		t.Errorf("isotope headings = %q", isoHeadings)
	}
	sf := findRow(t, plan.Blocks, "Goedkeuringscertificaat - Special Form / Certificat d'approbation - Forme spéciale")
	if sf.Text != "BE/5678/S-96" {
		t.Errorf("special form row = %q", sf.Text)
	}
	if got := findRow(t, plan.Blocks, "Focus / Foyer").Text; got != "3 mm" {
		t.Errorf("focus row = %q", got)
	}
}

func TestCompileUnknownSource(t *testing.T) {
	m := testMission()
	m.Sources = []string{"S-404"}
	_, err := newTestCompiler().Compile(m, testRegistry())
	if !errors.Is(err, ErrUnknownSource) {
		t.Fatalf("want ErrUnknownSource, got %v", err)
	}
}

func TestCompileUnknownDepartureWarns(t *testing.T) {
	m := testMission()
	m.Sources = []string{"S-12"}
	m.DeparturePlace = "Nowhere"
	plan, err := newTestCompiler().Compile(m, testRegistry())
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	if len(plan.Warnings) != 1 || !strings.Contains(plan.Warnings[0], "Nowhere") {
		t.Fatalf("warnings = %q", plan.Warnings)
	}
}

func TestCompileRemarksAreFitted(t *testing.T) {
	m := testMission()
	m.Comments = []string{
		"First remark about site access. Second remark about the permit.",
		"Third remark about the dosimeter.",
	}
	c := New(testConfig(), charHeight, logger.NopLogger{})
	c.cfg.CommentMaxHeight = 70
	plan, err := c.Compile(m, testRegistry())
	if err != nil {
		t.Fatalf("compile: %v", err)
	}
	var remarks []string
	for _, b := range plan.Blocks {
		if b.Kind == KindKeyValue && b.Key == "Remarks/comments" {
			remarks = append(remarks, b.Text)
		}
	}
	if len(remarks) < 2 {
		t.Fatalf("long remarks should split into several rows, got %q", remarks)
	}
	for i, r := range remarks {
		if charHeight(r) > 70 {
			t.Errorf("remark row %d exceeds budget: %q", i, r)
		}
	}
}

func TestCompileAllSelection(t *testing.T) {
	a := testMission()
	b := testMission()
	b.Key = "67890"
	c := newTestCompiler()

	plans, err := c.CompileAll([]model.Mission{a, b}, testRegistry(), []string{"67890"})
	if err != nil {
		t.Fatalf("compile all: %v", err)
	}
	if len(plans) != 1 || plans[0].MissionKey != "67890" {
		t.Fatalf("selection filter failed: %+v", plans)
	}

	plans, err = c.CompileAll([]model.Mission{a, b}, testRegistry(), nil)
	if err != nil {
		t.Fatalf("compile all: %v", err)
	}
	if len(plans) != 2 {
		t.Fatalf("empty selection must compile everything, got %d", len(plans))
	}
}
