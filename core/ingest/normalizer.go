package ingest

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/16205/pmereporter/core/logger"
	"github.com/16205/pmereporter/core/model"
)

// timeLayout is the naive timestamp format the scheduling API emits. Events
// carry no zone; all timestamps in a batch share the planning timezone.
const timeLayout = "2006-01-02T15:04:05"

// Config tunes the normalisation rules that depend on planning-office
// conventions rather than on the schema itself.
type Config struct {
	// EquipmentTokens marks pseudo-resources (garage, bunker, lab and
	// company-owned equipment bookings) that must not appear as agents.
	EquipmentTokens []string `json:"equipment_tokens"`
	// DialCode is the placeholder planners leave in otherwise empty phone
	// fields.
	DialCode string `json:"dial_code"`
	// ReturnMarker flags the return leg of a round trip inside the
	// departure-place field.
	ReturnMarker string `json:"return_marker"`
}

// SetDefaults applies the planning-office defaults.
func (c *Config) SetDefaults() {
	if len(c.EquipmentTokens) == 0 {
		c.EquipmentTokens = []string{"RG -", "BUNKER ", "Vincotte", "LABO "}
	}
	if c.DialCode == "" {
		c.DialCode = "+32"
	}
	if c.ReturnMarker == "" {
		c.ReturnMarker = "Client return"
	}
}

// Validate checks mandatory fields.
func (c Config) Validate() error {
	if c.ReturnMarker == "" {
		return fmt.Errorf("return_marker is required")
	}
	return nil
}

// Normalizer converts raw scheduling payloads into canonical missions.
type Normalizer struct {
	cfg Config
	log logger.Logger
}

// New returns a Normalizer using the given configuration.
func New(cfg Config, log logger.Logger) *Normalizer {
	return &Normalizer{cfg: cfg, log: log}
}

// Normalize produces one canonical mission per raw record, preserving input
// order. A malformed record yields a RecordError and is skipped; the
// remaining records are still normalised. The returned error joins all
// record errors, so callers can abort the whole batch or keep the good part.
func (n *Normalizer) Normalize(p Payload) ([]model.Mission, error) {
	missions := make([]model.Mission, 0, len(p.Items))
	var errs []error
	for i, ev := range p.Items {
		m, err := n.normalizeEvent(i, ev)
		if err != nil {
			n.log.Errorf("normalize: %v", err)
			errs = append(errs, err)
			continue
		}
		missions = append(missions, m)
	}
	if len(errs) > 0 {
		return missions, errors.Join(errs...)
	}
	return missions, nil
}

func (n *Normalizer) normalizeEvent(index int, ev Event) (model.Mission, error) {
	key := strings.TrimSpace(string(ev.Key))
	if key == "" {
		return model.Mission{}, &RecordError{Index: index, Field: "key", Err: ErrMissingField}
	}
	if ev.Fields == nil {
		return model.Mission{}, &RecordError{Index: index, Key: key, Field: "fields", Err: ErrMissingField}
	}
	start, err := parseTime(ev.Start)
	if err != nil {
		return model.Mission{}, &RecordError{Index: index, Key: key, Field: "start", Err: err}
	}
	end, err := parseTime(ev.End)
	if err != nil {
		return model.Mission{}, &RecordError{Index: index, Key: key, Field: "end", Err: err}
	}

	m := model.Mission{
		Key:             key,
		Start:           start,
		End:             end,
		ServiceOrder:    strings.TrimLeft(strings.TrimSpace(string(serviceOrder(ev.Project))), "0"),
		OneWayTransport: ev.Fields.OneWayTransport,
		Techniques:      ev.Fields.techniques(),
		NormCriteria:    ev.Fields.normCriteria(),
		Sources:         ev.Fields.sources(),
		Vehicle:         ev.Fields.Vehicle,
		Equipment:       ev.Fields.Equipment,
	}

	m.DeparturePlace, m.Return = n.splitReturnLeg(ev.Fields.DeparturePlace)

	for _, r := range ev.Resources {
		if n.isEquipment(r.Label) {
			n.log.Debugw("dropping equipment booking", map[string]any{"mission": key, "label": r.Label})
			continue
		}
		m.Resources = append(m.Resources, model.Resource{
			LastName:  r.LastName,
			FirstName: r.FirstName,
			Mobile:    n.cleanPhone(r.Mobile),
			Phone:     n.secondPhone(r.Phone, r.Mobile),
			Email:     firstEmail(r.Email),
			AVNumber:  string(r.RegistrationNumber),
		})
	}

	for _, c := range ev.Customers {
		m.Customers = append(m.Customers, model.Customer{
			Label:  c.Label,
			Phone1: n.cleanPhone(c.Phone),
			Phone2: n.secondPhone(c.Mobile, c.Phone),
		})
	}

	// Comments come from four independent upstream locations; empties are
	// dropped but the relative order of the rest is preserved.
	candidates := []string{ev.Fields.LocationComments, ev.Remark, ev.Fields.TaskComments}
	if len(ev.Customers) > 0 {
		candidates = append(candidates, ev.Customers[0].Fields.Comments)
	}
	for _, c := range candidates {
		if c != "" {
			m.Comments = append(m.Comments, c)
		}
	}

	for _, l := range ev.Fields.links() {
		if clean := sanitizeLink(l); clean != "" {
			m.Attachments = append(m.Attachments, clean)
		}
	}

	m.Location = ev.Location
	if m.Location == "" {
		m.Location = model.LocationUnresolved
	}

	return m, nil
}

// Enrich fills in intervention locations resolved by the external lookup.
// Missions absent from the map, or mapped to an empty address, keep the
// unresolved sentinel.
func Enrich(missions []model.Mission, locations map[string]string) {
	for i := range missions {
		if addr, ok := locations[missions[i].Key]; ok && addr != "" {
			missions[i].Location = addr
		}
	}
}

func (n *Normalizer) isEquipment(label string) bool {
	for _, tok := range n.cfg.EquipmentTokens {
		if strings.Contains(label, tok) {
			return true
		}
	}
	return false
}

// cleanPhone drops empty and dial-code-only placeholder values.
func (n *Normalizer) cleanPhone(s string) string {
	if s == "" || s == n.cfg.DialCode {
		return ""
	}
	return s
}

// secondPhone keeps the secondary number only when it adds information over
// the primary.
func (n *Normalizer) secondPhone(second, first string) string {
	second = n.cleanPhone(second)
	if second == first {
		return ""
	}
	return second
}

// splitReturnLeg detects the client-return marker inside the departure place.
// The marker and everything before it are stripped, and the mission is
// reclassified as the return leg of a round trip.
func (n *Normalizer) splitReturnLeg(place string) (string, bool) {
	if place == "" {
		return "", false
	}
	if idx := strings.Index(place, n.cfg.ReturnMarker); idx >= 0 {
		return strings.TrimSpace(place[idx+len(n.cfg.ReturnMarker):]), true
	}
	return place, false
}

func serviceOrder(p *EventProject) FlexString {
	if p == nil {
		return ""
	}
	return p.Fields.ServiceOrder
}

// firstEmail keeps only the first address of a semicolon-joined list. Some
// agents have several addresses registered in the same upstream field.
func firstEmail(s string) string {
	first, _, _ := strings.Cut(s, ";")
	return strings.TrimSpace(first)
}

// sanitizeLink strips leading path-relative dot segments from an attachment
// link.
func sanitizeLink(link string) string {
	link = strings.TrimSpace(link)
	for {
		trimmed := link
		for _, prefix := range []string{"./", ".\\", "../", "..\\"} {
			trimmed = strings.TrimPrefix(trimmed, prefix)
		}
		if trimmed == link {
			return link
		}
		link = trimmed
	}
}

func parseTime(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, ErrMissingField
	}
	t, err := time.Parse(timeLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("bad timestamp %q: %w", s, err)
	}
	return t, nil
}
