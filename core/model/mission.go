package model

import "time"

// LocationUnresolved marks a mission whose intervention location has not been
// filled in by the enrichment step yet. Document compilation refuses missions
// still carrying it.
const LocationUnresolved = "<unresolved>"

// Mission is one scheduled field intervention, the unit of document
// generation. Instances are built fresh on every normalisation pass and are
// not mutated afterwards, except for Location which the enrichment step may
// fill in before compilation.
type Mission struct {
	Key             string
	Start           time.Time
	End             time.Time
	Resources       []Resource
	Customers       []Customer
	Comments        []string
	ServiceOrder    string // leading zeros stripped, empty when absent
	DeparturePlace  string
	Return          bool // departure place carried the client-return marker
	OneWayTransport bool
	Techniques      []string
	NormCriteria    []string
	Sources         []string // source registry keys, at most four upstream slots
	Location        string   // LocationUnresolved until enriched
	Attachments     []string
	Vehicle         string
	Equipment       string
}

// Duration returns the scheduled length of the mission. Equal start and end
// timestamps yield zero rather than an error; upstream does not hard-enforce
// end > start.
func (m Mission) Duration() time.Duration {
	if !m.End.After(m.Start) {
		return 0
	}
	return m.End.Sub(m.Start)
}

// HasSources reports whether the mission carries at least one radioactive
// source and therefore needs an ADR compliance section.
func (m Mission) HasSources() bool { return len(m.Sources) > 0 }

// Day returns the calendar date of the intervention, used by callers to build
// the date-derived output directory.
func (m Mission) Day() string { return m.Start.Format("20060102") }

// Resource is a technician assigned to a mission. Equipment bookings misfiled
// as resources are filtered out during normalisation.
type Resource struct {
	LastName  string
	FirstName string
	Mobile    string // primary phone
	Phone     string // secondary phone, empty when duplicate or placeholder
	Email     string
	AVNumber  string // registration number of the agent
}

// FullName returns "First Last" for table rows.
func (r Resource) FullName() string {
	switch {
	case r.FirstName == "":
		return r.LastName
	case r.LastName == "":
		return r.FirstName
	}
	return r.FirstName + " " + r.LastName
}

// FileName returns "Last First", the order the document naming convention
// concatenates resource names in.
func (r Resource) FileName() string {
	switch {
	case r.FirstName == "":
		return r.LastName
	case r.LastName == "":
		return r.FirstName
	}
	return r.LastName + " " + r.FirstName
}

// Customer is a client entry on a mission.
type Customer struct {
	Label  string
	Phone1 string
	Phone2 string
}
