package ingest

import "encoding/json"

// FlexString decodes upstream fields that arrive interchangeably as a JSON
// string, a number or null. The scheduling API uses all three for the same
// field depending on how the record was entered.
type FlexString string

func (s *FlexString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*s = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = FlexString(str)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*s = FlexString(n.String())
	return nil
}

// Payload is one raw scheduling-system response, a list of heterogeneous
// nested event records.
type Payload struct {
	Items []Event `json:"items"`
}

// Event mirrors the upstream record shape exactly, including its known
// inconsistencies: empty string, null and missing key are used
// interchangeably and all normalise to the zero value.
type Event struct {
	Key       FlexString      `json:"key"`
	Start     string          `json:"start"`
	End       string          `json:"end"`
	Remark    string          `json:"remark"`
	Location  string          `json:"location"`
	Resources []EventResource `json:"resources"`
	Customers []EventCustomer `json:"customers"`
	Fields    *EventFields    `json:"fields"`
	Project   *EventProject   `json:"project"`
}

// EventResource is a raw resource booking. Entries whose label carries an
// equipment token are not people and are dropped during normalisation.
type EventResource struct {
	Label              string     `json:"label"`
	LastName           string     `json:"lastName"`
	FirstName          string     `json:"firstName"`
	Mobile             string     `json:"mobile"`
	Phone              string     `json:"phone"`
	Email              string     `json:"email"`
	RegistrationNumber FlexString `json:"registrationNumber"`
}

// EventCustomer is a raw client entry.
type EventCustomer struct {
	Label  string         `json:"label"`
	Phone  string         `json:"phone"`
	Mobile string         `json:"mobile"`
	Fields CustomerFields `json:"fields"`
}

// CustomerFields holds the customer-level custom fields.
type CustomerFields struct {
	Comments string `json:"COMMENTSCUSTOMER"`
}

// EventProject carries the project the event belongs to.
type EventProject struct {
	Fields ProjectFields `json:"fields"`
}

// ProjectFields holds the project-level custom fields.
type ProjectFields struct {
	ServiceOrder FlexString `json:"PROJET_SO_NUMBER"`
}

// EventFields holds the mission-level custom fields. The upstream schema
// exposes repeated values as numbered slots rather than lists; the slot
// accessors below compact them into ordered lists so nothing downstream
// special-cases a slot number.
type EventFields struct {
	DeparturePlace   string `json:"DEPARTUREPLACE"`
	OneWayTransport  bool   `json:"ONEWAYTRANSPORT"`
	LocationComments string `json:"COMMENTS_LOCATION"`
	TaskComments     string `json:"TASKCOMMENTS"`
	Vehicle          string `json:"VEHICLE"`
	Equipment        string `json:"EQUIPMENT"`

	Technique1 string `json:"TECHNIQUE1"`
	Technique2 string `json:"TECHNIQUE2"`
	Technique3 string `json:"TECHNIQUE3"`
	Technique4 string `json:"TECHNIQUE4"`
	Technique5 string `json:"TECHNIQUE5"`
	Technique6 string `json:"TECHNIQUE6"`
	Technique7 string `json:"TECHNIQUE7"`

	NormCr1 string `json:"NORMCR1"`
	NormCr2 string `json:"NORMCR2"`
	NormCr3 string `json:"NORMCR3"`
	NormCr4 string `json:"NORMCR4"`
	NormCr5 string `json:"NORMCR5"`
	NormCr6 string `json:"NORMCR6"`
	NormCr7 string `json:"NORMCR7"`

	Sources    string `json:"SOURCES"`
	SourcesII  string `json:"SOURCESII"`
	SourcesIII string `json:"SOURCESIII"`
	SourcesIV  string `json:"SOURCESIV"`

	LinkDoc1 string `json:"LINKDOC1"`
	LinkDoc2 string `json:"LINKDOC2"`
	LinkDoc3 string `json:"LINKDOC3"`
	LinkDoc4 string `json:"LINKDOC4"`
}

func (f EventFields) techniques() []string {
	return compactSlots(f.Technique1, f.Technique2, f.Technique3, f.Technique4, f.Technique5, f.Technique6, f.Technique7)
}

func (f EventFields) normCriteria() []string {
	return compactSlots(f.NormCr1, f.NormCr2, f.NormCr3, f.NormCr4, f.NormCr5, f.NormCr6, f.NormCr7)
}

func (f EventFields) sources() []string {
	return compactSlots(f.Sources, f.SourcesII, f.SourcesIII, f.SourcesIV)
}

func (f EventFields) links() []string {
	return compactSlots(f.LinkDoc1, f.LinkDoc2, f.LinkDoc3, f.LinkDoc4)
}

// compactSlots drops empty slots and keeps the declaration order of the rest.
func compactSlots(slots ...string) []string {
	var out []string
	for _, s := range slots {
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}
