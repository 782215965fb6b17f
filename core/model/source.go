package model

import "time"

// Source is a sealed radioactive source, looked up by key. Sources are not
// owned by missions; several missions may reference the same source, which is
// exactly what the conflict detector checks for.
type Source struct {
	Key             string
	Isotope         string
	ActivityGBq     float64   // nominal activity at calibration
	CalibrationDate time.Time // normalised to one fixed civil timezone upstream
	UNNumber        string
	Package         string // package type code, e.g. "B(U)"
	Label           string // package category label
	TransportIndex  string
	PhysicalState   string
	Certificate     string
	CertificateSF   string // special form approval, optional
	FocusMM         string // focal spot size in mm, optional
}

// Registry is the source snapshot handed to the document compiler, keyed by
// source key.
type Registry map[string]Source
