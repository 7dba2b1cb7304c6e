// Package doctype defines the closed set of medical document types the
// service can classify and extract.
package doctype

// Type is a medical document classification label.
type Type string

const (
	Prescription      Type = "prescription"
	LabReport         Type = "lab_report"
	DoctorVisit       Type = "doctor_visit"
	DiagnosticResults Type = "diagnostic_results"

	// Unknown is both a legitimate classification result and the fallback
	// whenever classification fails or the model returns a label outside
	// the closed set.
	Unknown Type = "unknown"
)

// Extractable lists the document types field extraction is supported for,
// in the order they are presented to clients. Unknown is never extractable.
var Extractable = []Type{Prescription, LabReport, DoctorVisit, DiagnosticResults}

// Parse maps a label string to a Type. Anything outside the closed set,
// including "unknown" itself, maps to Unknown.
func Parse(s string) Type {
	switch Type(s) {
	case Prescription, LabReport, DoctorVisit, DiagnosticResults:
		return Type(s)
	default:
		return Unknown
	}
}

// IsExtractable reports whether extraction may be attempted for t.
func (t Type) IsExtractable() bool {
	switch t {
	case Prescription, LabReport, DoctorVisit, DiagnosticResults:
		return true
	default:
		return false
	}
}

// Name returns a short human-readable name.
func (t Type) Name() string {
	switch t {
	case Prescription:
		return "Prescription"
	case LabReport:
		return "Lab Report"
	case DoctorVisit:
		return "Doctor's Visit Summary"
	case DiagnosticResults:
		return "Diagnostic Results"
	default:
		return "Unknown"
	}
}

// Description returns a human-readable description for API listings.
func (t Type) Description() string {
	switch t {
	case Prescription:
		return "Medical prescription with patient, doctor and medication details"
	case LabReport:
		return "Laboratory test report with results and reference ranges"
	case DoctorVisit:
		return "Doctor's visit summary with diagnosis, procedures and recommendations"
	case DiagnosticResults:
		return "Diagnostic imaging results (X-ray, MRI, CT, Ultrasound) with findings"
	default:
		return "Unknown document type"
	}
}
