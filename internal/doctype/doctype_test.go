package doctype

import "testing"

func TestParse(t *testing.T) {
	t.Run("known labels", func(t *testing.T) {
		for _, label := range []string{"prescription", "lab_report", "doctor_visit", "diagnostic_results"} {
			if got := Parse(label); got != Type(label) {
				t.Errorf("Parse(%q) = %q", label, got)
			}
		}
	})

	t.Run("unknown label", func(t *testing.T) {
		for _, label := range []string{"xray", "invoice", "", "unknown", "Prescription"} {
			if got := Parse(label); got != Unknown {
				t.Errorf("Parse(%q) = %q, want unknown", label, got)
			}
		}
	})
}

func TestIsExtractable(t *testing.T) {
	for _, typ := range Extractable {
		if !typ.IsExtractable() {
			t.Errorf("%q should be extractable", typ)
		}
	}
	if Unknown.IsExtractable() {
		t.Error("unknown should not be extractable")
	}
	if Type("xray").IsExtractable() {
		t.Error("arbitrary type should not be extractable")
	}
}

func TestNameAndDescription(t *testing.T) {
	for _, typ := range append(Extractable, Unknown) {
		if typ.Name() == "" {
			t.Errorf("%q has empty name", typ)
		}
		if typ.Description() == "" {
			t.Errorf("%q has empty description", typ)
		}
	}
}
