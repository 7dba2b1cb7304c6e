package docschema

import (
	"testing"

	"github.com/Rovlad/meddoc-parse/internal/doctype"
)

func validPrescription() map[string]any {
	return map[string]any{
		"patient_name":      "Jane Smith",
		"doctor_name":       "Dr. House",
		"prescription_date": "2024-03-01",
		"medications": []any{
			map[string]any{
				"name":      "Amoxicillin",
				"dosage":    "500mg",
				"frequency": "3 times daily",
				"duration":  "7 days",
			},
		},
	}
}

func TestNewRegistry(t *testing.T) {
	r, err := NewRegistry()
	if err != nil {
		t.Fatalf("failed to build registry: %v", err)
	}
	for _, typ := range doctype.Extractable {
		if !r.Has(typ) {
			t.Errorf("missing schema for %q", typ)
		}
	}
	if r.Has(doctype.Unknown) {
		t.Error("unknown must not have a schema")
	}
}

func TestRegistry_Validate(t *testing.T) {
	r, err := NewRegistry()
	if err != nil {
		t.Fatalf("failed to build registry: %v", err)
	}

	t.Run("conforming prescription", func(t *testing.T) {
		if err := r.Validate(doctype.Prescription, validPrescription()); err != nil {
			t.Errorf("unexpected validation error: %v", err)
		}
	})

	t.Run("missing required field", func(t *testing.T) {
		data := validPrescription()
		delete(data, "doctor_name")
		if err := r.Validate(doctype.Prescription, data); err == nil {
			t.Error("expected validation error for missing doctor_name")
		}
	})

	t.Run("wrong type for required field", func(t *testing.T) {
		data := validPrescription()
		data["medications"] = "Amoxicillin 500mg"
		if err := r.Validate(doctype.Prescription, data); err == nil {
			t.Error("expected validation error for non-array medications")
		}
	})

	t.Run("incomplete medication entry", func(t *testing.T) {
		data := validPrescription()
		data["medications"] = []any{map[string]any{"name": "Amoxicillin"}}
		if err := r.Validate(doctype.Prescription, data); err == nil {
			t.Error("expected validation error for medication without dosage")
		}
	})

	t.Run("extra keys are tolerated", func(t *testing.T) {
		data := validPrescription()
		data["summary"] = "antibiotics for infection"
		if err := r.Validate(doctype.Prescription, data); err != nil {
			t.Errorf("extra key should not fail validation: %v", err)
		}
	})

	t.Run("unregistered type", func(t *testing.T) {
		if err := r.Validate(doctype.Unknown, map[string]any{}); err == nil {
			t.Error("expected error for type without schema")
		}
	})

	t.Run("int age from Go values", func(t *testing.T) {
		data := validPrescription()
		data["patient_age"] = 42
		if err := r.Validate(doctype.Prescription, data); err != nil {
			t.Errorf("integer age should validate: %v", err)
		}
	})
}

func TestRegistry_Canonicalize(t *testing.T) {
	r, err := NewRegistry()
	if err != nil {
		t.Fatalf("failed to build registry: %v", err)
	}

	t.Run("absent optional fields become explicit nulls", func(t *testing.T) {
		out := r.Canonicalize(doctype.Prescription, validPrescription())

		for _, key := range []string{"patient_age", "diagnosis", "notes", "visit_date"} {
			v, present := out[key]
			if !present {
				t.Errorf("expected key %q to be present", key)
				continue
			}
			if v != nil {
				t.Errorf("expected %q to be nil, got %v", key, v)
			}
		}
		if out["patient_name"] != "Jane Smith" {
			t.Errorf("patient_name = %v", out["patient_name"])
		}
	})

	t.Run("recurses into array items", func(t *testing.T) {
		out := r.Canonicalize(doctype.Prescription, validPrescription())

		meds, ok := out["medications"].([]any)
		if !ok || len(meds) != 1 {
			t.Fatalf("medications = %v", out["medications"])
		}
		med, ok := meds[0].(map[string]any)
		if !ok {
			t.Fatalf("medication entry = %v", meds[0])
		}
		if v, present := med["instructions"]; !present || v != nil {
			t.Errorf("instructions = %v (present=%v), want explicit nil", v, present)
		}
		if med["name"] != "Amoxicillin" {
			t.Errorf("name = %v", med["name"])
		}
	})

	t.Run("undeclared keys survive", func(t *testing.T) {
		data := validPrescription()
		data["summary"] = "antibiotics"
		out := r.Canonicalize(doctype.Prescription, data)
		if out["summary"] != "antibiotics" {
			t.Errorf("summary = %v", out["summary"])
		}
	})

	t.Run("unknown type passes through", func(t *testing.T) {
		data := map[string]any{"a": 1}
		out := r.Canonicalize(doctype.Unknown, data)
		if len(out) != 1 || out["a"] != 1 {
			t.Errorf("out = %v", out)
		}
	})
}
