package providers

import "testing"

func TestStripCodeFences(t *testing.T) {
	t.Run("no fences", func(t *testing.T) {
		if got := StripCodeFences(`  {"a": 1}  `); got != `{"a": 1}` {
			t.Errorf("got %q", got)
		}
	})

	t.Run("fences with language tag", func(t *testing.T) {
		input := "```json\n{\"a\": 1}\n```"
		if got := StripCodeFences(input); got != `{"a": 1}` {
			t.Errorf("got %q", got)
		}
	})

	t.Run("fences without language tag", func(t *testing.T) {
		input := "```\n{\"a\": 1}\n```"
		if got := StripCodeFences(input); got != `{"a": 1}` {
			t.Errorf("got %q", got)
		}
	})

	t.Run("missing closing fence", func(t *testing.T) {
		input := "```json\n{\"a\": 1}"
		if got := StripCodeFences(input); got != `{"a": 1}` {
			t.Errorf("got %q", got)
		}
	})

	t.Run("multiline body", func(t *testing.T) {
		input := "```json\n{\n  \"a\": 1\n}\n```"
		if got := StripCodeFences(input); got != "{\n  \"a\": 1\n}" {
			t.Errorf("got %q", got)
		}
	})
}

func TestParseJSONObject(t *testing.T) {
	t.Run("plain object", func(t *testing.T) {
		parsed, err := ParseJSONObject(`{"document_type": "prescription", "confidence": 0.9}`)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if parsed["document_type"] != "prescription" {
			t.Errorf("document_type = %v", parsed["document_type"])
		}
		if parsed["confidence"] != 0.9 {
			t.Errorf("confidence = %v", parsed["confidence"])
		}
	})

	t.Run("fenced object", func(t *testing.T) {
		parsed, err := ParseJSONObject("```json\n{\"a\": true}\n```")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if parsed["a"] != true {
			t.Errorf("a = %v", parsed["a"])
		}
	})

	t.Run("not JSON", func(t *testing.T) {
		if _, err := ParseJSONObject("I could not read the document"); err == nil {
			t.Error("expected error for prose response")
		}
	})

	t.Run("JSON array", func(t *testing.T) {
		if _, err := ParseJSONObject(`[1, 2, 3]`); err == nil {
			t.Error("expected error for non-object JSON")
		}
	})

	t.Run("empty", func(t *testing.T) {
		if _, err := ParseJSONObject("   "); err == nil {
			t.Error("expected error for empty response")
		}
	})
}

func TestTruncate(t *testing.T) {
	if got := Truncate("short", 10); got != "short" {
		t.Errorf("got %q", got)
	}
	if got := Truncate("0123456789abcdef", 10); got != "0123456789..." {
		t.Errorf("got %q", got)
	}
}
