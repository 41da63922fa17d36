//go:build !integration

package i18n

import (
	"testing"
	"testing/fstest"
)

func TestTranslator(t *testing.T) {
	translator, err := newTranslatorFromBytes([]byte("greeting: Živjo\ntransaction_label: Transakcija %s"))
	if err != nil {
		t.Fatalf("newTranslatorFromBytes failed: %v", err)
	}

	t.Run("should translate a simple key", func(t *testing.T) {
		if got, want := translator.T("greeting"), "Živjo"; got != want {
			t.Errorf("wanted '%s', got '%s'", want, got)
		}
	})

	t.Run("should return key if not found", func(t *testing.T) {
		if got, want := translator.T("nonexistent_key"), "nonexistent_key"; got != want {
			t.Errorf("wanted '%s', got '%s'", want, got)
		}
	})

	t.Run("should format arguments correctly", func(t *testing.T) {
		if got, want := translator.T("transaction_label", "42"), "Transakcija 42"; got != want {
			t.Errorf("wanted '%s', got '%s'", want, got)
		}
	})
}

func TestNewTranslator_FromFS(t *testing.T) {
	fsys := fstest.MapFS{"locales/de.yaml": {Data: []byte("heading_paid: Bezahlt")}}

	tr, err := NewTranslator(fsys, "de")
	if err != nil {
		t.Fatalf("NewTranslator: %v", err)
	}
	if tr.Lang() != "de" || tr.T("heading_paid") != "Bezahlt" {
		t.Fatalf("unexpected translator state: lang=%q heading=%q", tr.Lang(), tr.T("heading_paid"))
	}

	if _, err := NewTranslator(fsys, "fr"); err == nil {
		t.Fatal("expected error for missing locale")
	}
}

func TestEmbeddedLocales_Complete(t *testing.T) {
	en := Default()
	sl, err := NewTranslator(LocalesFS, "sl")
	if err != nil {
		t.Fatalf("load sl: %v", err)
	}
	for key := range en.translations {
		if _, ok := sl.translations[key]; !ok {
			t.Errorf("sl locale is missing %q", key)
		}
	}
	if en.T("payment_received") != "Payment received." {
		t.Errorf("unexpected en text %q", en.T("payment_received"))
	}
}
