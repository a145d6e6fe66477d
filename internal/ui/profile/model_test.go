package profile

import (
	"context"
	"errors"
	"testing"

	"github.com/nhle/prospector/internal/credential"
	"github.com/nhle/prospector/internal/keys"
	"github.com/nhle/prospector/internal/model"
	"github.com/nhle/prospector/tests/testutil"
)

func TestValidators(t *testing.T) {
	if err := validateRequired("Name")("  "); err == nil {
		t.Error("blank name accepted")
	}
	if err := validateRequired("Name")("Alex"); err != nil {
		t.Errorf("name rejected: %v", err)
	}
	for _, ok := range []string{"", "alex@acme.example", "Alex <alex@acme.example>"} {
		if err := validateEmail(ok); err != nil {
			t.Errorf("validateEmail(%q) = %v", ok, err)
		}
	}
	if err := validateEmail("not an address"); err == nil {
		t.Error("invalid email accepted")
	}
}

func TestStartPrefillsFields(t *testing.T) {
	m := New(nil, keys.DefaultKeyMap(), 80, 30)
	m.Start(&model.Profile{Name: " Alex ", Company: "Acme", JobTitle: "AE"})

	got := m.Profile()
	if got.Name != "Alex" || got.Company != "Acme" || got.JobTitle != "AE" {
		t.Errorf("Profile() = %+v", got)
	}

	m.Start(nil)
	if got := m.Profile(); got != (model.Profile{}) {
		t.Errorf("Start(nil) left %+v", got)
	}
}

func TestSavePersistsProfileAndKey(t *testing.T) {
	s := testutil.NewTestStore(t)

	var gotItem, gotValue string
	m := New(s, keys.DefaultKeyMap(), 80, 30).WithSecretSetter(func(item, value string) error {
		gotItem, gotValue = item, value
		return nil
	})
	m.Start(&model.Profile{Name: "Alex", Company: "Acme"})
	m.values.apiKey = " secret "

	msg := m.save()()
	m, cmd := m.Update(msg)
	if cmd == nil {
		t.Fatal("no SavedMsg emitted")
	}
	saved, ok := cmd().(SavedMsg)
	if !ok || saved.Profile.Name != "Alex" {
		t.Fatalf("got %#v", saved)
	}

	if gotItem != credential.APIKeyItem || gotValue != "secret" {
		t.Errorf("secret = %q/%q", gotItem, gotValue)
	}

	p, err := s.LoadProfile(context.Background())
	if err != nil {
		t.Fatalf("LoadProfile: %v", err)
	}
	if p.Company != "Acme" {
		t.Errorf("stored profile = %+v", p)
	}
}

func TestSaveErrorKeepsFormOpen(t *testing.T) {
	m := New(nil, keys.DefaultKeyMap(), 80, 30).WithSecretSetter(func(string, string) error {
		return errors.New("keyring locked")
	})
	m.Start(&model.Profile{Name: "Alex"})
	m.values.apiKey = "k"

	m, _ = m.Update(m.save()())
	if m.err == nil {
		t.Fatal("error not recorded")
	}
	if m.form == nil {
		t.Error("form closed after failed save")
	}
}
