// ABOUTME: Tests for the role-specific dashboard component
// ABOUTME: Verifies each role renders its own overview panels

package dashboard

import (
	"strings"
	"testing"

	"github.com/medquery/medquery-cli/internal/client"
)

func TestView_NilProfile(t *testing.T) {
	d := New(nil, 80, 24)
	view := d.View()
	if !strings.Contains(view, "Loading profile") {
		t.Error("expected loading placeholder for nil profile")
	}
}

func TestView_DoctorPanels(t *testing.T) {
	d := New(&client.Profile{
		FullName:       "Demo Doctor",
		Role:           "doctor",
		Institution:    "St. Mary's Hospital",
		Specialization: "Cardiology",
	}, 100, 40)

	view := d.View()

	if !strings.Contains(view, "Welcome, Demo Doctor") {
		t.Error("expected welcome line")
	}
	if !strings.Contains(view, "Patients") {
		t.Error("expected patients panel for doctor")
	}
	if !strings.Contains(view, "St. Mary's Hospital") {
		t.Error("expected institution line")
	}
}

func TestView_ResearcherPanels(t *testing.T) {
	d := New(&client.Profile{FullName: "R. Chen", Role: "researcher"}, 100, 40)

	view := d.View()
	if !strings.Contains(view, "Studies") {
		t.Error("expected studies panel for researcher")
	}
	if !strings.Contains(view, "Datasets") {
		t.Error("expected datasets panel for researcher")
	}
}

func TestView_PatientPanels(t *testing.T) {
	d := New(&client.Profile{FullName: "Pat Patient", Role: "patient"}, 100, 40)

	view := d.View()
	if !strings.Contains(view, "Records") {
		t.Error("expected records panel for patient")
	}
	if !strings.Contains(view, "appointments") {
		t.Error("expected appointments section for patient")
	}
}

func TestView_AdminPanels(t *testing.T) {
	d := New(&client.Profile{FullName: "Ada Admin", Role: "admin"}, 100, 40)

	view := d.View()
	if !strings.Contains(view, "Users") {
		t.Error("expected users panel for admin")
	}
	if !strings.Contains(view, "System status") {
		t.Error("expected system status section for admin")
	}
}

func TestUpdate_SwapsProfile(t *testing.T) {
	d := New(&client.Profile{FullName: "Demo Doctor", Role: "doctor"}, 100, 40)
	d.Update(&client.Profile{FullName: "Other Person", Role: "patient"})

	view := d.View()
	if !strings.Contains(view, "Other Person") {
		t.Error("expected updated profile name")
	}
	if strings.Contains(view, "Demo Doctor") {
		t.Error("expected old profile replaced")
	}
}
