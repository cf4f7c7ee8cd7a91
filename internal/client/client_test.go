package client

import (
	"testing"
	"time"
)

func TestStatusLabelRoundTrip(t *testing.T) {
	for _, s := range Statuses() {
		label := LabelOf(s)
		got, ok := StatusFromLabel(label)
		if !ok {
			t.Errorf("StatusFromLabel(%q) not recognized", label)
			continue
		}
		if got != s {
			t.Errorf("StatusFromLabel(LabelOf(%q)) = %q", s, got)
		}
	}
}

func TestStatuses_Order(t *testing.T) {
	got := Statuses()
	if len(got) != 6 {
		t.Fatalf("len(Statuses()) = %d, want 6", len(got))
	}
	if got[0] != StatusNotContacted || got[5] != StatusRejected {
		t.Errorf("Statuses() = %v, want pipeline order", got)
	}

	// Callers get a copy
	got[0] = StatusClosed
	if Statuses()[0] != StatusNotContacted {
		t.Error("Statuses() returned shared slice")
	}
}

func TestStatusFromLabel_Unknown(t *testing.T) {
	tests := []string{"", "fechado", "Closed", "Pendente", " Fechado"}
	for _, label := range tests {
		if s, ok := StatusFromLabel(label); ok {
			t.Errorf("StatusFromLabel(%q) = %q, want not found", label, s)
		}
	}
}

func TestLabelOf(t *testing.T) {
	tests := []struct {
		status Status
		want   string
	}{
		{StatusNotContacted, "Não Contatado"},
		{StatusContacted, "Contatado"},
		{StatusResponded, "Respondeu"},
		{StatusProposalSent, "Proposta Enviada"},
		{StatusClosed, "Fechado"},
		{StatusRejected, "Recusado"},
		{Status("bogus"), "Não Contatado"},
	}
	for _, tt := range tests {
		if got := LabelOf(tt.status); got != tt.want {
			t.Errorf("LabelOf(%q) = %q, want %q", tt.status, got, tt.want)
		}
	}
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		input string
		want  Status
		ok    bool
	}{
		{"closed", StatusClosed, true},
		{"CLOSED", StatusClosed, true},
		{" proposal_sent ", StatusProposalSent, true},
		{"Fechado", StatusClosed, true},
		{"Proposta Enviada", StatusProposalSent, true},
		{"nope", "", false},
	}
	for _, tt := range tests {
		got, ok := ParseStatus(tt.input)
		if ok != tt.ok || got != tt.want {
			t.Errorf("ParseStatus(%q) = (%q, %v), want (%q, %v)", tt.input, got, ok, tt.want, tt.ok)
		}
	}
}

func TestStatus_InProgress(t *testing.T) {
	want := map[Status]bool{
		StatusNotContacted: false,
		StatusContacted:    true,
		StatusResponded:    true,
		StatusProposalSent: true,
		StatusClosed:       true,
		StatusRejected:     false,
	}
	for s, w := range want {
		if s.InProgress() != w {
			t.Errorf("%q.InProgress() = %v, want %v", s, !w, w)
		}
	}
}

func TestSameName(t *testing.T) {
	if !SameName("Pizza Place", "pizza place") {
		t.Error("SameName should ignore case")
	}
	if !SameName("AÇAÍ DO ZÉ", "açaí do zé") {
		t.Error("SameName should fold non-ASCII case")
	}
	if SameName("Pizza Place", "Pizza  Place") {
		t.Error("SameName should not collapse whitespace")
	}
	if SameName("", "") {
		t.Error("SameName should never match blank names")
	}
	if SameName("  ", "  ") {
		t.Error("SameName should treat whitespace-only names as blank")
	}
}

func TestClone_DetachesPointers(t *testing.T) {
	v := 100.0
	l := 3
	c := Client{ID: "a", Value: &v, InterestLevel: &l}

	cl := c.Clone()
	*cl.Value = 5
	*cl.InterestLevel = 1

	if *c.Value != 100 || *c.InterestLevel != 3 {
		t.Error("Clone shares pointer fields with original")
	}
}

func TestInterestAndDealValue_NilDefaults(t *testing.T) {
	var c Client
	if c.Interest() != 0 {
		t.Errorf("Interest() = %d, want 0", c.Interest())
	}
	if c.DealValue() != 0 {
		t.Errorf("DealValue() = %v, want 0", c.DealValue())
	}
}

func TestToSummary(t *testing.T) {
	now := time.Now()
	c := Client{ID: "x", Name: "Bar", Status: StatusClosed, Notes: "secret", CreatedAt: now, UpdatedAt: now}
	s := c.ToSummary()
	if s.StatusLabel != "Fechado" {
		t.Errorf("StatusLabel = %q, want Fechado", s.StatusLabel)
	}
	if s.Name != "Bar" || s.ID != "x" {
		t.Errorf("summary = %+v", s)
	}
}
