package client

import "strings"

// Status is a pipeline stage.
type Status string

const (
	StatusNotContacted Status = "not_contacted"
	StatusContacted    Status = "contacted"
	StatusResponded    Status = "responded"
	StatusProposalSent Status = "proposal_sent"
	StatusClosed       Status = "closed"
	StatusRejected     Status = "rejected"
)

// statusOrder lists statuses in pipeline order.
var statusOrder = []Status{
	StatusNotContacted,
	StatusContacted,
	StatusResponded,
	StatusProposalSent,
	StatusClosed,
	StatusRejected,
}

// statusLabels maps each status to the label shown in spreadsheets.
var statusLabels = map[Status]string{
	StatusNotContacted: "Não Contatado",
	StatusContacted:    "Contatado",
	StatusResponded:    "Respondeu",
	StatusProposalSent: "Proposta Enviada",
	StatusClosed:       "Fechado",
	StatusRejected:     "Recusado",
}

var labelStatuses = func() map[string]Status {
	m := make(map[string]Status, len(statusLabels))
	for s, l := range statusLabels {
		m[l] = s
	}
	return m
}()

// Statuses returns all statuses in pipeline order.
func Statuses() []Status {
	out := make([]Status, len(statusOrder))
	copy(out, statusOrder)
	return out
}

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	_, ok := statusLabels[s]
	return ok
}

// InProgress reports whether the client has been engaged (contacted through closed).
func (s Status) InProgress() bool {
	switch s {
	case StatusContacted, StatusResponded, StatusProposalSent, StatusClosed:
		return true
	}
	return false
}

// LabelOf returns the human label for a status.
// Unknown values fall back to the not_contacted label.
func LabelOf(s Status) string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return statusLabels[StatusNotContacted]
}

// StatusFromLabel maps a spreadsheet label back to its status.
// The match is exact; ok is false for anything unrecognized.
func StatusFromLabel(label string) (Status, bool) {
	s, ok := labelStatuses[label]
	return s, ok
}

// ParseStatus accepts either a status value ("closed") or its label ("Fechado").
func ParseStatus(s string) (Status, bool) {
	s = strings.TrimSpace(s)
	if st := Status(strings.ToLower(s)); st.Valid() {
		return st, true
	}
	return StatusFromLabel(s)
}
