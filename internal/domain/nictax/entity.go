package nictax

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status of a NIC/Tax document.
type Status string

const (
	StatusDraft       Status = "Draft"
	StatusApproved    Status = "Approved"
	StatusPayApproved Status = "Pay Approved"
)

// PayableStatuses are the statuses a pay run reads source documents in.
var PayableStatuses = []Status{StatusDraft, StatusApproved, StatusPayApproved}

func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusApproved, StatusPayApproved:
		return true
	}
	return false
}

// NICTax is a National Insurance and tax document covering a date window.
type NICTax struct {
	ID             string
	OrganizationID string
	Name           string
	StartDate      time.Time
	EndDate        time.Time
	Status         Status
	Entries        []Entry
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

type Entry struct {
	EmployeeID string          `json:"employee_id"`
	EesNIC     decimal.Decimal `json:"ees_nic"`
	ErNIC      decimal.Decimal `json:"er_nic"`
	EesTax     decimal.Decimal `json:"ees_tax"`
}

func (n NICTax) EmployeeIDs() []string {
	seen := make(map[string]struct{}, len(n.Entries))
	ids := make([]string, 0, len(n.Entries))
	for _, e := range n.Entries {
		if _, ok := seen[e.EmployeeID]; ok {
			continue
		}
		seen[e.EmployeeID] = struct{}{}
		ids = append(ids, e.EmployeeID)
	}
	return ids
}
