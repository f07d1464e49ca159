package employee

import (
	"strings"
	"time"
)

type Employee struct {
	ID             string
	OrganizationID string
	LocationID     *string
	FirstName      string
	LastName       string
	PreferredName  *string
	PayrollID      *string
	PayStructure   *PayStructure
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// DisplayName prefers the preferred name over the first name.
func (e Employee) DisplayName() string {
	first := e.FirstName
	if e.PreferredName != nil && strings.TrimSpace(*e.PreferredName) != "" {
		first = *e.PreferredName
	}
	return strings.TrimSpace(first + " " + e.LastName)
}
