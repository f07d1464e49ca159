package nictax

import "context"

type NICTaxService interface {
	Update(ctx context.Context, req UpdateNICTaxRequest) (NICTaxResponse, error)
}

// PayRunLink is the view of the pay run engine a NIC/Tax record needs when edited.
type PayRunLink interface {
	MarkNICTaxEdited(ctx context.Context, organizationID, nicTaxID string, employeeIDs []string) error
}
