package nictax

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/cmlabs-hris/hris-payrun-go/internal/domain/nictax"
	"github.com/cmlabs-hris/hris-payrun-go/internal/domain/shared"
)

type NICTaxServiceImpl struct {
	txManager  shared.TxManager
	nicTaxRepo nictax.NICTaxRepository
	payRuns    nictax.PayRunLink
}

func NewNICTaxService(
	txManager shared.TxManager,
	nicTaxRepo nictax.NICTaxRepository,
	payRuns nictax.PayRunLink,
) nictax.NICTaxService {
	return &NICTaxServiceImpl{
		txManager:  txManager,
		nicTaxRepo: nicTaxRepo,
		payRuns:    payRuns,
	}
}

// Update edits a NIC/Tax record. Once approved, the only allowed edit is a
// plain reversion to Draft; pay approved records are released only by
// reverting the pay run that approved them.
func (s *NICTaxServiceImpl) Update(ctx context.Context, req nictax.UpdateNICTaxRequest) (nictax.NICTaxResponse, error) {
	if err := req.Validate(); err != nil {
		return nictax.NICTaxResponse{}, err
	}

	organizationID, _, err := shared.ClaimsFromContext(ctx)
	if err != nil {
		return nictax.NICTaxResponse{}, err
	}

	var updated nictax.NICTax
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		current, err := s.nicTaxRepo.GetByID(txCtx, req.ID, organizationID)
		if err != nil {
			return err
		}

		if err := checkEdit(current.Status, req); err != nil {
			return err
		}

		next := current
		if req.Status != nil {
			next.Status = *req.Status
		}
		if req.Entries != nil {
			next.Entries = *req.Entries
		}

		if err := s.nicTaxRepo.Update(txCtx, next); err != nil {
			return err
		}

		if req.Entries != nil {
			if changed := changedEmployees(current.Entries, next.Entries); len(changed) > 0 {
				if err := s.payRuns.MarkNICTaxEdited(txCtx, organizationID, current.ID, changed); err != nil {
					return fmt.Errorf("failed to flag pay runs: %w", err)
				}
			}
		}

		updated = next
		return nil
	})
	if err != nil {
		return nictax.NICTaxResponse{}, err
	}

	slog.InfoContext(ctx, "nic/tax record updated",
		slog.String("nic_tax_id", updated.ID),
		slog.String("organization_id", organizationID),
		slog.String("status", string(updated.Status)),
	)

	return nictax.ToResponse(updated), nil
}

func checkEdit(current nictax.Status, req nictax.UpdateNICTaxRequest) error {
	switch current {
	case nictax.StatusApproved:
		if req.Entries != nil || req.Status == nil || *req.Status != nictax.StatusDraft {
			return nictax.ErrNICTaxImmutable
		}
	case nictax.StatusPayApproved:
		return nictax.ErrNICTaxImmutable
	case nictax.StatusDraft:
		if req.Status != nil && *req.Status == nictax.StatusPayApproved {
			return fmt.Errorf("%w: %s to %s", nictax.ErrInvalidStatusChange, current, *req.Status)
		}
	}
	return nil
}

// changedEmployees returns, sorted, the employees whose summed figures differ
// between before and after.
func changedEmployees(before, after []nictax.Entry) []string {
	sum := func(entries []nictax.Entry) map[string]nictax.Entry {
		out := make(map[string]nictax.Entry, len(entries))
		for _, e := range entries {
			acc := out[e.EmployeeID]
			acc.EmployeeID = e.EmployeeID
			acc.EesNIC = acc.EesNIC.Add(e.EesNIC)
			acc.ErNIC = acc.ErNIC.Add(e.ErNIC)
			acc.EesTax = acc.EesTax.Add(e.EesTax)
			out[e.EmployeeID] = acc
		}
		return out
	}

	old := sum(before)
	cur := sum(after)

	var changed []string
	for id, e := range cur {
		prev, ok := old[id]
		if !ok || !prev.EesNIC.Equal(e.EesNIC) || !prev.ErNIC.Equal(e.ErNIC) || !prev.EesTax.Equal(e.EesTax) {
			changed = append(changed, id)
		}
	}
	for id := range old {
		if _, ok := cur[id]; !ok {
			changed = append(changed, id)
		}
	}
	sort.Strings(changed)
	return changed
}
