package nictax

import (
	"errors"
	"testing"

	"github.com/cmlabs-hris/hris-payrun-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpdateNICTaxRequest_Validate(t *testing.T) {
	const employeeID = "01940000-0000-7000-8000-00000000000a"
	draft := StatusDraft
	bogus := Status("Closed")

	tests := []struct {
		name      string
		req       UpdateNICTaxRequest
		wantField string
	}{
		{name: "status only", req: UpdateNICTaxRequest{ID: "nt-1", Status: &draft}},
		{name: "valid entries", req: UpdateNICTaxRequest{ID: "nt-1", Entries: &[]Entry{{EmployeeID: employeeID, EesNIC: decimal.NewFromInt(2)}}}},
		{name: "nothing to change", req: UpdateNICTaxRequest{ID: "nt-1"}, wantField: "entries"},
		{name: "unknown status", req: UpdateNICTaxRequest{ID: "nt-1", Status: &bogus}, wantField: "status"},
		{name: "employee id not a uuid", req: UpdateNICTaxRequest{ID: "nt-1", Entries: &[]Entry{{EmployeeID: "abc"}}}, wantField: "entries[0].employee_id"},
		{name: "negative tax", req: UpdateNICTaxRequest{ID: "nt-1", Entries: &[]Entry{{EmployeeID: employeeID, EesTax: decimal.NewFromInt(-3)}}}, wantField: "entries[0].ees_tax"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()

			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var verrs validator.ValidationErrors
			require.True(t, errors.As(err, &verrs))
			assert.Contains(t, verrs.ToMap(), tt.wantField)
		})
	}
}
