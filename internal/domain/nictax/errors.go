package nictax

import (
	"fmt"

	"github.com/cmlabs-hris/hris-payrun-go/internal/domain/shared"
)

var (
	ErrNICTaxNotFound      = fmt.Errorf("%w: nic/tax record not found", shared.ErrNotFound)
	ErrNICTaxImmutable     = fmt.Errorf("%w: approved nic/tax record can only be reverted to draft", shared.ErrImmutability)
	ErrInvalidStatusChange = fmt.Errorf("%w: invalid nic/tax status change", shared.ErrPrecondition)
)
