package bills

import (
	"context"
	"fmt"
	"time"

	"github.com/finbook/finbook-backend/internal/ledger"
)

// Service runs the bill lifecycle. The only transition with side effects
// is into "paid": it books a debit for the amount due through the ledger
// engine, exactly once.
type Service struct {
	Repo   *Repository
	Booker *ledger.Booker
}

func NewService(repo *Repository, booker *ledger.Booker) *Service {
	return &Service{Repo: repo, Booker: booker}
}

// UpdateResult reports the saved bill and whether it was marked paid with
// no account to pay from, so callers can surface the bookkeeping-only case
// instead of guessing.
type UpdateResult struct {
	Bill               Bill `json:"bill"`
	PaidWithoutPayment bool `json:"paid_without_payment,omitempty"`
}

// paymentDecision is the pure transition guard, separated from the
// database work so it can be tested directly.
type paymentDecision struct {
	bookPayment        bool
	accountID          string
	paidWithoutPayment bool
}

// resolvePayment decides what the "paid" transition should do. The patch
// is already applied to b. Re-saving an already-paid bill as "paid" books
// nothing; a bill with no resolvable account is marked paid without money
// movement.
func resolvePayment(previousStatus string, b Bill, patch Patch) paymentDecision {
	markingPaid := patch.Status != nil && *patch.Status == StatusPaid && previousStatus != StatusPaid
	if !markingPaid {
		return paymentDecision{}
	}

	acctID := ""
	if b.AccountID != nil && *b.AccountID != "" {
		acctID = *b.AccountID
	} else if patch.AccountID != nil && *patch.AccountID != "" {
		acctID = *patch.AccountID
	}
	if acctID == "" {
		return paymentDecision{paidWithoutPayment: true}
	}
	return paymentDecision{bookPayment: true, accountID: acctID}
}

// Update applies the patch in memory, persists the bill's fields in one
// commit, and then, when the bill just transitioned to paid with a usable
// account, books the payment as a debit. The booking is a separate
// database interaction: if it fails the bill row already says "paid" and
// the error is surfaced to the caller rather than swallowed.
func (s *Service) Update(ctx context.Context, bill Bill, patch Patch) (UpdateResult, error) {
	previousStatus := bill.Status
	applyPatch(&bill, patch)
	decision := resolvePayment(previousStatus, bill, patch)

	saved, err := s.Repo.save(ctx, bill)
	if err != nil {
		return UpdateResult{}, err
	}

	if decision.bookPayment {
		_, err := s.Booker.Book(ctx, decision.accountID, ledger.Intent{
			Description: fmt.Sprintf("Bill payment: %s", saved.BillerName),
			Category:    "bills",
			Amount:      saved.AmountDue,
			Currency:    "USD",
			TxnType:     ledger.TypeDebit,
			Merchant:    saved.BillerName,
			TxnDate:     time.Now().UTC(),
		})
		if err != nil {
			return UpdateResult{Bill: saved}, fmt.Errorf("could not record bill payment transaction: %w", err)
		}
	}

	return UpdateResult{Bill: saved, PaidWithoutPayment: decision.paidWithoutPayment}, nil
}

func applyPatch(b *Bill, p Patch) {
	if p.AccountID != nil && *p.AccountID != "" {
		b.AccountID = p.AccountID
	}
	if p.BillerName != nil && *p.BillerName != "" {
		b.BillerName = *p.BillerName
	}
	if p.DueDate != nil {
		b.DueDate = *p.DueDate
	}
	if p.AmountDue != nil {
		b.AmountDue = *p.AmountDue
	}
	if p.Status != nil && *p.Status != "" {
		b.Status = *p.Status
	}
	if p.AutoPay != nil {
		b.AutoPay = *p.AutoPay
	}
}
