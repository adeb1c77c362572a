package payments

import (
	"context"
	"fmt"

	"github.com/gigmarket-payments/internal/domain/job"
	"github.com/gigmarket-payments/internal/domain/outbox"
	"github.com/gigmarket-payments/internal/domain/transaction"
	"github.com/gigmarket-payments/internal/domain/wallet"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CalculateEscrowAmount returns the amount an employer must fund before work
// on the job starts. Contract jobs escrow the sum of their milestones, zero
// while no milestones are defined; every other job type escrows the budget.
func (s *Service) CalculateEscrowAmount(ctx context.Context, jobID uuid.UUID) (int64, error) {
	j, err := s.jobs.GetJob(ctx, jobID)
	if err != nil {
		return 0, err
	}

	if j.Type == job.TypeContract {
		return s.jobs.SumMilestoneAmounts(ctx, jobID)
	}
	return j.Budget, nil
}

// HoldEscrow debits the escrow amount from the employer and records it as a
// pending transaction with both parties set to the employer. The hold row and
// the debit commit in one database transaction, so a hold never exists without
// the funds it represents having left the employer's wallet. The hold stays
// pending until it is released to a payee or cancelled back to the employer.
func (s *Service) HoldEscrow(ctx context.Context, employerID, jobID uuid.UUID) (*transaction.Transaction, error) {
	j, err := s.jobs.GetJob(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if j.EmployerID != employerID {
		return nil, ErrAccessDenied
	}

	amount, err := s.CalculateEscrowAmount(ctx, jobID)
	if err != nil {
		return nil, err
	}
	if amount <= 0 {
		return nil, wallet.ErrInvalidAmount
	}
	if err := s.checkSender(ctx, employerID, amount); err != nil {
		return nil, err
	}

	hold, err := transaction.New(transaction.TypeJobPayment, employerID, employerID, amount,
		fmt.Sprintf("Escrow hold for job %s", jobID), transaction.Links{JobID: &jobID})
	if err != nil {
		return nil, err
	}
	hold.CorrelationID = correlationID(ctx)

	err = s.runner.ExecuteTx(ctx, func(tx pgx.Tx) error {
		if err := s.txns.WithTx(tx).Create(ctx, hold); err != nil {
			return err
		}
		if err := s.wallets.WithTx(tx).Debit(ctx, employerID, amount); err != nil {
			return err
		}
		msg, err := outbox.NewMessage(hold)
		if err != nil {
			return err
		}
		return s.outbox.WithTx(tx).Create(ctx, msg)
	})
	if err != nil {
		s.logger.Error("Failed to hold escrow",
			"job_id", jobID.String(),
			"amount", amount,
			"error", err)
		return nil, err
	}

	s.logger.Info("Escrow held",
		"transaction_id", hold.ID.String(),
		"job_id", jobID.String(),
		"amount", amount)
	return hold, nil
}

// ReleaseEscrow completes a pending escrow hold by crediting the held amount
// to the given payee. When the hold's job has an assigned worker the payee
// must be that worker. A release transaction records the transfer; the hold
// itself moves to completed in the same database transaction, which makes a
// double release impossible.
func (s *Service) ReleaseEscrow(ctx context.Context, holdID, toUserID uuid.UUID) (*transaction.Transaction, error) {
	hold, err := s.txns.GetByID(ctx, holdID)
	if err != nil {
		return nil, err
	}
	if !hold.IsEscrowHold() {
		return nil, ErrNotEscrowHold
	}
	if hold.Status != transaction.StatusPending {
		return nil, transaction.ErrAlreadyProcessed{ID: holdID}
	}
	if toUserID == hold.FromUserID {
		return nil, ErrSelfPayment
	}

	j, err := s.jobs.GetJob(ctx, *hold.Links.JobID)
	if err != nil {
		return nil, err
	}
	if j.WorkerID == nil || *j.WorkerID != toUserID {
		return nil, ErrNoAssignedWorker
	}
	if err := s.checkReceiver(ctx, toUserID); err != nil {
		return nil, err
	}

	links := transaction.Links{JobID: hold.Links.JobID, OriginalTransactionID: &hold.ID}
	release, err := transaction.New(transaction.TypeJobPayment, hold.FromUserID, toUserID, hold.Amount,
		fmt.Sprintf("Escrow release for job %s", j.ID), links)
	if err != nil {
		return nil, err
	}
	release.CorrelationID = correlationID(ctx)
	if err := s.txns.Create(ctx, release); err != nil {
		return nil, err
	}

	err = s.runner.ExecuteTx(ctx, func(tx pgx.Tx) error {
		if err := s.wallets.WithTx(tx).Credit(ctx, toUserID, hold.Amount); err != nil {
			return err
		}

		releasedHold := *hold
		if err := releasedHold.Complete(); err != nil {
			return err
		}
		if err := s.txns.WithTx(tx).Update(ctx, &releasedHold, transaction.StatusPending); err != nil {
			return err
		}

		completed := *release
		if err := completed.Complete(); err != nil {
			return err
		}
		if err := s.txns.WithTx(tx).Update(ctx, &completed, transaction.StatusPending); err != nil {
			return err
		}

		for _, txn := range []*transaction.Transaction{&releasedHold, &completed} {
			msg, err := outbox.NewMessage(txn)
			if err != nil {
				return err
			}
			if err := s.outbox.WithTx(tx).Create(ctx, msg); err != nil {
				return err
			}
		}
		*release = completed
		return nil
	})
	if err != nil {
		s.markFailed(ctx, release, err.Error())
		return release, err
	}

	s.logger.Info("Escrow released",
		"hold_id", hold.ID.String(),
		"release_id", release.ID.String(),
		"to_user_id", toUserID.String(),
		"amount", hold.Amount)
	s.notifyOneSided(ctx, release, toUserID, DirectionReceived,
		fmt.Sprintf("You received %s", FormatAmount(release.Amount)))
	return release, nil
}

// CancelEscrow voids a pending escrow hold and returns the held amount to
// the employer
func (s *Service) CancelEscrow(ctx context.Context, holdID uuid.UUID) (*transaction.Transaction, error) {
	hold, err := s.txns.GetByID(ctx, holdID)
	if err != nil {
		return nil, err
	}
	if !hold.IsEscrowHold() {
		return nil, ErrNotEscrowHold
	}
	return s.CancelTransaction(ctx, holdID)
}
