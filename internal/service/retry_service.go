package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/mhoang/assessforms/internal/dto"
	"github.com/mhoang/assessforms/internal/queue"
)

// RetryService drains the local durable queue: one pass over the current
// snapshot, re-committing each entry through the same Committer the
// pipeline uses. It is kicked once per process start after an idle delay
// and can be invoked by an operator; it is not a periodic job.
type RetryService interface {
	DrainOnce(ctx context.Context) (dto.DrainSummaryDTO, error)
}

type retryService struct {
	pending   *queue.Queue
	committer Committer
}

func NewRetryService(pending *queue.Queue, committer Committer) RetryService {
	return &retryService{pending: pending, committer: committer}
}

func (s *retryService) DrainOnce(ctx context.Context) (dto.DrainSummaryDTO, error) {
	entries, err := s.pending.ListAll()
	if err != nil {
		return dto.DrainSummaryDTO{}, err
	}

	var summary dto.DrainSummaryDTO
	removed := 0
	for i, entry := range entries {
		// The queued record is resubmitted as-is; QueuedAt is queue
		// bookkeeping and never reaches the backend.
		if err := s.committer.Commit(ctx, entry.FormID, entry.Record); err != nil {
			// One failed entry never aborts the pass.
			summary.Failed++
			log.Warn().Err(err).Str("formID", entry.FormID).Time("queuedAt", entry.QueuedAt).
				Msg("Retry commit failed, submission stays queued")
			continue
		}
		if err := s.pending.RemoveAt(i - removed); err != nil {
			summary.Failed++
			log.Error().Err(err).Str("formID", entry.FormID).
				Msg("Committed a queued submission but failed to remove it from the queue")
			continue
		}
		removed++
		summary.Successful++
	}

	remaining, err := s.pending.Len()
	if err != nil {
		return summary, err
	}
	summary.Remaining = remaining

	if summary.Successful > 0 || summary.Failed > 0 {
		log.Info().Int("successful", summary.Successful).Int("failed", summary.Failed).
			Int("remaining", summary.Remaining).Msg("Submission queue drain pass finished")
	}
	return summary, nil
}
