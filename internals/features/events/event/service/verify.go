package service

import (
	"context"
	"errors"
	"time"

	amodel "eventhub_backend/internals/features/authorization/model"
	"eventhub_backend/internals/features/events/event/repository"

	"eventhub_backend/internals/apperror"
)

// verificationGrace is how far outside the scheduled event window a code
// may still be scanned.
const verificationGrace = time.Hour

// VerifyAttendance marks a registration as attended, keyed by the
// event-scoped attendance code. The check-and-mark is atomic inside the
// store transaction; of two concurrent scans exactly one wins and the
// other receives a conflict naming the first verifier. Scanning is only
// allowed from one hour before start until one hour after scheduled end,
// regardless of permission.
func (s *EventService) VerifyAttendance(ctx context.Context, eventID, verifierID uint, attendanceCode string) (*repository.VerifiedAttendee, error) {
	event, err := s.getWithState(ctx, eventID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	windowOpen := event.EventStartAt.Add(-verificationGrace)
	windowClose := event.EndAt().Add(verificationGrace)
	if now.Before(windowOpen) || now.After(windowClose) {
		return nil, apperror.Conflict(apperror.CodeVerificationClosed, "Attendance can only be verified around the event time")
	}

	if _, err := s.resolve(ctx, event, verifierID, amodel.PermissionScanCode); err != nil {
		return nil, err
	}

	verified, err := s.store.VerifyAttendance(ctx, eventID, verifierID, attendanceCode, now)
	if err != nil {
		if errors.Is(err, repository.ErrCodeNotFound) {
			return nil, apperror.Validation(apperror.CodeInvalidAttendanceCode, "Invalid attendance code")
		}
		var conflict *repository.AlreadyVerifiedError
		if errors.As(err, &conflict) {
			meta := map[string]interface{}{
				"verified_at": conflict.VerifiedAt,
			}
			if conflict.Verifier != nil {
				meta["verifier"] = conflict.Verifier
			}
			return nil, apperror.ConflictWithMeta(apperror.CodeAlreadyVerified, "Attendance already verified", meta)
		}
		return nil, apperror.Internal(err)
	}

	return verified, nil
}
