package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	evmodel "eventhub_backend/internals/features/events/event/model"
	"eventhub_backend/internals/features/events/invite/model"
	umodel "eventhub_backend/internals/features/users/user/model"
)

// ErrNotPending reports a status transition attempted on an invite that is
// no longer PENDING. The conditional update is the race guard; callers map
// this to a conflict.
var ErrNotPending = errors.New("invite is not pending")

type InviteRepository struct {
	db *gorm.DB
}

func New(db *gorm.DB) *InviteRepository {
	return &InviteRepository{db: db}
}

func (r *InviteRepository) Create(ctx context.Context, invite *model.InviteModel) error {
	return r.db.WithContext(ctx).Create(invite).Error
}

func (r *InviteRepository) GetByID(ctx context.Context, inviteID uint) (*model.InviteModel, error) {
	var invite model.InviteModel
	err := r.db.WithContext(ctx).First(&invite, "invite_id = ?", inviteID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &invite, nil
}

// Accept flips a PENDING invite to ACCEPTED and inserts the membership row
// it grants, atomically. The status predicate in the UPDATE makes a
// concurrent double-accept lose with ErrNotPending instead of inserting a
// second membership.
func (r *InviteRepository) Accept(ctx context.Context, inviteID uint, member *evmodel.UserEventRoleModel) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.InviteModel{}).
			Where("invite_id = ? AND invite_status = ?", inviteID, model.InvitePending).
			Update("invite_status", model.InviteAccepted)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotPending
		}
		return tx.Create(member).Error
	})
}

func (r *InviteRepository) DeclineIfPending(ctx context.Context, inviteID uint) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.InviteModel{}).
		Where("invite_id = ? AND invite_status = ?", inviteID, model.InvitePending).
		Update("invite_status", model.InviteDeclined)
	return res.RowsAffected, res.Error
}

// ResendIfDeclined reopens a declined invite in place, refreshing its
// creation time so it surfaces as new to the receiver.
func (r *InviteRepository) ResendIfDeclined(ctx context.Context, inviteID, senderID uint, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&model.InviteModel{}).
		Where("invite_id = ? AND invite_sender_id = ? AND invite_status = ?", inviteID, senderID, model.InviteDeclined).
		Updates(map[string]interface{}{
			"invite_status": model.InvitePending,
			"created_at":    now,
		})
	return res.RowsAffected, res.Error
}

/* =========================================================
 * Read projections
 * ========================================================= */

type InviteDetails struct {
	Invite   model.InviteModel `json:"invite"`
	Event    evmodel.EventModel `json:"event"`
	Sender   umodel.PublicUser  `json:"sender"`
	Receiver umodel.PublicUser  `json:"receiver"`
}

func (r *InviteRepository) Details(ctx context.Context, inviteID uint) (*InviteDetails, error) {
	invite, err := r.GetByID(ctx, inviteID)
	if err != nil || invite == nil {
		return nil, err
	}

	var event evmodel.EventModel
	if err := r.db.WithContext(ctx).First(&event, "event_id = ?", invite.InviteEventID).Error; err != nil {
		return nil, err
	}

	var sender, receiver umodel.UserModel
	if err := r.db.WithContext(ctx).First(&sender, "user_id = ?", invite.InviteSenderID).Error; err != nil {
		return nil, err
	}
	if err := r.db.WithContext(ctx).First(&receiver, "user_id = ?", invite.InviteReceiverID).Error; err != nil {
		return nil, err
	}

	return &InviteDetails{
		Invite:   *invite,
		Event:    event,
		Sender:   sender.Public(),
		Receiver: receiver.Public(),
	}, nil
}

type InviteRow struct {
	Invite   model.InviteModel `json:"invite"`
	Receiver umodel.PublicUser `json:"receiver"`
}

func (r *InviteRepository) ListByEvent(ctx context.Context, eventID uint, offset, limit int) ([]InviteRow, error) {
	var rows []struct {
		model.InviteModel
		umodel.UserModel
	}
	err := r.db.WithContext(ctx).
		Table("invites").
		Select("invites.*, users.*").
		Joins("JOIN users ON users.user_id = invites.invite_receiver_id").
		Where("invite_event_id = ?", eventID).
		Order("invites.created_at DESC").
		Offset(offset).Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	invites := make([]InviteRow, 0, len(rows))
	for _, row := range rows {
		invites = append(invites, InviteRow{
			Invite:   row.InviteModel,
			Receiver: row.UserModel.Public(),
		})
	}
	return invites, nil
}
