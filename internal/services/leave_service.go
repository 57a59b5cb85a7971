package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"sadhna-backend/internal/models"
	"sadhna-backend/internal/realtime"
	"sadhna-backend/internal/repositories"
	"sadhna-backend/internal/timeutil"
)

type LeaveStore interface {
	Create(ctx context.Context, l *models.Leave) error
	Get(ctx context.Context, id int) (*models.Leave, error)
	ListByUser(ctx context.Context, userID int) ([]*models.Leave, error)
	ListAll(ctx context.Context) ([]*models.Leave, error)
	UpdateStatus(ctx context.Context, id int, from, to string) (time.Time, error)
}

// Caller is the authenticated identity behind a request.
type Caller struct {
	UserID   int
	Username string
	Role     string
}

func (c Caller) IsAdmin() bool { return c.Role == models.RoleAdmin }

// CanManage reports whether the caller may act for other users.
func (c Caller) CanManage() bool {
	return c.Role == models.RoleAdmin || c.Role == models.RoleManager
}

type LeaveService struct {
	store  LeaveStore
	users  UserGetter
	events realtime.Publisher
}

func NewLeaveService(store LeaveStore, users UserGetter, events realtime.Publisher) *LeaveService {
	if events == nil {
		events = realtime.Nop{}
	}
	return &LeaveService{store: store, users: users, events: events}
}

func leaveAudience(ownerID int) realtime.Audience {
	return realtime.Audience{
		UserIDs: []int{ownerID},
		Roles:   []string{models.RoleAdmin, models.RoleManager},
	}
}

// Apply files a leave for the caller, or for another user when an admin or
// manager names one.
func (s *LeaveService) Apply(ctx context.Context, caller Caller, req *models.ApplyLeaveRequest) (*models.Leave, error) {
	reason := strings.TrimSpace(req.Reason)
	if reason == "" || req.FromDate == "" || req.ToDate == "" {
		return nil, validation("Please provide all required fields")
	}
	from, err := timeutil.ParseDate(req.FromDate)
	if err != nil {
		return nil, validation("Invalid fromDate")
	}
	to, err := timeutil.ParseDate(req.ToDate)
	if err != nil {
		return nil, validation("Invalid toDate")
	}
	if to.Before(from) {
		return nil, validation("toDate must not be before fromDate")
	}

	ownerID := caller.UserID
	if req.UserID != nil && *req.UserID != caller.UserID {
		if !caller.CanManage() {
			return nil, forbidden("You can only apply for leave for yourself")
		}
		ownerID = *req.UserID
	}
	owner, err := s.users.Get(ctx, ownerID)
	if err != nil {
		return nil, notFoundOr(err, "User not found")
	}

	l := &models.Leave{
		UserID:   owner.ID,
		User:     owner.Ref(),
		FromDate: from,
		ToDate:   to,
		Reason:   reason,
		Status:   models.LeavePending,
	}
	if err := s.store.Create(ctx, l); err != nil {
		return nil, err
	}

	s.events.Publish(ctx, realtime.Event{
		Name: realtime.EventLeaveApplied,
		Data: map[string]interface{}{
			"leave":   l,
			"message": "New leave application submitted",
		},
		Audience: leaveAudience(l.UserID),
	})
	return l, nil
}

func (s *LeaveService) ListMine(ctx context.Context, userID int) ([]*models.Leave, error) {
	return s.store.ListByUser(ctx, userID)
}

func (s *LeaveService) ListAll(ctx context.Context) ([]*models.Leave, error) {
	return s.store.ListAll(ctx)
}

// UpdateStatus approves or rejects a pending leave. Repeating the current
// decision is a no-op; changing a decided leave is a conflict.
func (s *LeaveService) UpdateStatus(ctx context.Context, id int, status string) (*models.Leave, error) {
	if status != models.LeaveApproved && status != models.LeaveRejected && status != models.LeavePending {
		return nil, validation("Invalid status value")
	}
	l, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, notFoundOr(err, "Leave request not found")
	}
	if l.Status == status {
		return l, nil
	}
	if l.Status != models.LeavePending || status == models.LeavePending {
		return nil, conflict("Leave request has already been " + strings.ToLower(l.Status))
	}

	updatedAt, err := s.store.UpdateStatus(ctx, id, models.LeavePending, status)
	if err != nil {
		if errors.Is(err, repositories.ErrStale) {
			return nil, conflict("Leave request was updated by someone else")
		}
		return nil, err
	}
	l.Status = status
	l.UpdatedAt = updatedAt

	s.events.Publish(ctx, realtime.Event{
		Name: realtime.EventLeaveStatusUpdated,
		Data: map[string]interface{}{
			"leave":   l,
			"status":  status,
			"message": "Leave request " + strings.ToLower(status),
		},
		Audience: leaveAudience(l.UserID),
	})
	return l, nil
}
