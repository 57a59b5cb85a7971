package models

import "time"

const (
	LeavePending  = "Pending"
	LeaveApproved = "Approved"
	LeaveRejected = "Rejected"
)

type Leave struct {
	ID        int       `json:"_id"`
	UserID    int       `json:"userId"`
	User      *UserRef  `json:"user,omitempty"`
	FromDate  time.Time `json:"fromDate"`
	ToDate    time.Time `json:"toDate"`
	Reason    string    `json:"reason"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ApplyLeaveRequest struct {
	Reason   string `json:"reason"`
	FromDate string `json:"fromDate"`
	ToDate   string `json:"toDate"`
	UserID   *int   `json:"userId,omitempty"`
}

type UpdateStatusRequest struct {
	Status string `json:"status"`
}
