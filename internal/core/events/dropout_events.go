package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventTypeDropoutCreated      = "dropout.created"
	EventTypeDropoutAcknowledged = "dropout.acknowledged"
	EventTypeDropoutDecided      = "dropout.decided"
)

var DropoutEventTypes = []string{EventTypeDropoutCreated, EventTypeDropoutAcknowledged, EventTypeDropoutDecided}

type DropoutCreatedEvent struct {
	BaseEvent
	DropoutRequestID int64  `json:"dropout_request_id"`
	RoleID           int64  `json:"role_id"`
	RecruiterID      int64  `json:"recruiter_id"`
	Reason           string `json:"reason"`
}

func NewDropoutCreatedEvent(requestID, roleID, recruiterID int64, reason string, at time.Time) *DropoutCreatedEvent {
	return &DropoutCreatedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeDropoutCreated,
			Timestamp: at,
			Data: map[string]interface{}{
				"dropout_request_id": requestID,
				"role_id":            roleID,
				"recruiter_id":       recruiterID,
				"reason":             reason,
			},
		},
		DropoutRequestID: requestID,
		RoleID:           roleID,
		RecruiterID:      recruiterID,
		Reason:           reason,
	}
}

type DropoutAcknowledgedEvent struct {
	BaseEvent
	DropoutRequestID int64 `json:"dropout_request_id"`
	RoleID           int64 `json:"role_id"`
	AcknowledgedBy   int64 `json:"acknowledged_by"`
}

func NewDropoutAcknowledgedEvent(requestID, roleID, acknowledgedBy int64, at time.Time) *DropoutAcknowledgedEvent {
	return &DropoutAcknowledgedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeDropoutAcknowledged,
			Timestamp: at,
			Data: map[string]interface{}{
				"dropout_request_id": requestID,
				"role_id":            roleID,
				"acknowledged_by":    acknowledgedBy,
			},
		},
		DropoutRequestID: requestID,
		RoleID:           roleID,
		AcknowledgedBy:   acknowledgedBy,
	}
}

type DropoutDecidedEvent struct {
	BaseEvent
	DropoutRequestID int64   `json:"dropout_request_id"`
	RoleID           int64   `json:"role_id"`
	RecruiterID      int64   `json:"recruiter_id"`
	Decision         string  `json:"decision"`
	NewRoleStatus    *string `json:"new_role_status,omitempty"`
	Penalized        bool    `json:"penalized"`
}

func NewDropoutDecidedEvent(requestID, roleID, recruiterID int64, decision string, newRoleStatus *string, penalized bool, at time.Time) *DropoutDecidedEvent {
	data := map[string]interface{}{
		"dropout_request_id": requestID,
		"role_id":            roleID,
		"recruiter_id":       recruiterID,
		"decision":           decision,
		"penalized":          penalized,
	}
	if newRoleStatus != nil {
		data["new_role_status"] = *newRoleStatus
	}
	return &DropoutDecidedEvent{
		BaseEvent: BaseEvent{
			ID:        uuid.New().String(),
			Type:      EventTypeDropoutDecided,
			Timestamp: at,
			Data:      data,
		},
		DropoutRequestID: requestID,
		RoleID:           roleID,
		RecruiterID:      recruiterID,
		Decision:         decision,
		NewRoleStatus:    newRoleStatus,
		Penalized:        penalized,
	}
}
