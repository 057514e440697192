package listing

import (
	"github.com/shelterseek/goapi/domain"
)

// Status is the moderation state of a listing. The three states are closed;
// anything else is rejected before it reaches a store.
type Status string

const (
	StatusPending  Status = "pending"
	StatusVerified Status = "verified"
	StatusRejected Status = "rejected"
)

// ParseStatus maps external input onto the closed status set.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusPending:
		return StatusPending, nil
	case StatusVerified:
		return StatusVerified, nil
	case StatusRejected:
		return StatusRejected, nil
	default:
		return "", domain.ErrInvalidStatus
	}
}

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusVerified, StatusRejected:
		return true
	default:
		return false
	}
}
