package repository

import "marketly/internal/domain/entity"

// ChangeKind classifies a document change inside a realtime snapshot.
type ChangeKind int

const (
	ChangeAdded ChangeKind = iota
	ChangeModified
	ChangeRemoved
)

func (k ChangeKind) String() string {
	switch k {
	case ChangeAdded:
		return "added"
	case ChangeModified:
		return "modified"
	case ChangeRemoved:
		return "removed"
	}
	return "unknown"
}

type NotificationChange struct {
	Kind         ChangeKind
	Notification *entity.Notification
}

// NotificationSnapshot is one delivery of a realtime notifications query:
// the full current result set plus what changed since the previous delivery.
// The first snapshot of a subscription reports every document as added.
type NotificationSnapshot struct {
	Notifications []*entity.Notification
	Changes       []NotificationChange
}
