// Package models holds the business-directory document shapes. These mirror
// the persisted records one-to-one; behavior lives in the services.
package models

import (
	"strings"
	"time"

	dErrors "vendorhub/pkg/domain-errors"
)

// Vendor is a business listing in the directory.
type Vendor struct {
	ID        string
	Name      string
	Slug      string
	Category  string
	City      string
	Verified  bool
	CreatedAt time.Time
}

// ClaimStatus is the lifecycle state of a business claim.
type ClaimStatus string

const (
	ClaimStatusPending       ClaimStatus = "pending"
	ClaimStatusApproved      ClaimStatus = "approved"
	ClaimStatusRejected      ClaimStatus = "rejected"
	ClaimStatusInfoRequested ClaimStatus = "info_requested"
)

// ParseClaimStatus validates a raw status value against the enum. The write
// path rejects unknown statuses before anything is persisted.
func ParseClaimStatus(raw string) (ClaimStatus, error) {
	switch s := ClaimStatus(raw); s {
	case ClaimStatusPending, ClaimStatusApproved, ClaimStatusRejected, ClaimStatusInfoRequested:
		return s, nil
	default:
		return "", dErrors.New(dErrors.CodeBadRequest, "unknown claim status: "+raw)
	}
}

// Claim is a request to take ownership of a business listing.
type Claim struct {
	ID           string
	VendorID     string
	ClaimantUID  string
	BusinessName string
	Status       ClaimStatus
	AdminNotes   string
	ProcessedBy  string
	ProcessedAt  *time.Time
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ClaimTransition captures one status change. ProcessedBy and ProcessedAt are
// written atomically with the status in a single store write.
type ClaimTransition struct {
	Status      ClaimStatus
	AdminNotes  string
	ProcessedBy string
	ProcessedAt time.Time
}

// NotificationStatus marks whether an admin has seen a notification.
type NotificationStatus string

const (
	NotificationUnread NotificationStatus = "unread"
	NotificationRead   NotificationStatus = "read"
)

// AudienceAll addresses a notification to every admin.
const AudienceAll = "all"

// Notification is an admin-facing message. Lifecycle is owned by whoever
// creates them; the gateway only lists and marks them read.
type Notification struct {
	ID           string
	Title        string
	Message      string
	Type         string
	Status       NotificationStatus
	ForAdmins    []string
	RelatedDocID string
	CreatedAt    time.Time
}

// IsFor reports whether the notification is addressed to the given admin.
func (n *Notification) IsFor(uid string) bool {
	for _, audience := range n.ForAdmins {
		if audience == uid || audience == AudienceAll {
			return true
		}
	}
	return false
}

// Slugify derives a URL-safe slug from a business name: lowercase, runs of
// non-alphanumerics collapse to single hyphens.
func Slugify(name string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastHyphen = false
		default:
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
