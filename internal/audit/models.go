package audit

import (
	"fmt"
	"time"

	"github.com/mssola/useragent"
)

// Action names the administrative operation an entry records.
type Action string

const (
	ActionUpdateClaimStatus Action = "update_claim_status"
	ActionSettingsChanged   Action = "settings_changed"
	ActionUserSeeded        Action = "user_seeded"
)

// Entry is one append-only audit record. Entries are never updated or
// deleted; repeating an action produces a second entry by design.
type Entry struct {
	ID                string
	AdminUID          string
	AdminEmail        string
	Action            Action
	Description       string
	RelatedDocID      string
	RelatedCollection string
	IP                string
	UserAgent         string
	DeviceSummary     string
	RequestID         string
	Timestamp         time.Time
}

// DeviceSummaryFrom condenses a raw User-Agent header into a short
// human-readable label for the audit trail.
func DeviceSummaryFrom(rawUA string) string {
	if rawUA == "" {
		return ""
	}
	ua := useragent.New(rawUA)
	name, version := ua.Browser()
	if name == "" {
		return rawUA
	}
	if os := ua.OS(); os != "" {
		return fmt.Sprintf("%s %s on %s", name, version, os)
	}
	return fmt.Sprintf("%s %s", name, version)
}
