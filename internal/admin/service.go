package admin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"vendorhub/internal/audit"
	"vendorhub/internal/directory/models"
	"vendorhub/internal/platform/metrics"
	"vendorhub/pkg/platform/sentinel"
	"vendorhub/pkg/requestcontext"

	dErrors "vendorhub/pkg/domain-errors"
)

// notificationLimit caps how many unread notifications the dashboard returns.
const notificationLimit = 5

// claimsCollection names the claim table/collection in audit entries.
const claimsCollection = "business_claims"

// VendorStore is the vendor persistence surface the dashboard needs.
type VendorStore interface {
	Count(ctx context.Context) (int64, error)
}

// ClaimStore is the claim persistence surface of the gateway.
type ClaimStore interface {
	Count(ctx context.Context) (int64, error)
	CountByStatus(ctx context.Context, status models.ClaimStatus) (int64, error)
	ApplyTransition(ctx context.Context, id string, tr models.ClaimTransition) error
}

// NotificationStore lists unread notifications for an admin.
type NotificationStore interface {
	ListUnreadFor(ctx context.Context, uid string, limit int) ([]*models.Notification, error)
}

// SettingsStore reads the admin settings document set.
type SettingsStore interface {
	Get(ctx context.Context) (map[string]json.RawMessage, error)
}

// AuditPublisher records administrative actions.
type AuditPublisher interface {
	Emit(ctx context.Context, entry audit.Entry) error
}

// Counts is the dashboard aggregate block.
type Counts struct {
	TotalVendors  int64
	PendingClaims int64
	TotalClaims   int64
}

// Dashboard is everything the admin overview shows.
type Dashboard struct {
	Counts        Counts
	Notifications []*models.Notification
}

// Service implements the admin gateway operations. Stateless: every call
// reads and writes through the stores, nothing is cached across requests.
type Service struct {
	vendors       VendorStore
	claims        ClaimStore
	notifications NotificationStore
	settings      SettingsStore
	auditor       AuditPublisher
	logger        *slog.Logger
	metrics       *metrics.Metrics
}

func NewService(
	vendors VendorStore,
	claims ClaimStore,
	notifications NotificationStore,
	settings SettingsStore,
	auditor AuditPublisher,
	logger *slog.Logger,
	m *metrics.Metrics,
) *Service {
	return &Service{
		vendors:       vendors,
		claims:        claims,
		notifications: notifications,
		settings:      settings,
		auditor:       auditor,
		logger:        logger,
		metrics:       m,
	}
}

// LoadDashboard fans out the three count aggregates and the notification
// query concurrently. The batch is all-or-nothing: the first failure cancels
// the rest and no partial result is returned.
func (s *Service) LoadDashboard(ctx context.Context, ident requestcontext.AdminIdentity) (*Dashboard, error) {
	g, ctx := errgroup.WithContext(ctx)
	dash := &Dashboard{}

	g.Go(func() error {
		count, err := s.vendors.Count(ctx)
		if err != nil {
			return fmt.Errorf("count vendors: %w", err)
		}
		dash.Counts.TotalVendors = count
		return nil
	})
	g.Go(func() error {
		count, err := s.claims.CountByStatus(ctx, models.ClaimStatusPending)
		if err != nil {
			return fmt.Errorf("count pending claims: %w", err)
		}
		dash.Counts.PendingClaims = count
		return nil
	})
	g.Go(func() error {
		count, err := s.claims.Count(ctx)
		if err != nil {
			return fmt.Errorf("count claims: %w", err)
		}
		dash.Counts.TotalClaims = count
		return nil
	})
	g.Go(func() error {
		notifications, err := s.notifications.ListUnreadFor(ctx, ident.UID, notificationLimit)
		if err != nil {
			return fmt.Errorf("list notifications: %w", err)
		}
		dash.Notifications = notifications
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load dashboard")
	}
	return dash, nil
}

// UpdateClaimStatus validates the target status, applies the transition in a
// single claim write, then appends one audit entry. The two writes are
// sequential and not wrapped in a transaction: a failure after the claim
// write leaves the claim updated but unlogged, and surfaces as an error.
func (s *Service) UpdateClaimStatus(ctx context.Context, ident requestcontext.AdminIdentity, claimID, rawStatus, notes string) error {
	if claimID == "" {
		return dErrors.New(dErrors.CodeBadRequest, "claimId is required")
	}
	status, err := models.ParseClaimStatus(rawStatus)
	if err != nil {
		return err
	}

	now := time.Now()
	err = s.claims.ApplyTransition(ctx, claimID, models.ClaimTransition{
		Status:      status,
		AdminNotes:  notes,
		ProcessedBy: ident.UID,
		ProcessedAt: now,
	})
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return dErrors.New(dErrors.CodeNotFound, "claim not found")
		}
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to update claim")
	}

	if s.metrics != nil {
		s.metrics.ClaimTransitions.WithLabelValues(string(status)).Inc()
	}

	entry := audit.Entry{
		AdminUID:          ident.UID,
		AdminEmail:        ident.Email,
		Action:            audit.ActionUpdateClaimStatus,
		Description:       fmt.Sprintf("claim %s set to %s", claimID, status),
		RelatedDocID:      claimID,
		RelatedCollection: claimsCollection,
		IP:                requestcontext.ClientIP(ctx),
		UserAgent:         requestcontext.UserAgent(ctx),
		RequestID:         requestcontext.RequestID(ctx),
		Timestamp:         now,
	}
	if err := s.auditor.Emit(ctx, entry); err != nil {
		// The claim write already landed; the trail has a hole. Log loudly
		// and fail the request so the caller knows the action may need review.
		s.logger.ErrorContext(ctx, "audit append failed after claim update",
			"claim_id", claimID,
			"admin_uid", ident.UID,
			"error", err,
		)
		return dErrors.Wrap(err, dErrors.CodeInternal, "failed to record audit entry")
	}
	return nil
}

// Settings returns the merged admin settings documents.
func (s *Service) Settings(ctx context.Context) (map[string]json.RawMessage, error) {
	values, err := s.settings.Get(ctx)
	if err != nil {
		return nil, dErrors.Wrap(err, dErrors.CodeInternal, "failed to load settings")
	}
	return values, nil
}
