package handler_test

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vendorhub/internal/admin"
	"vendorhub/internal/admin/handler"
	"vendorhub/internal/audit"
	"vendorhub/internal/directory/models"
	"vendorhub/internal/directory/store/claims"
	"vendorhub/internal/directory/store/notifications"
	"vendorhub/internal/directory/store/settings"
	"vendorhub/internal/directory/store/vendors"
	"vendorhub/internal/identity"
	identitystore "vendorhub/internal/identity/store"
	"vendorhub/internal/platform/middleware"
)

// countingVendorStore records how many times the dashboard reached the store.
// Auth failures must leave the counter at zero.
type countingVendorStore struct {
	inner *vendors.InMemoryStore
	calls atomic.Int64
}

func (s *countingVendorStore) Count(ctx context.Context) (int64, error) {
	s.calls.Add(1)
	return s.inner.Count(ctx)
}

type gatewayFixture struct {
	router     chi.Router
	tokens     *identity.TokenService
	users      *identitystore.InMemoryUserStore
	vendors    *countingVendorStore
	claims     *claims.InMemoryStore
	notifs     *notifications.InMemoryStore
	auditStore *audit.InMemoryStore
}

func newGatewayFixture(t *testing.T) *gatewayFixture {
	t.Helper()

	f := &gatewayFixture{
		tokens:     identity.NewTokenService("test-signing-key", "vendorhub", "vendorhub-admin"),
		users:      identitystore.NewInMemoryUserStore(),
		vendors:    &countingVendorStore{inner: vendors.NewInMemoryStore()},
		claims:     claims.NewInMemoryStore(),
		notifs:     notifications.NewInMemoryStore(),
		auditStore: audit.NewInMemoryStore(),
	}

	logger := slog.New(slog.DiscardHandler)
	service := admin.NewService(
		f.vendors,
		f.claims,
		f.notifs,
		settings.NewInMemoryStore(),
		audit.NewPublisher(f.auditStore),
		logger,
		nil,
	)

	h := handler.New(
		service,
		logger,
		nil,
		identity.NewTokenServiceAdapter(f.tokens),
		identity.NewResolver(f.users),
	)

	router := chi.NewRouter()
	router.Use(middleware.ClientMetadata)
	h.Register(router)
	f.router = router
	return f
}

func (f *gatewayFixture) addUser(t *testing.T, uid, role string, active bool) {
	t.Helper()
	require.NoError(t, f.users.Upsert(context.Background(), &identity.User{
		UID:         uid,
		Email:       uid + "@example.com",
		DisplayName: "Test " + uid,
		Role:        role,
		Active:      active,
	}))
}

func (f *gatewayFixture) tokenFor(t *testing.T, uid string) string {
	t.Helper()
	token, err := f.tokens.GenerateAccessToken(uid, uid+"@example.com", time.Hour)
	require.NoError(t, err)
	return token
}

func (f *gatewayFixture) do(t *testing.T, method, target, token string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestGateway_Unauthenticated(t *testing.T) {
	f := newGatewayFixture(t)
	f.addUser(t, "admin-1", identity.RoleAdmin, true)

	cases := []struct {
		name  string
		token string
	}{
		{name: "no token", token: ""},
		{name: "garbage token", token: "not-a-jwt"},
		{
			name: "token signed with a different key",
			token: func() string {
				other := identity.NewTokenService("other-key", "vendorhub", "vendorhub-admin")
				tok, err := other.GenerateAccessToken("admin-1", "admin-1@example.com", time.Hour)
				require.NoError(t, err)
				return tok
			}(),
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := f.do(t, http.MethodGet, "/api/admin/", tc.token, nil)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Equal(t, "unauthorized", decodeBody(t, rec)["error"])
		})
	}

	assert.EqualValues(t, 0, f.vendors.calls.Load(), "rejected requests never touch a store")
}

func TestGateway_Forbidden(t *testing.T) {
	f := newGatewayFixture(t)
	f.addUser(t, "user-1", "user", true)
	f.addUser(t, "inactive-admin", identity.RoleAdmin, false)

	cases := []struct {
		name string
		uid  string
	}{
		{name: "no user record", uid: "unknown-uid"},
		{name: "non-admin role", uid: "user-1"},
		{name: "deactivated admin", uid: "inactive-admin"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := f.do(t, http.MethodGet, "/api/admin/", f.tokenFor(t, tc.uid), nil)
			assert.Equal(t, http.StatusForbidden, rec.Code)
			assert.Equal(t, "forbidden", decodeBody(t, rec)["error"])
		})
	}

	assert.EqualValues(t, 0, f.vendors.calls.Load(), "forbidden requests never reach the dashboard")
}

func TestGateway_Dashboard(t *testing.T) {
	ctx := context.Background()
	f := newGatewayFixture(t)
	f.addUser(t, "admin-1", identity.RoleAdmin, true)

	require.NoError(t, f.vendors.inner.Upsert(ctx, &models.Vendor{Name: "Coffee", Slug: "coffee"}))
	require.NoError(t, f.vendors.inner.Upsert(ctx, &models.Vendor{Name: "Bakery", Slug: "bakery"}))
	require.NoError(t, f.claims.Create(ctx, &models.Claim{VendorID: "v1", ClaimantUID: "u1"}))
	require.NoError(t, f.notifs.Create(ctx, &models.Notification{
		Title:     "new claim",
		ForAdmins: []string{models.AudienceAll},
	}))
	require.NoError(t, f.notifs.Create(ctx, &models.Notification{
		Title:     "for someone else",
		ForAdmins: []string{"admin-2"},
	}))

	rec := f.do(t, http.MethodGet, "/api/admin/", f.tokenFor(t, "admin-1"), nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Counts struct {
			TotalVendors  int64 `json:"totalVendors"`
			PendingClaims int64 `json:"pendingClaims"`
			TotalClaims   int64 `json:"totalClaims"`
		} `json:"counts"`
		Notifications []struct {
			Title string `json:"title"`
		} `json:"notifications"`
		AdminUser struct {
			UID  string `json:"uid"`
			Role string `json:"role"`
		} `json:"adminUser"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))

	assert.EqualValues(t, 2, resp.Counts.TotalVendors)
	assert.EqualValues(t, 1, resp.Counts.PendingClaims)
	assert.EqualValues(t, 1, resp.Counts.TotalClaims)
	require.Len(t, resp.Notifications, 1, "only notifications addressed to the caller")
	assert.Equal(t, "new claim", resp.Notifications[0].Title)
	assert.Equal(t, "admin-1", resp.AdminUser.UID)
	assert.Equal(t, identity.RoleAdmin, resp.AdminUser.Role)
}

func TestGateway_UpdateClaimStatus(t *testing.T) {
	ctx := context.Background()
	f := newGatewayFixture(t)
	f.addUser(t, "admin-1", identity.RoleAdmin, true)

	claim := &models.Claim{VendorID: "v1", ClaimantUID: "u1"}
	require.NoError(t, f.claims.Create(ctx, claim))
	token := f.tokenFor(t, "admin-1")

	body := map[string]any{
		"action": "update_claim_status",
		"data":   map[string]string{"claimId": claim.ID, "status": "approved", "notes": "verified"},
	}

	rec := f.do(t, http.MethodPost, "/api/admin/", token, body)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, decodeBody(t, rec)["success"])

	got, err := f.claims.GetByID(ctx, claim.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ClaimStatusApproved, got.Status)
	assert.Equal(t, "verified", got.AdminNotes)
	assert.Equal(t, "admin-1", got.ProcessedBy)

	entries := f.auditStore.All()
	require.Len(t, entries, 1)
	assert.Equal(t, audit.ActionUpdateClaimStatus, entries[0].Action)
	assert.Equal(t, "admin-1", entries[0].AdminUID)
	assert.Equal(t, claim.ID, entries[0].RelatedDocID)
	assert.NotEmpty(t, entries[0].IP, "client metadata flows into the audit entry")

	t.Run("replaying the action appends a second audit entry", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/api/admin/", token, body)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, f.auditStore.All(), 2)
	})

	t.Run("unknown claim id", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/api/admin/", token, map[string]any{
			"action": "update_claim_status",
			"data":   map[string]string{"claimId": "missing", "status": "approved"},
		})
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestGateway_ActionValidation(t *testing.T) {
	ctx := context.Background()
	f := newGatewayFixture(t)
	f.addUser(t, "admin-1", identity.RoleAdmin, true)

	claim := &models.Claim{VendorID: "v1", ClaimantUID: "u1"}
	require.NoError(t, f.claims.Create(ctx, claim))
	token := f.tokenFor(t, "admin-1")

	t.Run("unknown action is rejected before any write", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/api/admin/", token, map[string]any{
			"action": "delete_everything",
			"data":   map[string]string{"claimId": claim.ID},
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown status is rejected before any write", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/api/admin/", token, map[string]any{
			"action": "update_claim_status",
			"data":   map[string]string{"claimId": claim.ID, "status": "done"},
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing claimId", func(t *testing.T) {
		rec := f.do(t, http.MethodPost, "/api/admin/", token, map[string]any{
			"action": "update_claim_status",
			"data":   map[string]string{"status": "approved"},
		})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed body", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/admin/", bytes.NewBufferString("{not json"))
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		f.router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	got, err := f.claims.GetByID(ctx, claim.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ClaimStatusPending, got.Status, "claim never mutated")
	assert.Empty(t, f.auditStore.All(), "no audit entries for rejected requests")
}

func TestGateway_MethodNotAllowed(t *testing.T) {
	f := newGatewayFixture(t)
	f.addUser(t, "admin-1", identity.RoleAdmin, true)
	token := f.tokenFor(t, "admin-1")

	for _, method := range []string{http.MethodDelete, http.MethodPut, http.MethodPatch} {
		t.Run(method, func(t *testing.T) {
			rec := f.do(t, method, "/api/admin/", token, nil)
			assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
			assert.Equal(t, "GET, POST", rec.Header().Get("Allow"))
		})
	}
}

func TestGateway_Settings(t *testing.T) {
	f := newGatewayFixture(t)
	f.addUser(t, "admin-1", identity.RoleAdmin, true)

	rec := f.do(t, http.MethodGet, "/api/admin/settings", f.tokenFor(t, "admin-1"), nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}
