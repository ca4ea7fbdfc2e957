package handler

import (
	"time"

	"vendorhub/internal/admin"
	"vendorhub/internal/directory/models"
	"vendorhub/pkg/requestcontext"
)

type countsResponse struct {
	TotalVendors  int64 `json:"totalVendors"`
	PendingClaims int64 `json:"pendingClaims"`
	TotalClaims   int64 `json:"totalClaims"`
}

type notificationResponse struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Message      string    `json:"message"`
	Type         string    `json:"type"`
	Status       string    `json:"status"`
	RelatedDocID string    `json:"relatedDocId,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

type adminUserResponse struct {
	UID         string `json:"uid"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	DisplayName string `json:"displayName,omitempty"`
}

type dashboardResponse struct {
	Counts        countsResponse         `json:"counts"`
	Notifications []notificationResponse `json:"notifications"`
	AdminUser     adminUserResponse      `json:"adminUser"`
}

type actionResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func toDashboardResponse(dash *admin.Dashboard, ident requestcontext.AdminIdentity) dashboardResponse {
	resp := dashboardResponse{
		Counts: countsResponse{
			TotalVendors:  dash.Counts.TotalVendors,
			PendingClaims: dash.Counts.PendingClaims,
			TotalClaims:   dash.Counts.TotalClaims,
		},
		Notifications: make([]notificationResponse, 0, len(dash.Notifications)),
		AdminUser: adminUserResponse{
			UID:         ident.UID,
			Email:       ident.Email,
			Role:        ident.Role,
			DisplayName: ident.DisplayName,
		},
	}
	for _, n := range dash.Notifications {
		resp.Notifications = append(resp.Notifications, toNotificationResponse(n))
	}
	return resp
}

func toNotificationResponse(n *models.Notification) notificationResponse {
	return notificationResponse{
		ID:           n.ID,
		Title:        n.Title,
		Message:      n.Message,
		Type:         n.Type,
		Status:       string(n.Status),
		RelatedDocID: n.RelatedDocID,
		CreatedAt:    n.CreatedAt,
	}
}
