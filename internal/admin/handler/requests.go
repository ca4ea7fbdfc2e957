package handler

// actionRequest is the envelope for POST /api/admin.
type actionRequest struct {
	Action string     `json:"action"`
	Data   actionData `json:"data"`
}

// actionData carries the parameters for update_claim_status. Status is kept
// raw here; the service validates it against the enum before any write.
type actionData struct {
	ClaimID string `json:"claimId"`
	Status  string `json:"status"`
	Notes   string `json:"notes"`
}
