package models

// OutboundMessageRequest is a text message pushed to a WhatsApp number.
type OutboundMessageRequest struct {
	To         string `json:"to" binding:"required"`
	Message    string `json:"message" binding:"required"`
	PreviewURL bool   `json:"preview_url"`
}

// ShareRequest is the body of a share call. An empty To means the configured manager.
type ShareRequest struct {
	To string `json:"to"`
}
