package models

// WebhookRequest is the subset of a Dialogflow ES fulfillment request we read
type WebhookRequest struct {
	ResponseID  string      `json:"responseId"`
	Session     string      `json:"session"`
	QueryResult QueryResult `json:"queryResult"`
}

type QueryResult struct {
	QueryText    string `json:"queryText"`
	LanguageCode string `json:"languageCode,omitempty"`
	Intent       struct {
		Name        string `json:"name,omitempty"`
		DisplayName string `json:"displayName"`
	} `json:"intent"`
}

// WebhookResponse is a Dialogflow ES fulfillment response
type WebhookResponse struct {
	FulfillmentText     string               `json:"fulfillmentText"`
	FulfillmentMessages []FulfillmentMessage `json:"fulfillmentMessages"`
}

// FulfillmentMessage carries exactly one of Text or QuickReplies
type FulfillmentMessage struct {
	Text         *TextMessage  `json:"text,omitempty"`
	QuickReplies *QuickReplies `json:"quickReplies,omitempty"`
}

type TextMessage struct {
	Text []string `json:"text"`
}

type QuickReplies struct {
	Title        string   `json:"title,omitempty"`
	QuickReplies []string `json:"quickReplies"`
}

// TestWebhookRequest is the flat body accepted by the local test endpoint
type TestWebhookRequest struct {
	Session string `json:"session"`
	Intent  string `json:"intent"`
	Message string `json:"message"`
}
