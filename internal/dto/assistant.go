package dto

// AskRequest carries a free-text question for the AI helper.
type AskRequest struct {
	Question string `json:"question"`
}

// AssistantAnswer is the free-text reply from the AI helper endpoint.
type AssistantAnswer struct {
	Answer string `json:"answer"`
}
