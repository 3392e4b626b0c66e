package dto

// AnswerSource tells the client where the answer came from.
type AnswerSource string

const (
	SourceCache         AnswerSource = "cache"
	SourceKnowledgeBase AnswerSource = "knowledge_base"
	SourceGeneral       AnswerSource = "general"
)

type ChatRequest struct {
	Question string `json:"question"`
	UserID   string `json:"user_id,omitempty"`
}

type ChatResponse struct {
	Answer string       `json:"answer"`
	Source AnswerSource `json:"source"`
}
