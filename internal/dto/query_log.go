package dto

type QueryLogResponse struct {
	ID       string `json:"id"`
	UserID   string `json:"user_id,omitempty"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	AskedAt  string `json:"asked_at"`
}
