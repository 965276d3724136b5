package model

import "time"

// StateKind names a state of the dialogue state machine
type StateKind string

const (
	StateAwaitingField      StateKind = "awaiting_field_answer"
	StateAwaitingAttachment StateKind = "awaiting_attachment_answer"
	StateScoring            StateKind = "scoring"
	StateDone               StateKind = "done"
)

// DialogueState is the current position of a conversation.
// Ref is set while awaiting a field answer, Side while awaiting an attachment answer.
type DialogueState struct {
	Kind StateKind `json:"kind"`
	Ref  *FieldRef `json:"ref,omitempty"`
	Side *Side     `json:"side,omitempty"`
}

// Message roles
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is one entry of a conversation transcript
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CreateSessionResponse is returned when a conversation starts
type CreateSessionResponse struct {
	SessionID string        `json:"session_id"`
	State     DialogueState `json:"state"`
	Messages  []Message     `json:"messages"`
}

// MessageRequest carries one user turn. An empty message is answered by the
// dialogue itself, so it is not a binding error.
type MessageRequest struct {
	Message string `json:"message"`
}

// TurnResponse is the outcome of a single user turn
type TurnResponse struct {
	SessionID string        `json:"session_id"`
	State     DialogueState `json:"state"`
	Replies   []Message     `json:"replies"`
	Done      bool          `json:"done"`
	Result    *ScoreResult  `json:"result,omitempty"`
}

// SessionSnapshot exposes the full state of a conversation
type SessionSnapshot struct {
	SessionID  string        `json:"session_id"`
	State      DialogueState `json:"state"`
	Record     *Record       `json:"record"`
	Confirmed  ConfirmedSet  `json:"confirmed"`
	AskedSides []Side        `json:"asked_attachment_sides"`
	Messages   []Message     `json:"messages"`
	Result     *ScoreResult  `json:"result,omitempty"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// ScoreRequest scores an arbitrary record without a conversation
type ScoreRequest struct {
	Record *Record `json:"record" binding:"required"`
}

// ExplainRequest asks for a concept explanation
type ExplainRequest struct {
	Question string `json:"question" binding:"required"`
}
