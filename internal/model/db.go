package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// EvaluationLog is a completed evaluation as stored in evaluation_logs
type EvaluationLog struct {
	ID         int64        `json:"id" db:"id"`
	SessionID  string       `json:"session_id" db:"session_id"`
	Score      float64      `json:"score" db:"score"`
	Confidence Confidence   `json:"confidence" db:"confidence"`
	Turns      int          `json:"turns" db:"turns"`
	Record     *Record      `json:"record" db:"record"`
	Result     *ScoreResult `json:"result" db:"result"`
	CreatedAt  time.Time    `json:"created_at" db:"created_at"`
}

// Value implements driver.Valuer interface
func (r *Record) Value() (driver.Value, error) {
	if r == nil {
		return nil, nil
	}
	b, err := json.Marshal(r)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner interface
func (r *Record) Scan(value interface{}) error {
	return scanJSON(value, r)
}

// Value implements driver.Valuer interface
func (s *ScoreResult) Value() (driver.Value, error) {
	if s == nil {
		return nil, nil
	}
	b, err := json.Marshal(s)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner interface
func (s *ScoreResult) Scan(value interface{}) error {
	return scanJSON(value, s)
}

func scanJSON(value interface{}, dst interface{}) error {
	switch v := value.(type) {
	case nil:
		return nil
	case []byte:
		return json.Unmarshal(v, dst)
	case string:
		return json.Unmarshal([]byte(v), dst)
	default:
		return fmt.Errorf("unsupported JSON column type %T", value)
	}
}
