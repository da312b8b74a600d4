package events

import "time"

const SentimentAlertTopic = "hr.sentiment.alert.v1"

// SentimentAlertEvent is emitted when a monthly score flags an employee as
// high turnover risk.
type SentimentAlertEvent struct {
	EventType    string    `json:"event_type"`
	EmployeeID   string    `json:"employee_id"`
	Month        string    `json:"month"`
	OverallScore float64   `json:"overall_score"`
	RiskLevel    string    `json:"risk_level"`
	OccurredAt   time.Time `json:"occurred_at"`
}
