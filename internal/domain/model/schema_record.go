package model

import "time"

// SchemaRecord is the persisted schema state for one content record. Live
// holds the last validator-clean graph and is the only slot ever served;
// draft holds the most recent rejected output for operator inspection.
type SchemaRecord struct {
	ContentID        int64      `json:"content_id"`
	LiveJSON         string     `json:"live_json,omitempty"`
	DraftJSON        string     `json:"draft_json,omitempty"`
	SchemaType       string     `json:"schema_type,omitempty"`
	Justification    string     `json:"justification,omitempty"`
	Summary          string     `json:"summary,omitempty"`
	MissingInfo      []string   `json:"missing_info,omitempty"`
	ValidationReport string     `json:"validation_report,omitempty"`
	WarningCount     int        `json:"warning_count"`
	LastError        string     `json:"last_error,omitempty"`
	GeneratedAt      *time.Time `json:"generated_at,omitempty"`
	UpdatedAt        time.Time  `json:"updated_at"`
}
