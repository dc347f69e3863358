package model

// Worksession is a tracked or manually entered block of working time.
// TeamID mirrors the server's _team_id annotation on session payloads.
type Worksession struct {
	ID                    string  `json:"id"`
	TimeStart             string  `json:"time_start"`
	TimeEnd               *string `json:"time_end"`
	Note                  string  `json:"note"`
	IsCreatedViaTracking  bool    `json:"is_created_via_tracking"`
	IsEnded               bool    `json:"is_ended"`
	Duration              float64 `json:"duration"`
	TeamID                string  `json:"_team_id"`
}

func (w Worksession) EntityID() string { return w.ID }
