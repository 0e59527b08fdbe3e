package models

// Participants maps a participant ID to its display name.
type Participants map[string]string

// Nominations maps a nomination ID to the submitted nomination.
type Nominations map[string]Nomination

// Rankings maps a participant ID to its preference order, most preferred first.
type Rankings map[string][]string

type Results []Result

type Poll struct {
	ID            string       `json:"id"`
	Topic         string       `json:"topic"`
	VotesPerVoter int          `json:"votesPerVoter"`
	Participants  Participants `json:"participants"`
	AdminID       string       `json:"adminID"`
	Nominations   Nominations  `json:"nominations"`
	Rankings      Rankings     `json:"rankings"`
	Results       Results      `json:"results"`
	HasStarted    bool         `json:"hasStarted"`
}

type Nomination struct {
	UserID string `json:"userID"`
	Name   string `json:"name"`
}

type Result struct {
	NominationID   string `json:"nominationID"`
	NominationText string `json:"nominationText"`
	Score          int    `json:"score"`
}
