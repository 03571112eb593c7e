package models

import "time"

// ResultRecord is the summary persisted when a quiz session completes.
// Field names on the wire match the "games" collection documents.
type ResultRecord struct {
	ID               string    `json:"id,omitempty" bson:"-"`
	UserID           int64     `json:"userId,omitempty" bson:"userId,omitempty"`
	ParticipantName  string    `json:"Name" bson:"Name"`
	ParticipantEmail string    `json:"Email" bson:"Email"`
	ParticipantAge   int       `json:"Age" bson:"Age"`
	GameName         string    `json:"Game" bson:"Game"`
	Difficulty       string    `json:"Level" bson:"Level"`
	Score            int       `json:"Score" bson:"Score"`
	TimeTaken        int       `json:"TimeTaken" bson:"TimeTaken"`
	CreatedAt        time.Time `json:"createdAt" bson:"createdAt"`
}

// NewResultRecord tags a score with the participant's profile.
func NewResultRecord(p Participant, gameName, difficulty string, score, timeTaken int) ResultRecord {
	return ResultRecord{
		UserID:           p.UserID,
		ParticipantName:  p.Name,
		ParticipantEmail: p.Email,
		ParticipantAge:   p.Age,
		GameName:         gameName,
		Difficulty:       difficulty,
		Score:            score,
		TimeTaken:        timeTaken,
		CreatedAt:        time.Now().UTC(),
	}
}
