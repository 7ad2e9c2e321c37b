package domain

// Participant is a connection's membership state inside one room.
// No transport or lifecycle logic here.
type Participant struct {
	ID              ConnID `json:"id"`
	Username        string `json:"username"`
	CanSpeak        bool   `json:"canSpeak"`
	IsMuted         bool   `json:"isMuted"`
	IsScreenSharing bool   `json:"isScreenSharing"`
}

func NewParticipant(id ConnID, username string, canSpeak bool) *Participant {
	return &Participant{
		ID:       id,
		Username: NormalizeUsername(username),
		CanSpeak: canSpeak,
	}
}
