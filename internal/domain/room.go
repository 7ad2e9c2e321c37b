package domain

import "time"

type (
	RoomName string
	RoomID   string
)

type Room struct {
	ID        RoomID
	Name      RoomName
	Creator   string
	CreatedAt time.Time
}

// DirectoryEntry is the public projection of a room, advertised before joining.
type DirectoryEntry struct {
	RoomID       RoomID    `json:"roomId"`
	RoomName     RoomName  `json:"roomName"`
	Creator      string    `json:"creator"`
	Participants int       `json:"participants"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (r *Room) Entry(participants int) DirectoryEntry {
	return DirectoryEntry{
		RoomID:       r.ID,
		RoomName:     r.Name,
		Creator:      r.Creator,
		Participants: participants,
		CreatedAt:    r.CreatedAt,
	}
}
