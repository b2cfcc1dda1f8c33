package model

import "time"

// SeekingType is what a user is looking for out of a match.
type SeekingType string

const (
	SeekingRomance    SeekingType = "romance"
	SeekingFriendship SeekingType = "friendship"
	SeekingHobby      SeekingType = "hobby"
)

// User is a registered profile. Profile CRUD is a thin collaborator of the
// proximity core: the core only ever sees the opaque user id.
type User struct {
	ID             string      `json:"id"`
	Username       string      `json:"username"`
	Age            int         `json:"age"`
	Gender         string      `json:"gender"` // "male" | "female" | "other"
	Interests      []string    `json:"interests"`
	SeekingType    SeekingType `json:"seeking_type"`
	ProfilePicture string      `json:"profile_picture,omitempty"`
	Bio            string      `json:"bio,omitempty"`
	CreatedAt      time.Time   `json:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at"`
}
