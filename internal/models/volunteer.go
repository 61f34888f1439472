package models

import "time"

type VolunteerStatus string

const (
	VolunteerAvailable VolunteerStatus = "available"
	VolunteerBusy      VolunteerStatus = "busy"
	VolunteerOffline   VolunteerStatus = "offline"
)

// Volunteer is a listener profile shown during call scheduling.
// Aliases and avatars are deliberately pseudonymous.
type Volunteer struct {
	ID        string          `json:"id"`
	Alias     string          `json:"alias"`
	AvatarURL string          `json:"avatarUrl"`
	Status    VolunteerStatus `json:"status"`
	Bio       string          `json:"bio"`
}

// TimeSlot is a bookable call window from the fixed candidate list.
type TimeSlot struct {
	ID        string `json:"id"`
	Time      string `json:"time"`
	Date      string `json:"date"`
	Available bool   `json:"available"`
}

// Email is the payload broadcast when the mock mailer "delivers" a
// notification. No real delivery ever happens.
type Email struct {
	To      string    `json:"to"`
	Subject string    `json:"subject"`
	Body    string    `json:"body"`
	SentAt  time.Time `json:"sentAt"`
}
