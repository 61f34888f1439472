// Package catalog holds the fixed marketing-facing data: the volunteer
// roster, the candidate call slots and the session price. None of it is
// user-editable, so plain package vars are enough.
package catalog

import "openears-backend/internal/models"

const (
	AppName                = "Our Ears Are Open"
	PricePerSession        = 2.99
	SessionDurationMinutes = 15

	SuicidePreventionNumber = "988"
	EmergencyText           = "If you are in immediate danger, please call 911."
)

var Volunteers = []models.Volunteer{
	{
		ID:        "v1",
		Alias:     "Oliver",
		AvatarURL: "https://cdn-icons-png.flaticon.com/512/4080/4080036.png",
		Status:    models.VolunteerAvailable,
		Bio:       "A gentle soul who loves listening to your stories. Always here for a hop-ful chat.",
	},
	{
		ID:        "v2",
		Alias:     "Sophia",
		AvatarURL: "https://cdn-icons-png.flaticon.com/512/4080/4080131.png",
		Status:    models.VolunteerBusy,
		Bio:       "Calm, patient, and understanding. Finding balance in black and white.",
	},
	{
		ID:        "v3",
		Alias:     "Leo",
		AvatarURL: "https://cdn-icons-png.flaticon.com/512/4080/4080077.png",
		Status:    models.VolunteerAvailable,
		Bio:       "Curious and caring. I promise to keep your secrets purr-fectly safe.",
	},
	{
		ID:        "v4",
		Alias:     "Bella",
		AvatarURL: "https://cdn-icons-png.flaticon.com/512/4080/4080061.png",
		Status:    models.VolunteerOffline,
		Bio:       "Loyal and friendly. I am here to be your best friend when you need one.",
	},
}

var Slots = []models.TimeSlot{
	{ID: "t1", Time: "10:00 AM", Date: "Today", Available: true},
	{ID: "t2", Time: "10:15 AM", Date: "Today", Available: false},
	{ID: "t3", Time: "10:30 AM", Date: "Today", Available: true},
	{ID: "t4", Time: "11:00 AM", Date: "Today", Available: true},
	{ID: "t5", Time: "02:00 PM", Date: "Tomorrow", Available: true},
}

func VolunteerByID(id string) (models.Volunteer, bool) {
	for _, v := range Volunteers {
		if v.ID == id {
			return v, true
		}
	}
	return models.Volunteer{}, false
}

func SlotByID(id string) (models.TimeSlot, bool) {
	for _, s := range Slots {
		if s.ID == id {
			return s, true
		}
	}
	return models.TimeSlot{}, false
}
