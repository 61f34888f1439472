package models

type Role string

const (
	RoleGuest     Role = "GUEST"
	RoleUser      Role = "USER"
	RoleVolunteer Role = "VOLUNTEER"
	RoleAdmin     Role = "ADMIN"
)

// User is an identity record. Balance is the cumulative total of every
// transaction ever recorded for the user; the domain layer keeps it in
// step with the ledger.
type User struct {
	ID       string  `json:"id"`
	Username string  `json:"username"`
	Email    string  `json:"email"`
	Location string  `json:"location"`
	Role     Role    `json:"role"`
	Balance  float64 `json:"balance"`
}
