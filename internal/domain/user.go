package domain

import "time"

type User struct {
	ID               string    `json:"id"`
	Username         string    `json:"username"`
	FirstName        string    `json:"first_name"`
	LastName         string    `json:"last_name"`
	Email            string    `json:"email"`
	PhoneNumber      string    `json:"phone_number,omitempty"`
	MembershipNumber string    `json:"falcon_flyer_number"`
	PasswordHash     string    `json:"-"`
	CreatedAt        time.Time `json:"-"`
	UpdatedAt        time.Time `json:"-"`
}
