package models

import "time"

type Role string

const (
	RoleCustomer Role = "customer"
	RoleReviewer Role = "reviewer"
	RoleAdmin    Role = "admin"
)

// User is the local record of an identity verified by the OIDC provider.
// ID is the provider's subject.
type User struct {
	ID                string    `json:"id"`
	Email             string    `json:"email"`
	FirstName         string    `json:"firstName"`
	LastName          string    `json:"lastName"`
	ProfileImageURL   string    `json:"profileImageUrl"`
	Role              Role      `json:"role"`
	PreferredCurrency Currency  `json:"preferredCurrency"`
	CreatedAt         time.Time `json:"createdAt"`
}

func (u *User) FullName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	case u.LastName != "":
		return u.LastName
	}
	return u.Email
}

type ReviewerProfile struct {
	UserID            string   `json:"userId"`
	Specializations   []string `json:"specializations"`
	YearsExperience   int      `json:"yearsExperience"`
	Rating            float64  `json:"rating"`
	CompletedJobs     int      `json:"completedJobs"`
	IsAvailable       bool     `json:"isAvailable"`
	MaxConcurrentJobs int      `json:"maxConcurrentJobs"`
}

// ReviewerWorkload is a reviewer with the number of jobs currently in review.
type ReviewerWorkload struct {
	ReviewerProfile
	User       User `json:"user"`
	ActiveJobs int  `json:"activeJobs"`
}
