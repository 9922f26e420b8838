package model

import "time"

type Availability string

const (
	Online  Availability = "Online"
	Offline Availability = "Offline"
)

func (a Availability) Valid() bool {
	return a == Online || a == Offline
}

type TherapistStatus string

const (
	TherapistPending  TherapistStatus = "Pending"
	TherapistApproved TherapistStatus = "Approved"
	TherapistInactive TherapistStatus = "Inactive"
)

func (s TherapistStatus) Valid() bool {
	switch s {
	case TherapistPending, TherapistApproved, TherapistInactive:
		return true
	}
	return false
}

type Therapist struct {
	ID             int64           `json:"id"`
	Name           string          `json:"name"`
	ClinicName     *string         `json:"clinicName"`
	Email          string          `json:"email"`
	Phone          string          `json:"phone"`
	Specialization string          `json:"specialization"`
	Experience     int             `json:"experience"`
	Availability   Availability    `json:"availability"`
	Rating         float64         `json:"rating"`
	File           *string         `json:"file"`
	Status         TherapistStatus `json:"status"`
	CreatedAt      time.Time       `json:"createdAt"`
	UpdatedAt      time.Time       `json:"updatedAt"`
}

type TherapistContact struct {
	Email string `json:"email"`
	Phone string `json:"phone"`
}

// TherapistListItem is the row shape of the admin therapist table.
type TherapistListItem struct {
	ID           int64            `json:"id"`
	Name         string           `json:"name"`
	ClinicName   *string          `json:"clinicName"`
	Contact      TherapistContact `json:"contact"`
	Availability Availability     `json:"availability"`
	Rating       any              `json:"rating"`
	Status       TherapistStatus  `json:"status"`
	JoinedDate   time.Time        `json:"joinedDate"`
}

func (t *Therapist) ListItem() TherapistListItem {
	var rating any = "Not rated"
	if t.Rating > 0 {
		rating = t.Rating
	}
	return TherapistListItem{
		ID:           t.ID,
		Name:         t.Name,
		ClinicName:   t.ClinicName,
		Contact:      TherapistContact{Email: t.Email, Phone: t.Phone},
		Availability: t.Availability,
		Rating:       rating,
		Status:       t.Status,
		JoinedDate:   t.CreatedAt,
	}
}

type TherapistFilter struct {
	Status       TherapistStatus
	Availability Availability
	Search       string
	Page         Pagination
}

type TherapistStats struct {
	Total          int `json:"total"`
	Pending        int `json:"pending"`
	Online         int `json:"online"`
	Offline        int `json:"offline"`
	Approved       int `json:"approved"`
	RecentlyJoined int `json:"recentlyJoined"`
}
