package model

import (
	"strings"
	"time"
)

type BookingStatus string

const (
	BookingUpcoming  BookingStatus = "upcoming"
	BookingOngoing   BookingStatus = "ongoing"
	BookingCompleted BookingStatus = "completed"
	BookingCancelled BookingStatus = "cancelled"
)

func ParseBookingStatus(s string) (BookingStatus, bool) {
	st := BookingStatus(strings.ToLower(strings.TrimSpace(s)))
	switch st {
	case BookingUpcoming, BookingOngoing, BookingCompleted, BookingCancelled:
		return st, true
	}
	return "", false
}

type BookingUser struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type BookingTherapist struct {
	ID             int64  `json:"id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	Specialization string `json:"specialization"`
}

type Booking struct {
	ID            int64             `json:"id"`
	Service       string            `json:"service"`
	UserID        int64             `json:"userId"`
	TherapistID   int64             `json:"therapistId"`
	Status        BookingStatus     `json:"status"`
	Date          time.Time         `json:"date"`
	Time          string            `json:"time"`
	PaymentStatus string            `json:"paymentStatus"`
	CreatedAt     time.Time         `json:"createdAt"`
	UpdatedAt     time.Time         `json:"updatedAt"`
	User          *BookingUser      `json:"user,omitempty"`
	Therapist     *BookingTherapist `json:"therapist,omitempty"`
}

type BookingFilter struct {
	Status BookingStatus
	Search string
	Page   Pagination
}

type BookingStats struct {
	All       int `json:"all"`
	Upcoming  int `json:"upcoming"`
	Ongoing   int `json:"ongoing"`
	Completed int `json:"completed"`
	Cancelled int `json:"cancelled"`
}
