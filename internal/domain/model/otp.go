package model

import "time"

type OTPStatus string

const (
	OTPPending  OTPStatus = "Pending"
	OTPVerified OTPStatus = "Verified"
	OTPExpired  OTPStatus = "Expired"
	OTPFailed   OTPStatus = "Failed"
)

type OTPPurpose string

const (
	OTPBooking      OTPPurpose = "Booking"
	OTPRegistration OTPPurpose = "Registration"
	OTPLogin        OTPPurpose = "Login"
)

func ParseOTPStatus(s string) (OTPStatus, bool) {
	switch st := OTPStatus(s); st {
	case OTPPending, OTPVerified, OTPExpired, OTPFailed:
		return st, true
	}
	return "", false
}

func ParseOTPPurpose(s string) (OTPPurpose, bool) {
	switch p := OTPPurpose(s); p {
	case OTPBooking, OTPRegistration, OTPLogin:
		return p, true
	}
	return "", false
}

// OTPLog is a row of the admin OTP table. User is "N/A" for anonymous requests.
type OTPLog struct {
	ID         int64      `json:"id"`
	Phone      string     `json:"phone"`
	User       string     `json:"user"`
	Purpose    OTPPurpose `json:"purpose"`
	Status     OTPStatus  `json:"status"`
	CreatedAt  time.Time  `json:"createdAt"`
	VerifiedAt *time.Time `json:"verifiedAt"`
}

// OTPFilter narrows the log by status or purpose (Filter) and free text.
type OTPFilter struct {
	Status  OTPStatus
	Purpose OTPPurpose
	Search  string
	Page    Pagination
}

type OTPStats struct {
	Total    int `json:"total"`
	Verified int `json:"verified"`
	Expired  int `json:"expired"`
	Failed   int `json:"failed"`
}
