package model

type DashboardStats struct {
	TotalUsers        int `json:"totalUsers"`
	TherapistsCount   int `json:"therapistsCount"`
	BookingsThisMonth int `json:"bookingsThisMonth"`
	CompletedSessions int `json:"completedSessions"`
}

// UserDashboard is the profile summary shown to a signed-in user.
type UserDashboard struct {
	UserID int64  `json:"userId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Role   Role   `json:"role"`
}
