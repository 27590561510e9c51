package dto

type StatsResponse struct {
	VisitorAccounts         int     `json:"visitor_accounts"`
	ActiveVisitorAccounts   int     `json:"active_visitor_accounts"`
	InactiveVisitorAccounts int     `json:"inactive_visitor_accounts"`
	SystemUsers             int     `json:"system_users"`
	RoomCount               int     `json:"room_count"`
	TotalRevenue            float64 `json:"total_revenue"`
}
