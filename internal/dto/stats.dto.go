package dto

type StatsDTO struct {
	TotalBookings int64 `json:"totalBookings"`
	TodayBookings int64 `json:"todayBookings"`
	TotalClients  int64 `json:"totalClients"`
	TotalServices int64 `json:"totalServices"`
}
