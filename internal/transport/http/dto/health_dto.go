package dto

type HealthResponse struct {
	Status    string `json:"status"`
	Mode      string `json:"mode"`
	UptimeSec int64  `json:"uptime_sec"`
}
