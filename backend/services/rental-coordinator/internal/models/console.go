package models

// Console status values.
const (
	ConsoleStatusAvailable   = "available"
	ConsoleStatusRented      = "rented"
	ConsoleStatusMaintenance = "maintenance"
)

// Console represents a rentable gaming unit with its relay/TV command endpoints.
type Console struct {
	ID                 string `db:"id" json:"id"`
	Name               string `db:"name" json:"name"`
	Status             string `db:"status" json:"status"`
	MinBillableMinutes int    `db:"min_billable_minutes" json:"min_billable_minutes"`
	AutoShutdown       bool   `db:"auto_shutdown" json:"auto_shutdown"`
	PowerOnURL         string `db:"power_on_url" json:"power_on_url"`
	PowerOffURL        string `db:"power_off_url" json:"power_off_url"`
	StatusURL          string `db:"status_url" json:"status_url"`
}
