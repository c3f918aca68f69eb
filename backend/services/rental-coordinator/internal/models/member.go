package models

// Member status values.
const (
	MemberStatusActive  = "active"
	MemberStatusBlocked = "blocked"
)

// Member holds a prepaid balance billed by the coordinator.
type Member struct {
	UID           string `db:"uid" json:"uid"`
	Name          string `db:"name" json:"name"`
	BalancePoints int64  `db:"balance_points" json:"balance_points"`
	Status        string `db:"status" json:"status"`
}
