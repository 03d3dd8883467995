package models

// Contact is a directed "owner added user" edge. The pair is unique and
// self-edges are rejected before insert.
type Contact struct {
	UserID        int `db:"user_id" json:"user_id"`
	ContactUserID int `db:"contact_user_id" json:"contact_user_id"`
}
