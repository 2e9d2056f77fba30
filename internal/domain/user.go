package domain

import "time"

type Role string

const (
	RoleMan   Role = "man"
	RoleWoman Role = "woman"
)

type User struct {
	ID        string
	Name      string
	Role      Role
	CreatedAt time.Time
}

// CanMessage is the asymmetric initiation rule: only a man may open a
// conversation with a woman. Replies inside an existing conversation are not
// subject to this rule.
func CanMessage(sender, recipient Role) bool {
	return sender == RoleMan && recipient == RoleWoman
}

// CanLike mirrors CanMessage in the other direction: only a woman may send a
// like to a man.
func CanLike(sender, recipient Role) bool {
	return sender == RoleWoman && recipient == RoleMan
}
