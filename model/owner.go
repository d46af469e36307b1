package model

import "fmt"

type OwnerKind string

const (
	OwnerKindUser  OwnerKind = "user"
	OwnerKindGuest OwnerKind = "guest"
)

// Owner is the identity a Conversation or UsageRecord belongs to: either an
// authenticated user or an anonymous guest session. It is stored as a
// (kind, id) pair so a row always has exactly one owner, never two nullable
// foreign keys.
type Owner struct {
	OwnerKind OwnerKind `gorm:"type:varchar(16);index:,composite:owner" json:"-"`
	OwnerID   string    `gorm:"type:varchar(64);index:,composite:owner" json:"-"`
}

func UserOwner(userID uint) Owner {
	return Owner{OwnerKind: OwnerKindUser, OwnerID: fmt.Sprintf("%d", userID)}
}

func GuestOwner(sessionID string) Owner {
	return Owner{OwnerKind: OwnerKindGuest, OwnerID: sessionID}
}

func (o Owner) IsGuest() bool {
	return o.OwnerKind == OwnerKindGuest
}

func (o Owner) String() string {
	return fmt.Sprintf("%s:%s", o.OwnerKind, o.OwnerID)
}
