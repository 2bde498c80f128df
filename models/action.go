package models

import (
	"fmt"
	"time"
)

// Action is one activity log entry: a user performing a verb, optionally on
// an action object and optionally against a target. either reference may
// point at any entity type.
//
//	<tim> <added new photos>
//	<tim> <added 5 photos to the album> <Summer Trip>
//	<tim> <tagged> <john> <in> <IMG 0042>
type Action struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Timestamp time.Time `gorm:"not null;index" json:"timestamp"`
	Verb      string    `gorm:"size:200;not null" json:"verb"`
	Join      *string   `gorm:"size:50" json:"join,omitempty"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"user,omitempty"`

	TargetType       string `gorm:"size:50;index:idx_action_target" json:"target_type,omitempty"`
	TargetID         uint   `gorm:"index:idx_action_target" json:"target_id,omitempty"`
	ActionObjectType string `gorm:"size:50;index:idx_action_object" json:"action_object_type,omitempty"`
	ActionObjectID   uint   `gorm:"index:idx_action_object" json:"action_object_id,omitempty"`

	// resolved from the refs; nil when unset or no longer present
	Target       Entity `gorm:"-" json:"-"`
	ActionObject Entity `gorm:"-" json:"-"`
}

func (Action) TableName() string {
	return "actions"
}

func (a *Action) EntityType() string { return "action" }
func (a *Action) EntityID() uint     { return a.ID }

func (a *Action) TargetRef() EntityRef {
	return EntityRef{Type: a.TargetType, ID: a.TargetID}
}

func (a *Action) ActionObjectRef() EntityRef {
	return EntityRef{Type: a.ActionObjectType, ID: a.ActionObjectID}
}

// SetTarget points the action at e, or clears the target when e is nil
func (a *Action) SetTarget(e Entity) {
	ref := RefOf(e)
	a.TargetType, a.TargetID, a.Target = ref.Type, ref.ID, e
}

// SetActionObject sets the action object to e, or clears it when e is nil
func (a *Action) SetActionObject(e Entity) {
	ref := RefOf(e)
	a.ActionObjectType, a.ActionObjectID, a.ActionObject = ref.Type, ref.ID, e
}

func (a *Action) actor() string {
	if a.User == nil {
		return ""
	}
	return a.User.DisplayName()
}

// Describe renders the action as a sentence.
func (a *Action) Describe() string {
	actor := a.actor()
	if a.Target != nil {
		if a.ActionObject != nil {
			if a.Join == nil || *a.Join == "" {
				return fmt.Sprintf("%s %s %s %s", actor, a.Verb, label(a.ActionObject), label(a.Target))
			}
			return fmt.Sprintf("%s %s %s %s %s", actor, a.Verb, label(a.ActionObject), *a.Join, label(a.Target))
		}
		return fmt.Sprintf("%s %s %s", actor, a.Verb, label(a.Target))
	}
	if a.ActionObject != nil {
		return fmt.Sprintf("%s %s %s", actor, a.Verb, label(a.ActionObject))
	}
	return fmt.Sprintf("%s %s", actor, a.Verb)
}

func (a *Action) String() string {
	return a.Describe()
}

func label(e Entity) string {
	if s, ok := e.(fmt.Stringer); ok {
		return s.String()
	}
	return fmt.Sprintf("%s %d", e.EntityType(), e.EntityID())
}
