package stream

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/camden-git/gallerybackend/metrics"
	"github.com/camden-git/gallerybackend/models"
	"github.com/camden-git/gallerybackend/realtime"
	"github.com/camden-git/gallerybackend/repository"
	"gorm.io/gorm"
)

// ErrInvalidAction is returned by Record without a user or a verb.
var ErrInvalidAction = errors.New("an action needs a user and a verb")

// Broadcaster is told about every recorded action
type Broadcaster interface {
	Broadcast(event realtime.Event)
}

// Option sets an optional part of an action
type Option func(*models.Action)

// WithActionObject sets what the verb was done to
func WithActionObject(e models.Entity) Option {
	return func(a *models.Action) { a.SetActionObject(e) }
}

// WithJoin sets the word placed between action object and target
func WithJoin(join string) Option {
	return func(a *models.Action) {
		if join != "" {
			a.Join = &join
		}
	}
}

// WithTarget sets what the action was done against
func WithTarget(e models.Entity) Option {
	return func(a *models.Action) { a.SetTarget(e) }
}

// Recorder writes and reads the activity log.
type Recorder struct {
	db       *gorm.DB
	actions  repository.ActionRepositoryInterface
	registry *Registry
	hub      Broadcaster
	limit    int
}

// NewRecorder creates a Recorder. hub may be nil.
func NewRecorder(db *gorm.DB, actions repository.ActionRepositoryInterface, registry *Registry, hub Broadcaster, limit int) *Recorder {
	return &Recorder{db: db, actions: actions, registry: registry, hub: hub, limit: limit}
}

// Record appends an action for user and announces it to live clients.
func (r *Recorder) Record(user *models.User, verb string, opts ...Option) (*models.Action, error) {
	verb = strings.TrimSpace(verb)
	if user == nil || user.ID == 0 || verb == "" {
		return nil, ErrInvalidAction
	}

	action := &models.Action{
		Timestamp: time.Now(),
		Verb:      verb,
		UserID:    user.ID,
	}
	for _, opt := range opts {
		opt(action)
	}

	if err := r.actions.Create(action); err != nil {
		return nil, err
	}
	action.User = user
	metrics.ActionsRecorded.Inc()

	if r.hub != nil {
		r.hub.Broadcast(realtime.Event{
			Type:        realtime.EventAction,
			ActionID:    action.ID,
			Description: action.Describe(),
			Timestamp:   action.Timestamp.Unix(),
		})
	}
	return action, nil
}

// Latest returns the most recent actions, newest first, with their target
// and action object resolved for display.
func (r *Recorder) Latest() ([]models.Action, error) {
	actions, err := r.actions.Latest(r.limit)
	if err != nil {
		return nil, err
	}

	cache := make(map[models.EntityRef]models.Entity)
	resolve := func(ref models.EntityRef) models.Entity {
		if ref.IsZero() {
			return nil
		}
		if e, ok := cache[ref]; ok {
			return e
		}
		e, err := r.registry.Resolve(r.db, ref)
		if err != nil {
			log.Printf("stream: Could not resolve %s %d: %v", ref.Type, ref.ID, err)
		}
		cache[ref] = e
		return e
	}

	for i := range actions {
		actions[i].Target = resolve(actions[i].TargetRef())
		actions[i].ActionObject = resolve(actions[i].ActionObjectRef())
	}
	return actions, nil
}

// Entry is an action as shown in the activity feed
type Entry struct {
	ID          uint      `json:"id"`
	Timestamp   time.Time `json:"timestamp"`
	Description string    `json:"description"`
	UserID      uint      `json:"user_id"`
	Target      *Link     `json:"target,omitempty"`
	Object      *Link     `json:"action_object,omitempty"`
}

// Link names a referenced entity so clients can link to it
type Link struct {
	Type  string `json:"type"`
	ID    uint   `json:"id"`
	Label string `json:"label"`
}

func linkTo(e models.Entity) *Link {
	if e == nil {
		return nil
	}
	return &Link{Type: e.EntityType(), ID: e.EntityID(), Label: fmt.Sprint(e)}
}

// Feed is Latest rendered as entries
func (r *Recorder) Feed() ([]Entry, error) {
	actions, err := r.Latest()
	if err != nil {
		return nil, err
	}
	entries := make([]Entry, 0, len(actions))
	for i := range actions {
		a := &actions[i]
		entries = append(entries, Entry{
			ID:          a.ID,
			Timestamp:   a.Timestamp,
			Description: a.Describe(),
			UserID:      a.UserID,
			Target:      linkTo(a.Target),
			Object:      linkTo(a.ActionObject),
		})
	}
	return entries, nil
}
