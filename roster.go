package signup

import (
	"embed"
	"encoding/json"
	"sync"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/goliatone/go-errors"
)

//go:embed data/activities.json
var seedFS embed.FS

// Activity is one extracurricular offering and its participant roster.
// Participants keep insertion order for display.
type Activity struct {
	Description     string   `json:"description"`
	Schedule        string   `json:"schedule"`
	MaxParticipants int      `json:"max_participants"`
	Participants    []string `json:"participants"`
}

// Validate checks one seed record so malformed catalogue data fails the
// load instead of surfacing mid-request as a nil or zero field.
func (a Activity) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Description, validation.Required),
		validation.Field(&a.Schedule, validation.Required),
		validation.Field(&a.MaxParticipants, validation.Required, validation.Min(1)),
		validation.Field(&a.Participants, validation.Each(validation.Required, is.EmailFormat)),
	)
}

func (a Activity) clone() Activity {
	out := a
	out.Participants = make([]string, len(a.Participants))
	copy(out.Participants, a.Participants)
	return out
}

func (a Activity) hasParticipant(email string) bool {
	for _, p := range a.Participants {
		if p == email {
			return true
		}
	}
	return false
}

// Roster is the in-memory activity catalogue. Signup and Unregister are
// critical sections: two concurrent signups for the last open slot must
// not both succeed.
type Roster struct {
	mu         sync.RWMutex
	activities map[string]*Activity
	logger     Logger
}

// NewRoster creates an empty roster. Use Seed or SeedDefault to populate.
func NewRoster() *Roster {
	return &Roster{
		activities: map[string]*Activity{},
		logger:     defLogger{},
	}
}

func (r *Roster) WithLogger(logger Logger) *Roster {
	if logger != nil {
		r.logger = logger
	}
	return r
}

// SeedDefault loads the embedded activity catalogue.
func (r *Roster) SeedDefault() error {
	data, err := seedFS.ReadFile("data/activities.json")
	if err != nil {
		return errors.Wrap(err, errors.CategoryInternal, "failed to read embedded activity seed")
	}
	return r.Seed(data)
}

// Seed replaces the catalogue with the given JSON mapping of name to
// activity. Every record is validated before any of them is installed.
func (r *Roster) Seed(data []byte) error {
	seeded := map[string]*Activity{}
	if err := json.Unmarshal(data, &seeded); err != nil {
		return errors.Wrap(err, errors.CategoryBadInput, "activity seed is not valid JSON")
	}

	for name, activity := range seeded {
		if activity == nil {
			return errors.New("activity seed entry is empty", errors.CategoryBadInput).
				WithMetadata(map[string]any{"activity": name})
		}
		if err := activity.Validate(); err != nil {
			return errors.Wrap(err, errors.CategoryBadInput, "activity seed failed validation").
				WithMetadata(map[string]any{"activity": name})
		}
		if activity.Participants == nil {
			activity.Participants = []string{}
		}
	}

	r.mu.Lock()
	r.activities = seeded
	r.mu.Unlock()

	r.logger.Info("activity roster seeded", "activities", len(seeded))
	return nil
}

// List returns a snapshot of the full catalogue keyed by activity name.
// Participant slices are copied so callers cannot mutate roster state.
func (r *Roster) List() map[string]Activity {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]Activity, len(r.activities))
	for name, activity := range r.activities {
		out[name] = activity.clone()
	}
	return out
}

// Get returns a snapshot of one activity.
func (r *Roster) Get(name string) (Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	activity, ok := r.activities[name]
	if !ok {
		return Activity{}, ErrActivityNotFound
	}
	return activity.clone(), nil
}

// Signup appends the email to the activity's participant list. Duplicates
// and signups past max_participants are rejected.
func (r *Roster) Signup(name, email string) error {
	email = NormalizeEmail(email)

	r.mu.Lock()
	defer r.mu.Unlock()

	activity, ok := r.activities[name]
	if !ok {
		return ErrActivityNotFound
	}

	if activity.hasParticipant(email) {
		return ErrAlreadySignedUp
	}

	if len(activity.Participants) >= activity.MaxParticipants {
		return ErrActivityFull
	}

	activity.Participants = append(activity.Participants, email)
	return nil
}

// Unregister removes the email from the activity's participant list,
// preserving the order of the remaining participants.
func (r *Roster) Unregister(name, email string) error {
	email = NormalizeEmail(email)

	r.mu.Lock()
	defer r.mu.Unlock()

	activity, ok := r.activities[name]
	if !ok {
		return ErrActivityNotFound
	}

	for i, p := range activity.Participants {
		if p == email {
			activity.Participants = append(activity.Participants[:i], activity.Participants[i+1:]...)
			return nil
		}
	}

	return ErrNotSignedUp
}
