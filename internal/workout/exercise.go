package workout

import (
	"math"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	DefaultIcon         = "💪"
	DefaultCoefficient  = 1.0
	UnknownExerciseName = "unknown"
)

type Exercise struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Icon        string  `json:"icon"`
	Coefficient float64 `json:"coefficient"`
}

// DefaultExercises is the catalog a fresh install starts with.
func DefaultExercises() []Exercise {
	return []Exercise{
		{ID: "1", Name: "Pompes", Icon: "💪", Coefficient: 1.2},
		{ID: "2", Name: "Vélo", Icon: "🚴", Coefficient: 0.5},
		{ID: "3", Name: "Course", Icon: "🏃", Coefficient: 1.0},
		{ID: "4", Name: "Squats", Icon: "🦵", Coefficient: 1.1},
	}
}

// Catalog keeps exercise definitions in creation order.
// Exercises are never removed nor edited, and two of them may share a name.
type Catalog struct {
	exercises []Exercise
	byID      map[string]int
	newID     func() string
}

// NewCatalog loads exercises as persisted, fixing the icon and coefficient of any entry
// that would not pass Add. newID may be nil, ids are then derived from the creation instant.
func NewCatalog(exercises []Exercise, newID func() string) *Catalog {
	c := &Catalog{
		byID:  make(map[string]int, len(exercises)),
		newID: newID,
	}
	if c.newID == nil {
		c.newID = c.timestampID
	}
	for _, ex := range exercises {
		c.append(sanitizeLoaded(ex))
	}
	return c
}

// Add appends a new exercise and returns its id.
// Empty icon falls back to DefaultIcon, a coefficient that is not a positive finite
// number falls back to DefaultCoefficient.
func (c *Catalog) Add(name, icon string, coefficient float64) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrInvalidExerciseName
	}

	icon = strings.TrimSpace(icon)
	if icon == "" {
		icon = DefaultIcon
	}

	if !validCoefficient(coefficient) {
		coefficient = DefaultCoefficient
	}

	id := c.newID()
	c.append(Exercise{
		ID:          id,
		Name:        name,
		Icon:        icon,
		Coefficient: coefficient,
	})

	return id, nil
}

// Lookup returns the exercise for the given id, ok is false for dangling references.
func (c *Catalog) Lookup(id string) (Exercise, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Exercise{}, false
	}
	return c.exercises[i], true
}

// List returns a copy of all exercises.
func (c *Catalog) List() []Exercise {
	exercises := make([]Exercise, len(c.exercises))
	copy(exercises, c.exercises)
	return exercises
}

func (c *Catalog) has(id string) bool {
	_, ok := c.byID[id]
	return ok
}

func (c *Catalog) append(ex Exercise) {
	// first one wins when a persisted catalog carries duplicated ids
	if _, exists := c.byID[ex.ID]; !exists {
		c.byID[ex.ID] = len(c.exercises)
	}
	c.exercises = append(c.exercises, ex)
}

// timestampID derives the id from the creation instant in milliseconds,
// bumping it when two exercises are created within the same millisecond.
func (c *Catalog) timestampID() string {
	ms := time.Now().UnixMilli()
	for c.has(strconv.FormatInt(ms, 10)) {
		ms++
	}
	return strconv.FormatInt(ms, 10)
}

func sanitizeLoaded(ex Exercise) Exercise {
	if !validCoefficient(ex.Coefficient) {
		log.Warnf("exercise [%s] loaded with invalid coefficient %v, using %v", ex.ID, ex.Coefficient, DefaultCoefficient)
		ex.Coefficient = DefaultCoefficient
	}
	if strings.TrimSpace(ex.Icon) == "" {
		ex.Icon = DefaultIcon
	}
	return ex
}

func validCoefficient(coefficient float64) bool {
	return coefficient > 0 && !math.IsInf(coefficient, 0) && !math.IsNaN(coefficient)
}
