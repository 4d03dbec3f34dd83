// Package console owns the dispatch state of one operator: police and fire
// calls, police BOLOs, and unit statuses for both departments.
package console

import (
	"fmt"
	"time"

	"github.com/linesmerrill/dispatch-console/eventlog"
	"github.com/linesmerrill/dispatch-console/models"
	"github.com/linesmerrill/dispatch-console/registry"
)

// Department identifies one side of the console
type Department string

const (
	Police Department = "police"
	Fire   Department = "fire"
)

// UnknownDepartmentError is returned for department names the console does not serve
type UnknownDepartmentError struct {
	Name string
}

func (e *UnknownDepartmentError) Error() string {
	return fmt.Sprintf("unknown department %q", e.Name)
}

// ParseDepartment maps a path segment to a Department
func ParseDepartment(name string) (Department, error) {
	switch Department(name) {
	case Police, Fire:
		return Department(name), nil
	}
	return "", &UnknownDepartmentError{Name: name}
}

// ResetPolicy decides what unit registries hold after a clear-all
type ResetPolicy int

const (
	ResetToDefaults ResetPolicy = iota
	ResetToEmpty
)

// ParseResetPolicy reads "defaults" or "empty"
func ParseResetPolicy(s string) (ResetPolicy, error) {
	switch s {
	case "", "defaults":
		return ResetToDefaults, nil
	case "empty":
		return ResetToEmpty, nil
	}
	return ResetToDefaults, fmt.Errorf("unknown clear policy %q", s)
}

// Desk is the state of a single department
type Desk struct {
	Calls *eventlog.EventLog[models.Event]
	// Bolos is nil for departments that do not track BOLOs
	Bolos        *eventlog.EventLog[models.Event]
	Units        *registry.KeyedRegistry[string]
	defaultUnits []registry.Entry[string]
}

func newDesk(withBolos bool, units ...string) *Desk {
	defaults := make([]registry.Entry[string], 0, len(units))
	for _, u := range units {
		defaults = append(defaults, registry.Entry[string]{Key: u, Value: models.DefaultStatus})
	}
	d := &Desk{
		Calls:        eventlog.New[models.Event](),
		Units:        registry.New(defaults...),
		defaultUnits: defaults,
	}
	if withBolos {
		d.Bolos = eventlog.New[models.Event]()
	}
	return d
}

// DefaultUnits returns the units the desk starts with
func (d *Desk) DefaultUnits() []registry.Entry[string] {
	out := make([]registry.Entry[string], len(d.defaultUnits))
	copy(out, d.defaultUnits)
	return out
}

// Option configures a Console
type Option func(*Console)

// WithClock replaces time.Now for event timestamps
func WithClock(now func() time.Time) Option {
	return func(c *Console) {
		c.now = now
	}
}

// WithLocation sets the zone event timestamps are rendered in
func WithLocation(loc *time.Location) Option {
	return func(c *Console) {
		if loc != nil {
			c.loc = loc
		}
	}
}

// WithResetPolicy sets what clear-all leaves in the unit registries
func WithResetPolicy(p ResetPolicy) Option {
	return func(c *Console) {
		c.policy = p
	}
}

// Console is the state of both departments. Construct it once at start-up
// and share it between handlers.
type Console struct {
	Police *Desk
	Fire   *Desk

	policy ResetPolicy
	now    func() time.Time
	loc    *time.Location
	forms  *formValidator
}

// New creates a console with the default units on each desk
func New(opts ...Option) *Console {
	c := &Console{
		Police: newDesk(true, "P-1", "P-2"),
		Fire:   newDesk(false, "E-1", "L-1"),
		policy: ResetToDefaults,
		now:    time.Now,
		loc:    time.UTC,
		forms:  newFormValidator(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Desk returns the state of dept
func (c *Console) Desk(dept Department) (*Desk, error) {
	switch dept {
	case Police:
		return c.Police, nil
	case Fire:
		return c.Fire, nil
	}
	return nil, &UnknownDepartmentError{Name: string(dept)}
}

// Clock returns the current military time, HH:MM:SS
func (c *Console) Clock() string {
	return c.now().In(c.loc).Format("15:04:05")
}

// SubmitPoliceCall validates form and logs a police call
func (c *Console) SubmitPoliceCall(form models.PoliceCallForm) (models.Event, error) {
	form = models.PoliceCallForm{
		Type:        sanitize(form.Type),
		Address:     sanitize(form.Address),
		Description: sanitize(form.Description),
		Units:       sanitize(form.Units),
	}
	if err := c.forms.check(form, "Please fill out Call Type, Address, and Units Responding."); err != nil {
		return models.Event{}, err
	}
	e := models.NewEvent(c.Clock(), map[string]string{
		"type":        form.Type,
		"address":     form.Address,
		"description": form.Description,
		"units":       form.Units,
	})
	c.Police.Calls.Append(e)
	return e, nil
}

// SubmitFireCall validates form and logs a fire call
func (c *Console) SubmitFireCall(form models.FireCallForm) (models.Event, error) {
	form = models.FireCallForm{
		Type:        sanitize(form.Type),
		Address:     sanitize(form.Address),
		Description: sanitize(form.Description),
		Crossroads:  sanitize(form.Crossroads),
		Rigs:        sanitize(form.Rigs),
	}
	if err := c.forms.check(form, "Please fill out Call Type, Address, Crossroads, and Rigs Responding."); err != nil {
		return models.Event{}, err
	}
	e := models.NewEvent(c.Clock(), map[string]string{
		"type":        form.Type,
		"address":     form.Address,
		"description": form.Description,
		"crossroads":  form.Crossroads,
		"rigs":        form.Rigs,
	})
	c.Fire.Calls.Append(e)
	return e, nil
}

// SubmitBolo validates form and logs a police BOLO
func (c *Console) SubmitBolo(form models.BoloForm) (models.Event, error) {
	form.Details = sanitize(form.Details)
	if err := c.forms.check(form, "Please fill out BOLO Details."); err != nil {
		return models.Event{}, err
	}
	e := models.NewEvent(c.Clock(), map[string]string{"details": form.Details})
	c.Police.Bolos.Append(e)
	return e, nil
}

// SetUnitStatus adds a unit or updates its status
func (c *Console) SetUnitStatus(dept Department, form models.UnitForm) (models.UnitStatus, error) {
	desk, err := c.Desk(dept)
	if err != nil {
		return models.UnitStatus{}, err
	}
	form.CallSign = registry.Normalize(sanitize(form.CallSign))
	form.Status = sanitize(form.Status)
	if err := c.forms.check(form, "Please provide a Unit Call Sign and Status."); err != nil {
		return models.UnitStatus{}, err
	}
	desk.Units.Upsert(form.CallSign, form.Status)
	return models.UnitStatus{CallSign: form.CallSign, Status: form.Status}, nil
}

// RemoveCall deletes the call at displayIndex, 0 being the newest
func (c *Console) RemoveCall(dept Department, displayIndex int) (models.Event, error) {
	desk, err := c.Desk(dept)
	if err != nil {
		return models.Event{}, err
	}
	return desk.Calls.RemoveAtDisplayIndex(displayIndex)
}

// RemoveBolo deletes the BOLO at displayIndex, 0 being the newest
func (c *Console) RemoveBolo(displayIndex int) (models.Event, error) {
	return c.Police.Bolos.RemoveAtDisplayIndex(displayIndex)
}

// RemoveUnit deletes a unit by call sign. Unknown units are ignored.
func (c *Console) RemoveUnit(dept Department, callSign string) error {
	desk, err := c.Desk(dept)
	if err != nil {
		return err
	}
	desk.Units.Remove(callSign)
	return nil
}

// ClearAll drops every call and BOLO of dept and resets its units according
// to the reset policy
func (c *Console) ClearAll(dept Department) error {
	desk, err := c.Desk(dept)
	if err != nil {
		return err
	}
	desk.Calls.Clear()
	if desk.Bolos != nil {
		desk.Bolos.Clear()
	}
	if c.policy == ResetToEmpty {
		desk.Units.Clear()
	} else {
		desk.Units.Clear(desk.defaultUnits...)
	}
	return nil
}

// Units returns the unit statuses of dept in insertion order
func (c *Console) Units(dept Department) ([]models.UnitStatus, error) {
	desk, err := c.Desk(dept)
	if err != nil {
		return nil, err
	}
	out := make([]models.UnitStatus, 0, desk.Units.Len())
	for k, v := range desk.Units.Entries() {
		out = append(out, models.UnitStatus{CallSign: k, Status: v})
	}
	return out, nil
}
