package entity

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/probmap/layers-backend-go/internal/models"
)

// TargetFilter narrows which entities are click-eligible while type
// assignment is armed.
type TargetFilter int

const (
	// FilterAll makes every entity eligible
	FilterAll TargetFilter = iota
	// FilterMarkersOnly restricts eligibility to point markers
	FilterMarkersOnly
	// FilterVertiportMarkersOnly restricts eligibility to point markers
	// already classified as VERTIPORT
	FilterVertiportMarkersOnly
)

var targetFilterNames = map[TargetFilter]string{
	FilterAll:                  "all",
	FilterMarkersOnly:          "markersOnly",
	FilterVertiportMarkersOnly: "vertiportMarkersOnly",
}

// String returns the wire name of the filter
func (f TargetFilter) String() string {
	if name, ok := targetFilterNames[f]; ok {
		return name
	}
	return fmt.Sprintf("unknown(%d)", int(f))
}

// ParseTargetFilter parses a wire name into a TargetFilter
func ParseTargetFilter(name string) (TargetFilter, error) {
	for f, n := range targetFilterNames {
		if n == name {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown target filter %q", name)
}

// MarshalJSON implements json.Marshaler
func (f TargetFilter) MarshalJSON() ([]byte, error) {
	name, ok := targetFilterNames[f]
	if !ok {
		return nil, fmt.Errorf("unknown target filter %d", int(f))
	}
	return json.Marshal(name)
}

// UnmarshalJSON implements json.Unmarshaler
func (f *TargetFilter) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	parsed, err := ParseTargetFilter(name)
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// TypeAssignment is the tuple committed onto an entity by a click while
// the assignment mode is armed.
type TypeAssignment struct {
	Classification string       `json:"classification"`
	Color          string       `json:"color"`
	Uncertainty    float64      `json:"uncertainty"`
	Filter         TargetFilter `json:"filter"`
}

// Assignment is the type-assignment state machine. Idle until armed;
// armed until explicitly disarmed. A commit does not auto-disarm, so one
// armed tuple can classify a whole batch of entities.
//
// Eligible entities live in a single dispatch table keyed by entity id;
// Click is the one global router. Re-arming rebuilds the table,
// disarming empties it.
type Assignment struct {
	armed    *TypeAssignment
	eligible map[string]struct{}
}

func newAssignment() *Assignment {
	return &Assignment{eligible: make(map[string]struct{})}
}

// Armed returns the active tuple, or nil when idle
func (a *Assignment) Armed() *TypeAssignment { return a.armed }

// Disarm returns the state machine to idle and drops every click target
func (a *Assignment) Disarm() {
	a.armed = nil
	a.eligible = make(map[string]struct{})
}

// eligibleFor decides eligibility of one entity under a filter. The
// switches cover every filter and geometry variant explicitly.
func eligibleFor(e *models.DynamicEntity, filter TargetFilter) (bool, error) {
	isMarker := false
	switch e.Geometry.(type) {
	case models.PointGeometry:
		isMarker = true
	case models.LineGeometry, models.PolygonGeometry:
		isMarker = false
	default:
		return false, fmt.Errorf("entity %s has unsupported geometry %T", e.ID, e.Geometry)
	}

	switch filter {
	case FilterAll:
		return true, nil
	case FilterMarkersOnly:
		return isMarker, nil
	case FilterVertiportMarkersOnly:
		return isMarker && e.Classification == models.LocationTypeVertiport, nil
	}
	return false, fmt.Errorf("unhandled target filter %v", filter)
}

// register adds a newly created entity to the dispatch table when the
// mode is armed and the entity passes the filter.
func (a *Assignment) register(e *models.DynamicEntity) {
	if a.armed == nil {
		return
	}
	ok, err := eligibleFor(e, a.armed.Filter)
	if err != nil {
		log.Printf("[TypeAssignment] %v", err)
		return
	}
	if ok {
		a.eligible[e.ID] = struct{}{}
	}
}

// unregister drops a deleted entity from the dispatch table
func (a *Assignment) unregister(id string) {
	delete(a.eligible, id)
}

// ArmTypeAssignment arms the assignment mode with a tuple. The
// classification must exist. Re-arming replaces the previous tuple and
// rebuilds the dispatch table from scratch.
func (r *Registry) ArmTypeAssignment(t TypeAssignment) error {
	if _, err := r.types.Get(t.Classification); err != nil {
		return fmt.Errorf("cannot arm type assignment: %w", err)
	}

	r.assign.armed = &t
	r.assign.eligible = make(map[string]struct{})
	for _, e := range r.entities {
		r.assign.register(e)
	}

	log.Printf("[TypeAssignment] armed %q (filter=%s), %d eligible entities",
		t.Classification, t.Filter, len(r.assign.eligible))
	return nil
}

// DisarmTypeAssignment returns the mode to idle
func (r *Registry) DisarmTypeAssignment() {
	r.assign.Disarm()
}

// Assignment exposes the current state machine state
func (r *Registry) Assignment() *Assignment { return r.assign }

// Click routes a click on an entity through the dispatch table. When the
// mode is armed and the entity is eligible, the armed tuple is committed
// onto it and the mode stays armed. Returns whether a commit happened.
func (r *Registry) Click(id string) (bool, error) {
	if _, ok := r.entities[id]; !ok {
		return false, models.ErrEntityNotFound
	}
	armed := r.assign.armed
	if armed == nil {
		return false, nil
	}
	if _, ok := r.assign.eligible[id]; !ok {
		return false, nil
	}

	e := r.entities[id]
	e.Classification = armed.Classification
	e.Color = armed.Color
	e.Uncertainty = armed.Uncertainty
	return true, nil
}
