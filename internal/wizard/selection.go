package wizard

import "fmt"

type Category string

const (
	CategoryTransport Category = "transport"
	CategoryHotel     Category = "hotel"
	CategoryGuide     Category = "guide"
	CategoryVehicle   Category = "vehicle"
)

// Categories are the add-ons a package can carry, in display order.
var Categories = []Category{CategoryTransport, CategoryHotel, CategoryGuide, CategoryVehicle}

// CatalogCategories have an option catalog on the backend.
var CatalogCategories = []Category{CategoryTransport, CategoryHotel, CategoryGuide}

func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if string(c) == s {
			return c, nil
		}
	}

	return "", fmt.Errorf("%q: %w", s, ErrUnknownCategory)
}

type SelectionState int

const (
	Unselected SelectionState = iota
	Selected
	Skipped
)

func (s SelectionState) String() string {
	switch s {
	case Selected:
		return "selected"
	case Skipped:
		return "skipped"
	default:
		return "unselected"
	}
}

// Selection is the choice made for one add-on category. The option id is only
// reachable in the Selected state, so a skipped category can never carry one.
type Selection struct {
	state    SelectionState
	optionID string
}

func (s Selection) State() SelectionState {
	return s.state
}

func (s Selection) OptionID() (string, bool) {
	if s.state != Selected {
		return "", false
	}

	return s.optionID, true
}

func (s Selection) Skipped() bool {
	return s.state == Skipped
}

// ToggleSkip moves Unselected/Selected to Skipped and Skipped back to Unselected.
func (s Selection) ToggleSkip() Selection {
	if s.state == Skipped {
		return Selection{state: Unselected}
	}

	return Selection{state: Skipped}
}

// Select picks id. Picking the current option again clears it, and a skipped
// category ignores the call.
func (s Selection) Select(id string) Selection {
	switch {
	case s.state == Skipped:
		return s
	case id == "":
		return Selection{state: Unselected}
	case s.state == Selected && s.optionID == id:
		return Selection{state: Unselected}
	default:
		return Selection{state: Selected, optionID: id}
	}
}

// idPtr is the submission form of the selection: nil unless an option is picked.
func (s Selection) idPtr() *string {
	id, ok := s.OptionID()
	if !ok {
		return nil
	}

	return &id
}
