package schools

import (
	"fmt"
	"slices"

	"mbaadvisor/internal/errors"
)

// MaxSelected is the number of schools that can be compared at once
const MaxSelected = 3

// Selection is an ordered set of school ids chosen for comparison. It is a
// value type: Add and Remove return a new Selection.
type Selection struct {
	ids []int
}

// NewSelection builds a selection by adding each id in turn
func NewSelection(c *Catalog, ids ...int) (Selection, error) {
	var sel Selection
	for _, id := range ids {
		next, err := sel.Add(c, id)
		if err != nil {
			return Selection{}, err
		}
		sel = next
	}
	return sel, nil
}

// IDs returns the selected ids in selection order
func (s Selection) IDs() []int {
	return slices.Clone(s.ids)
}

// Len returns the number of selected schools
func (s Selection) Len() int {
	return len(s.ids)
}

// Full reports whether no more schools can be added
func (s Selection) Full() bool {
	return len(s.ids) >= MaxSelected
}

// Contains reports whether the school is selected
func (s Selection) Contains(id int) bool {
	return slices.Contains(s.ids, id)
}

// Add returns a selection with the school appended
func (s Selection) Add(c *Catalog, id int) (Selection, error) {
	if _, ok := c.Get(id); !ok {
		return s, errors.NewNotFoundError(errors.ErrCodeSchoolNotFound,
			fmt.Sprintf("school %d not found", id), nil).WithContext("school_id", id)
	}
	if s.Contains(id) {
		return s, errors.NewConflictError(errors.ErrCodeAlreadySelected,
			fmt.Sprintf("school %d is already selected", id), nil).WithContext("school_id", id)
	}
	if s.Full() {
		return s, errors.NewConflictError(errors.ErrCodeSelectionFull,
			fmt.Sprintf("at most %d schools can be compared", MaxSelected), nil).WithContext("school_id", id)
	}
	ids := make([]int, len(s.ids), len(s.ids)+1)
	copy(ids, s.ids)
	return Selection{ids: append(ids, id)}, nil
}

// Remove returns a selection without the school. Removing an unselected id
// returns the selection unchanged.
func (s Selection) Remove(id int) Selection {
	i := slices.Index(s.ids, id)
	if i < 0 {
		return s
	}
	ids := slices.Clone(s.ids)
	return Selection{ids: slices.Delete(ids, i, i+1)}
}
