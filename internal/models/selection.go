package models

type SelectionMode string

const (
	SelectionSingle   SelectionMode = "single"
	SelectionMultiple SelectionMode = "multiple"
)

// Selection is one user's selection entry. Exactly one of ObjectID
// (single mode) or ObjectIDs (multiple mode) is populated.
type Selection struct {
	Mode      SelectionMode `json:"mode"`
	ObjectID  string        `json:"objectId,omitempty"`
	ObjectIDs []string      `json:"objectIds,omitempty"`
}

func SingleSelection(objectID string) Selection {
	return Selection{Mode: SelectionSingle, ObjectID: objectID}
}

func MultipleSelection(objectIDs []string) Selection {
	return Selection{Mode: SelectionMultiple, ObjectIDs: objectIDs}
}

// IDs returns the selected object ids in order.
func (s Selection) IDs() []string {
	if s.Mode == SelectionSingle {
		if s.ObjectID == "" {
			return nil
		}
		return []string{s.ObjectID}
	}
	out := make([]string, len(s.ObjectIDs))
	copy(out, s.ObjectIDs)
	return out
}

func (s Selection) Contains(objectID string) bool {
	if s.Mode == SelectionSingle {
		return s.ObjectID == objectID
	}
	for _, id := range s.ObjectIDs {
		if id == objectID {
			return true
		}
	}
	return false
}

func (s Selection) Equal(o Selection) bool {
	if s.Mode != o.Mode || s.ObjectID != o.ObjectID || len(s.ObjectIDs) != len(o.ObjectIDs) {
		return false
	}
	for i := range s.ObjectIDs {
		if s.ObjectIDs[i] != o.ObjectIDs[i] {
			return false
		}
	}
	return true
}

// SelectionFromIDs builds the canonical entry for ids: nothing for an empty
// set, single mode for one id, multiple mode otherwise.
func SelectionFromIDs(ids []string) (Selection, bool) {
	switch len(ids) {
	case 0:
		return Selection{}, false
	case 1:
		return SingleSelection(ids[0]), true
	default:
		return MultipleSelection(ids), true
	}
}
