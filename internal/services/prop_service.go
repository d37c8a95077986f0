package services

import (
	"github.com/prudhvinik1/tablesync/internal/models"
)

// PropService manages scenery props. Creating and deleting props is a DM
// action; a prop's owner may also update it.
type PropService struct {
	newID IDFunc
}

func NewPropService(newID IDFunc) *PropService {
	return &PropService{newID: orDefaultID(newID)}
}

func (s *PropService) Create(state *models.RoomState, isDM bool, prop models.Prop) (models.Prop, bool) {
	if !isDM {
		return models.Prop{}, false
	}
	prop.ID = s.newID()
	normalizeScale(&prop)
	state.Props = append(state.Props, prop)
	return prop, true
}

// Update replaces every mutable field of the prop. Ownership changes are
// reserved to the DM.
func (s *PropService) Update(state *models.RoomState, userID string, isDM bool, next models.Prop) (models.Prop, bool) {
	prop, ok := state.Prop(next.ID)
	if !ok {
		return models.Prop{}, false
	}
	if !isDM && (prop.Owner == "" || prop.Owner != userID) {
		return models.Prop{}, false
	}
	if !isDM {
		next.Owner = prop.Owner
	}
	normalizeScale(&next)
	*prop = next
	return next, true
}

func (s *PropService) Delete(state *models.RoomState, propID string, isDM bool) bool {
	if !isDM {
		return false
	}
	for i := range state.Props {
		if state.Props[i].ID == propID {
			state.Props = append(state.Props[:i], state.Props[i+1:]...)
			return true
		}
	}
	return false
}

func normalizeScale(p *models.Prop) {
	if p.ScaleX == 0 {
		p.ScaleX = 1
	}
	if p.ScaleY == 0 {
		p.ScaleY = 1
	}
}
