package dispatch

import (
	"github.com/prudhvinik1/tablesync/internal/models"
	"github.com/prudhvinik1/tablesync/internal/protocol"
	"github.com/prudhvinik1/tablesync/internal/services"
)

type CharactersDispatcher struct {
	characters *services.CharacterService
	selection  *services.SelectionService
}

func NewCharactersDispatcher(characters *services.CharacterService, selection *services.SelectionService) *CharactersDispatcher {
	return &CharactersDispatcher{characters: characters, selection: selection}
}

func (d *CharactersDispatcher) Dispatch(msg protocol.Message, rc *RouteContext, senderID string) (*Result, bool) {
	switch m := msg.(type) {
	case *protocol.CreateCharacter:
		c, ok := d.characters.Create(rc.State, senderID, models.Character{
			Name:        m.Name,
			HP:          m.HP,
			MaxHP:       m.MaxHP,
			TokenID:     m.TokenID,
			PortraitURL: m.PortraitURL,
		})
		return check(ok, func() *Result {
			return changed(protocol.EntityCharacterCreated, c)
		}), true
	case *protocol.UpdateCharacterHP:
		c, ok := d.characters.UpdateHP(rc.State, senderID, m.ID, m.HP, m.MaxHP, rc.IsDM)
		return check(ok, func() *Result {
			return changed(protocol.EntityCharacterUpdated, c)
		}), true
	case *protocol.DeleteCharacter:
		ordered := len(rc.State.InitiativeOrder)
		if !d.characters.Delete(rc.State, senderID, m.ID, rc.IsDM) {
			return rejected(ReasonRejected), true
		}
		scrubbed := d.selection.RemoveObject(rc.State, m.ID)
		return deleted(protocol.EntityCharacterDeleted, m.ID, scrubbed || ordered != len(rc.State.InitiativeOrder)), true
	}
	return nil, false
}
