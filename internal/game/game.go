package game

import "errors"

var (
	ErrInvalidCatalog = errors.New("invalid catalog")
	ErrUnknownOption  = errors.New("unknown option")
)

// Player участник партии и его выбор
type Player struct {
	UserID string `json:"user_id"`
	Name   string `json:"name,omitempty"`
	Choice string `json:"choice"`
}

// DisplayName имя для текста результата, если имени нет, то ID
func (p Player) DisplayName() string {
	if p.Name != "" {
		return p.Name
	}
	return p.UserID
}

// Outcome результат партии. WinnerUserID == nil означает ничью.
type Outcome struct {
	WinnerUserID *string `json:"winner_user_id"`
	Text         string  `json:"text"`
	First        Player  `json:"first"`
	Second       Player  `json:"second"`
}

// IsTie ничья
func (o Outcome) IsTie() bool {
	return o.WinnerUserID == nil
}
