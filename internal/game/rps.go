package game

import "fmt"

// Engine считает результат партии по таблице побед каталога.
// Состояния не держит, можно вызывать из любых горутин.
type Engine struct {
	catalog *Catalog
}

// создает движок для каталога
func NewEngine(catalog *Catalog) *Engine {
	return &Engine{catalog: catalog}
}

func (e *Engine) Catalog() *Catalog {
	return e.catalog
}

// Validate проверяет, что выбор есть в каталоге
func (e *Engine) Validate(choice string) error {
	if !e.catalog.Has(choice) {
		return fmt.Errorf("%w: %q", ErrUnknownOption, choice)
	}
	return nil
}

// Resolve определяет победителя между a и b.
// Для любых двух вариантов из каталога ровно одно: a побеждает, b побеждает или ничья.
func (e *Engine) Resolve(a, b Player) (Outcome, error) {
	if err := e.Validate(a.Choice); err != nil {
		return Outcome{}, err
	}
	if err := e.Validate(b.Choice); err != nil {
		return Outcome{}, err
	}

	out := Outcome{First: a, Second: b}

	switch decide(e.catalog, a.Choice, b.Choice) {
	case "draw":
		out.Text = fmt.Sprintf("Ничья! %s и %s выбрали «%s»",
			a.DisplayName(), b.DisplayName(), e.label(a.Choice))
	case "win":
		winner := a.UserID
		out.WinnerUserID = &winner
		out.Text = e.winText(a, b)
	default:
		winner := b.UserID
		out.WinnerUserID = &winner
		out.Text = e.winText(b, a)
	}

	return out, nil
}

func (e *Engine) winText(winner, loser Player) string {
	verb, _ := e.catalog.beat(winner.Choice, loser.Choice)
	return fmt.Sprintf("«%s» (%s) %s «%s» (%s). Побеждает %s!",
		e.label(winner.Choice), winner.DisplayName(),
		verb,
		e.label(loser.Choice), loser.DisplayName(),
		winner.DisplayName())
}

func (e *Engine) label(value string) string {
	if opt, ok := e.catalog.Option(value); ok && opt.Label != "" {
		return opt.Label
	}
	return value
}

// определяет результат для игрока A против игрока B: "win" | "lose" | "draw"
func decide(c *Catalog, moveA, moveB string) string {
	if moveA == moveB {
		return "draw"
	}
	if _, ok := c.beat(moveA, moveB); ok {
		return "win"
	}
	return "lose"
}
