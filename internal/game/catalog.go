package game

import (
	"fmt"
	"math/rand"
)

// Option один вариант выбора, который видит пользователь
type Option struct {
	Value       string `json:"value"`
	Label       string `json:"label"`
	Description string `json:"description,omitempty"`
}

// Beats таблица побед: beats[победитель][проигравший] = глагол для текста результата
type Beats map[string]map[string]string

// Catalog фиксированный упорядоченный набор вариантов и явная таблица побед.
// После создания не меняется, поэтому безопасен для конкурентного чтения.
type Catalog struct {
	name    string
	options []Option
	index   map[string]int
	beats   Beats
}

// NewCatalog проверяет, что таблица побед задает турнир:
// для каждой пары разных вариантов ровно один побеждает другого.
func NewCatalog(name string, options []Option, beats Beats) (*Catalog, error) {
	if len(options) == 0 {
		return nil, fmt.Errorf("%w: no options", ErrInvalidCatalog)
	}

	index := make(map[string]int, len(options))
	for i, opt := range options {
		if opt.Value == "" {
			return nil, fmt.Errorf("%w: option %d has empty value", ErrInvalidCatalog, i)
		}
		if _, dup := index[opt.Value]; dup {
			return nil, fmt.Errorf("%w: duplicate option %q", ErrInvalidCatalog, opt.Value)
		}
		index[opt.Value] = i
	}

	for winner, losers := range beats {
		if _, ok := index[winner]; !ok {
			return nil, fmt.Errorf("%w: unknown winner %q in beat table", ErrInvalidCatalog, winner)
		}
		for loser := range losers {
			if _, ok := index[loser]; !ok {
				return nil, fmt.Errorf("%w: unknown loser %q in beat table", ErrInvalidCatalog, loser)
			}
			if loser == winner {
				return nil, fmt.Errorf("%w: %q beats itself", ErrInvalidCatalog, winner)
			}
		}
	}

	for i := 0; i < len(options); i++ {
		for j := i + 1; j < len(options); j++ {
			a, b := options[i].Value, options[j].Value
			_, ab := beats[a][b]
			_, ba := beats[b][a]
			switch {
			case ab && ba:
				return nil, fmt.Errorf("%w: %q and %q beat each other", ErrInvalidCatalog, a, b)
			case !ab && !ba:
				return nil, fmt.Errorf("%w: no winner between %q and %q", ErrInvalidCatalog, a, b)
			}
		}
	}

	// копируем, чтобы вызывающий код не мог поменять каталог снаружи
	opts := make([]Option, len(options))
	copy(opts, options)
	table := make(Beats, len(beats))
	for winner, losers := range beats {
		row := make(map[string]string, len(losers))
		for loser, verb := range losers {
			row[loser] = verb
		}
		table[winner] = row
	}

	return &Catalog{name: name, options: opts, index: index, beats: table}, nil
}

// Name имя каталога из конфига
func (c *Catalog) Name() string {
	return c.name
}

// Options возвращает копию вариантов в каноническом порядке
func (c *Catalog) Options() []Option {
	out := make([]Option, len(c.options))
	copy(out, c.options)
	return out
}

// ShuffledOptions возвращает новый срез с равномерно перемешанными вариантами.
// Порядок влияет только на отображение, исходный каталог не меняется.
func (c *Catalog) ShuffledOptions() []Option {
	out := c.Options()
	rand.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

// Has проверяет, есть ли значение в каталоге
func (c *Catalog) Has(value string) bool {
	_, ok := c.index[value]
	return ok
}

// Option возвращает вариант по значению
func (c *Catalog) Option(value string) (Option, bool) {
	i, ok := c.index[value]
	if !ok {
		return Option{}, false
	}
	return c.options[i], true
}

// beat возвращает глагол, если a побеждает b
func (c *Catalog) beat(a, b string) (string, bool) {
	verb, ok := c.beats[a][b]
	return verb, ok
}

// ClassicCatalog камень-ножницы-бумага
func ClassicCatalog() *Catalog {
	return mustCatalog(CatalogClassic,
		[]Option{
			{Value: "rock", Label: "Камень"},
			{Value: "paper", Label: "Бумага"},
			{Value: "scissors", Label: "Ножницы"},
		},
		Beats{
			"rock":     {"scissors": "разбивает"},
			"scissors": {"paper": "режет"},
			"paper":    {"rock": "накрывает"},
		},
	)
}

// ExtendedCatalog вариант на семь фигур, каждая бьет ровно три других
func ExtendedCatalog() *Catalog {
	return mustCatalog(CatalogExtended,
		[]Option{
			{Value: "rock", Label: "Камень", Description: "осадочный, магматический или даже метаморфический"},
			{Value: "cowboy", Label: "Ковбой", Description: "йи-ха!"},
			{Value: "scissors", Label: "Ножницы", Description: "осторожно, острые края!"},
			{Value: "virus", Label: "Вирус", Description: "мутация, малварь или что-то среднее"},
			{Value: "computer", Label: "Компьютер", Description: "бип-буп-бзззр"},
			{Value: "wumpus", Label: "Вампус", Description: "фиолетовый дружок"},
			{Value: "paper", Label: "Бумага", Description: "универсальная и культовая"},
		},
		Beats{
			"rock":     {"virus": "пересиживает", "computer": "разбивает", "scissors": "ломает"},
			"cowboy":   {"scissors": "убирает в кобуру", "wumpus": "ловит лассо", "rock": "пинает сапогом"},
			"scissors": {"paper": "режет", "computer": "перерезает провод у", "virus": "разрезает ДНК у"},
			"virus":    {"cowboy": "заражает", "computer": "портит", "wumpus": "заражает"},
			"computer": {"cowboy": "перегружает", "paper": "удаляет прошивку у", "wumpus": "удаляет ассеты у"},
			"wumpus":   {"paper": "рисует на", "rock": "рисует рожицу на", "scissors": "любуется собой в"},
			"paper":    {"virus": "игнорирует", "cowboy": "режет палец", "rock": "накрывает"},
		},
	)
}

const (
	CatalogClassic  = "classic"
	CatalogExtended = "extended"
)

// CatalogByName выбирает встроенный каталог по имени из конфига
func CatalogByName(name string) (*Catalog, error) {
	switch name {
	case "", CatalogClassic:
		return ClassicCatalog(), nil
	case CatalogExtended:
		return ExtendedCatalog(), nil
	default:
		return nil, fmt.Errorf("%w: unknown catalog %q", ErrInvalidCatalog, name)
	}
}

func mustCatalog(name string, options []Option, beats Beats) *Catalog {
	c, err := NewCatalog(name, options, beats)
	if err != nil {
		panic(err)
	}
	return c
}
