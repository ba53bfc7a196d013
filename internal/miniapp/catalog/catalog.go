package catalog

import (
	"context"
	"time"

	capi "github.com/ovchar/miniapp-bet-client/pkg/contracts/api"
)

// CategoryAll devolve a sequência original, sem filtro.
const CategoryAll = "all"

// API é o recorte do cliente HTTP usado pelo catálogo.
type API interface {
	ListEvents(ctx context.Context) ([]capi.Event, error)
}

// Catalog guarda o snapshot de eventos buscado uma vez por visita.
// Filtro e agrupamento são projeções puras sobre o snapshot: mudar o
// filtro não gera nova busca.
type Catalog struct {
	api    API
	events []capi.Event
}

func New(api API) *Catalog { return &Catalog{api: api} }

// Load busca o catálogo e substitui o snapshot corrente.
func (c *Catalog) Load(ctx context.Context) error {
	events, err := c.api.ListEvents(ctx)
	if err != nil {
		return err
	}
	c.events = events
	return nil
}

// Events devolve o snapshot na ordem do servidor.
func (c *Catalog) Events() []capi.Event { return c.events }

// FilterByCategory devolve o subconjunto da categoria, preservando a
// ordem relativa original. "all" devolve a sequência inteira.
func (c *Catalog) FilterByCategory(category string) []capi.Event {
	if category == CategoryAll || category == "" {
		return c.events
	}
	var out []capi.Event
	for _, e := range c.events {
		if e.Category == category {
			out = append(out, e)
		}
	}
	return out
}

// Categories lista as categorias distintas na ordem em que aparecem.
func (c *Catalog) Categories() []string {
	seen := make(map[string]struct{})
	var out []string
	for _, e := range c.events {
		if _, ok := seen[e.Category]; ok {
			continue
		}
		seen[e.Category] = struct{}{}
		out = append(out, e.Category)
	}
	return out
}

// IsLive avalia o status ao vivo no momento da renderização, nunca em
// cache: um evento é live quando o commence time já passou.
func IsLive(e capi.Event, now time.Time) bool {
	t, err := time.Parse(time.RFC3339, e.CommenceTime)
	if err != nil {
		return false
	}
	return !t.After(now)
}

// Live projeta os eventos já em andamento.
func (c *Catalog) Live(now time.Time) []capi.Event {
	var out []capi.Event
	for _, e := range c.events {
		if IsLive(e, now) {
			out = append(out, e)
		}
	}
	return out
}

// Upcoming projeta os eventos ainda por começar.
func (c *Catalog) Upcoming(now time.Time) []capi.Event {
	var out []capi.Event
	for _, e := range c.events {
		if !IsLive(e, now) {
			out = append(out, e)
		}
	}
	return out
}

// HasDraw informa se o mercado oferece empate. A ausência é sinalizada
// por sentinela não-positiva, não por campo opcional.
func HasDraw(e capi.Event) bool { return e.OddsDraw > 0 }
