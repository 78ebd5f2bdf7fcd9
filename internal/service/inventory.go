package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/autoplaza/dealerbot/internal/domain"
)

const (
	inventoryHeading = "INVENTARIO DISPONIBLE:"
	inventoryFooter  = "FIN DEL INVENTARIO. Responde únicamente con base en los vehículos listados arriba."
)

// InventoryContextBuilder renders the configuration's available vehicles into
// a delimited prompt block the model is instructed to ground answers in.
type InventoryContextBuilder struct {
	store    InventoryStore
	maxItems int
}

func NewInventoryContextBuilder(store InventoryStore, maxItems int) *InventoryContextBuilder {
	return &InventoryContextBuilder{store: store, maxItems: maxItems}
}

// BuildContext returns the inventory block, or "" when the configuration has
// no available vehicles so no empty section ever reaches the prompt.
func (b *InventoryContextBuilder) BuildContext(ctx context.Context, configurationID int64) (string, error) {
	vehicles, err := b.store.ListAvailable(ctx, configurationID, b.maxItems)
	if err != nil {
		return "", fmt.Errorf("list available vehicles: %w", err)
	}
	if len(vehicles) == 0 {
		return "", nil
	}

	var sb strings.Builder
	sb.WriteString(inventoryHeading)
	for _, v := range vehicles {
		sb.WriteString("\n- ")
		sb.WriteString(formatVehicle(v))
	}
	sb.WriteString("\n")
	sb.WriteString(inventoryFooter)
	return sb.String(), nil
}

func formatVehicle(v domain.Vehicle) string {
	line := fmt.Sprintf("%s %s %d, $%s %s", v.Make, v.Model, v.Year, v.Price.StringFixed(0), v.Currency)
	if v.Specs != "" {
		line += ", " + v.Specs
	}
	return line
}
