// README:
// The provider module owns car-wash site records: where a site is, how
// many wash bays it runs, whether an operator has approved it for the
// marketplace, and its catalog of priced wash services.
package provider

import (
	"time"

	"washride/internal/types"
)

type Provider struct {
	ID        types.ID    `json:"id"`
	Name      string      `json:"name"`
	Address   string      `json:"address"`
	Location  types.Point `json:"location"`
	Bays      int         `json:"bays"`
	Approved  bool        `json:"approved"`
	CreatedAt time.Time   `json:"created_at"`
}

// Service is a single catalog entry, e.g. "Full Valet" at 350 ZMW.
type Service struct {
	ID          types.ID    `json:"id"`
	ProviderID  types.ID    `json:"provider_id"`
	Name        string      `json:"name"`
	Description string      `json:"description,omitempty"`
	Price       types.Money `json:"price"`
	DurationMin int         `json:"duration_min"`
}
