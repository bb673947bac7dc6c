package experiment

import (
	"crypto/sha256"
	"fmt"
	"strings"

	"github.com/upb/review-generator/models"
)

const (
	VariantControl   = "control"
	VariantTreatment = "treatment"
)

// Variant is one arm of the provider-order experiment
type Variant struct {
	Name          string   `json:"name"`
	ProviderOrder []string `json:"provider_order"`
}

// Config holds the provider order of each arm
type Config struct {
	Enabled        bool
	ControlOrder   []string
	TreatmentOrder []string
}

// Assigner maps sessions to variants by hashing the session ID.
// It holds no mutable state, so a session keeps its variant for the life of the process.
type Assigner struct {
	variants []Variant
}

// NewAssigner builds the variant list. A disabled experiment has only the control arm.
func NewAssigner(config Config) (*Assigner, error) {
	control := normalizeOrder(config.ControlOrder)
	if len(control) == 0 {
		return nil, fmt.Errorf("control provider order is empty")
	}

	variants := []Variant{{Name: VariantControl, ProviderOrder: control}}
	if config.Enabled {
		treatment := normalizeOrder(config.TreatmentOrder)
		if len(treatment) == 0 {
			return nil, fmt.Errorf("treatment provider order is empty")
		}
		variants = append(variants, Variant{Name: VariantTreatment, ProviderOrder: treatment})
	}

	return &Assigner{variants: variants}, nil
}

// Assign returns the variant for sessionID
func (a *Assigner) Assign(sessionID string) models.VariantAssignment {
	sum := sha256.Sum256([]byte(sessionID))
	v := a.variants[int(sum[0])%len(a.variants)]

	return models.VariantAssignment{
		SessionID:     sessionID,
		Variant:       v.Name,
		ProviderOrder: append([]string(nil), v.ProviderOrder...),
	}
}

// ProviderOrder returns the order of a named variant
func (a *Assigner) ProviderOrder(variant string) ([]string, bool) {
	for _, v := range a.variants {
		if v.Name == variant {
			return append([]string(nil), v.ProviderOrder...), true
		}
	}
	return nil, false
}

// Variants returns a copy of the configured variants
func (a *Assigner) Variants() []Variant {
	out := make([]Variant, len(a.variants))
	for i, v := range a.variants {
		out[i] = Variant{Name: v.Name, ProviderOrder: append([]string(nil), v.ProviderOrder...)}
	}
	return out
}

func normalizeOrder(order []string) []string {
	seen := make(map[string]struct{}, len(order))
	out := make([]string, 0, len(order))
	for _, name := range order {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		if _, ok := seen[name]; ok {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}
