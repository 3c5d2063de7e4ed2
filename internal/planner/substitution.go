package planner

import "fmt"

// Resolution is the outcome of mapping a canonical exercise onto equipment.
type Resolution struct {
	Canonical   string `json:"canonical"`
	Name        string `json:"name"`
	Substituted bool   `json:"substituted"`
	Dropped     bool   `json:"dropped"`
	Note        string `json:"note,omitempty"`
}

// Resolve maps a canonical exercise onto the given equipment. Gym is the
// identity; unmapped names pass through unchanged.
func (c *Catalog) Resolve(name string, eq Equipment) Resolution {
	res := Resolution{Canonical: name, Name: name}
	if eq == EquipmentGym {
		return res
	}
	sub, ok := c.Substitutions[eq][name]
	if !ok {
		return res
	}
	if sub.Drop {
		res.Name = ""
		res.Dropped = true
		res.Note = fmt.Sprintf("%s dropped for equipment %q: %s", name, eq, sub.Reason)
		return res
	}
	res.Name = sub.Variant
	res.Substituted = true
	res.Note = fmt.Sprintf("%s replaces %s for equipment %q", sub.Variant, name, eq)
	if sub.Reason != "" {
		res.Note += ": " + sub.Reason
	}
	return res
}
