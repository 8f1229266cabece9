package customer

import (
	"strings"

	"github.com/simp-lee/fieldops/internal/domain"
)

// Patch is the create and update input for a customer. Nil fields are left
// unchanged.
type Patch struct {
	Name        *string `json:"name"`
	Address     *string `json:"address" binding:"omitempty,max=255"`
	PhoneNumber *string `json:"phone_number" binding:"omitempty,max=50"`
	Email       *string `json:"email"`
}

// Apply implements crud.Patch.
func (p Patch) Apply(c *domain.Customer) []string {
	var cols []string
	if p.Name != nil {
		c.Name = strings.TrimSpace(*p.Name)
		cols = append(cols, "name")
	}
	if p.Address != nil {
		c.Address = strings.TrimSpace(*p.Address)
		cols = append(cols, "address")
	}
	if p.PhoneNumber != nil {
		c.PhoneNumber = strings.TrimSpace(*p.PhoneNumber)
		cols = append(cols, "phone_number")
	}
	if p.Email != nil {
		c.Email = strings.ToLower(strings.TrimSpace(*p.Email))
		cols = append(cols, "email")
	}
	return cols
}
