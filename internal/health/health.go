package health

import "github.com/frahmantamala/recruitment-performance/internal"

const (
	TierStrong  = "Strong"
	TierAverage = "Average"
	TierAtRisk  = "At Risk"
)

const (
	strongConversion = 0.3
	strongAttrition  = 0.2
	atRiskAttrition  = 0.4
)

// Counts are the per-client inputs to Classify.
type Counts struct {
	TotalRoles   int `json:"total_roles" db:"total_roles"`
	ActiveRoles  int `json:"active_roles" db:"active_roles"`
	LostRoles    int `json:"lost" db:"lost_roles"`
	DropoutRoles int `json:"dropouts" db:"dropout_roles"`
	Interviews   int `json:"interviews" db:"interviews"`
	Deals        int `json:"deals" db:"deals"`
}

// Conversion is deals per role, 0 when the client has no roles.
func (c Counts) Conversion() float64 {
	if c.TotalRoles == 0 {
		return 0
	}
	return float64(c.Deals) / float64(c.TotalRoles)
}

// Attrition is the share of roles that ended lost or dropped out.
func (c Counts) Attrition() float64 {
	if c.TotalRoles == 0 {
		return 0
	}
	return float64(c.LostRoles+c.DropoutRoles) / float64(c.TotalRoles)
}

// Classify is pure. A client without roles is neutral.
func Classify(c Counts) string {
	if c.TotalRoles == 0 {
		return TierAverage
	}
	conversion, attrition := c.Conversion(), c.Attrition()
	switch {
	case conversion >= strongConversion && attrition < strongAttrition:
		return TierStrong
	case attrition >= atRiskAttrition || conversion == 0:
		return TierAtRisk
	default:
		return TierAverage
	}
}

type Client struct {
	ID               int64  `json:"id" db:"id"`
	Code             string `json:"code" db:"code"`
	Name             string `json:"name" db:"name"`
	AccountManagerID int64  `json:"account_manager_id" db:"account_manager_id"`
}

// ClientHealth is the response shape for one client.
type ClientHealth struct {
	ClientID   int64   `json:"client_id"`
	ClientCode string  `json:"client_code"`
	ClientName string  `json:"client_name"`
	Health     string  `json:"health"`
	Conversion float64 `json:"conversion"`
	Attrition  float64 `json:"attrition"`
	Counts
}

func NewClientHealth(c *Client, counts Counts) *ClientHealth {
	return &ClientHealth{
		ClientID:   c.ID,
		ClientCode: c.Code,
		ClientName: c.Name,
		Health:     Classify(counts),
		Conversion: counts.Conversion(),
		Attrition:  counts.Attrition(),
		Counts:     counts,
	}
}

var ErrClientNotFound = internal.NewNotFoundError("client not found", internal.ErrCodeClientNotFound)
