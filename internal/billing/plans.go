package billing

import (
	_ "embed"
	"fmt"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

//go:embed plans.yaml
var plansYAML []byte

// Plan is one entry of the public pricing catalog.
type Plan struct {
	Code        string          `yaml:"code" json:"code"`
	Name        string          `yaml:"name" json:"name"`
	Price       decimal.Decimal `yaml:"-" json:"price"`
	RawPrice    string          `yaml:"price" json:"-"`
	Currency    string          `yaml:"currency" json:"currency"`
	Interval    string          `yaml:"interval" json:"interval"`
	Highlighted bool            `yaml:"highlighted" json:"highlighted"`
	Features    []string        `yaml:"features" json:"features"`
}

type catalog struct {
	Plans []Plan `yaml:"plans"`
}

// LoadPlans parses the embedded pricing catalog.
func LoadPlans() ([]Plan, error) {
	return ParsePlans(plansYAML)
}

// ParsePlans parses a YAML pricing catalog.
func ParsePlans(data []byte) ([]Plan, error) {
	var c catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("billing: parse plans: %w", err)
	}
	seen := make(map[string]struct{}, len(c.Plans))
	for i := range c.Plans {
		p := &c.Plans[i]
		if p.Code == "" {
			return nil, fmt.Errorf("billing: plan %d has no code", i)
		}
		if _, dup := seen[p.Code]; dup {
			return nil, fmt.Errorf("billing: duplicate plan %q", p.Code)
		}
		seen[p.Code] = struct{}{}
		price, err := decimal.NewFromString(p.RawPrice)
		if err != nil {
			return nil, fmt.Errorf("billing: plan %s price: %w", p.Code, err)
		}
		p.Price = price
		if p.Features == nil {
			p.Features = []string{}
		}
	}
	return c.Plans, nil
}
