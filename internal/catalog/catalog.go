package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
)

// Treatment is one program patients can be enrolled in and providers
// can serve (e.g. weight_loss, mens_health).
type Treatment struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Active      bool   `json:"active"`
}

// DefaultWeek describes the availability window providers get at
// provisioning time.
type DefaultWeek struct {
	Days       []string `json:"days"`
	StartTime  string   `json:"start_time"`
	EndTime    string   `json:"end_time"`
	Treatments []string `json:"treatments"`
}

type catalogFile struct {
	Treatments  []Treatment `json:"treatments"`
	DefaultWeek DefaultWeek `json:"default_week"`
}

// Catalog is the in-memory treatment registry, loaded once at startup.
type Catalog struct {
	mu          sync.RWMutex
	treatments  map[string]*Treatment
	defaultWeek DefaultWeek
}

func New() *Catalog {
	return &Catalog{
		treatments:  make(map[string]*Treatment),
		defaultWeek: builtinDefaultWeek(),
	}
}

// LoadFromFile reads the catalog JSON. A missing file falls back to the
// built-in defaults so the service can boot without one.
func LoadFromFile(path string) (*Catalog, error) {
	c := New()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		for i := range builtinTreatments {
			c.Register(&builtinTreatments[i])
		}
		return c, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog: %w", err)
	}

	var file catalogFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	for i := range file.Treatments {
		c.Register(&file.Treatments[i])
	}
	if len(file.DefaultWeek.Days) > 0 {
		c.mu.Lock()
		c.defaultWeek = file.DefaultWeek
		c.mu.Unlock()
	}
	return c, nil
}

func (c *Catalog) Register(t *Treatment) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.treatments[t.Key] = t
}

func (c *Catalog) Get(key string) *Treatment {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.treatments[key]
}

func (c *Catalog) Exists(key string) bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	_, ok := c.treatments[key]
	return ok
}

func (c *Catalog) All() []*Treatment {
	c.mu.RLock()
	defer c.mu.RUnlock()
	result := make([]*Treatment, 0, len(c.treatments))
	for _, t := range c.treatments {
		result = append(result, t)
	}
	return result
}

// DefaultWeek returns the provisioning-time availability window.
func (c *Catalog) DefaultWeek() DefaultWeek {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.defaultWeek
}

var builtinTreatments = []Treatment{
	{Key: "weight_loss", Name: "Weight Loss", Description: "GLP-1 weight management program", Active: true},
	{Key: "mens_health", Name: "Mens Health", Description: "Hormone and wellness program", Active: true},
}

func builtinDefaultWeek() DefaultWeek {
	return DefaultWeek{
		Days:       []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"},
		StartTime:  "09:00:00",
		EndTime:    "17:00:00",
		Treatments: []string{"weight_loss", "mens_health"},
	}
}
