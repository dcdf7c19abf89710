package medications

import (
	"encoding/json"
	"log/slog"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type seedMedication struct {
	Name          string
	Category      string
	TreatmentType string
	Dosages       []string
}

var seedCatalog = []seedMedication{
	{Name: "Semaglutide", Category: "GLP-1", TreatmentType: "weight_loss", Dosages: []string{"0.25mg", "0.5mg", "1mg", "1.7mg", "2.4mg"}},
	{Name: "Tirzepatide", Category: "GLP-1/GIP", TreatmentType: "weight_loss", Dosages: []string{"2.5mg", "5mg", "7.5mg", "10mg", "12.5mg", "15mg"}},
	{Name: "Liraglutide", Category: "GLP-1", TreatmentType: "weight_loss", Dosages: []string{"0.6mg", "1.2mg", "1.8mg", "2.4mg", "3mg"}},
	{Name: "Testosterone Cypionate", Category: "Hormone", TreatmentType: "mens_health", Dosages: []string{"100mg/ml", "200mg/ml"}},
	{Name: "Sildenafil", Category: "PDE5", TreatmentType: "mens_health", Dosages: []string{"25mg", "50mg", "100mg"}},
	{Name: "Finasteride", Category: "5-ARI", TreatmentType: "mens_health", Dosages: []string{"1mg"}},
}

// SeedCatalog inserts the built-in medication catalog, skipping names
// that already exist.
func SeedCatalog(db *gorm.DB) error {
	for _, m := range seedCatalog {
		dosages, _ := json.Marshal(m.Dosages)
		medication := Medication{
			Name:          m.Name,
			Category:      m.Category,
			TreatmentType: m.TreatmentType,
			DosageOptions: datatypes.JSON(dosages),
			Active:        true,
		}
		if err := db.Where("name = ?", m.Name).FirstOrCreate(&medication).Error; err != nil {
			return err
		}
	}
	slog.Info("medication catalog seeded", "count", len(seedCatalog))
	return nil
}
