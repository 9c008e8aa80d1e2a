package catalog

import (
	"github.com/Lixing-Zhang/restaurant-menu/internal/models"
	"github.com/shopspring/decimal"
)

// Default returns a new catalog holding the demonstration menu
func Default() *Catalog {
	return New().AddProducts(
		models.Product{Description: "Arroz de Marisco", Category: models.CategoryMainCourse, Price: decimal.NewFromFloat(15.0)},
		models.Product{Description: "Choco Frito", Category: models.CategoryMainCourse, Price: decimal.NewFromFloat(10.0)},
		models.Product{Description: "Arroz Doce", Category: models.CategoryDessert, Price: decimal.NewFromFloat(2.5)},
		models.Product{Description: "Pão", Category: models.CategoryStarter, Price: decimal.NewFromFloat(0.8)},
		models.Product{Description: "Água", Category: models.CategoryBeverage, Price: decimal.NewFromFloat(1.2)},
	)
}
