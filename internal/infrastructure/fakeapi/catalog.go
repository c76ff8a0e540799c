package fakeapi

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/stellar-burgers/internal/domain/entity"
)

const imageBase = "https://code.s3.yandex.net/react/code/"

func ingredient(id, name string, typ entity.IngredientType, price int64, p, f, c, kcal int, image string) entity.Ingredient {
	return entity.Ingredient{
		ID:            id,
		Name:          name,
		Type:          typ,
		Proteins:      p,
		Fat:           f,
		Carbohydrates: c,
		Calories:      kcal,
		Price:         decimal.NewFromInt(price),
		Image:         imageBase + image + ".png",
		ImageLarge:    imageBase + image + "-large.png",
		ImageMobile:   imageBase + image + "-mobile.png",
	}
}

// DefaultCatalog catálogo con el que arranca el API de pruebas.
func DefaultCatalog() []entity.Ingredient {
	return []entity.Ingredient{
		ingredient("643d69a5c3f7b9001cfa093c", "Pan cratérico N-200i", entity.IngredientBun, 1255, 80, 24, 53, 420, "bun-02"),
		ingredient("643d69a5c3f7b9001cfa093d", "Pan fluorescente R2-D3", entity.IngredientBun, 988, 44, 26, 85, 643, "bun-01"),
		ingredient("643d69a5c3f7b9001cfa0941", "Biochuleta de magnolia marciana", entity.IngredientMain, 424, 420, 142, 242, 4242, "meat-01"),
		ingredient("643d69a5c3f7b9001cfa093e", "Filete de tetraodontimorfo luminiscente", entity.IngredientMain, 988, 44, 26, 85, 643, "meat-03"),
		ingredient("643d69a5c3f7b9001cfa0940", "Meteorito de res (chuleta)", entity.IngredientMain, 3000, 800, 800, 300, 2674, "meat-04"),
		ingredient("643d69a5c3f7b9001cfa0946", "Anillos minerales crujientes", entity.IngredientMain, 300, 808, 689, 609, 986, "mineral_rings"),
		ingredient("643d69a5c3f7b9001cfa0948", "Cristales de alfa-sacáridos marcianos", entity.IngredientMain, 762, 234, 432, 111, 189, "core"),
		ingredient("643d69a5c3f7b9001cfa0942", "Salsa Spicy-X", entity.IngredientSauce, 90, 30, 20, 40, 30, "sauce-02"),
		ingredient("643d69a5c3f7b9001cfa0943", "Salsa Space Sauce", entity.IngredientSauce, 80, 50, 22, 11, 14, "sauce-04"),
		ingredient("643d69a5c3f7b9001cfa0945", "Salsa con espinas de antariano", entity.IngredientSauce, 88, 101, 99, 100, 100, "sauce-01"),
	}
}
