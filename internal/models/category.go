package models

// Category is one label from the closed expense vocabulary.
type Category string

const (
	CategoryAlimentacao    Category = "Alimentação"
	CategoryTransporte     Category = "Transporte"
	CategoryMoradia        Category = "Moradia"
	CategoryContasServicos Category = "Contas/Serviços"
	CategorySaude          Category = "Saúde"
	CategoryEducacao       Category = "Educação"
	CategoryLazer          Category = "Lazer"
	CategoryCompras        Category = "Compras"
	CategoryTecnologia     Category = "Tecnologia"
	CategoryAssinaturas    Category = "Assinaturas"

	// CategoryOutros is the catch-all for ambiguous lines.
	CategoryOutros Category = "Outros"
)

// Categories lists the closed vocabulary in presentation order, the
// catch-all last.
var Categories = []Category{
	CategoryAlimentacao,
	CategoryTransporte,
	CategoryMoradia,
	CategoryContasServicos,
	CategorySaude,
	CategoryEducacao,
	CategoryLazer,
	CategoryCompras,
	CategoryTecnologia,
	CategoryAssinaturas,
	CategoryOutros,
}

var categorySet = func() map[Category]struct{} {
	set := make(map[Category]struct{}, len(Categories))
	for _, c := range Categories {
		set[c] = struct{}{}
	}
	return set
}()

// Valid reports whether c belongs to the closed vocabulary.
func (c Category) Valid() bool {
	_, ok := categorySet[c]
	return ok
}
