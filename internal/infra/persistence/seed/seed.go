// Package seed loads the default catalog and branch list into an empty database.
package seed

import (
	"context"
	"log/slog"

	"ferremas/internal/domain/entity"
	"ferremas/internal/domain/repository"
	"ferremas/internal/errors"

	"github.com/shopspring/decimal"
)

type subCategorySeed struct {
	name     string
	products []productSeed
}

type categorySeed struct {
	name        string
	description string
	icon        string
	subs        []subCategorySeed
}

type productSeed struct {
	name        string
	description string
	price       int64
	promo       int64
	stock       int
	featured    bool
	image       string
}

var defaultCatalog = []categorySeed{
	{
		name: "Herramientas Manuales", description: "Martillos, destornilladores, llaves y más", icon: "fa-hammer",
		subs: []subCategorySeed{
			{name: "Martillos", products: []productSeed{
				{name: "Martillo Carpintero 16oz", description: "Mango de fibra de vidrio", price: 8990, stock: 40, featured: true, image: "/static/img/martillo.jpg"},
			}},
			{name: "Destornilladores", products: []productSeed{
				{name: "Set Destornilladores 6 piezas", description: "Puntas planas y phillips", price: 12990, promo: 9990, stock: 25, image: "/static/img/destornilladores.jpg"},
			}},
			{name: "Llaves"},
		},
	},
	{
		name: "Herramientas Eléctricas", description: "Taladros, sierras y lijadoras", icon: "fa-plug",
		subs: []subCategorySeed{
			{name: "Taladros", products: []productSeed{
				{name: "Taladro Percutor 650W", description: "Mandril 13mm, velocidad variable", price: 59990, stock: 15, featured: true, image: "/static/img/taladro.jpg"},
				{name: "Atornillador Inalámbrico 12V", description: "Incluye 2 baterías", price: 45990, promo: 39990, stock: 10, image: "/static/img/atornillador.jpg"},
			}},
			{name: "Sierras", products: []productSeed{
				{name: "Sierra Circular 1400W", description: "Disco de 7 1/4\"", price: 79990, stock: 8, featured: true, image: "/static/img/sierra.jpg"},
			}},
			{name: "Lijadoras"},
		},
	},
	{
		name: "Materiales de Construcción", description: "Cemento, arena, ladrillos", icon: "fa-building",
		subs: []subCategorySeed{
			{name: "Cemento", products: []productSeed{
				{name: "Cemento Portland 25kg", description: "Uso general", price: 5490, stock: 200, image: "/static/img/cemento.jpg"},
			}},
			{name: "Ladrillos", products: []productSeed{
				{name: "Ladrillo Fiscal", description: "Unidad", price: 390, stock: 5000, image: "/static/img/ladrillo.jpg"},
			}},
		},
	},
	{
		name: "Pinturas", description: "Pinturas, barnices y accesorios", icon: "fa-paint-roller",
		subs: []subCategorySeed{
			{name: "Látex", products: []productSeed{
				{name: "Pintura Látex Blanco 1 galón", description: "Interior, lavable", price: 14990, promo: 11990, stock: 60, featured: true, image: "/static/img/latex.jpg"},
			}},
			{name: "Esmaltes", products: []productSeed{
				{name: "Esmalte Sintético Negro 1/4 galón", description: "Brillante", price: 7990, stock: 35, image: "/static/img/esmalte.jpg"},
			}},
			{name: "Rodillos y Brochas"},
		},
	},
	{
		name: "Electricidad", description: "Cables, enchufes e iluminación", icon: "fa-bolt",
		subs: []subCategorySeed{
			{name: "Cables", products: []productSeed{
				{name: "Cable Eléctrico 2.5mm 100m", description: "Rollo THHN", price: 39990, stock: 20, image: "/static/img/cable.jpg"},
			}},
			{name: "Iluminación", products: []productSeed{
				{name: "Ampolleta LED 9W", description: "Luz cálida E27", price: 1990, promo: 1490, stock: 300, featured: true, image: "/static/img/ampolleta.jpg"},
			}},
		},
	},
	{
		name: "Gasfitería", description: "Cañerías, llaves y fittings", icon: "fa-faucet",
		subs: []subCategorySeed{
			{name: "Cañerías", products: []productSeed{
				{name: "Tubo PVC 110mm 6m", description: "Sanitario", price: 12490, stock: 45, image: "/static/img/pvc.jpg"},
			}},
			{name: "Griferías", products: []productSeed{
				{name: "Llave Monomando Cocina", description: "Acero inoxidable", price: 34990, stock: 12, featured: true, image: "/static/img/grifo.jpg"},
			}},
		},
	},
	{
		name: "Seguridad", description: "Equipos de protección personal", icon: "fa-hard-hat",
		subs: []subCategorySeed{
			{name: "Protección Personal", products: []productSeed{
				{name: "Casco de Seguridad", description: "Con ajuste de rache", price: 6990, stock: 80, image: "/static/img/casco.jpg"},
				{name: "Guantes de Cuero", description: "Par, talla L", price: 3990, promo: 2990, stock: 150, image: "/static/img/guantes.jpg"},
			}},
		},
	},
	{
		name: "Jardín", description: "Herramientas y accesorios de jardinería", icon: "fa-seedling",
		subs: []subCategorySeed{
			{name: "Riego", products: []productSeed{
				{name: "Manguera 25m", description: "Con pistola de riego", price: 17990, stock: 30, featured: true, image: "/static/img/manguera.jpg"},
			}},
			{name: "Herramientas de Jardín"},
		},
	},
}

var defaultStores = []entity.Store{
	{Name: "Ferremas Santiago Centro", Address: "Av. Libertador Bernardo O'Higgins 1234", City: "Santiago", Phone: "+56 2 2345 6789", Latitude: -33.4445, Longitude: -70.6532},
	{Name: "Ferremas Providencia", Address: "Av. Providencia 2150", City: "Providencia", Phone: "+56 2 2987 6543", Latitude: -33.4213, Longitude: -70.6079},
	{Name: "Ferremas Maipú", Address: "Av. Pajaritos 3050", City: "Maipú", Phone: "+56 2 2555 1200", Latitude: -33.5093, Longitude: -70.7570},
	{Name: "Ferremas Viña del Mar", Address: "Av. Libertad 850", City: "Viña del Mar", Phone: "+56 32 268 4400", Latitude: -33.0153, Longitude: -71.5500},
	{Name: "Ferremas Concepción", Address: "Calle Barros Arana 720", City: "Concepción", Phone: "+56 41 221 3300", Latitude: -36.8270, Longitude: -73.0503},
}

// Result counts what a Run inserted.
type Result struct {
	Categories    int
	SubCategories int
	Products      int
	Stores        int
}

// Run inserts the default catalog when no category exists and the default branches
// when no store exists. It is safe to run repeatedly.
func Run(ctx context.Context, tm repository.TransactionManager, stores repository.StoreRepository, logger *slog.Logger) (*Result, error) {
	result := &Result{}

	err := tm.Execute(ctx, func(f repository.RepositoryFactory) error {
		existing, err := f.CategoryRepo().List(ctx)
		if err != nil {
			return err
		}
		if len(existing) > 0 {
			logger.Info("Catalog already seeded, skipping", slog.Int("categories", len(existing)))

			return nil
		}

		for _, cs := range defaultCatalog {
			category := &entity.Category{Name: cs.name, Description: cs.description, Icon: cs.icon}
			if err := f.CategoryRepo().Create(ctx, category); err != nil {
				return errors.Wrapf(err, "seed category %q", cs.name)
			}
			result.Categories++

			for _, ss := range cs.subs {
				sub := &entity.SubCategory{CategoryID: category.ID, Name: ss.name}
				if err := f.CategoryRepo().CreateSubCategory(ctx, sub); err != nil {
					return errors.Wrapf(err, "seed subcategory %q", ss.name)
				}
				result.SubCategories++

				for _, ps := range ss.products {
					product := &entity.Product{
						Name:           ps.name,
						Description:    ps.description,
						Price:          decimal.NewFromInt(ps.price),
						Stock:          ps.stock,
						Image:          ps.image,
						IsFeatured:     ps.featured,
						IsPromotion:    ps.promo > 0,
						PromotionPrice: decimal.NewFromInt(ps.promo),
						CategoryID:     category.ID,
						SubCategoryID:  &sub.ID,
					}
					if err := f.ProductRepo().Create(ctx, product); err != nil {
						return errors.Wrapf(err, "seed product %q", ps.name)
					}
					result.Products++
				}
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	existingStores, err := stores.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(existingStores) == 0 {
		for i := range defaultStores {
			store := defaultStores[i]
			if err := stores.Create(ctx, &store); err != nil {
				return nil, errors.Wrapf(err, "seed store %q", store.Name)
			}
			result.Stores++
		}
	}

	logger.Info("Seed completed",
		slog.Int("categories", result.Categories),
		slog.Int("subcategories", result.SubCategories),
		slog.Int("products", result.Products),
		slog.Int("stores", result.Stores),
	)

	return result, nil
}
