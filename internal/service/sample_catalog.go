package service

import (
	"boutique-shop/internal/domain"

	"github.com/shopspring/decimal"
)

func price(s string) *decimal.Decimal {
	d := decimal.RequireFromString(s)
	return &d
}

var sampleCatalog = []domain.ProductCreate{
	{
		Name:          "Silk Wrap Dress",
		Description:   "Flowing midi dress in pure mulberry silk with a tie waist.",
		Price:         price("189.00"),
		Category:      domain.CategoryClothing,
		ImageURL:      "https://images.unsplash.com/photo-1595777457583-95e059d581b8",
		StockQuantity: 15,
		Featured:      true,
	},
	{
		Name:          "Cashmere Crew Sweater",
		Description:   "Soft two-ply cashmere knit with ribbed cuffs and hem.",
		Price:         price("149.50"),
		Category:      domain.CategoryClothing,
		ImageURL:      "https://images.unsplash.com/photo-1576566588028-4147f3842f27",
		StockQuantity: 25,
	},
	{
		Name:          "Tailored Linen Blazer",
		Description:   "Unstructured single-breasted blazer cut from washed linen.",
		Price:         price("220.00"),
		Category:      domain.CategoryClothing,
		ImageURL:      "https://images.unsplash.com/photo-1591047139829-d91aecb6caea",
		StockQuantity: 10,
	},
	{
		Name:          "Pearl Drop Earrings",
		Description:   "Freshwater pearls on 14k gold-filled hooks.",
		Price:         price("79.00"),
		Category:      domain.CategoryJewelry,
		ImageURL:      "https://images.unsplash.com/photo-1535632066927-ab7c9ab60908",
		StockQuantity: 30,
		Featured:      true,
	},
	{
		Name:          "Gold Ring Set",
		Description:   "Three stackable rings in recycled 18k gold vermeil.",
		Price:         price("120.00"),
		Category:      domain.CategoryJewelry,
		ImageURL:      "https://images.unsplash.com/photo-1605100804763-247f67b3557e",
		StockQuantity: 20,
	},
	{
		Name:          "Sterling Chain Necklace",
		Description:   "Fine curb chain in polished sterling silver, 45 cm.",
		Price:         price("65.00"),
		Category:      domain.CategoryJewelry,
		ImageURL:      "https://images.unsplash.com/photo-1599643478518-a784e5dc4c8f",
		StockQuantity: 40,
	},
	{
		Name:          "Leather Crossbody Bag",
		Description:   "Compact full-grain leather bag with an adjustable strap.",
		Price:         price("245.00"),
		Category:      domain.CategoryHandbags,
		ImageURL:      "https://images.unsplash.com/photo-1548036328-c9fa89d128fa",
		StockQuantity: 12,
		Featured:      true,
	},
	{
		Name:          "Woven Straw Tote",
		Description:   "Hand-woven summer tote with leather handles.",
		Price:         price("98.00"),
		Category:      domain.CategoryHandbags,
		ImageURL:      "https://images.unsplash.com/photo-1590874103328-eac38a683ce7",
		StockQuantity: 18,
	},
	{
		Name:          "Quilted Evening Clutch",
		Description:   "Quilted satin clutch with a detachable chain.",
		Price:         price("135.00"),
		Category:      domain.CategoryHandbags,
		ImageURL:      "https://images.unsplash.com/photo-1566150905458-1bf1fc113f0d",
		StockQuantity: 8,
	},
}
