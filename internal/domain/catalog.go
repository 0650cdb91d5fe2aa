package domain

// Product is a catalog entry.
type Product struct {
	Item     string
	Category string
	Price    float64 // shelf price before any discount
}

// Weighted pairs a label with a sampling weight.
type Weighted struct {
	Value  string
	Weight float64
}

// Region names
const (
	RegionOntario         = "Ontario"
	RegionQuebec          = "Quebec"
	RegionBritishColumbia = "British Columbia"
	RegionAlberta         = "Alberta"
)

// Regions lists the provinces a campaign can target, in display order.
var Regions = []string{RegionOntario, RegionQuebec, RegionBritishColumbia, RegionAlberta}

// DefaultCatalog is the product list baskets are drawn from.
var DefaultCatalog = []Product{
	{Item: "Milk", Category: "Dairy", Price: 3.49},
	{Item: "Bread", Category: "Bakery", Price: 2.99},
	{Item: "Eggs", Category: "Dairy", Price: 4.99},
	{Item: "Apples", Category: "Produce", Price: 1.29},
	{Item: "Bananas", Category: "Produce", Price: 0.79},
	{Item: "Chicken Breast", Category: "Meat", Price: 6.49},
	{Item: "Toilet Paper", Category: "Household", Price: 5.99},
	{Item: "Shampoo", Category: "Personal Care", Price: 4.50},
	{Item: "Orange Juice", Category: "Beverages", Price: 3.99},
	{Item: "Chips", Category: "Snacks", Price: 2.49},
}

// IncomeBrackets are sampled per respondent.
var IncomeBrackets = []Weighted{
	{Value: "<40K", Weight: 0.2},
	{Value: "40K–70K", Weight: 0.4},
	{Value: "70K–100K", Weight: 0.3},
	{Value: "100K+", Weight: 0.1},
}

// Retailers are sampled per transaction.
var Retailers = []Weighted{
	{Value: "Loblaws", Weight: 0.35},
	{Value: "Metro", Weight: 0.25},
	{Value: "Sobeys", Weight: 0.2},
	{Value: "Walmart", Weight: 0.2},
}

// IsKnownRegion reports whether region is one of Regions.
func IsKnownRegion(region string) bool {
	for _, r := range Regions {
		if r == region {
			return true
		}
	}
	return false
}

// FindProduct looks up a catalog product by item name.
func FindProduct(catalog []Product, item string) (Product, bool) {
	for _, p := range catalog {
		if p.Item == item {
			return p, true
		}
	}
	return Product{}, false
}
