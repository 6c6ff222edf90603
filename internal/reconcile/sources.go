package reconcile

// DefaultRetailerSources is the static id -> retailer mapping used in
// production. IDs are positional in the snapshot (dog records first),
// so the table covers the leading well-known therapeutic diets; any
// entry not listed here is passed through unchanged.
func DefaultRetailerSources() map[string][]RetailerSource {
	return map[string][]RetailerSource{
		"product-1": {
			{Name: "chewy", URL: "https://www.chewy.com/hills-prescription-diet-kd-kidney/dp/51442"},
			{Name: "petco", URL: "https://www.petco.com/shop/en/petcostore/product/hills-prescription-diet-kd-kidney-care-dry-dog-food"},
		},
		"product-2": {
			{Name: "chewy", URL: "https://www.chewy.com/royal-canin-veterinary-diet-renal/dp/142154"},
			{Name: "petsmart", URL: "https://www.petsmart.com/dog/food/veterinary-diets/royal-canin-renal-support-dry-dog-food"},
		},
		"product-3": {
			{Name: "chewy", URL: "https://www.chewy.com/purina-pro-plan-veterinary-diets-en/dp/103731"},
		},
	}
}
