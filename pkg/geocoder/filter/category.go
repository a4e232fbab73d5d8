package filter

import (
	"slices"
	"strings"
	"unicode"
)

// Category is the compact token form of a place category, e.g. "CoffeeShop".
// The widget carries categories as comma-joined tokens; the index backend
// expects the display form, e.g. "Coffee Shop".
type Category string

const (
	CategoryAirport           Category = "Airport"
	CategoryAmusementPark     Category = "AmusementPark"
	CategoryATM               Category = "ATM"
	CategoryBank              Category = "Bank"
	CategoryBar               Category = "Bar"
	CategoryBusStation        Category = "BusStation"
	CategoryCarRental         Category = "CarRental"
	CategoryCoffeeShop        Category = "CoffeeShop"
	CategoryConvenienceStore  Category = "ConvenienceStore"
	CategoryEVChargingStation Category = "EVChargingStation"
	CategoryFastFood          Category = "FastFood"
	CategoryGasStation        Category = "GasStation"
	CategoryGrocery           Category = "Grocery"
	CategoryHospital          Category = "Hospital"
	CategoryHotel             Category = "Hotel"
	CategoryIntersection      Category = "Intersection"
	CategoryLibrary           Category = "Library"
	CategoryMuseum            Category = "Museum"
	CategoryNeighborhood      Category = "Neighborhood"
	CategoryPark              Category = "Park"
	CategoryParking           Category = "Parking"
	CategoryPharmacy          Category = "Pharmacy"
	CategoryPointAddress      Category = "PointAddress"
	CategoryPoliceStation     Category = "PoliceStation"
	CategoryPostOffice        Category = "PostOffice"
	CategoryPostalCode        Category = "PostalCode"
	CategoryRestaurant        Category = "Restaurant"
	CategorySchool            Category = "School"
	CategoryShoppingCenter    Category = "ShoppingCenter"
	CategoryStreetAddress     Category = "StreetAddress"
	CategoryTrainStation      Category = "TrainStation"
	CategoryUniversity        Category = "University"
)

var categoryDisplay = map[Category]string{
	CategoryAirport:           "Airport",
	CategoryAmusementPark:     "Amusement Park",
	CategoryATM:               "ATM",
	CategoryBank:              "Bank",
	CategoryBar:               "Bar",
	CategoryBusStation:        "Bus Station",
	CategoryCarRental:         "Car Rental",
	CategoryCoffeeShop:        "Coffee Shop",
	CategoryConvenienceStore:  "Convenience Store",
	CategoryEVChargingStation: "EV Charging Station",
	CategoryFastFood:          "Fast Food",
	CategoryGasStation:        "Gas Station",
	CategoryGrocery:           "Grocery",
	CategoryHospital:          "Hospital",
	CategoryHotel:             "Hotel",
	CategoryIntersection:      "Intersection",
	CategoryLibrary:           "Library",
	CategoryMuseum:            "Museum",
	CategoryNeighborhood:      "Neighborhood",
	CategoryPark:              "Park",
	CategoryParking:           "Parking",
	CategoryPharmacy:          "Pharmacy",
	CategoryPointAddress:      "Point Address",
	CategoryPoliceStation:     "Police Station",
	CategoryPostOffice:        "Post Office",
	CategoryPostalCode:        "Postal Code",
	CategoryRestaurant:        "Restaurant",
	CategorySchool:            "School",
	CategoryShoppingCenter:    "Shopping Center",
	CategoryStreetAddress:     "Street Address",
	CategoryTrainStation:      "Train Station",
	CategoryUniversity:        "University",
}

// lower-cased, whitespace-free key -> category
var categoryIndex = func() map[string]Category {
	m := make(map[string]Category, len(categoryDisplay))
	for c := range categoryDisplay {
		m[foldKey(string(c))] = c
	}
	return m
}()

// Categories returns the known vocabulary in sorted order.
func Categories() []Category {
	out := make([]Category, 0, len(categoryDisplay))
	for c := range categoryDisplay {
		out = append(out, c)
	}
	slices.Sort(out)
	return out
}

// ParseCategory matches s against the vocabulary ignoring case and
// whitespace, so "coffee shop", "CoffeeShop" and " Coffee Shop " all match.
func ParseCategory(s string) (Category, bool) {
	c, ok := categoryIndex[foldKey(s)]
	return c, ok
}

// Display returns the backend form of c.
func (c Category) Display() string {
	if d, ok := categoryDisplay[c]; ok {
		return d
	}
	return splitWords(string(c))
}

// DisplayName maps a widget token to the backend's expected form. Tokens
// outside the vocabulary get a space before every upper-case letter, except
// the literal "ATM".
func DisplayName(token string) string {
	if c, ok := ParseCategory(token); ok {
		return c.Display()
	}
	return splitWords(token)
}

func splitWords(s string) string {
	if s == "ATM" {
		return s
	}
	var b strings.Builder
	b.Grow(len(s) + 4)
	for _, r := range s {
		if unicode.IsUpper(r) {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}

func foldKey(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToLower(r))
	}
	return b.String()
}
