// Package taxonomy holds the static catalog of expense categories,
// subcategories and their matching keywords.
//
// The catalog is an ordered sequence, not a map: when two subcategories
// match a transaction with the same confidence, the one declared first
// wins. That tie-break order is part of the categorizer's contract.
package taxonomy

type (
	// Subcategory is a label plus the keywords that select it.
	Subcategory struct {
		Name     string
		Keywords []string
	}

	// Category groups subcategories under a top-level label.
	Category struct {
		Name          string
		Subcategories []Subcategory
	}
)

// CategoryStats summarizes one category of the catalog.
type CategoryStats struct {
	Subcategories int
	Keywords      int
}

// Default returns the built-in catalog. Callers must not mutate it.
func Default() []Category {
	return defaultCatalog
}

// Categories lists the top-level category names in declaration order.
func Categories() []string {
	names := make([]string, len(defaultCatalog))
	for i, c := range defaultCatalog {
		names[i] = c.Name
	}
	return names
}

// Subcategories lists the subcategory names for a category, or nil when
// the category is unknown.
func Subcategories(category string) []string {
	for _, c := range defaultCatalog {
		if c.Name != category {
			continue
		}
		names := make([]string, len(c.Subcategories))
		for i, s := range c.Subcategories {
			names[i] = s.Name
		}
		return names
	}
	return nil
}

// Stats returns per-category subcategory and keyword counts.
func Stats() map[string]CategoryStats {
	stats := make(map[string]CategoryStats, len(defaultCatalog))
	for _, c := range defaultCatalog {
		s := CategoryStats{Subcategories: len(c.Subcategories)}
		for _, sub := range c.Subcategories {
			s.Keywords += len(sub.Keywords)
		}
		stats[c.Name] = s
	}
	return stats
}

var defaultCatalog = []Category{
	{
		Name: "Food & Dining",
		Subcategories: []Subcategory{
			{Name: "Restaurants", Keywords: []string{
				"restaurant", "cafe", "diner", "bistro", "grill", "tavern",
				"mcdonald", "burger king", "wendy", "subway", "kfc", "taco bell",
				"chipotle", "panera", "panda express", "five guys", "shake shack",
				"chick-fil-a", "popeyes", "domino", "pizza hut", "papa john",
				"little caesars", "arby", "sonic", "dairy queen", "jack in the box",
			}},
			{Name: "Coffee Shops", Keywords: []string{
				"starbucks", "coffee", "espresso", "dunkin", "peet", "caribou",
				"dutch bros", "tim hortons", "costa coffee", "cafe nero",
			}},
			{Name: "Bars & Nightlife", Keywords: []string{
				"bar", "pub", "brewery", "lounge", "nightclub", "tavern",
				"wine bar", "cocktail",
			}},
			{Name: "Fast Food", Keywords: []string{
				"fast food", "drive thru", "drive-thru", "takeout", "take out",
			}},
		},
	},
	{
		Name: "Groceries",
		Subcategories: []Subcategory{
			{Name: "Supermarkets", Keywords: []string{
				"whole foods", "trader joe", "safeway", "kroger", "publix",
				"albertsons", "wegmans", "giant", "stop & shop", "food lion",
				"harris teeter", "fred meyer", "ralphs", "vons", "pavilions",
				"randalls", "tom thumb", "jewel", "acme", "shaw", "star market",
			}},
			{Name: "Warehouse Stores", Keywords: []string{
				"costco", "sam's club", "bj's wholesale", "warehouse",
			}},
			{Name: "Discount Stores", Keywords: []string{
				"walmart", "target", "aldi", "lidl", "dollar general",
				"family dollar", "dollar tree", "99 cent", "big lots",
			}},
			{Name: "Specialty Stores", Keywords: []string{
				"farmers market", "organic", "natural foods", "sprouts",
				"fresh market", "fresh thyme",
			}},
		},
	},
	{
		Name: "Transportation",
		Subcategories: []Subcategory{
			{Name: "Gas Stations", Keywords: []string{
				"shell", "chevron", "exxon", "mobil", "bp", "arco", "valero",
				"sunoco", "marathon", "conoco", "phillips 66", "speedway",
				"circle k", "7-eleven", "wawa", "gas", "fuel", "petrol",
			}},
			{Name: "Rideshare", Keywords: []string{
				"uber", "lyft", "via", "juno", "curb", "rideshare",
			}},
			{Name: "Public Transit", Keywords: []string{
				"transit", "metro", "subway", "bus", "train", "mta", "bart",
				"cta", "septa", "wmata", "mbta",
			}},
			{Name: "Parking", Keywords: []string{
				"parking", "park", "garage", "lot", "meter",
			}},
			{Name: "Tolls", Keywords: []string{
				"toll", "turnpike", "ezpass", "fastrak", "sunpass",
			}},
			{Name: "Car Services", Keywords: []string{
				"car wash", "oil change", "auto repair", "mechanic", "tire",
				"jiffy lube", "midas", "pep boys", "autozone", "advance auto",
			}},
		},
	},
	{
		Name: "Shopping",
		Subcategories: []Subcategory{
			{Name: "Online Shopping", Keywords: []string{
				"amazon", "ebay", "etsy", "wish", "alibaba", "aliexpress",
				"wayfair", "overstock", "zappos", "chewy",
			}},
			{Name: "Department Stores", Keywords: []string{
				"macy", "nordstrom", "dillard", "jcpenney", "kohl", "sears",
				"bloomingdale", "neiman marcus", "saks",
			}},
			{Name: "Clothing & Accessories", Keywords: []string{
				"h&m", "zara", "gap", "old navy", "banana republic", "uniqlo",
				"forever 21", "fashion", "clothing", "apparel", "shoes",
				"nike", "adidas", "foot locker", "dsw",
			}},
			{Name: "Electronics", Keywords: []string{
				"best buy", "apple store", "microsoft store", "gamestop",
				"micro center", "b&h photo", "fry's electronics",
			}},
			{Name: "Home Goods", Keywords: []string{
				"home depot", "lowe's", "ikea", "bed bath beyond", "container store",
				"williams sonoma", "pottery barn", "crate and barrel",
			}},
		},
	},
	{
		Name: "Entertainment",
		Subcategories: []Subcategory{
			{Name: "Streaming Services", Keywords: []string{
				"netflix", "hulu", "disney", "disney+", "hbo", "amazon prime",
				"spotify", "apple music", "youtube premium", "paramount",
				"peacock", "discovery+",
			}},
			{Name: "Gaming", Keywords: []string{
				"steam", "playstation", "xbox", "nintendo", "epic games",
				"battle.net", "origin", "gaming",
			}},
			{Name: "Movies & Theater", Keywords: []string{
				"amc", "regal", "cinemark", "movie", "cinema", "theater",
				"imax", "alamo drafthouse",
			}},
			{Name: "Events & Tickets", Keywords: []string{
				"ticketmaster", "stubhub", "eventbrite", "concert", "show",
				"sports", "stadium", "arena",
			}},
		},
	},
	{
		Name: "Healthcare",
		Subcategories: []Subcategory{
			{Name: "Pharmacy", Keywords: []string{
				"cvs", "walgreens", "rite aid", "pharmacy", "prescription",
				"drug store", "chemist",
			}},
			{Name: "Medical", Keywords: []string{
				"doctor", "physician", "clinic", "hospital", "medical",
				"urgent care", "health center", "dentist", "dental",
			}},
			{Name: "Fitness", Keywords: []string{
				"gym", "fitness", "24 hour fitness", "la fitness", "planet fitness",
				"equinox", "orangetheory", "crossfit", "yoga", "pilates",
			}},
		},
	},
	{
		Name: "Bills & Utilities",
		Subcategories: []Subcategory{
			{Name: "Phone", Keywords: []string{
				"verizon", "at&t", "t-mobile", "sprint", "phone bill",
				"mobile", "wireless", "cellular",
			}},
			{Name: "Internet & Cable", Keywords: []string{
				"comcast", "xfinity", "spectrum", "cox", "fios", "att fiber",
				"internet", "cable", "broadband",
			}},
			{Name: "Utilities", Keywords: []string{
				"electric", "electricity", "power", "gas company", "water",
				"pge", "sce", "duke energy", "con edison", "pg&e",
			}},
		},
	},
	{
		Name: "Housing",
		Subcategories: []Subcategory{
			{Name: "Rent", Keywords: []string{
				"rent", "rental", "lease", "apartment", "housing",
			}},
			{Name: "Mortgage", Keywords: []string{
				"mortgage", "home loan", "property payment",
			}},
			{Name: "Home Insurance", Keywords: []string{
				"home insurance", "homeowners insurance", "property insurance",
			}},
			{Name: "HOA", Keywords: []string{
				"hoa", "homeowners association", "condo fee",
			}},
		},
	},
	{
		Name: "Travel",
		Subcategories: []Subcategory{
			{Name: "Lodging", Keywords: []string{
				"hotel", "motel", "resort", "inn", "airbnb", "vrbo",
				"marriott", "hilton", "hyatt", "ihg", "best western",
			}},
			{Name: "Airlines", Keywords: []string{
				"airline", "airways", "flight", "delta", "united", "american airlines",
				"southwest", "jetblue", "spirit", "frontier", "alaska airlines",
			}},
			{Name: "Car Rental", Keywords: []string{
				"hertz", "enterprise", "avis", "budget", "national",
				"alamo", "thrifty", "car rental",
			}},
			{Name: "Travel Services", Keywords: []string{
				"expedia", "booking.com", "hotels.com", "priceline", "kayak",
				"travelocity", "orbitz",
			}},
		},
	},
	{
		Name: "Personal Care",
		Subcategories: []Subcategory{
			{Name: "Salon & Spa", Keywords: []string{
				"salon", "spa", "barber", "haircut", "hair", "massage",
				"nail", "manicure", "pedicure",
			}},
			{Name: "Beauty", Keywords: []string{
				"sephora", "ulta", "cosmetics", "makeup", "beauty",
			}},
		},
	},
	{
		Name: "Education",
		Subcategories: []Subcategory{
			{Name: "Tuition", Keywords: []string{
				"tuition", "university", "college", "school fee",
			}},
			{Name: "Books & Supplies", Keywords: []string{
				"textbook", "school supplies", "bookstore", "campus store",
			}},
			{Name: "Online Learning", Keywords: []string{
				"coursera", "udemy", "skillshare", "linkedin learning",
				"masterclass", "edx",
			}},
		},
	},
	{
		Name: "Financial",
		Subcategories: []Subcategory{
			{Name: "Bank Fees", Keywords: []string{
				"bank fee", "atm fee", "overdraft", "service charge",
				"monthly fee", "maintenance fee",
			}},
			{Name: "Credit Card Payment", Keywords: []string{
				"credit card payment", "cc payment", "card payment",
			}},
			{Name: "Investments", Keywords: []string{
				"robinhood", "e*trade", "td ameritrade", "fidelity",
				"charles schwab", "vanguard", "investment",
			}},
			{Name: "Insurance", Keywords: []string{
				"insurance premium", "life insurance", "auto insurance",
				"health insurance", "geico", "state farm", "allstate",
				"progressive", "liberty mutual",
			}},
		},
	},
	{
		Name: "Pets",
		Subcategories: []Subcategory{
			{Name: "Pet Supplies", Keywords: []string{
				"petco", "petsmart", "pet supplies", "pet food", "pet store",
			}},
			{Name: "Veterinary", Keywords: []string{
				"vet", "veterinary", "animal hospital", "pet clinic",
			}},
		},
	},
}
