package catalog

const unsplash = "https://images.unsplash.com/"

// Default returns the built-in catalog used when no YAML catalog is given.
// Keywords include Albanian forms as they appear in local listings.
func Default() *Catalog {
	return &Catalog{
		Fallback: "outdoor",
		Categories: []Category{
			{
				Name: "concert",
				Keywords: []string{
					"concert", "koncert", "live", "jazz", "music", "muzik",
					"band", "dj ", "festival", "fest", "orchestra", "rock", "acoustic",
				},
				Images: []string{
					unsplash + "photo-1501386761578-eac5c94b800a?w=400",
					unsplash + "photo-1470229722913-7c0e2dbbafd3?w=400",
					unsplash + "photo-1493225457124-a3eb161ffa5f?w=400",
				},
			},
			{
				Name: "bars",
				Keywords: []string{
					"bar", "pub", "cocktail", "beer", "birr", "wine", "verë",
					"party", "nightlife", "lounge", "happy hour", "club",
				},
				Images: []string{
					unsplash + "photo-1514933651103-005eec06c04b?w=400",
					unsplash + "photo-1572116469696-31de0f17cc34?w=400",
					unsplash + "photo-1543007630-9710e4a00a20?w=400",
				},
			},
			{
				Name: "museum",
				Keywords: []string{
					"museum", "muze", "exhibition", "ekspozit", "gallery", "galeri",
					"heritage", "history", "theatre", "theater", "teat", "cinema", "film",
				},
				Images: []string{
					unsplash + "photo-1566127444979-b3d2b654e3d7?w=400",
					unsplash + "photo-1554907984-15263bfd63bd?w=400",
				},
			},
			{
				Name: "restaurant",
				Keywords: []string{
					"restaurant", "restorant", "dinner", "darkë", "lunch", "brunch",
					"food", "cuisine", "tasting", "culinary", "chef", "flija",
				},
				Images: []string{
					unsplash + "photo-1517248135467-4c7edcad34c4?w=400",
					unsplash + "photo-1414235077428-338989a2e8c0?w=400",
				},
			},
			{
				Name: "outdoor",
				Keywords: []string{
					"outdoor", "hike", "hiking", "ecje", "mountain", "mal ",
					"park", "bike", "cycling", "camping", "rugova", "marathon", "trail",
				},
				Images: []string{
					unsplash + "photo-1492684223066-81342ee5ff30?w=400",
					unsplash + "photo-1464822759023-fed622ff2c3b?w=400",
				},
			},
		},
	}
}
