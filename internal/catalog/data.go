package catalog

func defaultProducts() []Product {
	return []Product{
		{
			ID:           "wk1",
			Name:         "Day One Onboarding Box",
			Price:        145,
			Category:     CategoryEmployeeWelcomeKits,
			Description:  "The ultimate first-day experience. Includes a custom hoodie, insulated tumbler, hardbound journal, and tech organizer. Designed to make every new hire feel like a VIP from the moment they open the lid.",
			Image:        "https://images.unsplash.com/photo-1581091226825-a6a2a5aee158?auto=format&fit=crop&q=80&w=800",
			Rating:       5.0,
			Customizable: true,
			Colors:       []string{"Corporate Navy", "Tech Grey", "Minimal White"},
			InStock:      true,
		},
		{
			ID:           "wk2",
			Name:         "Remote Starter Set",
			Price:        95,
			Category:     CategoryEmployeeWelcomeKits,
			Description:  "Essential gear for the modern home office: Ring light, noise-isolating buds, and a desk-friendly succulent. Perfect for distributed teams looking to maintain a high-quality video presence.",
			Image:        "https://images.unsplash.com/photo-1547082299-de196ea013d6?auto=format&fit=crop&q=80&w=800",
			Rating:       4.7,
			Customizable: true,
			InStock:      true,
		},
		{
			ID:           "cg1",
			Name:         "Vantage Point Wine Set",
			Price:        185,
			Category:     CategoryClientGifts,
			Description:  "A bottle of premium Cabernet paired with lead-free crystal glasses and a leather-wrapped corkscrew. A sophisticated choice for closing deals or celebrating milestones.",
			Image:        "https://images.unsplash.com/photo-1510812431401-41d2bd2722f3?auto=format&fit=crop&q=80&w=800",
			Rating:       4.9,
			Customizable: true,
			InStock:      true,
		},
		{
			ID:           "cg2",
			Name:         "Executive Tech Folio",
			Price:        125,
			Category:     CategoryClientGifts,
			Description:  "Pebbled Italian leather folio designed to house an iPad Pro, legal pad, and premium pen. Elegance meets utility for the traveling executive.",
			Image:        "https://images.unsplash.com/photo-1544816155-12df9643f363?auto=format&fit=crop&q=80&w=800",
			Rating:       4.8,
			Customizable: true,
			InStock:      false,
		},
		{
			ID:           "eco1",
			Name:         "Terra Recycled Tote",
			Price:        28,
			Category:     CategoryEcoFriendlyGifts,
			Description:  "Ultra-durable tote made from 100% ocean-bound plastic. Perfect for daily commutes or weekend markets. Sustainably chic for the environmentally conscious brand.",
			Image:        "https://images.unsplash.com/photo-1544816155-12df9643f363?auto=format&fit=crop&q=80&w=800",
			Rating:       4.6,
			Customizable: true,
			Colors:       []string{"Sage", "Stone", "Ocean"},
			InStock:      true,
		},
		{
			ID:           "eco2",
			Name:         "Bamboo Desktop Garden",
			Price:        42,
			Category:     CategoryEcoFriendlyGifts,
			Description:  "Sustainably sourced bamboo planter with easy-to-grow air plants and polished river stones. Brings a touch of nature to even the most crowded desk.",
			Image:        "https://images.unsplash.com/photo-1485955900006-10f4d324d411?auto=format&fit=crop&q=80&w=800",
			Rating:       4.9,
			Customizable: false,
			InStock:      true,
		},
		{
			ID:           "eg1",
			Name:         "Peak Performance Fleece",
			Price:        72,
			Category:     CategoryEmployeeGifts,
			Description:  "Soft-touch performance fleece with discrete logo embroidery. Loved by engineering teams globally for its warmth and professional cut.",
			Image:        "https://images.unsplash.com/photo-1556821840-3a63f95609a7?auto=format&fit=crop&q=80&w=800",
			Rating:       4.8,
			Customizable: true,
			Colors:       []string{"Slate", "Charcoal", "Midnight"},
			InStock:      true,
		},
		{
			ID:           "dw1",
			Name:         "Prism Insulated Canteen",
			Price:        38,
			Category:     CategoryDrinkware,
			Description:  "Double-walled stainless steel bottle that keeps beverages ice-cold for 24 hours. Minimalist aesthetic that fits perfectly in a car cup holder or gym bag.",
			Image:        "https://images.unsplash.com/photo-1602143307185-8a1a598103d1?auto=format&fit=crop&q=80&w=800",
			Rating:       4.9,
			Customizable: true,
			Colors:       []string{"Matte Black", "Brushed Copper", "Snow White"},
			InStock:      true,
		},
		{
			ID:           "dw2",
			Name:         "Fireside Ceramic Mug",
			Price:        24,
			Category:     CategoryDrinkware,
			Description:  "Hefty, hand-glazed ceramic mug with a wide handle for maximum comfort during morning calls. Each piece features unique glazing patterns.",
			Image:        "https://images.unsplash.com/photo-1539375665275-f9ad415bf9ec?auto=format&fit=crop&q=80&w=800",
			Rating:       4.8,
			Customizable: true,
			InStock:      true,
		},
		{
			ID:           "pp1",
			Name:         "Signature Branded Lanyards",
			Price:        8,
			Category:     CategoryPromotionalProducts,
			Description:  "High-quality woven polyester lanyards with premium metal clips. Bulk pricing applies for conferences and large-scale corporate events.",
			Image:        "https://images.unsplash.com/photo-1610940882244-1fbcfe928bc6?auto=format&fit=crop&q=80&w=800",
			Rating:       4.5,
			Customizable: true,
			InStock:      true,
		},
		{
			ID:           "e2",
			Name:         "Acoustics Noise-Cancelling Headphones",
			Price:        249,
			Category:     CategoryElectronics,
			Description:  "High-fidelity audio with premium comfort and industry-leading noise cancellation. The gold standard for focus in open-office environments.",
			Image:        "https://images.unsplash.com/photo-1505740420928-5e560c06d30e?auto=format&fit=crop&q=80&w=800",
			Rating:       4.9,
			Customizable: true,
			InStock:      true,
		},
		{
			ID:           "f2",
			Name:         "Artisan Charcuterie Selection",
			Price:        95,
			Category:     CategoryFoodAndBeverage,
			Description:  "A curated spread of aged cheeses, cured meats, dried fruits, and gourmet crackers. Packed in a reusable wooden crate for a premium unboxing experience.",
			Image:        "https://images.unsplash.com/photo-1540914129486-624ad0445768?auto=format&fit=crop&q=80&w=800",
			Rating:       4.9,
			Customizable: false,
			InStock:      false,
		},
	}
}
