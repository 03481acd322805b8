package classifier

// Category is a business-type label from the fixed catalog.
type Category string

// Special labels.
const (
	CategoryProhibited Category = "prohibited"
	CategoryGeneral    Category = "general"
)

// Business categories.
const (
	CategoryRestaurant        Category = "restaurant"
	CategoryCafeBakery        Category = "cafe_bakery"
	CategoryRetailEcommerce   Category = "retail_ecommerce"
	CategoryFashionApparel    Category = "fashion_apparel"
	CategorySalonSpa          Category = "salon_spa"
	CategoryFitnessGym        Category = "fitness_gym"
	CategoryHealthcare        Category = "healthcare"
	CategoryDental            Category = "dental"
	CategoryPharmacy          Category = "pharmacy"
	CategoryEducation         Category = "education_training"
	CategoryRealEstate        Category = "real_estate"
	CategoryConstruction      Category = "construction"
	CategoryInteriorDesign    Category = "interior_design"
	CategoryLegalServices     Category = "legal_services"
	CategoryAccounting        Category = "accounting_finance"
	CategoryMarketingAgency   Category = "marketing_agency"
	CategoryPhotography       Category = "photography"
	CategoryEventPlanning     Category = "event_planning"
	CategoryTravelTourism     Category = "travel_tourism"
	CategoryHotelLodging      Category = "hotel_lodging"
	CategoryAutomotive        Category = "automotive"
	CategoryElectronicsRepair Category = "electronics_repair"
	CategoryMobileServices    Category = "mobile_services"
	CategoryITSoftware        Category = "it_software"
	CategoryCleaning          Category = "cleaning_services"
	CategoryPetServices       Category = "pet_services"
	CategoryAgriculture       Category = "agriculture"
	CategoryManufacturing     Category = "manufacturing"
	CategoryLogistics         Category = "logistics_transport"
	CategoryGrocery           Category = "grocery_store"
	CategoryJewelry           Category = "jewelry"
	CategoryNonprofit         Category = "nonprofit"
)

// denyPhrases short-circuit to CategoryProhibited before any other rule.
var denyPhrases = []string{
	"casino", "gambling", "betting", "poker", "lottery",
	"adult content", "adult entertainment", "escort", "porn",
	"weapons", "firearms", "guns", "ammunition", "explosives",
	"illegal drugs", "narcotics", "cannabis", "marijuana", "cocaine",
	"counterfeit", "ponzi", "pyramid scheme",
}

// exactOverrides disambiguate phrases the general tables would misfile.
// They run after the deny-list and before every keyword rule.
var exactOverrides = []rule{
	{CategoryRetailEcommerce, []string{"mobile shop", "mobile store", "phone shop", "phone store", "mobile showroom"}},
	{CategoryElectronicsRepair, []string{"mobile repair", "phone repair", "laptop repair"}},
	{CategoryCafeBakery, []string{"coffee shop", "tea shop", "tea stall"}},
	{CategoryHotelLodging, []string{"boutique hotel", "boutique resort"}},
	{CategoryGrocery, []string{"kirana store", "general store", "departmental store"}},
}

// keywordRules is the ordered catalog: most-specific phrase lists first,
// first match wins. Order is the precedence contract, keep it visible here
// rather than in map iteration order.
var keywordRules = []rule{
	{CategoryDental, []string{"dental", "dentist", "orthodont"}},
	{CategoryPharmacy, []string{"pharmacy", "chemist", "medical store", "drugstore"}},
	{CategoryHealthcare, []string{"clinic", "hospital", "doctor", "physiotherapy", "diagnostic", "pathology", "ayurved", "homeopath"}},
	{CategoryCafeBakery, []string{"cafe", "bakery", "bake", "patisserie", "dessert"}},
	{CategoryRestaurant, []string{"restaurant", "dhaba", "food truck", "catering", "cloud kitchen", "eatery", "food delivery"}},
	{CategoryFashionApparel, []string{"boutique", "clothing", "apparel", "garment", "fashion", "tailor"}},
	{CategoryJewelry, []string{"jewellery", "jewelry", "jeweller", "gold shop"}},
	{CategorySalonSpa, []string{"salon", "spa", "parlour", "parlor", "barber", "makeup artist", "beauty"}},
	{CategoryFitnessGym, []string{"gym", "fitness", "yoga", "crossfit", "zumba", "personal trainer"}},
	{CategoryEducation, []string{"coaching", "tuition", "school", "college", "academy", "training institute", "edtech", "online course"}},
	{CategoryRealEstate, []string{"real estate", "property", "realtor", "broker", "flats for sale"}},
	{CategoryInteriorDesign, []string{"interior design", "interior decorat", "furnishing", "modular kitchen"}},
	{CategoryConstruction, []string{"construction", "builder", "contractor", "civil engineer", "architect"}},
	{CategoryLegalServices, []string{"law firm", "lawyer", "advocate", "legal"}},
	{CategoryAccounting, []string{"accounting", "chartered accountant", "bookkeeping", "tax", "audit", "financial advisor"}},
	{CategoryMarketingAgency, []string{"marketing agency", "ad agency", "advertising", "digital marketing", "seo agency"}},
	{CategoryPhotography, []string{"photography", "photographer", "photo studio", "videograph"}},
	{CategoryEventPlanning, []string{"event planning", "event management", "wedding planner", "banquet"}},
	{CategoryHotelLodging, []string{"hotel", "resort", "guest house", "homestay", "hostel", "lodge"}},
	{CategoryTravelTourism, []string{"travel agency", "tour", "tourism", "ticketing", "visa services"}},
	{CategoryAutomotive, []string{"car dealer", "automobile", "garage", "car wash", "bike service", "auto parts", "car service"}},
	{CategoryElectronicsRepair, []string{"electronics repair", "appliance repair", "ac repair", "refrigerator repair"}},
	{CategoryITSoftware, []string{"software", "it services", "web development", "app development", "saas", "startup"}},
	{CategoryMobileServices, []string{"mobile", "phone", "smartphone", "recharge"}},
	{CategoryCleaning, []string{"cleaning", "housekeeping", "pest control", "laundry", "dry clean"}},
	{CategoryPetServices, []string{"pet", "veterinary", "vet clinic", "dog grooming"}},
	{CategoryAgriculture, []string{"farm", "agriculture", "nursery", "organic produce", "dairy"}},
	{CategoryManufacturing, []string{"manufactur", "factory", "fabrication", "industrial"}},
	{CategoryLogistics, []string{"logistics", "courier", "transport", "packers and movers", "warehouse"}},
	{CategoryGrocery, []string{"grocery", "supermarket", "provision store", "vegetable shop"}},
	{CategoryRetailEcommerce, []string{"shop", "store", "retail", "ecommerce", "e-commerce", "online selling", "marketplace"}},
	{CategoryNonprofit, []string{"ngo", "nonprofit", "non-profit", "charity", "foundation", "trust"}},
}
