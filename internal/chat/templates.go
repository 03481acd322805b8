package chat

import (
	"fmt"
	"strings"

	"github.com/webvantage/chatbot-platform/internal/classifier"
)

// ServiceMenu is the fixed list of services the agency offers, in the
// order the menu presents them.
var ServiceMenu = []string{
	"Website Design & Development",
	"Search Engine Optimization (SEO)",
	"Social Media Marketing",
	"Google & Meta Ads",
	"Branding & Logo Design",
	"Content Marketing",
}

// serviceKeywords maps message phrases to menu entries so the session can
// track which services have come up.
var serviceKeywords = []struct {
	phrase  string
	service string
}{
	{"website", "Website Design & Development"},
	{"web design", "Website Design & Development"},
	{"landing page", "Website Design & Development"},
	{"seo", "Search Engine Optimization (SEO)"},
	{"search engine", "Search Engine Optimization (SEO)"},
	{"social media", "Social Media Marketing"},
	{"instagram", "Social Media Marketing"},
	{"facebook", "Social Media Marketing"},
	{"google ads", "Google & Meta Ads"},
	{"meta ads", "Google & Meta Ads"},
	{"advertis", "Google & Meta Ads"},
	{"branding", "Branding & Logo Design"},
	{"logo", "Branding & Logo Design"},
	{"content", "Content Marketing"},
	{"blog", "Content Marketing"},
}

// closingTriggers push the stage to closing and surface the booking form.
var closingTriggers = []string{
	"price", "pricing", "cost", "charges", "fees", "quote", "budget", "how much",
	"book", "appointment", "schedule", "consultation", "call me", "meeting",
}

// discoveryTriggers move past initial even before a category is known.
var discoveryTriggers = []string{
	"recommend", "advice", "suggest", "help", "grow", "improve", "customers",
}

// adviceTemplates hold the business-specific pitch for the discovery stage.
// Categories without an entry fall back to genericAdvice.
var adviceTemplates = map[classifier.Category]string{
	classifier.CategoryRestaurant:      "Restaurants thrive on local search and photos. A website with your menu, Google Business optimization, and food photography on social media bring in diners who are searching nearby right now.",
	classifier.CategoryCafeBakery:      "Cafes and bakeries do best with Instagram-first marketing. Daily specials, behind-the-counter reels, and a simple online ordering page turn followers into regulars.",
	classifier.CategoryRetailEcommerce: "For a retail business, an online store with product listings plus retargeting ads recovers customers who browsed but did not buy. Reviews and local SEO drive footfall too.",
	classifier.CategoryFashionApparel:  "Fashion brands grow through lookbooks and influencer collaborations. A visual website, Instagram shopping tags, and seasonal campaigns keep your collection in front of buyers.",
	classifier.CategorySalonSpa:        "Salons win on before/after content and online booking. A booking-enabled website and consistent social proof (reviews, transformations) fill your appointment book.",
	classifier.CategoryFitnessGym:      "Gyms convert with transformation stories and trial-offer landing pages. Local ads targeted within a few kilometers of your location bring in members who can actually visit.",
	classifier.CategoryHealthcare:      "For clinics, patient trust comes first: a professional website with doctor profiles, appointment booking, and health content that answers the questions patients search for.",
	classifier.CategoryDental:          "Dental practices grow with local SEO ('dentist near me'), before/after galleries, and appointment reminders. A clean website with online booking reduces front-desk load.",
	classifier.CategoryEducation:       "Education businesses need credibility and discoverability: course pages that rank, student testimonials, and webinar funnels that convert inquiries into enrollments.",
	classifier.CategoryRealEstate:      "Real estate runs on listings and lead capture. Property pages with virtual tours, targeted ads by locality, and a CRM-connected inquiry form keep your pipeline full.",
	classifier.CategoryITSoftware:      "Software companies grow through content and positioning: a sharp website, case studies, SEO for the problems you solve, and LinkedIn outreach to decision makers.",
	classifier.CategoryMobileServices:  "Mobile service businesses live on speed and proximity: Google Business optimization, click-to-call ads, and WhatsApp-based inquiry handling convert urgent searches into jobs.",
	classifier.CategoryMarketingAgency: "Even agencies need marketing! Positioning around a niche, public case studies, and a strong referral loop set you apart from generalist competition.",
	classifier.CategoryHotelLodging:    "Hotels and stays win direct bookings by escaping OTA dependence: a booking-enabled website, Google Hotel listings, and remarketing to past guests.",
	classifier.CategoryAutomotive:      "Auto businesses grow with service reminders and local ads. A website with service menus and online slot booking keeps your bays busy on weekdays too.",
}

const genericAdvice = "Every business today needs a strong online presence. A professional website, local search visibility, and consistent social media are the foundation; paid ads accelerate whatever already works."

const prohibitedReply = "Thanks for reaching out, but this is not a business category we are able to work with. If you have another venture in mind, I would be glad to help with that instead."

func greeting(name string) string {
	if name != "" {
		return fmt.Sprintf("Hi %s! I'm the Webvantage assistant. What kind of business do you run? I can suggest the right digital marketing mix for it.", name)
	}
	return "Hi! I'm the Webvantage assistant. What kind of business do you run? I can suggest the right digital marketing mix for it."
}

func adviceFor(category classifier.Category) string {
	if advice, ok := adviceTemplates[category]; ok {
		return advice
	}
	return genericAdvice
}

func serviceMenuText() string {
	var b strings.Builder
	b.WriteString("Here's what we offer:\n")
	for i, s := range ServiceMenu {
		fmt.Fprintf(&b, "%d. %s\n", i+1, s)
	}
	return b.String()
}

// humanize converts a category label into display text, e.g.
// "retail_ecommerce" -> "retail ecommerce".
func humanize(category classifier.Category) string {
	return strings.ReplaceAll(string(category), "_", " ")
}
