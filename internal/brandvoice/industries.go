package brandvoice

import "strings"

// IndustryProfile holds the fallback values used when a tenant has not
// supplied a field.
type IndustryProfile struct {
	Name           string
	TargetAudience string
	Tone           string
	Keywords       []string
	PainPoints     []string
	Colors         []string
}

// IndustryRule pairs a predicate over the lower-cased industry with a profile.
type IndustryRule struct {
	Name    string
	Matches func(industry string) bool
	Profile IndustryProfile
}

func exact(names ...string) func(string) bool {
	return func(industry string) bool {
		for _, n := range names {
			if industry == n {
				return true
			}
		}
		return false
	}
}

func substring(sub string) func(string) bool {
	return func(industry string) bool {
		return strings.Contains(industry, sub)
	}
}

var amazonProfile = IndustryProfile{
	Name:           "Amazon Selling",
	TargetAudience: "Amazon sellers and e-commerce brand owners scaling on marketplaces",
	Tone:           "Direct, tactical, results-focused",
	Keywords:       []string{"Amazon FBA", "flat files", "listing optimization", "Seller Central", "PPC", "inventory management"},
	PainPoints:     []string{"compliance issues", "suppressed listings", "account suspensions", "rising ad costs", "inventory stockouts"},
	Colors:         []string{"#FF9900", "#232F3E"},
}

var ecommerceProfile = IndustryProfile{
	Name:           "E-commerce",
	TargetAudience: "Online store owners and DTC brand founders",
	Tone:           "Energetic, customer-obsessed, practical",
	Keywords:       []string{"conversion rate", "customer lifetime value", "DTC", "checkout", "retention"},
	PainPoints:     []string{"cart abandonment", "high acquisition costs", "low repeat purchases", "shipping delays"},
	Colors:         []string{"#F97316", "#1F2937"},
}

var saasProfile = IndustryProfile{
	Name:           "SaaS",
	TargetAudience: "B2B software buyers, founders and product leaders",
	Tone:           "Clear, confident, insight-driven",
	Keywords:       []string{"product-led growth", "churn", "ARR", "onboarding", "integrations"},
	PainPoints:     []string{"high churn", "long sales cycles", "low feature adoption", "pricing pressure"},
	Colors:         []string{"#4F46E5", "#0EA5E9"},
}

var marketingProfile = IndustryProfile{
	Name:           "Marketing",
	TargetAudience: "Marketing leaders and business owners looking for growth",
	Tone:           "Bold, creative, data-informed",
	Keywords:       []string{"brand awareness", "lead generation", "content strategy", "ROI", "campaigns"},
	PainPoints:     []string{"unclear attribution", "inconsistent lead flow", "content fatigue", "shrinking budgets"},
	Colors:         []string{"#E11D48", "#7C3AED"},
}

var consultingProfile = IndustryProfile{
	Name:           "Consulting",
	TargetAudience: "Executives and operators at growing mid-market companies",
	Tone:           "Authoritative, thoughtful, pragmatic",
	Keywords:       []string{"operational efficiency", "strategy", "transformation", "process improvement"},
	PainPoints:     []string{"stalled growth", "inefficient processes", "misaligned teams", "unclear priorities"},
	Colors:         []string{"#0F766E", "#334155"},
}

var genericProfile = IndustryProfile{
	Name:           "General Business",
	TargetAudience: "Business owners and decision makers",
	Tone:           "Professional, approachable, helpful",
	Keywords:       []string{"growth", "efficiency", "customer success", "innovation"},
	PainPoints:     []string{"limited time", "rising costs", "finding qualified customers", "standing out from competitors"},
	Colors:         []string{"#1E3A8A", "#64748B"},
}

// IndustryRules is the ordered fallback table: exact names first, then the
// amazon and marketing substring rules, then the generic default.
var IndustryRules = []IndustryRule{
	{Name: "amazon-exact", Matches: exact("amazon selling", "amazon seller", "amazon fba", "amazon agency"), Profile: amazonProfile},
	{Name: "ecommerce-exact", Matches: exact("ecommerce", "e-commerce", "dtc", "retail"), Profile: ecommerceProfile},
	{Name: "saas-exact", Matches: exact("saas", "b2b saas", "software", "technology"), Profile: saasProfile},
	{Name: "marketing-exact", Matches: exact("marketing", "marketing agency", "digital marketing", "advertising"), Profile: marketingProfile},
	{Name: "consulting-exact", Matches: exact("consulting", "management consulting", "professional services"), Profile: consultingProfile},
	{Name: "amazon-substring", Matches: substring("amazon"), Profile: amazonProfile},
	{Name: "marketing-substring", Matches: substring("marketing"), Profile: marketingProfile},
	{Name: "default", Matches: func(string) bool { return true }, Profile: genericProfile},
}

// LookupIndustry returns the first matching profile for industry.
func LookupIndustry(industry string) IndustryProfile {
	needle := strings.ToLower(strings.TrimSpace(industry))
	for _, rule := range IndustryRules {
		if rule.Matches(needle) {
			return rule.Profile
		}
	}
	return genericProfile
}

// IsGenericIndustry reports whether industry carries no usable signal.
func IsGenericIndustry(industry string) bool {
	switch strings.ToLower(strings.TrimSpace(industry)) {
	case "", "business", "general", "general business", "other", "n/a", "company", "services":
		return true
	}
	return false
}

// IsGenericAudience reports whether audience is empty or a stock default.
func IsGenericAudience(audience string) bool {
	a := strings.ToLower(strings.TrimSpace(audience))
	if a == "" || a == strings.ToLower(genericProfile.TargetAudience) {
		return true
	}
	switch a {
	case "everyone", "businesses", "customers", "b2b", "b2c", "companies", "small businesses":
		return true
	}
	return false
}
