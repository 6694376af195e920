package category

import "github.com/advocaid/assistant/backend/internal/model/persona"

// Category narrows the system preamble sent to the generative service.
type Category struct {
	ID          string         `json:"id" yaml:"id"`
	Title       string         `json:"title" yaml:"title"`
	Description string         `json:"description" yaml:"description"`
	Domain      persona.Domain `json:"domain" yaml:"domain"`
	Preamble    string         `json:"-" yaml:"preamble"`
	Keywords    []string       `json:"keywords" yaml:"keywords"`
}

// Known reports whether the category came from the catalog rather than a free-form label.
func (c Category) Known() bool {
	return c.ID != ""
}

// Seed returns the built-in catalog: legal areas followed by the GCUF career fields.
func Seed() []Category {
	return append(legalSeed(), careerSeed()...)
}

func legalSeed() []Category {
	return []Category{
		{
			ID:          "family-law",
			Title:       "Family Law",
			Description: "Marriage, divorce, khula, child custody, maintenance and inheritance",
			Domain:      persona.DomainLegal,
			Preamble:    "You are a legal assistant specializing in Family Law in Pakistan, including the Muslim Family Laws Ordinance 1961, the Family Courts Act 1964, the Guardians and Wards Act 1890, marriage, divorce, khula, custody, maintenance and dower.",
			Keywords:    []string{"divorce", "khula", "custody", "marriage", "nikah", "maintenance", "dower", "haq mehr", "guardian", "talaq"},
		},
		{
			ID:          "criminal-law",
			Title:       "Criminal Law",
			Description: "FIRs, bail, arrest, trials and the rights of the accused",
			Domain:      persona.DomainLegal,
			Preamble:    "You are a legal assistant specializing in Criminal Law in Pakistan, including the Pakistan Penal Code, the Code of Criminal Procedure, FIR registration, bail, arrest and the rights of the accused and of victims.",
			Keywords:    []string{"fir", "bail", "arrest", "police", "crime", "theft", "assault", "accused", "trial", "criminal"},
		},
		{
			ID:          "property-law",
			Title:       "Property Law",
			Description: "Land disputes, tenancy, transfers, registration and inheritance of property",
			Domain:      persona.DomainLegal,
			Preamble:    "You are a legal assistant specializing in Property Law in Pakistan, including the Transfer of Property Act 1882, the Registration Act 1908, rent and tenancy laws, land records and property disputes.",
			Keywords:    []string{"property", "land", "tenant", "landlord", "rent", "lease", "registry", "mutation", "possession", "eviction"},
		},
		{
			ID:          "employment-law",
			Title:       "Employment Law",
			Description: "Workplace rights, contracts, termination, wages and harassment",
			Domain:      persona.DomainLegal,
			Preamble:    "You are a legal assistant specializing in Employment Law in Pakistan, including the Industrial Relations Act, standing orders, minimum wage rules, termination, gratuity and protection against harassment at the workplace.",
			Keywords:    []string{"employer", "employee", "salary", "wage", "termination", "fired", "contract", "harassment", "gratuity", "workplace"},
		},
		{
			ID:          "consumer-rights",
			Title:       "Consumer Rights",
			Description: "Defective products, refunds, services and consumer courts",
			Domain:      persona.DomainLegal,
			Preamble:    "You are a legal assistant specializing in Consumer Rights in Pakistan, including the provincial consumer protection acts, consumer courts, refunds, warranties and defective goods or services.",
			Keywords:    []string{"consumer", "refund", "warranty", "defective", "product", "shop", "seller", "complaint", "service"},
		},
		{
			ID:          "immigration-law",
			Title:       "Immigration Law",
			Description: "Visas, passports, citizenship and overseas employment",
			Domain:      persona.DomainLegal,
			Preamble:    "You are a legal assistant specializing in Immigration Law, including Pakistani citizenship, passports, visas, overseas employment and the Emigration Ordinance 1979.",
			Keywords:    []string{"visa", "passport", "citizenship", "immigration", "nicop", "overseas", "emigration", "deport"},
		},
		{
			ID:          "business-law",
			Title:       "Business Law",
			Description: "Company registration, contracts, partnerships and taxation",
			Domain:      persona.DomainLegal,
			Preamble:    "You are a legal assistant specializing in Business Law in Pakistan, including the Companies Act 2017, SECP registration, the Partnership Act 1932, the Contract Act 1872 and basic tax obligations.",
			Keywords:    []string{"company", "business", "partnership", "secp", "contract", "tax", "ntn", "startup", "agreement"},
		},
		{
			ID:          "civil-rights",
			Title:       "Civil Rights",
			Description: "Fundamental rights, discrimination, free speech and public interest petitions",
			Domain:      persona.DomainLegal,
			Preamble:    "You are a legal assistant specializing in Civil Rights under the Constitution of Pakistan 1973, including fundamental rights, discrimination, freedom of expression and constitutional petitions.",
			Keywords:    []string{"rights", "constitution", "discrimination", "freedom", "petition", "equality", "fundamental"},
		},
	}
}

func careerSeed() []Category {
	career := func(id, title, description string, keywords ...string) Category {
		return Category{
			ID:          id,
			Title:       title,
			Description: description,
			Domain:      persona.DomainCareer,
			Preamble:    "You are a GCUF career counselor specializing in " + title + " (" + description + "). Relate your advice to GCUF faculties and degree programs where possible.",
			Keywords:    keywords,
		}
	}

	return []Category{
		career("business", "Business & Management", "MBA, Marketing, HR, Finance, Entrepreneurship, and Business Administration",
			"mba", "marketing", "finance", "management", "business", "accounting"),
		career("technology", "Technology & IT", "Software Development, Data Science, Cybersecurity, AI/ML, Web Development",
			"software", "programming", "data science", "it", "cybersecurity", "web development"),
		career("sciences", "Natural Sciences", "Physics, Chemistry, Biology, Environmental Science, Research",
			"physics", "chemistry", "biology", "research", "lab", "environmental"),
		career("healthcare", "Healthcare & Life Sciences", "Pharmacy, Biotechnology, Microbiology, Public Health, Nutrition",
			"pharmacy", "biotechnology", "microbiology", "health", "nutrition", "medicine"),
		career("engineering", "Engineering", "Electrical, Mechanical, Civil, Chemical Engineering and related fields",
			"electrical", "mechanical", "civil", "chemical", "engineering", "technical"),
		career("arts", "Arts & Humanities", "Literature, History, Philosophy, Languages, Islamic Studies, Media",
			"arts", "literature", "history", "languages", "media", "humanities"),
		career("education", "Education & Teaching", "Teaching careers, Educational administration, Training & Development",
			"teaching", "education", "lecturer", "professor", "training", "curriculum"),
		career("economics", "Economics & Finance", "Banking, Investment, Economic analysis, Financial planning, Statistics",
			"economics", "banking", "investment", "statistics", "financial", "analysis"),
		career("international", "International Relations", "Diplomacy, Foreign affairs, International organizations, Policy",
			"diplomacy", "international", "foreign affairs", "un", "policy", "relations"),
		career("social-sciences", "Social Sciences", "Psychology, Sociology, Political Science, Social Work",
			"psychology", "sociology", "political science", "social work", "counseling"),
		career("islamic-studies", "Islamic Studies & Arabic", "Islamic Education, Arabic Language, Quranic Studies, Islamic Banking",
			"islamic", "arabic", "quran", "shariah", "islamic banking", "religious"),
		career("general", "General Career Guidance", "General career questions, skill development, and professional growth",
			"general", "career advice", "guidance", "skills", "professional growth"),
	}
}
