// Package semantic implements the categorized semantic signal: domain terms are extracted per
// category from both texts and compared through contextual alignment metrics.
package semantic

// Category is a fixed semantic category.
type Category string

// Categories in declaration order
const (
	CategoryRegulatory Category = "regulatory"
	CategoryInsurance  Category = "insurance"
	CategoryRisk       Category = "risk"
	CategoryTechnology Category = "technology"
	CategoryManagement Category = "management"
	CategoryFinance    Category = "finance"
)

// Categories lists every category in declaration order.
var Categories = []Category{
	CategoryRegulatory,
	CategoryInsurance,
	CategoryRisk,
	CategoryTechnology,
	CategoryManagement,
	CategoryFinance,
}

var categoryTerms = map[Category][]string{
	CategoryRegulatory: {
		"regulation", "regulatory", "compliance", "gdpr", "contract", "legal", "clause", "liability",
		"jurisdiction", "agreement", "indemnify", "licensor", "licensee", "solvency ii", "basel", "kyc",
		"aml", "sox", "mifid", "directive", "governance", "conformité", "réglementaire",
	},
	CategoryInsurance: {
		"insurance", "assurance", "underwriting", "claims", "actuarial", "premium", "reinsurance",
		"policyholder", "broker", "coverage", "bancassurance", "loss ratio", "sinistre", "souscription",
	},
	CategoryRisk: {
		"risk", "risk management", "credit risk", "market risk", "operational risk", "fraud",
		"stress testing", "risk assessment", "internal control", "mitigation", "risque", "contrôle interne",
	},
	CategoryTechnology: {
		"software", "developer", "backend", "frontend", "api", "cloud", "docker", "kubernetes", "node.js",
		"express", "postgresql", "sql", "python", "java", "javascript", "typescript", "react", "microservices",
		"devops", "database", "machine learning", "git", "linux", "aws", "développeur", "logiciel",
	},
	CategoryManagement: {
		"management", "manager", "leadership", "team lead", "project management", "strategy", "stakeholder",
		"planning", "coordination", "supervision", "director", "head of", "scrum", "mentoring", "encadrement",
		"gestion de projet",
	},
	CategoryFinance: {
		"finance", "financial", "accounting", "investment", "portfolio", "valuation", "treasury", "ifrs",
		"reporting", "cash flow", "banking", "bank", "credit", "loan", "asset management", "budget",
		"comptabilité", "trésorerie",
	},
}

// entityStopwords are capitalized words that are never domain entities.
var entityStopwords = map[string]struct{}{
	"this": {}, "that": {}, "with": {}, "from": {}, "have": {}, "will": {}, "your": {}, "their": {},
	"they": {}, "when": {}, "where": {}, "what": {}, "which": {}, "about": {}, "years": {}, "year": {},
	"experience": {}, "required": {}, "requirements": {}, "must": {}, "should": {}, "able": {},
	"nous": {}, "vous": {}, "dans": {}, "pour": {}, "avec": {}, "plus": {}, "also": {}, "more": {},
	"strong": {}, "good": {}, "excellent": {}, "knowledge": {}, "skills": {}, "work": {}, "team": {},
}
