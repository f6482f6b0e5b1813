// Package keyword implements the sector-aware keyword coverage signal.
package keyword

// Sector is a named professional domain with its keyword list.
type Sector struct {
	Name     string
	Keywords []string
}

// Sector names
const (
	SectorTechnology     = "technology"
	SectorBanking        = "banking"
	SectorInsurance      = "insurance"
	SectorFinance        = "finance"
	SectorHealthcare     = "healthcare"
	SectorLegal          = "legal"
	SectorMarketing      = "marketing"
	SectorHumanResources = "human_resources"
)

// DefaultTaxonomy is the built-in sector taxonomy. Declaration order breaks detection ties.
var DefaultTaxonomy = []Sector{
	{
		Name: SectorTechnology,
		Keywords: []string{
			"software", "developer", "development", "programming", "javascript", "typescript", "python", "java",
			"node.js", "react", "api", "cloud", "devops", "docker", "kubernetes", "database", "sql", "postgresql",
			"backend", "frontend", "microservices", "agile", "git", "linux", "aws", "machine learning",
			"data science", "cybersecurity", "infrastructure", "full stack",
		},
	},
	{
		Name: SectorBanking,
		Keywords: []string{
			"bank", "banking", "banque", "credit", "loan", "mortgage", "deposit", "retail banking",
			"investment banking", "basel", "kyc", "aml", "anti-money laundering", "payments", "swift",
			"wealth management", "private banking", "branch network", "corporate banking", "trade finance",
		},
	},
	{
		Name: SectorInsurance,
		Keywords: []string{
			"insurance", "assurance", "underwriting", "claims", "actuarial", "actuary", "policyholder", "premium",
			"reinsurance", "solvency", "insurance broker", "life insurance", "property and casualty",
			"loss adjuster", "bancassurance", "mutual insurer",
		},
	},
	{
		Name: SectorFinance,
		Keywords: []string{
			"finance", "financial", "accounting", "audit", "budget", "forecasting", "controlling", "ifrs", "gaap",
			"tax", "treasury", "financial analysis", "valuation", "mergers and acquisitions", "cash flow",
			"financial reporting", "consolidation", "cfo", "investment", "portfolio",
		},
	},
	{
		Name: SectorHealthcare,
		Keywords: []string{
			"healthcare", "hospital", "patient", "clinical", "medical", "nursing", "pharmaceutical", "pharmacy",
			"physician", "diagnosis", "biotech", "medical device", "clinical trials", "public health",
		},
	},
	{
		Name: SectorLegal,
		Keywords: []string{
			"legal", "law", "lawyer", "attorney", "contract", "litigation", "compliance", "regulatory", "counsel",
			"jurisdiction", "intellectual property", "gdpr", "liability", "indemnify", "clause", "agreement",
			"licensor", "licensee",
		},
	},
	{
		Name: SectorMarketing,
		Keywords: []string{
			"marketing", "brand", "branding", "seo", "sem", "social media", "campaign", "digital marketing",
			"advertising", "market research", "crm", "growth hacking", "public relations", "copywriting",
		},
	},
	{
		Name: SectorHumanResources,
		Keywords: []string{
			"human resources", "recruitment", "recruiting", "talent acquisition", "payroll", "onboarding",
			"employee relations", "hris", "compensation and benefits", "workforce planning", "hr",
		},
	},
}
