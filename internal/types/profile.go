package types

// CandidateProfile is the structured view of a candidate produced by the extraction service.
// Every field is optional; the zero value means "not provided".
type CandidateProfile struct {
	Name       string              `json:"name,omitempty"`
	Sector     string              `json:"sector,omitempty"`
	HardSkills []string            `json:"hard_skills"`
	SoftSkills []SoftSkill         `json:"soft_skills"`
	Experience CandidateExperience `json:"experience"`
	Education  CandidateEducation  `json:"education"`
	Languages  []Language          `json:"languages"`
	Culture    Culture             `json:"culture"`
	Mobility   Mobility            `json:"mobility"`
}

// CandidateExperience summarizes a candidate's work history.
type CandidateExperience struct {
	TotalYears    float64   `json:"total_years"`
	RelevantYears float64   `json:"relevant_years"`
	Seniority     string    `json:"seniority,omitempty"`
	Companies     []Company `json:"companies"`
	Positions     []string  `json:"positions"`
}

// Company is an employer the candidate worked for.
type Company struct {
	Name   string `json:"name"`
	Type   string `json:"type,omitempty"` // e.g. startup, large_corporate, consulting, public
	Sector string `json:"sector,omitempty"`
}

// CandidateEducation holds the candidate's highest diploma.
type CandidateEducation struct {
	Level           string   `json:"level,omitempty"` // e.g. "Bac+5", "master"
	Diploma         string   `json:"diploma,omitempty"`
	Field           string   `json:"field,omitempty"`
	Specializations []string `json:"specializations"`
}

// Language is a spoken language and proficiency.
type Language struct {
	Name  string `json:"name"`
	Level string `json:"level,omitempty"`
}

// Culture captures the values and working environment a person or team describes.
type Culture struct {
	Values      []string `json:"values"`
	Environment []string `json:"environment"`
	Aspirations []string `json:"aspirations"`
}

// Mobility captures location constraints.
type Mobility struct {
	Locations []string `json:"locations"`
	Remote    bool     `json:"remote,omitempty"`
	Willing   bool     `json:"willing_to_relocate,omitempty"`
}

// JobProfile is the structured view of a job requisition produced by the extraction service.
type JobProfile struct {
	Title           string                `json:"title,omitempty"`
	Company         string                `json:"company,omitempty"`
	Sector          string                `json:"sector,omitempty"`
	RequiredSkills  []string              `json:"required_skills"`
	PreferredSkills []string              `json:"preferred_skills"`
	SoftSkills      []SoftSkill           `json:"soft_skills"`
	Experience      ExperienceRequirement `json:"experience"`
	Education       EducationRequirement  `json:"education"`
	Languages       []Language            `json:"languages"`
	Culture         Culture               `json:"culture"`
	Mobility        Mobility              `json:"mobility"`
}

// ExperienceRequirement describes the experience a job asks for.
type ExperienceRequirement struct {
	MinYears     float64  `json:"min_years"`
	MaxYears     float64  `json:"max_years"` // 0 means no upper bound
	Seniority    string   `json:"seniority,omitempty"`
	CompanyTypes []string `json:"company_types"`
}

// EducationRequirement describes the diploma a job asks for.
type EducationRequirement struct {
	Level           string   `json:"level,omitempty"`
	Diploma         string   `json:"diploma,omitempty"`
	Fields          []string `json:"fields"`
	Specializations []string `json:"specializations"`
}
