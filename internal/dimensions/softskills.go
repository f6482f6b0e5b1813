package dimensions

import (
	"strings"

	"github.com/jonathan/match-engine/internal/textproc"
	"github.com/jonathan/match-engine/internal/types"
)

// softSkillFamilies groups soft skills that stand in for one another. Entries are folded and
// matched as substrings of the skill name; the first family that matches wins.
var softSkillFamilies = []struct {
	name  string
	terms []string
}{
	{"organization", []string{"organization", "organisation", "time management", "rigor", "rigueur", "attention to detail", "planning", "autonomy", "autonomie"}},
	{"communication", []string{"communication", "presentation", "public speaking", "writing", "listening", "prise de parole", "redaction"}},
	{"leadership", []string{"leadership", "management", "mentoring", "coaching", "decision", "delegation", "encadrement"}},
	{"teamwork", []string{"teamwork", "team player", "collaboration", "cooperation", "team spirit", "esprit d'equipe", "travail en equipe"}},
	{"problem_solving", []string{"problem solving", "analytical", "critical thinking", "creativity", "innovation", "esprit d'analyse", "resolution de problemes"}},
	{"adaptability", []string{"adaptability", "flexibility", "resilience", "curiosity", "learning", "adaptabilite", "agility"}},
	{"interpersonal", []string{"empathy", "emotional intelligence", "customer orientation", "relationship", "negotiation", "persuasion", "diplomacy"}},
}

// softSkillFamily returns the family of a folded skill name.
func softSkillFamily(skill string) (string, bool) {
	for _, fam := range softSkillFamilies {
		for _, t := range fam.terms {
			if strings.Contains(skill, t) {
				return fam.name, true
			}
		}
	}
	return "", false
}

// softSkills scores (matched + 0.5*transferable) / required, where a transferable skill shares
// a family with a required one. No requirement scores 1.
func (m *Matcher) softSkills(cand, required []types.SoftSkill) types.SoftSkillBreakdown {
	bd := types.SoftSkillBreakdown{
		Matched:      []string{},
		Transferable: []types.SkillMatch{},
		Missing:      []string{},
	}
	reqNames := types.SoftSkillNames(required)
	if len(reqNames) == 0 {
		bd.Score = 1
		return bd
	}

	candNames := types.SoftSkillNames(cand)
	folded := make([]string, len(candNames))
	for i, n := range candNames {
		folded[i] = textproc.Fold(n)
	}

	for _, req := range reqNames {
		fr := textproc.Fold(req)
		if exactSoftSkill(fr, folded) {
			bd.Matched = append(bd.Matched, req)
			continue
		}
		if idx := sameFamily(fr, folded); idx >= 0 {
			fam, _ := softSkillFamily(fr)
			bd.Transferable = append(bd.Transferable, types.SkillMatch{
				Required:    req,
				Matched:     candNames[idx],
				Similarity:  transferableWeight,
				Explanation: candNames[idx] + " and " + req + " both relate to " + strings.ReplaceAll(fam, "_", " "),
			})
			continue
		}
		bd.Missing = append(bd.Missing, req)
	}

	bd.Score = textproc.Clamp((float64(len(bd.Matched))+transferableWeight*float64(len(bd.Transferable)))/float64(len(reqNames)), 0, 1)
	return bd
}

// exactSoftSkill matches equal names, or names containing one another when the shorter has at
// least four characters ("communication" and "written communication").
func exactSoftSkill(req string, cand []string) bool {
	for _, c := range cand {
		if c == req {
			return true
		}
		short, long := c, req
		if len(short) > len(long) {
			short, long = long, short
		}
		if len(short) >= 4 && strings.Contains(long, short) {
			return true
		}
	}
	return false
}

func sameFamily(req string, cand []string) int {
	fam, ok := softSkillFamily(req)
	if !ok {
		return -1
	}
	for i, c := range cand {
		if cf, ok := softSkillFamily(c); ok && cf == fam {
			return i
		}
	}
	return -1
}
