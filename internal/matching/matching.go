// Package matching scores how well a candidate profile fits a job posting.
package matching

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/jobzee/jobzee/internal/models"
)

const (
	weightSkills     = 0.4
	weightExperience = 0.3
	weightLocation   = 0.2
	weightSalary     = 0.1
)

// Result is the breakdown of a match. Score is always in [0,1].
type Result struct {
	Score           float64  `json:"score"`
	SkillScore      float64  `json:"skill_score"`
	ExperienceScore float64  `json:"experience_score"`
	LocationScore   float64  `json:"location_score"`
	SalaryScore     float64  `json:"salary_score"`
	MatchedSkills   []string `json:"matched_skills"`
	MissingSkills   []string `json:"missing_skills"`
	Reasoning       string   `json:"reasoning"`
}

// Score compares c against j. It is deterministic and has no side effects.
func Score(c *models.Candidate, j *models.Job) Result {
	var r Result
	r.SkillScore, r.MatchedSkills, r.MissingSkills = skillScore(c.Skills, j.Skills)
	r.ExperienceScore = experienceScore(c.ExperienceYears, j.ExperienceLevel)
	r.LocationScore = locationScore(c.Location, j.Location, c.RemotePreference, j.RemoteFriendly)
	r.SalaryScore = salaryScore(c.SalaryExpectation, j.SalaryRange)

	total := weightSkills*r.SkillScore +
		weightExperience*r.ExperienceScore +
		weightLocation*r.LocationScore +
		weightSalary*r.SalaryScore
	r.Score = clamp(total)
	r.Reasoning = reasoning(r, len(j.Skills))
	return r
}

func skillScore(have, want []string) (float64, []string, []string) {
	matched := []string{}
	missing := []string{}
	if len(want) == 0 {
		return 0, matched, missing
	}
	set := make(map[string]struct{}, len(have))
	for _, s := range have {
		set[normalize(s)] = struct{}{}
	}
	for _, s := range want {
		if _, ok := set[normalize(s)]; ok {
			matched = append(matched, s)
		} else {
			missing = append(missing, s)
		}
	}
	return float64(len(matched)) / float64(len(want)), matched, missing
}

type yearsRange struct{ min, max int }

var levelYears = map[string]yearsRange{
	"entry":     {0, 2},
	"junior":    {0, 2},
	"mid":       {3, 5},
	"senior":    {5, 8},
	"lead":      {8, 12},
	"principal": {12, 20},
}

func experienceScore(years int, level string) float64 {
	rng, ok := levelYears[normalize(level)]
	if !ok {
		rng = yearsRange{0, 5}
	}
	var distance int
	switch {
	case years < rng.min:
		distance = rng.min - years
	case years > rng.max:
		distance = years - rng.max
	default:
		return 1
	}
	return math.Max(0, 1-float64(distance)/5)
}

func locationScore(candidate, job string, prefersRemote, remoteFriendly bool) float64 {
	c, j := normalize(candidate), normalize(job)
	if c != "" && j != "" && (strings.Contains(c, j) || strings.Contains(j, c)) {
		return 1
	}
	if prefersRemote && remoteFriendly {
		return 0.8
	}
	return 0
}

var numberRe = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*([kK])?`)

// averageAmount averages the numbers found in a salary string such as
// "$80k - $100k", "100-120K" or "90,000". A trailing k also scales the bare
// numbers before it that are below a thousand. ok is false when there are none.
func averageAmount(s string) (float64, bool) {
	s = strings.ReplaceAll(s, ",", "")
	matches := numberRe.FindAllStringSubmatch(s, -1)
	if len(matches) == 0 {
		return 0, false
	}
	trailingK := matches[len(matches)-1][2] != ""
	var sum float64
	for _, m := range matches {
		v, err := strconv.ParseFloat(m[1], 64)
		if err != nil {
			return 0, false
		}
		if m[2] != "" || (trailingK && v < 1000) {
			v *= 1000
		}
		sum += v
	}
	return sum / float64(len(matches)), true
}

func salaryScore(expectation, offered string) float64 {
	want, ok1 := averageAmount(expectation)
	offer, ok2 := averageAmount(offered)
	if !ok1 || !ok2 || offer == 0 {
		return 0.5
	}
	ratio := want / offer
	switch {
	case ratio >= 0.8 && ratio <= 1.2:
		return 1
	case ratio >= 0.6 && ratio <= 1.4:
		return 0.7
	default:
		return 0.3
	}
}

func reasoning(r Result, wanted int) string {
	parts := make([]string, 0, 4)
	if wanted == 0 {
		parts = append(parts, "job lists no skills")
	} else {
		parts = append(parts, fmt.Sprintf("%d/%d skills matched", len(r.MatchedSkills), wanted))
	}
	if r.ExperienceScore == 1 {
		parts = append(parts, "experience fits the level")
	} else {
		parts = append(parts, "experience outside the level range")
	}
	switch r.LocationScore {
	case 1:
		parts = append(parts, "same location")
	case 0.8:
		parts = append(parts, "remote match")
	default:
		parts = append(parts, "location mismatch")
	}
	if r.SalaryScore == 1 {
		parts = append(parts, "salary aligned")
	}
	return strings.Join(parts, "; ")
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func clamp(v float64) float64 {
	return math.Min(1, math.Max(0, v))
}
