package jobs

import (
	"strings"
	"time"

	"jobmate/board-service/internal/matching"
)

// CategoryRef is a job category with its field, as shown on a listing.
type CategoryRef struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	FieldID   string `json:"fieldId,omitempty"`
	FieldName string `json:"fieldName,omitempty"`
}

// Job is the JSON shape of a job listing.
type Job struct {
	ID              string        `json:"id"`
	CompanyID       string        `json:"companyId"`
	CompanyName     string        `json:"companyName"`
	Title           string        `json:"title"`
	Description     string        `json:"description"`
	Location        string        `json:"location"`
	Salary          *float64      `json:"salary"`
	JobType         string        `json:"jobType,omitempty"`
	Categories      []CategoryRef `json:"categories"`
	ExperienceLevel string        `json:"experienceLevel,omitempty"`
	WorkMode        string        `json:"workMode,omitempty"`
	Benefits        []string      `json:"benefits"`
	PostedAt        time.Time     `json:"postedAt"`
	ClosingDate     *time.Time    `json:"closingDate"`
	IsActive        bool          `json:"isActive"`
	Quantity        int           `json:"quantity"`

	// MatchScore is set only for authenticated job seekers.
	MatchScore *int `json:"matchScore,omitempty"`
}

// Membership returns the job's categories and fields for scoring.
func (j Job) Membership() matching.Membership {
	m := matching.Membership{
		CategoryIDs: make([]string, 0, len(j.Categories)),
		FieldIDs:    make([]string, 0, len(j.Categories)),
	}
	for _, c := range j.Categories {
		m.CategoryIDs = append(m.CategoryIDs, c.ID)
		if c.FieldID != "" {
			m.FieldIDs = append(m.FieldIDs, c.FieldID)
		}
	}
	return m
}

// Annotate sets MatchScore on every job without reordering them.
func Annotate(list []Job, prefs matching.Preferences) {
	for i := range list {
		score := matching.Score(prefs, list[i].Membership())
		list[i].MatchScore = &score
	}
}

// Input is the editable part of a job, as sent by an employee.
type Input struct {
	Title           string     `json:"title" validate:"required,max=200"`
	Description     string     `json:"description" validate:"required"`
	Location        string     `json:"location" validate:"required,max=200"`
	Salary          *float64   `json:"salary" validate:"omitempty,gte=0"`
	JobTypeID       string     `json:"jobTypeId" validate:"omitempty,uuid"`
	CategoryIDs     []string   `json:"categoryIds" validate:"required,min=1,max=10,dive,uuid"`
	ExperienceLevel string     `json:"experienceLevel" validate:"omitempty,max=50"`
	WorkMode        string     `json:"workMode" validate:"omitempty,oneof=onsite remote hybrid"`
	Benefits        []string   `json:"benefits" validate:"max=30,dive,max=100"`
	ClosingDate     *time.Time `json:"closingDate"`
	Quantity        int        `json:"quantity" validate:"omitempty,gte=1"`
}

// normalize trims text fields, drops blank benefits and defaults quantity.
func (in *Input) normalize() {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Location = strings.TrimSpace(in.Location)
	in.ExperienceLevel = strings.TrimSpace(in.ExperienceLevel)
	benefits := make([]string, 0, len(in.Benefits))
	for _, b := range in.Benefits {
		if b = strings.TrimSpace(b); b != "" {
			benefits = append(benefits, b)
		}
	}
	in.Benefits = benefits
	if in.Quantity == 0 {
		in.Quantity = 1
	}
}
