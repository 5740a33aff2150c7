package service

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/ethiogpt/toolsgate/internal/model"
)

// Resume templates.
const (
	ResumeClassic = "classic"
	ResumeModern  = "modern"
)

// ResumeInput is the body of /generate_resume.
type ResumeInput struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required"`
	Phone      string `json:"phone"`
	Location   string `json:"location"`
	Summary    string `json:"summary"`
	Experience string `json:"experience"`
	Education  string `json:"education"`
	Skills     string `json:"skills"`
	Template   string `json:"template"`
}

var resumeMessages = Messages{
	"name.required":  "Name is required",
	"email.required": "Email is required",
}

// ResumeResult is the /generate_resume response.
type ResumeResult struct {
	HTML     string `json:"html"`
	Filename string `json:"filename"`
}

type resumeView struct {
	Name       template.HTML
	Contact    template.HTML
	Summary    template.HTML
	Experience template.HTML
	Education  template.HTML
	Skills     template.HTML
}

const resumeBody = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>{{.Name}} - Resume</title>
<style>{{template "style"}}</style>
</head>
<body>
<div class="header">
<div class="name">{{.Name}}</div>
<div class="contact">{{.Contact}}</div>
</div>
<div class="section">
<div class="section-title">Professional Summary</div>
<p>{{.Summary}}</p>
</div>
<div class="section">
<div class="section-title">Work Experience</div>
<div class="experience-item">{{.Experience}}</div>
</div>
<div class="section">
<div class="section-title">Education</div>
<div class="experience-item">{{.Education}}</div>
</div>
<div class="section">
<div class="section-title">Skills</div>
<p>{{.Skills}}</p>
</div>
</body>
</html>
`

const classicStyle = `{{define "style"}}
body { font-family: Arial, sans-serif; margin: 40px; line-height: 1.6; }
.header { text-align: center; border-bottom: 2px solid #333; padding-bottom: 20px; margin-bottom: 30px; }
.name { font-size: 28px; font-weight: bold; color: #2c5aa0; }
.contact { margin-top: 10px; font-size: 14px; color: #666; }
.section { margin-top: 25px; }
.section-title { font-size: 18px; font-weight: bold; border-bottom: 1px solid #ccc; padding-bottom: 5px; margin-bottom: 10px; color: #2c5aa0; }
.experience-item { margin-bottom: 15px; }
{{end}}`

const modernStyle = `{{define "style"}}
body { font-family: "Helvetica Neue", Helvetica, sans-serif; margin: 0; line-height: 1.5; color: #222; }
.header { background: #1f2937; color: #fff; padding: 32px 48px; }
.name { font-size: 32px; font-weight: 300; letter-spacing: 1px; }
.contact { margin-top: 8px; font-size: 13px; color: #d1d5db; }
.section { margin: 24px 48px 0; }
.section-title { font-size: 13px; font-weight: 700; text-transform: uppercase; letter-spacing: 2px; color: #0d9488; margin-bottom: 8px; }
.experience-item { margin-bottom: 12px; }
{{end}}`

// ResumeRenderer renders resume HTML from sanitized user input.
type ResumeRenderer struct {
	templates map[string]*template.Template
	policy    *bluemonday.Policy
}

// NewResumeRenderer parses the built-in templates.
func NewResumeRenderer() *ResumeRenderer {
	base := template.Must(template.New("resume").Parse(resumeBody))
	return &ResumeRenderer{
		templates: map[string]*template.Template{
			ResumeClassic: template.Must(template.Must(base.Clone()).Parse(classicStyle)),
			ResumeModern:  template.Must(template.Must(base.Clone()).Parse(modernStyle)),
		},
		policy: bluemonday.UGCPolicy(),
	}
}

// Render produces the resume document. Unknown templates fall back to classic.
func (r *ResumeRenderer) Render(input ResumeInput) (string, error) {
	tmpl, ok := r.templates[input.Template]
	if !ok {
		tmpl = r.templates[ResumeClassic]
	}

	contact := make([]string, 0, 3)
	for _, part := range []string{input.Email, input.Phone, input.Location} {
		if part = strings.TrimSpace(part); part != "" {
			contact = append(contact, r.policy.Sanitize(part))
		}
	}

	view := resumeView{
		Name:       r.field(input.Name, "Your Name"),
		Contact:    template.HTML(strings.Join(contact, " | ")),
		Summary:    r.field(input.Summary, "Experienced professional seeking new opportunities."),
		Experience: r.field(input.Experience, "Add your work experience here."),
		Education:  r.field(input.Education, "Add your education background here."),
		Skills:     r.field(input.Skills, "Add your skills here."),
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, view); err != nil {
		return "", fmt.Errorf("render resume: %w", err)
	}
	return buf.String(), nil
}

// field sanitizes user markup down to basic formatting.
func (r *ResumeRenderer) field(value, fallback string) template.HTML {
	if value = strings.TrimSpace(value); value == "" {
		value = fallback
	}
	return template.HTML(r.policy.Sanitize(value))
}

// ResumeFilename returns the download name for a resume.
func ResumeFilename(name string) string {
	return "resume_" + strings.ReplaceAll(strings.TrimSpace(name), " ", "_") + ".html"
}

// GenerateResume renders an HTML resume.
func (s *ToolService) GenerateResume(ctx context.Context, input ResumeInput) (*ResumeResult, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Email = strings.TrimSpace(input.Email)
	if err := s.validator.Struct(input, resumeMessages); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	html, err := s.resumes.Render(input)
	s.record(model.ToolWriter, err)
	if err != nil {
		return nil, err
	}
	return &ResumeResult{HTML: html, Filename: ResumeFilename(input.Name)}, nil
}
