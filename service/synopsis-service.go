package service

import (
	"context"
	"fmt"
	"io"
	"strings"

	"inc/config"
	"inc/repository"

	"github.com/jung-kurt/gofpdf"
	"gorm.io/gorm"
)

const otherDomain = "OTHERS"

type DomainGroup struct {
	Domain   string
	Projects []*repository.Project
}

// GroupByDomain keeps the configured domain order; unknown or empty domains end up
// in the OTHERS group, appended when not configured. Empty groups are dropped.
func GroupByDomain(domains []string, projects []*repository.Project) []DomainGroup {
	index := make(map[string]int, len(domains))
	groups := make([]DomainGroup, 0, len(domains)+1)
	for _, domain := range domains {
		key := strings.ToUpper(strings.TrimSpace(domain))
		if _, ok := index[key]; ok || key == "" {
			continue
		}
		index[key] = len(groups)
		groups = append(groups, DomainGroup{Domain: key})
	}
	if _, ok := index[otherDomain]; !ok {
		index[otherDomain] = len(groups)
		groups = append(groups, DomainGroup{Domain: otherDomain})
	}
	for _, project := range projects {
		i, ok := index[strings.ToUpper(strings.TrimSpace(project.Domain))]
		if !ok {
			i = index[otherDomain]
		}
		groups[i].Projects = append(groups[i].Projects, project)
	}

	out := make([]DomainGroup, 0, len(groups))
	for _, group := range groups {
		if len(group.Projects) > 0 {
			out = append(out, group)
		}
	}
	return out
}

// NormalizeText collapses every run of whitespace into a single space.
func NormalizeText(text string) string {
	return strings.Join(strings.Fields(text), " ")
}

func truncate(text string, max int) string {
	runes := []rune(text)
	if len(runes) <= max {
		return text
	}
	return string(runes[:max-3]) + "..."
}

type SynopsisService struct {
	events            *config.Events
	projectRepository *repository.ProjectRepository
}

func NewSynopsisService(db *gorm.DB, events *config.Events) *SynopsisService {
	return &SynopsisService{
		events:            events,
		projectRepository: repository.NewProjectRepository(db),
	}
}

func (s *SynopsisService) Generate(ctx context.Context, eventName string, w io.Writer) error {
	event, err := lookupEvent(s.events, eventName)
	if err != nil {
		return err
	}
	projects, err := s.projectRepository.GetProjectsForEvent(event.Name)
	if err != nil {
		return dependency(err)
	}
	title := fmt.Sprintf("%s %s", event.Title, s.events.Edition)
	return RenderSynopsis(w, strings.TrimSpace(title), s.events.Synopsis.Domains, projects)
}

// RenderSynopsis writes the synopsis PDF: cover page, index, then one section per domain.
func RenderSynopsis(w io.Writer, title string, domains []string, projects []*repository.Project) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle(title, true)
	pdf.SetMargins(15, 20, 15)
	pdf.SetAutoPageBreak(true, 20)
	pdf.AliasNbPages("")

	pdf.SetHeaderFunc(func() {
		if pdf.PageNo() == 1 {
			return
		}
		pdf.SetFont("Helvetica", "I", 9)
		pdf.CellFormat(0, 8, tr(title+" - Synopsis"), "B", 1, "R", false, 0, "")
		pdf.Ln(4)
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})

	groups := GroupByDomain(domains, projects)

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 28)
	pdf.Ln(80)
	pdf.MultiCell(0, 14, tr(title), "", "C", false)
	pdf.SetFont("Helvetica", "", 16)
	pdf.Ln(6)
	pdf.CellFormat(0, 10, "Project Synopsis", "", 1, "C", false, 0, "")
	pdf.SetFont("Helvetica", "", 12)
	pdf.CellFormat(0, 10, fmt.Sprintf("%d projects", len(projects)), "", 1, "C", false, 0, "")

	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "Index", "", 1, "L", false, 0, "")
	pdf.SetFont("Helvetica", "B", 10)
	pdf.SetFillColor(230, 230, 230)
	pdf.CellFormat(25, 8, "PID", "1", 0, "C", true, 0, "")
	pdf.CellFormat(115, 8, "Title", "1", 0, "C", true, 0, "")
	pdf.CellFormat(40, 8, "Domain", "1", 1, "C", true, 0, "")
	pdf.SetFont("Helvetica", "", 9)
	for _, group := range groups {
		for _, project := range group.Projects {
			pdf.CellFormat(25, 7, tr(project.Pid), "1", 0, "L", false, 0, "")
			pdf.CellFormat(115, 7, tr(truncate(NormalizeText(project.Title), 65)), "1", 0, "L", false, 0, "")
			pdf.CellFormat(40, 7, tr(truncate(group.Domain, 22)), "1", 1, "L", false, 0, "")
		}
	}

	for _, group := range groups {
		pdf.AddPage()
		pdf.SetFont("Helvetica", "B", 20)
		pdf.MultiCell(0, 12, tr(group.Domain), "", "C", false)
		pdf.Ln(4)
		for _, project := range group.Projects {
			pdf.SetFont("Helvetica", "B", 12)
			pdf.MultiCell(0, 7, tr(fmt.Sprintf("%s  %s", project.Pid, NormalizeText(project.Title))), "", "L", false)
			pdf.SetFont("Helvetica", "", 10)
			pdf.MultiCell(0, 5, tr(NormalizeText(project.Abstract)), "", "J", false)
			pdf.Ln(6)
		}
	}

	if err := pdf.Error(); err != nil {
		return err
	}
	return pdf.Output(w)
}
