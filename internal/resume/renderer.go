package resume

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"time"

	"github.com/go-pdf/fpdf"
)

const (
	featuredLimit = 4
	topRepoLimit  = 6
	languageLimit = 8

	margin       = 15.0
	contentWidth = 210.0 - 2*margin
)

type rgb struct{ r, g, b int }

var (
	colorText   = rgb{36, 41, 47}
	colorAccent = rgb{9, 105, 218}
	colorMuted  = rgb{101, 109, 118}
	colorCard   = rgb{246, 248, 250}
	colorBorder = rgb{208, 215, 222}
	colorNoLang = rgb{107, 114, 128}
)

// Renderer turns a bundle into a document.
type Renderer interface {
	Render(w io.Writer, b *Bundle) error
	ContentType() string
}

// PDFRenderer renders a bundle as a single A4 resume.
type PDFRenderer struct {
	logger   *slog.Logger
	compress bool
	now      func() time.Time
}

var _ Renderer = (*PDFRenderer)(nil)

func NewPDFRenderer(logger *slog.Logger) *PDFRenderer {
	return &PDFRenderer{logger: logger, compress: true, now: time.Now}
}

func (r *PDFRenderer) ContentType() string { return "application/pdf" }

// Render writes the resume for b to w.
func (r *PDFRenderer) Render(w io.Writer, b *Bundle) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetCompression(r.compress)
	pdf.SetCreationDate(r.now())
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.SetTitle("GitHub Portfolio Resume - "+b.Profile.DisplayName(), true)
	pdf.SetCreator("github-portfolio", true)
	pdf.AddPage()

	d := &document{pdf: pdf, tr: pdf.UnicodeTranslatorFromDescriptor("")}
	d.header(b)
	d.statCards(b)
	if len(b.Pins) > 0 {
		d.featured(b)
	}
	d.topRepositories(b)
	d.languages(b)
	d.contributions(b)

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("rendering resume pdf: %w", err)
	}
	r.logger.Debug("Rendered resume", "login", b.Profile.Login, "pages", pdf.PageCount())
	return nil
}

type document struct {
	pdf *fpdf.Fpdf
	tr  func(string) string
}

func (d *document) font(style string, size float64, c rgb) {
	d.pdf.SetFont("Helvetica", style, size)
	d.pdf.SetTextColor(c.r, c.g, c.b)
}

func (d *document) header(b *Bundle) {
	p := b.Profile
	d.font("B", 24, colorText)
	d.pdf.CellFormat(0, 11, d.tr(p.DisplayName()), "", 1, "L", false, 0, "")
	d.font("", 13, colorAccent)
	d.pdf.CellFormat(0, 7, d.tr("@"+p.Login), "", 1, "L", false, 0, "")
	if p.Bio != nil && *p.Bio != "" {
		d.font("", 11, colorMuted)
		d.pdf.MultiCell(0, 5.5, d.tr(*p.Bio), "", "L", false)
	}
	d.pdf.Ln(3)

	y := d.pdf.GetY()
	d.pdf.SetDrawColor(colorAccent.r, colorAccent.g, colorAccent.b)
	d.pdf.SetLineWidth(0.6)
	d.pdf.Line(margin, y, margin+contentWidth, y)
	d.pdf.Ln(6)
}

func (d *document) statCards(b *Bundle) {
	cards := []struct {
		value int
		label string
	}{
		{b.Profile.RepositoryCount, "Repositories"},
		{b.Profile.Followers, "Followers"},
		{b.Profile.Following, "Following"},
		{b.ContributionStats.Commits, "Contributions"},
	}
	const gap, height = 4.0, 20.0
	width := (contentWidth - gap*float64(len(cards)-1)) / float64(len(cards))
	y := d.pdf.GetY()

	d.pdf.SetFillColor(colorCard.r, colorCard.g, colorCard.b)
	for i, c := range cards {
		x := margin + float64(i)*(width+gap)
		d.pdf.Rect(x, y, width, height, "F")
		d.pdf.SetXY(x, y+3)
		d.font("B", 16, colorAccent)
		d.pdf.CellFormat(width, 8, strconv.Itoa(c.value), "", 0, "C", false, 0, "")
		d.pdf.SetXY(x, y+11)
		d.font("", 9, colorMuted)
		d.pdf.CellFormat(width, 6, c.label, "", 0, "C", false, 0, "")
	}
	d.pdf.SetXY(margin, y+height+8)
}

func (d *document) section(title string) {
	d.font("B", 15, colorText)
	d.pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")
	y := d.pdf.GetY()
	d.pdf.SetDrawColor(colorBorder.r, colorBorder.g, colorBorder.b)
	d.pdf.SetLineWidth(0.3)
	d.pdf.Line(margin, y, margin+contentWidth, y)
	d.pdf.Ln(3)
}

func (d *document) featured(b *Bundle) {
	d.section("Featured Projects")
	for i, pin := range b.Pins {
		if i == featuredLimit {
			break
		}
		d.font("B", 11, colorAccent)
		d.pdf.CellFormat(0, 6, d.tr(pin.RepositoryName), "", 1, "L", false, 0, "")
		d.font("", 9, colorMuted)
		d.pdf.CellFormat(0, 5, d.tr("Featured repository from "+pin.RepositoryOwner), "", 1, "L", false, 0, "")
		d.pdf.CellFormat(0, 5, "Pinned Project", "", 1, "L", false, 0, "")
		d.pdf.Ln(2)
	}
	d.pdf.Ln(4)
}

func (d *document) topRepositories(b *Bundle) {
	d.section("Top Repositories")
	for i, repo := range b.TopRepositories {
		if i == topRepoLimit {
			break
		}
		d.font("B", 11, colorAccent)
		d.pdf.CellFormat(0, 6, d.tr(repo.Name), "", 1, "L", false, 0, "")

		description := "No description available"
		if repo.Description != nil && *repo.Description != "" {
			description = *repo.Description
		}
		d.font("", 9, colorMuted)
		d.pdf.MultiCell(0, 4.5, d.tr(description), "", "L", false)

		d.font("", 9, colorText)
		if repo.PrimaryLanguage != nil {
			dot := parseHexColor(repo.PrimaryLanguage.Color, colorNoLang)
			x, y := d.pdf.GetXY()
			d.pdf.SetFillColor(dot.r, dot.g, dot.b)
			d.pdf.Circle(x+1.5, y+2.5, 1.3, "F")
			d.pdf.SetX(x + 4)
			d.pdf.CellFormat(d.pdf.GetStringWidth(repo.PrimaryLanguage.Name)+4, 5, d.tr(repo.PrimaryLanguage.Name), "", 0, "L", false, 0, "")
		}
		meta := fmt.Sprintf("Stars %d   Forks %d", repo.StarsCount, repo.ForksCount)
		d.pdf.CellFormat(0, 5, meta, "", 1, "L", false, 0, "")
		d.pdf.Ln(2.5)
	}
	d.pdf.Ln(4)
}

func (d *document) languages(b *Bundle) {
	d.section("Programming Languages")
	const labelWidth, barWidth = 45.0, 90.0
	for i, share := range b.LanguageStats {
		if i == languageLimit {
			break
		}
		x, y := d.pdf.GetXY()
		d.font("B", 10, colorText)
		d.pdf.CellFormat(labelWidth, 6, d.tr(share.Language), "", 0, "L", false, 0, "")

		d.pdf.SetFillColor(colorCard.r, colorCard.g, colorCard.b)
		d.pdf.Rect(x+labelWidth, y+1.5, barWidth, 3, "F")
		d.pdf.SetFillColor(colorAccent.r, colorAccent.g, colorAccent.b)
		d.pdf.Rect(x+labelWidth, y+1.5, barWidth*share.Percentage/100, 3, "F")

		d.pdf.SetX(x + labelWidth + barWidth + 4)
		d.font("", 10, colorMuted)
		d.pdf.CellFormat(0, 6, formatPercent(share.Percentage)+" of code", "", 1, "L", false, 0, "")
	}
	d.pdf.Ln(4)
}

func (d *document) contributions(b *Bundle) {
	d.section("Contribution Statistics")
	rows := []struct {
		label string
		value int
	}{
		{"Commits", b.ContributionStats.Commits},
		{"Pull Requests", b.ContributionStats.PullRequests},
		{"Issues", b.ContributionStats.Issues},
		{"Code Reviews", b.ContributionStats.PullRequestReviews},
	}
	for _, row := range rows {
		d.font("", 10, colorText)
		d.pdf.CellFormat(60, 6, row.label, "", 0, "L", false, 0, "")
		d.font("B", 10, colorText)
		d.pdf.CellFormat(30, 6, strconv.Itoa(row.value), "", 1, "R", false, 0, "")
	}
}

func formatPercent(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64) + "%"
}

// parseHexColor parses "#rrggbb", returning fallback for anything else.
func parseHexColor(s string, fallback rgb) rgb {
	var c rgb
	if len(s) != 7 {
		return fallback
	}
	if _, err := fmt.Sscanf(s, "#%02x%02x%02x", &c.r, &c.g, &c.b); err != nil {
		return fallback
	}
	return c
}
