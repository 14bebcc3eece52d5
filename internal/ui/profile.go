package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"go.uber.org/zap"

	"github.com/jask/starfolk/internal/catalog"
	"github.com/jask/starfolk/internal/coordinator"
	"github.com/jask/starfolk/internal/load"
)

const (
	profileLoadingText = "Loading profile..."
	profileErrorText   = "Error loading profile. Please try again."
	profileBackHint    = "← Back (esc)"
)

func profileFailure(id int, err error) string {
	if errors.Is(err, catalog.ErrNotFound) {
		return fmt.Sprintf("Character not found (id: %d)", id)
	}
	return profileErrorText
}

// ProfileView loads and shows one character. Its only outward signal is the
// back intent.
type ProfileView struct {
	loader   *load.Loader[int, catalog.Detail]
	viewport viewport.Model
	style    string
	log      *zap.Logger
	renderer *glamour.TermRenderer
	width    int
	rendered bool
}

func NewProfileView(ctx context.Context, gw catalog.Gateway, log *zap.Logger, abort bool, style string) *ProfileView {
	fetch := func(ctx context.Context, id int) (catalog.Detail, error) {
		return gw.Character(ctx, id)
	}
	opts := loaderOptions[int, catalog.Detail](log.Named("loader.profile"), abort)
	opts = append(opts, load.WithFailure[int, catalog.Detail](profileFailure))
	if style == "" {
		style = "dark"
	}
	return &ProfileView{
		loader:   load.New(ctx, "profile", fetch, opts...),
		viewport: viewport.New(80, 20),
		style:    style,
		log:      log.Named("profile"),
	}
}

// SetID loads the character with id unless it is already the current one.
func (p *ProfileView) SetID(id int) tea.Cmd {
	cmd := p.loader.Trigger(id)
	if cmd != nil {
		p.rendered = false
		p.viewport.GotoTop()
	}
	return cmd
}

func (p *ProfileView) Reset() {
	p.loader.Reset()
	p.rendered = false
	p.viewport.SetContent("")
}

func (p *ProfileView) Retry() tea.Cmd {
	if p.loader.State().Phase != load.Failed {
		return nil
	}
	return p.loader.Reload()
}

func (p *ProfileView) Back() coordinator.Intent {
	return coordinator.NavigateBack{}
}

func (p *ProfileView) State() load.State[catalog.Detail] { return p.loader.State() }

func (p *ProfileView) Handle(msg tea.Msg) bool {
	if !p.loader.Handle(msg) {
		return false
	}
	p.rendered = false
	p.render()
	return true
}

func (p *ProfileView) Scroll(delta int) {
	if delta < 0 {
		p.viewport.LineUp(-delta)
	} else {
		p.viewport.LineDown(delta)
	}
}

func (p *ProfileView) SetSize(width, height int) {
	p.viewport.Height = max(1, height)
	if width != p.width {
		p.width = width
		p.viewport.Width = max(1, width)
		p.renderer = nil
		p.rendered = false
	}
	p.render()
}

func (p *ProfileView) render() {
	st := p.loader.State()
	if st.Phase != load.Ready || p.rendered {
		return
	}
	md := profileMarkdown(st.Data)
	content := md
	if r := p.termRenderer(); r != nil {
		if out, err := r.Render(md); err == nil {
			content = out
		} else {
			p.log.Warn("render profile", zap.Error(err))
		}
	}
	p.viewport.SetContent(content)
	p.rendered = true
}

func (p *ProfileView) termRenderer() *glamour.TermRenderer {
	if p.renderer != nil {
		return p.renderer
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(p.style),
		glamour.WithWordWrap(max(20, p.width-4)),
	)
	if err != nil {
		p.log.Warn("profile renderer", zap.Error(err))
		return nil
	}
	p.renderer = r
	return r
}

func (p *ProfileView) View(spin string) string {
	st := p.loader.State()
	switch st.Phase {
	case load.Idle, load.Loading:
		return spin + " " + placeholderStyle.Render(profileLoadingText)
	case load.Failed:
		return linkStyle.Render(profileBackHint) + "\n\n" + errorStyle.Render(st.Err)
	}
	p.render()
	return linkStyle.Render(profileBackHint) + "\n" + p.viewport.View()
}

func profileMarkdown(d catalog.Detail) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", d.DisplayName())
	for _, line := range d.LeadParagraphs() {
		b.WriteString(line + "\n\n")
	}
	writeList(&b, "Core Traits", d.Traits)
	writeList(&b, "Key Moments in "+d.Pronoun()+" Journey", d.Moments)
	writeList(&b, "Important Relationships", d.Relationships)
	for _, line := range d.DetailParagraphs() {
		b.WriteString(line + "\n\n")
	}

	b.WriteString("---\n\n")
	b.WriteString("| Field | Value |\n|---|---|\n")
	rows := [][2]string{
		{"Name", d.Name},
		{"Gender", d.GenderName()},
		{"Homeworld", d.Homeworld()},
		{"Birth Year", d.Born()},
		{"Species", d.Species()},
		{"Role", d.RoleName()},
	}
	for _, r := range rows {
		fmt.Fprintf(&b, "| %s | %s |\n", r[0], strings.ReplaceAll(r[1], "|", "/"))
	}
	b.WriteString("\n")
	writeList(&b, "Films", d.Films)
	return b.String()
}

func writeList(b *strings.Builder, heading string, items []string) {
	fmt.Fprintf(b, "## %s\n\n", heading)
	for _, it := range items {
		b.WriteString("- " + it + "\n")
	}
	b.WriteString("\n")
}
