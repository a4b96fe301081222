package drawer

import (
	"fmt"
	"strings"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/skillbuilder/internal/assistant"
	"github.com/abhisek/skillbuilder/internal/ui/theme"
)

const (
	introText    = "Hi! I'm your learning assistant. Ask me about today's lesson, your progress, or technical issues."
	fallbackBody = "I found this information for you."
)

// View renders the drawer into a width x height box.
func (d *Drawer) View(width, height int) string {
	inner := width - 4
	if inner < 10 {
		inner = 10
	}

	title := lipgloss.NewStyle().Foreground(theme.AI).Bold(true).Render("✦ Mini-Guide")

	d.input.SetWidth(inner - 4)
	footer := d.input.View()
	if d.session.Pending() {
		footer = d.spinner.View() + " " + theme.Hint.Render("Thinking...") + "\n" + footer
	}

	vpHeight := height - 2 - lipgloss.Height(title) - lipgloss.Height(footer) - 2
	if vpHeight < 3 {
		vpHeight = 3
	}
	d.viewport.SetWidth(inner)
	d.viewport.SetHeight(vpHeight)
	d.viewport.SetContent(d.renderHistory(inner))

	turns := len(d.session.History())
	if turns != d.rendered {
		d.viewport.GotoBottom()
		d.rendered = turns
	}

	body := title + "\n\n" + d.viewport.View() + "\n\n" + footer
	return theme.Drawer.Width(width).Height(height).Render(body)
}

func (d *Drawer) renderHistory(width int) string {
	history := d.session.History()
	if len(history) == 0 {
		return d.renderIntro(width)
	}

	var b strings.Builder
	for i, turn := range history {
		if i > 0 {
			b.WriteString("\n")
		}
		switch {
		case turn.Role == assistant.RoleUser:
			bubble := theme.UserBubble.Render(wrap(turn.Text, width*3/4))
			b.WriteString(lipgloss.PlaceHorizontal(width, lipgloss.Right, bubble) + "\n")
		case turn.IsFallback():
			bubble := theme.AssistantBubble.
				BorderForeground(theme.Error).
				Render(wrap(turn.Text, width-4))
			b.WriteString(bubble + "\n")
		default:
			latest := i == len(history)-1
			b.WriteString(theme.AssistantBubble.Render(d.renderReply(turn.Reply, width-4, latest)) + "\n")
		}
	}
	return b.String()
}

func (d *Drawer) renderIntro(width int) string {
	var b strings.Builder
	b.WriteString(theme.Body.Render(wrap(introText, width)) + "\n\n")
	chips := make([]string, 0, len(Starters))
	for i, s := range Starters {
		chips = append(chips, chip(s.Label, i == d.suggestion))
	}
	b.WriteString(chipRow(chips) + "\n\n" + theme.Hint.Render("↑↓ to use a suggestion"))
	return b.String()
}

// RenderReply lays out a structured reply: steps, checklist, actions and
// follow-ups. A reply with neither steps nor checklist shows its
// uncertainty explanation as a plain response.
func RenderReply(r *assistant.Response, width int) string {
	return renderReply(r, width, -1)
}

func (d *Drawer) renderReply(r *assistant.Response, width int, latest bool) string {
	selected := -1
	if latest {
		selected = d.suggestion
	}
	return renderReply(r, width, selected)
}

func renderReply(r *assistant.Response, width, selected int) string {
	var sections []string

	if len(r.Steps) > 0 {
		var b strings.Builder
		b.WriteString(theme.SectionHeading.Render("Suggested Steps") + "\n")
		for i, step := range r.Steps {
			b.WriteString(theme.Title.Render(fmt.Sprintf("%d. %s", i+1, step.Title)) + "\n")
			b.WriteString(theme.Subtitle.Render(wrap(step.Description, width-3)) + "\n")
		}
		sections = append(sections, strings.TrimRight(b.String(), "\n"))
	}

	if len(r.Checklist) > 0 {
		var b strings.Builder
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Success).Bold(true).Render("Checklist") + "\n")
		for _, item := range r.Checklist {
			b.WriteString(theme.Body.Render("☐ "+item.Label) + "\n")
			if len(item.Hints) > 0 {
				b.WriteString(theme.Hint.Render("  "+wrap(item.Hints[0], width-2)) + "\n")
			}
		}
		sections = append(sections, strings.TrimRight(b.String(), "\n"))
	}

	if len(r.SuggestedActions) > 0 {
		chips := make([]string, 0, len(r.SuggestedActions))
		for _, a := range r.SuggestedActions {
			chips = append(chips, chip(a.Label, false))
		}
		sections = append(sections, chipRow(chips))
	}

	if len(r.FollowUps) > 0 {
		var b strings.Builder
		b.WriteString(theme.Hint.Render("You might also ask:") + "\n")
		for i, q := range r.FollowUps {
			line := fmt.Sprintf("%q", q)
			if i == selected {
				b.WriteString(theme.Selected.Render("▸ "+line) + "\n")
			} else {
				b.WriteString(theme.Body.Render("  "+line) + "\n")
			}
		}
		sections = append(sections, strings.TrimRight(b.String(), "\n"))
	}

	if !r.HasSteps() && !r.HasChecklist() {
		text := fallbackBody
		if r.UncertaintyExplanation != nil && *r.UncertaintyExplanation != "" {
			text = *r.UncertaintyExplanation
		}
		sections = append(sections,
			theme.Hint.Bold(true).Render("Response")+"\n"+theme.Body.Render(wrap(text, width)))
	}

	return strings.Join(sections, "\n\n")
}

func chip(label string, selected bool) string {
	style := lipgloss.NewStyle().
		Foreground(theme.Primary).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.Primary).
		Padding(0, 1)
	if selected {
		style = style.Bold(true).BorderForeground(theme.Text)
	}
	return style.Render(label)
}

func chipRow(chips []string) string {
	spaced := make([]string, 0, 2*len(chips))
	for i, c := range chips {
		if i > 0 {
			spaced = append(spaced, " ")
		}
		spaced = append(spaced, c)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, spaced...)
}

func wrap(s string, width int) string {
	if width < 10 {
		width = 10
	}
	return lipgloss.NewStyle().Width(width).Render(s)
}
