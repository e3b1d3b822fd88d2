package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/cardroom/holdem/internal/deck"
	"github.com/cardroom/holdem/internal/game"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("230")).
			Background(lipgloss.Color("22")).
			Padding(0, 2)

	redCardStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	blackCardStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	hiddenStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))

	potStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("220"))
	turnStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("45"))
	foldedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Strikethrough(true)
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("114"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

func renderCard(c deck.Card) string {
	if c.Suit.IsRed() {
		return redCardStyle.Render(c.String())
	}
	return blackCardStyle.Render(c.String())
}

func renderCards(cards []deck.Card) string {
	if len(cards) == 0 {
		return hiddenStyle.Render("--")
	}
	parts := make([]string, 0, len(cards))
	for _, c := range cards {
		parts = append(parts, renderCard(c))
	}
	return strings.Join(parts, " ")
}

// renderTable prints the table from the viewer's seat: only the viewer's
// hole cards are shown face-up unless a showdown has revealed others.
func renderTable(s *game.Session, viewerID int) string {
	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("Hand #%d - %s", s.HandNumber(), s.Phase())))
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("  Board: %s\n", renderCards(s.Community())))
	b.WriteString(fmt.Sprintf("  %s\n\n", potStyle.Render(fmt.Sprintf("Pot: %d", s.Pot()))))

	current, hasCurrent := s.CurrentPlayer()
	for _, p := range s.Players() {
		marker := "  "
		if p.ID == s.DealerButton() {
			marker = "D "
		}

		hole := hiddenStyle.Render("?? ??")
		if p.ID == viewerID || p.ShowHand {
			hole = renderCards(p.Hole)
		}
		if p.Folded {
			hole = hiddenStyle.Render("folded")
		}

		line := fmt.Sprintf("%s%-12s %6d chips  bet %-5d %s", marker, p.Name, p.Chips, p.Bet, hole)
		switch {
		case p.Folded:
			line = foldedStyle.Render(line)
		case hasCurrent && p.ID == current.ID:
			line = turnStyle.Render(line + "  <- to act")
		}
		b.WriteString("  " + line + "\n")
	}

	if pots := s.Pots(); len(pots) > 1 {
		b.WriteString("\n")
		for i, pot := range pots {
			label := "Main pot"
			if i > 0 {
				label = fmt.Sprintf("Side pot %d", i)
			}
			b.WriteString(fmt.Sprintf("  %s: %d (%d eligible)\n", label, pot.Amount, len(pot.Eligible)))
		}
	}

	return b.String()
}

func renderActions(actions []game.LegalAction) string {
	parts := make([]string, 0, len(actions))
	for _, a := range actions {
		switch a.Kind {
		case game.ActionCall:
			parts = append(parts, fmt.Sprintf("call (%d)", a.CallAmount))
		case game.ActionRaise:
			parts = append(parts, "raise <amount>")
		default:
			parts = append(parts, a.Kind.String())
		}
	}
	return strings.Join(parts, " | ")
}

// eventPrinter narrates engine events to stdout. It never touches engine
// state; it only reads the payloads it is handed.
type eventPrinter struct{}

func (eventPrinter) OnEvent(ev game.Event) {
	switch e := ev.(type) {
	case game.HandStartEvent:
		fmt.Println(noticeStyle.Render(fmt.Sprintf(
			"--- Hand #%d: %d players, blinds %d/%d ---", e.HandNum, e.Players, e.SmallBlind, e.BigBlind)))
	case game.PlayerActionEvent:
		if e.Action == game.ActionCheck || e.Action == game.ActionFold {
			fmt.Printf("%s %ss\n", e.PlayerName, e.Action)
			return
		}
		suffix := ""
		if e.AllIn {
			suffix = " (all-in)"
		}
		fmt.Printf("%s %ss %d%s\n", e.PlayerName, e.Action, e.Amount, suffix)
	case game.StreetChangeEvent:
		fmt.Println(noticeStyle.Render(fmt.Sprintf("%s: %s", strings.ToUpper(e.Phase.String()), renderCards(e.CommunityCards))))
	case game.PotAwardedEvent:
		for _, w := range e.Award.Winners {
			if w.Category != "" {
				fmt.Println(noticeStyle.Render(fmt.Sprintf("%s wins %d with %s", w.PlayerName, w.Share, w.Category)))
			} else {
				fmt.Println(noticeStyle.Render(fmt.Sprintf("%s wins %d", w.PlayerName, w.Share)))
			}
		}
	case game.GameEndEvent:
		fmt.Println(titleStyle.Render(fmt.Sprintf("%s wins the game with %d chips!", e.WinnerName, e.Chips)))
	}
}
