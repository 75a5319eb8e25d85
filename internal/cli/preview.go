package cli

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/GalacticGlum/FreeCell/pkg/pipeline"
	"github.com/GalacticGlum/FreeCell/pkg/stack"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// previewCommand creates the preview command for interactive stack inspection.
func (c *CLI) previewCommand() *cobra.Command {
	var cards int
	opts := pipeline.Options{}

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Interactively preview stack layouts in the terminal",
		Long: `Interactively preview stack layouts in the terminal.

Use the arrow keys (or j/k) to add and remove cards and watch the spacing
compress as the stack outgrows the viewport. The left/right keys move a
focus highlight through the stack, the way a consumer would highlight the
card under the pointer.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.CardCount = cards
			return c.runPreview(opts)
		},
	}

	cmd.Flags().IntVar(&cards, "cards", 7, "initial card count")
	cmd.Flags().Float64Var(&opts.ViewportHeight, "viewport-height", 0, "viewport height in pixels")
	cmd.Flags().Float64Var(&opts.CardHeight, "card-height", 0, "card height in pixels")
	cmd.Flags().Float64Var(&opts.DefaultVisibility, "visibility", 0, "preferred visible pixels per card")
	cmd.Flags().IntVar(&opts.MaxCards, "max-cards", 0, "card count at which compression bottoms out")
	cmd.Flags().IntVar(&opts.CompressedGroupSize, "group-size", 0, "cards above the bottom card that compress")
	cmd.Flags().Float64Var(&opts.CompressionFactor, "compression-factor", 0, "pixels removed per excess card")

	return cmd
}

// runPreview validates options and runs the bubbletea program.
func (c *CLI) runPreview(opts pipeline.Options) error {
	cfg, err := loadDefaultConfig()
	if err != nil {
		return err
	}
	cfg.applyTo(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return err
	}

	calc, err := stack.New(opts.Geometry(), opts.Visibility())
	if err != nil {
		return err
	}

	m := NewStackModel(calc, opts.CardCount)
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err = p.Run()
	return err
}

// =============================================================================
// StackModel - Interactive stack preview
// =============================================================================

// StackModel is the bubbletea model for the stack preview.
type StackModel struct {
	Calc   *stack.Calculator
	Count  int
	Focus  int
	Height int
	Offset int
}

// NewStackModel creates a stack preview model with the given card count.
func NewStackModel(calc *stack.Calculator, count int) StackModel {
	m := StackModel{
		Calc:   calc,
		Count:  count,
		Focus:  0,
		Height: 15,
	}
	if m.Count < 1 {
		m.Count = 1
	}
	if m.Count == m.undefinedCount() {
		m.Count++
	}
	return m
}

// undefinedCount is the card count with no defined spacing: one bottom card
// plus exactly the compressed group leaves no card to absorb the leftover.
func (m StackModel) undefinedCount() int {
	return m.Calc.Visibility().CompressedGroupSize + 1
}

// stepCount moves the card count by delta, stepping over the undefined count.
func (m *StackModel) stepCount(delta int) {
	next := m.Count + delta
	if next == m.undefinedCount() {
		next += delta
	}
	if next < 1 {
		next = 1
	}
	m.Count = next
	if m.Focus >= m.Count {
		m.Focus = m.Count - 1
	}
}

func (m StackModel) Init() tea.Cmd {
	return nil
}

func (m StackModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			m.stepCount(1)
		case "down", "j":
			m.stepCount(-1)
		case "right", "l":
			if m.Focus < m.Count-1 {
				m.Focus++
				if m.Focus >= m.Offset+m.Height {
					m.Offset = m.Focus - m.Height + 1
				}
			}
		case "left", "h":
			if m.Focus > 0 {
				m.Focus--
				if m.Focus < m.Offset {
					m.Offset = m.Focus
				}
			}
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 10
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m StackModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Stack Preview"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ cards  ←/→ focus  q quit"))
	b.WriteString("\n\n")

	offsets, err := m.Calc.Offsets(m.Count)
	if err != nil {
		b.WriteString(styleIconError.Render(iconError) + " " + err.Error() + "\n")
		return b.String()
	}
	positions := stack.Positions(offsets)

	geo := m.Calc.Geometry()
	summary := fmt.Sprintf("%d cards in a %.0f px viewport", m.Count, geo.ViewportHeight)
	if m.Count > m.Calc.MinFitCount() {
		summary += fmt.Sprintf("  ·  compressed to %.1f px", m.Calc.CompressedVisibility(m.Count))
	}
	b.WriteString(StyleDim.Render(summary))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > m.Count {
		end = m.Count
	}

	// One bar cell per tenth of the default spacing, so compression is
	// visible as shrinking bars.
	barScale := m.Calc.Visibility().Default / 10

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		cursor := "  "
		if i == m.Focus {
			cursor = "▸ "
		}
		rows = append(rows, []string{
			cursor,
			fmt.Sprintf("%d", i),
			fmt.Sprintf("%.2f", offsets[i]),
			fmt.Sprintf("%.2f", positions[i]),
			strings.Repeat("▇", int(math.Round(offsets[i]/barScale))),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Card", "Offset", "Y", "Spacing").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			actualIdx := m.Offset + row
			if actualIdx == m.Focus {
				return listSelectedStyle
			}
			if actualIdx == m.Count-1 {
				return lipgloss.NewStyle().Foreground(colorGreen)
			}
			return lipgloss.NewStyle().Foreground(colorWhite)
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [focus %d/%d]", m.Focus+1, m.Count)))

	return b.String()
}
