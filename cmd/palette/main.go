// Package main prints the dashboard palette and the ANSI 256 color grid.
package main

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/evanschultz/tableau/internal/theme"
)

func main() {
	render(os.Stdout)
}

func render(w io.Writer) {
	fmt.Fprintln(w, "=== TABLEAU PALETTE ===")
	fmt.Fprintln(w, paletteTable(theme.Palette()))

	fmt.Fprintln(w, "\n=== ANSI 256 COLORS ===")
	fmt.Fprintln(w, "Standard 16 Colors:")
	fmt.Fprint(w, colorBlock(0, 15, 8))
	fmt.Fprintln(w, "\nGrayscale (232-255):")
	fmt.Fprint(w, colorBlock(232, 255, 12))
}

func paletteTable(swatches []theme.Swatch) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color(theme.Accent))).
		Headers("Name", "Code", "Usage", "Sample").
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230"))
			}
			return lipgloss.NewStyle()
		})

	for _, s := range swatches {
		sample := lipgloss.NewStyle().
			Background(lipgloss.Color(s.Code)).
			Foreground(contrastColor(mustAtoi(s.Code))).
			Width(10).
			Align(lipgloss.Center).
			Render(s.Code)
		t.Row(s.Name, s.Code, s.Usage, sample)
	}
	return t.Render()
}

func colorBlock(start, end, perRow int) string {
	var out string
	count := 0
	for i := start; i <= end; i++ {
		style := lipgloss.NewStyle().
			Background(lipgloss.Color(strconv.Itoa(i))).
			Foreground(contrastColor(i)).
			Width(6).
			Align(lipgloss.Center)
		out += style.Render(fmt.Sprintf("%3d", i))

		count++
		if count%perRow == 0 {
			out += "\n"
		} else {
			out += " "
		}
	}
	if count%perRow != 0 {
		out += "\n"
	}
	return out
}

// contrastColor picks white text for dark swatches and black for light ones.
func contrastColor(colorIndex int) lipgloss.Color {
	switch {
	case colorIndex < 16:
		if colorIndex == 0 || colorIndex == 1 || colorIndex == 4 || colorIndex == 5 || colorIndex == 8 {
			return lipgloss.Color("15")
		}
		return lipgloss.Color("0")
	case colorIndex >= 232:
		if colorIndex < 244 {
			return lipgloss.Color("15")
		}
		return lipgloss.Color("0")
	default:
		return lipgloss.Color("15")
	}
}

func mustAtoi(s string) int {
	i, _ := strconv.Atoi(s)
	return i
}
