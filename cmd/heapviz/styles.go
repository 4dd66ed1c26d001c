package main

import "github.com/charmbracelet/lipgloss"

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("243"))

	freeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))  // green
	allocStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("214")) // amber
	mappedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("33"))  // blue

	footerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("243")).MarginTop(1)
)

func statusStyle(status string) lipgloss.Style {
	switch status {
	case "FREE":
		return freeStyle
	case "ALLOC":
		return allocStyle
	case "MAPPED":
		return mappedStyle
	default:
		return dimStyle
	}
}
