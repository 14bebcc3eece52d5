package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var homeParagraphs = []string{
	"Step into a galaxy of heroes, villains, rebels, and rulers. StarFolk Wiki is your guide to the characters who shaped the Star Wars universe, from the legendary Jedi and Sith to smugglers, droids, and everyone in between.",
	"Here you'll find:",
	"• Detailed profiles of characters across the saga\n• Backgrounds, homeworlds, and key appearances\n• Connections between stories, films and series\n• Fun facts and trivia that bring the galaxy to life",
	"Whether you're a long-time fan or just beginning your journey, StarFolk Wiki is the one place where every story, big or small, finds its place among the stars.",
	"So grab your lightsaber, choose your side, and start exploring! Press / to search.",
}

func homeView(width int) string {
	return staticPage("Welcome to StarFolk Wiki", homeParagraphs, width)
}

func aboutView(width int) string {
	return staticPage("About us", []string{"This is a placeholder introduction for the About page."}, width)
}

func staticPage(title string, paragraphs []string, width int) string {
	body := lipgloss.NewStyle().Width(max(10, width))
	parts := make([]string, 0, len(paragraphs)+1)
	parts = append(parts, logoBold.Render(title))
	for _, p := range paragraphs {
		parts = append(parts, body.Render(p))
	}
	return strings.Join(parts, "\n\n")
}
