package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rxtech-lab/argo-loglens/internal/logger"
	"github.com/rxtech-lab/argo-loglens/pkg/analyzer"
)

func main() {
	appLogger, err := logger.NewLogger()
	if err != nil {
		fmt.Printf("Error creating logger: %v\n", err)
		os.Exit(1)
	}
	defer appLogger.Sync()

	a, err := analyzer.NewAnalyzer(analyzer.DefaultConfig(), appLogger)
	if err != nil {
		fmt.Printf("Error creating analyzer: %v\n", err)
		os.Exit(1)
	}

	model := NewModel(a)

	// Preload the file given as the first argument, if any
	if len(os.Args) > 1 {
		model.fileInput.SetValue(os.Args[1])
	}

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Printf("Error running program: %v\n", err)
		os.Exit(1)
	}
}
