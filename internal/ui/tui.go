package ui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// TUIRenderer draws a live progress panel with bubbletea.
type TUIRenderer struct {
	mu      sync.Mutex
	cfg     Config
	program *tea.Program
	model   *searchModel
	tracker *ProgressTracker
	started bool
	done    chan struct{}
}

// NewTUIRenderer creates a TUI renderer. It fails when output is not a TTY.
func NewTUIRenderer(cfg Config) (*TUIRenderer, error) {
	if !IsTTY(cfg.Output) {
		return nil, fmt.Errorf("output is not a TTY")
	}

	tracker := NewProgressTracker()
	model := newSearchModel(tracker, cfg.Corpus, cfg.OnCancel)
	if cfg.NoColor || DetectNoColor() {
		model.styles = NoColorStyles()
	}

	return &TUIRenderer{
		cfg:     cfg,
		tracker: tracker,
		model:   model,
		done:    make(chan struct{}),
	}, nil
}

// Start implements Renderer.
func (r *TUIRenderer) Start(ctx context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.started {
		return nil
	}

	opts := []tea.ProgramOption{tea.WithContext(ctx)}
	if f, ok := r.cfg.Output.(*os.File); ok {
		opts = append(opts, tea.WithOutput(f))
	}

	r.program = tea.NewProgram(r.model, opts...)
	r.started = true

	go func() {
		defer close(r.done)
		_, _ = r.program.Run()
	}()
	return nil
}

// UpdateProgress implements Renderer.
func (r *TUIRenderer) UpdateProgress(event ProgressEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if event.Phase != r.tracker.Phase() {
		r.tracker.SetPhase(event.Phase, event.Total)
	}
	r.tracker.Update(event.Position, event.Hits)

	if r.program != nil {
		r.program.Send(progressUpdateMsg(event))
	}
}

// Complete implements Renderer.
func (r *TUIRenderer) Complete(summary Summary) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.tracker.SetPhase(PhaseComplete, 0)
	if r.program != nil {
		r.program.Send(completeMsg(summary))
	}
}

// Stop implements Renderer.
func (r *TUIRenderer) Stop() error {
	r.mu.Lock()
	program := r.program
	r.mu.Unlock()

	if program == nil {
		return nil
	}

	program.Quit()
	select {
	case <-r.done:
	case <-time.After(2 * time.Second):
		// Don't hang the CLI on an unresponsive terminal.
	}
	return nil
}

type progressUpdateMsg ProgressEvent
type completeMsg Summary
type tickMsg time.Time

type searchModel struct {
	tracker     *ProgressTracker
	onCancel    func()
	width       int
	cancelled   bool
	complete    bool
	summary     Summary
	spinner     spinner.Model
	progressBar progress.Model
	styles      Styles
	corpus      string
}

func newSearchModel(tracker *ProgressTracker, corpus string, onCancel func()) *searchModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color(ColorAccent))

	p := progress.New(
		progress.WithSolidFill(ColorAccent),
		progress.WithWidth(50),
		progress.WithoutPercentage(),
	)

	return &searchModel{
		tracker:     tracker,
		onCancel:    onCancel,
		spinner:     s,
		progressBar: p,
		styles:      DefaultStyles(),
		width:       80,
		corpus:      corpus,
	}
}

// Init implements tea.Model.
func (m *searchModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, tickCmd())
}

func tickCmd() tea.Cmd {
	return tea.Tick(100*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// Update implements tea.Model.
func (m *searchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			m.cancelled = true
			if m.onCancel != nil {
				m.onCancel()
			}
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.progressBar.Width = max(msg.Width-20, 20)

	case progressUpdateMsg:
		return m, nil

	case completeMsg:
		m.complete = true
		m.summary = Summary(msg)
		return m, tea.Quit

	case tickMsg:
		return m, tickCmd()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

// View implements tea.Model.
func (m *searchModel) View() string {
	if m.cancelled {
		return m.styles.Warning.Render("Cancelling search...") + "\n"
	}
	if m.complete {
		return m.renderComplete()
	}

	contentWidth := max(m.width-4, 40)
	sections := []string{
		m.renderPhases(),
		m.renderDivider(contentWidth),
		m.renderProgress(),
		m.renderSpeed(),
		m.renderDivider(contentWidth),
		m.renderSparkline(contentWidth),
	}

	title := "amanels"
	if m.corpus != "" {
		title = "amanels • " + m.corpus
	}
	panel := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorRule)).
		Padding(0, 1).
		Width(contentWidth)

	return lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Header.Render(title),
		panel.Render(strings.Join(sections, "\n")),
	) + "\n" + m.styles.Dim.Render("q to cancel")
}

func (m *searchModel) renderPhases() string {
	current := m.tracker.Phase()
	phases := []struct {
		phase Phase
		name  string
	}{
		{PhaseLoading, "Load"},
		{PhaseSearching, "Search"},
		{PhaseRendering, "Render"},
	}

	parts := make([]string, 0, len(phases))
	for _, p := range phases {
		switch {
		case p.phase < current:
			parts = append(parts, m.styles.Success.Render("● "+p.name))
		case p.phase == current:
			parts = append(parts, m.styles.Active.Render(m.spinner.View()+" "+p.name))
		default:
			parts = append(parts, m.styles.Dim.Render("○ "+p.name))
		}
	}
	return strings.Join(parts, m.styles.Dim.Render(" → "))
}

func (m *searchModel) renderProgress() string {
	stats := m.tracker.Stats()
	if stats.Total == 0 {
		return fmt.Sprintf("%s %s...", m.spinner.View(), stats.Phase)
	}

	bar := m.progressBar.ViewAs(stats.Progress)
	pct := m.styles.Active.Render(fmt.Sprintf("%3.0f%%", stats.Progress*100))
	count := m.styles.Label.Render(fmt.Sprintf("%d / %d positions  •  %d hits",
		stats.Position, stats.Total, stats.Hits))
	return fmt.Sprintf("%s  %s\n%s", bar, pct, count)
}

func (m *searchModel) renderSpeed() string {
	stats := m.tracker.Stats()

	speed := fmt.Sprintf("Speed: %.0f pos/s", stats.Speed.Current)
	if stats.Speed.Avg > 0 {
		speed += fmt.Sprintf(" (avg: %.0f, peak: %.0f)", stats.Speed.Avg, stats.Speed.Peak)
	}
	parts := []string{m.styles.Speed.Render(speed)}
	if stats.ETA > 0 {
		parts = append(parts, m.styles.Label.Render("ETA: "+FormatDuration(stats.ETA)))
	}
	return strings.Join(parts, m.styles.Dim.Render("  •  "))
}

func (m *searchModel) renderSparkline(width int) string {
	spark := m.tracker.RenderSparkline(max(width-12, 10))
	return m.styles.Sparkline.Render(spark) + " " + m.styles.Dim.Render("scan rate")
}

func (m *searchModel) renderDivider(width int) string {
	return m.styles.Border.Render(strings.Repeat("─", width))
}

func (m *searchModel) renderComplete() string {
	s := m.summary
	header := m.styles.Success.Render("✓ Search Complete")
	if s.Cancelled {
		header = m.styles.Warning.Render("⚠ Search Cancelled")
	}

	lines := []string{
		header,
		"",
		fmt.Sprintf("%s %s", m.styles.Label.Render("Hits:     "), m.styles.Active.Render(fmt.Sprintf("%d", s.Hits))),
		fmt.Sprintf("%s %s", m.styles.Label.Render("Positions:"), m.styles.Active.Render(fmt.Sprintf("%d", s.Positions))),
		fmt.Sprintf("%s %s", m.styles.Label.Render("Duration: "), m.styles.Active.Render(FormatDuration(s.Duration))),
	}
	if avg := m.tracker.SpeedStats().Avg; avg > 0 {
		lines = append(lines, fmt.Sprintf("%s %s", m.styles.Label.Render("Avg Speed:"),
			m.styles.Speed.Render(fmt.Sprintf("%.0f positions/sec", avg))))
	}

	panel := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(ColorAccent)).
		Padding(1, 2).
		Width(max(m.width-4, 40))
	return panel.Render(strings.Join(lines, "\n")) + "\n"
}

var _ Renderer = (*TUIRenderer)(nil)
