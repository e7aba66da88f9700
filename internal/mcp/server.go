package mcp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/Aman-CERP/amanels/internal/config"
	"github.com/Aman-CERP/amanels/internal/history"
	"github.com/Aman-CERP/amanels/internal/render"
	"github.com/Aman-CERP/amanels/pkg/searcher"
	"github.com/Aman-CERP/amanels/pkg/version"
)

// ServerName is reported to MCP clients.
const ServerName = "amanels"

// defaultHistoryLimit is how many searches els_history lists by default.
const defaultHistoryLimit = 20

// Server exposes ELS search to MCP clients.
type Server struct {
	mcp      *mcp.Server
	searcher *searcher.Searcher
	config   *config.Config
	logger   *slog.Logger
}

// ToolInfo describes a registered tool.
type ToolInfo struct {
	Name        string
	Description string
}

var tools = []ToolInfo{
	{
		Name: ToolSearch,
		Description: "Search a text for equidistant letter sequences: terms spelled by letters " +
			"a fixed number of positions apart. Give a file path or inline text and one or more terms. " +
			"Returns every hit with 1-based positions and the grid of letters spanning them.",
	},
	{
		Name:        ToolLanguages,
		Description: "List the alphabets a text can be normalized to (latin, greek, hebrew) with their aliases.",
	},
	{
		Name:        ToolHistory,
		Description: "List recent saved searches, or fetch one by id.",
	},
}

// ServerOption configures a Server.
type ServerOption func(*Server)

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) ServerOption {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates an MCP server backed by srch.
func NewServer(srch *searcher.Searcher, cfg *config.Config, opts ...ServerOption) (*Server, error) {
	if srch == nil {
		return nil, errors.New("searcher is required")
	}
	if cfg == nil {
		cfg = config.NewConfig()
	}

	s := &Server{
		searcher: srch,
		config:   cfg,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.mcp = mcp.NewServer(&mcp.Implementation{
		Name:    ServerName,
		Version: version.Version,
	}, nil)
	s.registerTools()

	return s, nil
}

// MCPServer returns the underlying MCP server.
func (s *Server) MCPServer() *mcp.Server {
	return s.mcp
}

// Info returns the server name and version.
func (s *Server) Info() (name, ver string) {
	return ServerName, version.Version
}

// ListTools returns the registered tools.
func (s *Server) ListTools() []ToolInfo {
	out := make([]ToolInfo, len(tools))
	copy(out, tools)
	return out
}

func (s *Server) registerTools() {
	mcp.AddTool(s.mcp, &mcp.Tool{Name: tools[0].Name, Description: tools[0].Description}, s.mcpSearchHandler)
	mcp.AddTool(s.mcp, &mcp.Tool{Name: tools[1].Name, Description: tools[1].Description}, s.mcpLanguagesHandler)
	mcp.AddTool(s.mcp, &mcp.Tool{Name: tools[2].Name, Description: tools[2].Description}, s.mcpHistoryHandler)
	s.logger.Debug("mcp_tools_registered", slog.Int("count", len(tools)))
}

func (s *Server) mcpSearchHandler(ctx context.Context, _ *mcp.CallToolRequest, input SearchInput) (
	*mcp.CallToolResult,
	SearchOutput,
	error,
) {
	out, err := s.handleSearch(ctx, input)
	if err != nil {
		return nil, SearchOutput{}, MapError(err)
	}
	return textResult(FormatSearchOutput(out)), out, nil
}

func (s *Server) mcpLanguagesHandler(_ context.Context, _ *mcp.CallToolRequest, _ LanguagesInput) (
	*mcp.CallToolResult,
	LanguagesOutput,
	error,
) {
	out := s.handleLanguages()
	return textResult(FormatLanguages(out)), out, nil
}

func (s *Server) mcpHistoryHandler(ctx context.Context, _ *mcp.CallToolRequest, input HistoryInput) (
	*mcp.CallToolResult,
	HistoryOutput,
	error,
) {
	out, err := s.handleHistory(ctx, input)
	if err != nil {
		return nil, HistoryOutput{}, MapError(err)
	}
	return textResult(FormatHistory(out)), out, nil
}

// handleSearch runs els_search. Unset numeric inputs fall back to the
// configured search defaults.
func (s *Server) handleSearch(ctx context.Context, in SearchInput) (SearchOutput, error) {
	if in.Path == "" && in.Text == "" {
		return SearchOutput{}, NewInvalidParamsError("either path or text is required")
	}

	opts := s.config.SearchOptions()
	opts.Start = in.Start
	if in.Stop != nil {
		opts.Stop = *in.Stop
	}
	if in.FromSkip != 0 {
		opts.FromSkip = in.FromSkip
	}
	if in.ToSkip != nil {
		opts.ToSkip = *in.ToSkip
	}
	if in.Proximity != nil {
		opts.Proximity = *in.Proximity
	}

	format := render.FormatText
	if in.Format != "" {
		f, err := render.ParseFormat(in.Format)
		if err != nil {
			return SearchOutput{}, err
		}
		format = f
	}
	width := in.Width
	if width == 0 {
		width = s.config.Output.Width
	}
	lang := in.Language
	if lang == "" {
		lang = s.config.Search.Language
	}

	requestID := generateRequestID()
	start := time.Now()
	s.logger.Info("mcp_search_started",
		slog.String("request_id", requestID),
		slog.String("path", in.Path),
		slog.Int("terms", len(in.Terms)))

	resp, err := s.searcher.Search(ctx, searcher.Request{
		Path:     in.Path,
		Text:     in.Text,
		Name:     in.Name,
		Terms:    in.Terms,
		Language: lang,
		Options:  opts,
		Format:   format,
		Width:    width,
		Save:     in.Save && s.config.History.Enabled,
	})
	if err != nil {
		s.logger.Warn("mcp_search_failed",
			slog.String("request_id", requestID),
			slog.String("error", err.Error()))
		return SearchOutput{}, err
	}

	res := resp.Result
	out := SearchOutput{
		Corpus:    resp.Corpus.Path,
		Language:  string(resp.Corpus.Language()),
		Letters:   resp.Corpus.Letters,
		Terms:     res.Terms,
		Hits:      make([]HitOutput, 0, len(res.Hits)),
		Grid:      res.Grid.Text,
		Rendered:  resp.Rendered,
		Status:    string(res.Status),
		Stats:     res.Stats,
		HistoryID: resp.HistoryID,
	}
	for _, h := range res.Hits {
		abs := h
		abs.Index += resp.Base
		letters := abs.Positions()
		for i := range letters {
			letters[i]++
		}
		out.Hits = append(out.Hits, HitOutput{
			Term:      h.Term,
			Position:  abs.Index + 1,
			Skip:      h.Skip,
			Letters:   letters,
			Statement: abs.String(),
		})
	}

	s.logger.Info("mcp_search_complete",
		slog.String("request_id", requestID),
		slog.Int("hits", len(out.Hits)),
		slog.String("status", out.Status),
		slog.Duration("duration", time.Since(start)))
	return out, nil
}

func (s *Server) handleLanguages() LanguagesOutput {
	profiles := s.searcher.Registry().Profiles()
	out := LanguagesOutput{Languages: make([]LanguageOutput, 0, len(profiles))}
	for _, p := range profiles {
		out.Languages = append(out.Languages, LanguageOutput{
			Name:        string(p.Language),
			Display:     p.Name,
			Aliases:     p.Aliases,
			FileHints:   p.FileHints,
			Letters:     p.Letters,
			RightToLeft: p.Style.RightToLeft,
		})
	}
	return out
}

func (s *Server) handleHistory(ctx context.Context, in HistoryInput) (HistoryOutput, error) {
	store := s.searcher.History()
	if store == nil {
		return HistoryOutput{}, searcher.ErrNoHistory
	}

	var records []*history.Record
	if id := strings.TrimSpace(in.ID); id != "" {
		rec, err := store.Get(ctx, id)
		if err != nil {
			return HistoryOutput{}, err
		}
		records = []*history.Record{rec}
	} else {
		limit := in.Limit
		if limit <= 0 {
			limit = defaultHistoryLimit
		}
		var err error
		records, err = store.List(ctx, history.ListOptions{Limit: limit, Corpus: in.Corpus})
		if err != nil {
			return HistoryOutput{}, err
		}
	}

	out := HistoryOutput{Searches: make([]HistoryEntry, 0, len(records))}
	for _, r := range records {
		out.Searches = append(out.Searches, HistoryEntry{
			ID:         r.ID,
			Name:       r.Name,
			Corpus:     r.CorpusPath,
			Language:   r.Language,
			Terms:      r.Terms,
			HitCount:   r.HitCount,
			Status:     string(r.Status),
			DurationMS: r.Duration.Milliseconds(),
			CreatedAt:  r.CreatedAt.Format(time.RFC3339),
		})
	}
	return out, nil
}

// Serve runs the server until ctx is cancelled. Only stdio is supported.
func (s *Server) Serve(ctx context.Context, transport string) error {
	s.logger.Info("mcp_server_starting",
		slog.String("transport", transport),
		slog.String("version", version.Version))

	switch transport {
	case "", "stdio":
		err := s.mcp.Run(ctx, &mcp.StdioTransport{})
		if err != nil && !errors.Is(err, context.Canceled) {
			s.logger.Error("mcp_server_stopped", slog.String("error", err.Error()))
			return err
		}
		s.logger.Info("mcp_server_stopped")
		return nil
	default:
		return fmt.Errorf("unknown transport: %s (supported: stdio)", transport)
	}
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

// generateRequestID creates a short ID for log correlation.
func generateRequestID() string {
	return uuid.NewString()[:8]
}
