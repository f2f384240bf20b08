package bot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/tomomira/youtube-video-analyzer/internal/app"
	"github.com/tomomira/youtube-video-analyzer/internal/model"
	"github.com/tomomira/youtube-video-analyzer/internal/search"
	"github.com/tomomira/youtube-video-analyzer/internal/task"
)

const historyPageSize = 10

// resultSet is the last search result of a chat
type resultSet struct {
	title  string
	videos []*model.VideoInfo
}

// Handler handles Telegram bot commands
type Handler struct {
	app       *app.App
	telegram  Messenger
	preview   int
	base      *model.SearchCriteria
	startTime time.Time
	log       zerolog.Logger

	mu      sync.Mutex
	results map[int64]*resultSet
	wg      sync.WaitGroup
}

// HandlerOption configures a Handler
type HandlerOption func(*Handler)

// WithBaseCriteria sets the criteria that /search and /preset save start from,
// such as the configured region and language
func WithBaseCriteria(c *model.SearchCriteria) HandlerOption {
	return func(h *Handler) {
		if c != nil {
			h.base = c.Clone()
		}
	}
}

// NewHandler creates a new command handler; preview caps listed results per reply
func NewHandler(a *app.App, telegram Messenger, preview int, logger zerolog.Logger, opts ...HandlerOption) *Handler {
	h := &Handler{
		app:       a,
		telegram:  telegram,
		preview:   preview,
		startTime: time.Now(),
		log:       logger.With().Str("component", "bot").Logger(),
		results:   make(map[int64]*resultSet),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// HandleUpdate processes an incoming Telegram update
func (h *Handler) HandleUpdate(ctx context.Context, update tgbotapi.Update) {
	if update.Message == nil || !update.Message.IsCommand() {
		return
	}
	h.handleCommand(ctx, update.Message)
}

// Wait blocks until replies of background tasks have been sent
func (h *Handler) Wait() {
	h.wg.Wait()
}

// handleCommand routes commands to their respective handlers
func (h *Handler) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	command := msg.Command()
	args := strings.TrimSpace(msg.CommandArguments())

	h.log.Info().
		Int64("chatID", chatID).
		Str("command", command).
		Str("args", args).
		Msg("Received command")

	switch command {
	case "start", "help":
		h.handleHelp(chatID)
	case "search":
		h.handleSearch(ctx, chatID, args)
	case "preset":
		h.handlePreset(ctx, chatID, args)
	case "presets":
		h.handlePresets(ctx, chatID)
	case "history":
		h.handleHistory(ctx, chatID, args)
	case "sort":
		h.handleSort(chatID, args)
	case "filter":
		h.handleFilter(chatID, args)
	case "export":
		h.handleExport(ctx, chatID, args)
	case "status":
		h.handleStatus(chatID)
	default:
		h.sendError(chatID, "Unknown command. Use /help to see available commands.")
	}
}

func (h *Handler) handleHelp(chatID int64) {
	helpText := `🤖 *YouTube Video Analyzer*

*Search:*
/search keyword \[min\=N\] \[max\=N\] \[type\=all\|short\|normal\] \[limit\=N\] \[order\=viewCount\] \[after\=YYYY\-MM\-DD\] \[before\=YYYY\-MM\-DD\] \[region\=JP\] \[lang\=ja\]

*Results:*
/sort views\|likes\|published\|duration \[asc\|desc\]
/filter \[min\=N\] \[max\=N\] \[type\=short\]
/export \- Excel workbook
/export sheets name \- Google Sheets

*Presets:*
/preset save name search args
/preset load name
/preset delete name
/presets \- List presets

*History:*
/history \- Recent searches
/history find keyword
/history rerun id
/history delete id
/history clear

/status \- Show bot status`

	if err := h.telegram.SendMarkdown(chatID, helpText); err != nil {
		h.log.Error().Err(err).Int64("chatID", chatID).Msg("Failed to send help message")
	}
}

func (h *Handler) handleSearch(ctx context.Context, chatID int64, args string) {
	if args == "" {
		h.sendError(chatID, "Please provide a search keyword. Example: /search golang min=10000 type=normal")
		return
	}

	criteria, err := ParseSearchArgs(h.base, args)
	if err != nil {
		h.sendError(chatID, err.Error())
		return
	}
	h.runSearch(ctx, chatID, criteria)
}

// runSearch submits a search and replies with the outcome in the background
func (h *Handler) runSearch(ctx context.Context, chatID int64, criteria *model.SearchCriteria) {
	ch, err := h.app.StartSearch(ctx, criteria)
	if err != nil {
		h.sendError(chatID, h.describeError(err))
		return
	}

	h.sendMessage(chatID, fmt.Sprintf("🔄 Searching for %q...", criteria.Keyword))
	h.awaitOutcome(chatID, func() {
		outcome := <-ch
		if outcome.Err != nil {
			h.log.Error().Err(outcome.Err).Int64("chatID", chatID).Str("keyword", criteria.Keyword).Msg("Search failed")
			h.sendError(chatID, h.describeError(outcome.Err))
			return
		}

		title := "Results for: " + criteria.Keyword
		h.setResults(chatID, &resultSet{title: title, videos: outcome.Value})
		h.sendMarkdown(chatID, FormatResults(title, outcome.Value, h.preview))
	})
}

func (h *Handler) handlePreset(ctx context.Context, chatID int64, args string) {
	action, rest := splitFirst(args)
	switch strings.ToLower(action) {
	case "save":
		name, searchArgs := splitFirst(rest)
		if name == "" || searchArgs == "" {
			h.sendError(chatID, "Usage: /preset save name keyword [key=value ...]")
			return
		}
		criteria, err := ParseSearchArgs(h.base, searchArgs)
		if err != nil {
			h.sendError(chatID, err.Error())
			return
		}
		if _, err := h.app.Presets().SavePreset(ctx, name, criteria); err != nil {
			h.log.Error().Err(err).Str("preset", name).Msg("Failed to save preset")
			h.sendError(chatID, h.describeError(err))
			return
		}
		h.sendMessage(chatID, fmt.Sprintf("✅ Preset saved: %s", name))

	case "load", "run":
		h.runPreset(ctx, chatID, rest)

	case "delete":
		if rest == "" {
			h.sendError(chatID, "Usage: /preset delete name")
			return
		}
		deleted, err := h.app.Presets().DeletePreset(ctx, rest)
		if err != nil {
			h.log.Error().Err(err).Str("preset", rest).Msg("Failed to delete preset")
			h.sendError(chatID, "Failed to delete preset. Please try again.")
			return
		}
		if !deleted {
			h.sendError(chatID, fmt.Sprintf("Preset not found: %s", rest))
			return
		}
		h.sendMessage(chatID, fmt.Sprintf("✅ Preset deleted: %s", rest))

	case "":
		h.sendError(chatID, "Usage: /preset save|load|delete name")

	default:
		// "/preset name" loads the preset
		h.runPreset(ctx, chatID, args)
	}
}

func (h *Handler) runPreset(ctx context.Context, chatID int64, name string) {
	if name == "" {
		h.sendError(chatID, "Usage: /preset load name")
		return
	}
	preset, err := h.app.Presets().LoadPreset(ctx, name)
	if err != nil {
		h.log.Error().Err(err).Str("preset", name).Msg("Failed to load preset")
		h.sendError(chatID, "Failed to load preset. Please try again.")
		return
	}
	if preset == nil {
		h.sendError(chatID, fmt.Sprintf("Preset not found: %s", name))
		return
	}
	criteria, err := preset.Criteria()
	if err != nil {
		h.sendError(chatID, fmt.Sprintf("Preset %s is unreadable: %v", name, err))
		return
	}
	h.runSearch(ctx, chatID, criteria)
}

func (h *Handler) handlePresets(ctx context.Context, chatID int64) {
	presets, err := h.app.Presets().ListPresets(ctx)
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list presets")
		h.sendError(chatID, "Failed to list presets. Please try again.")
		return
	}
	h.sendMarkdown(chatID, FormatPresets(presets))
}

func (h *Handler) handleHistory(ctx context.Context, chatID int64, args string) {
	action, rest := splitFirst(args)
	history := h.app.History()

	switch strings.ToLower(action) {
	case "":
		records, err := history.RecentHistory(ctx, historyPageSize)
		if err != nil {
			h.log.Error().Err(err).Msg("Failed to load history")
			h.sendError(chatID, "Failed to load history. Please try again.")
			return
		}
		h.sendMarkdown(chatID, FormatHistory(records))

	case "find":
		if rest == "" {
			h.sendError(chatID, "Usage: /history find keyword")
			return
		}
		records, err := history.FindHistory(ctx, rest, historyPageSize)
		if err != nil {
			h.log.Error().Err(err).Str("keyword", rest).Msg("Failed to search history")
			h.sendError(chatID, "Failed to search history. Please try again.")
			return
		}
		h.sendMarkdown(chatID, FormatHistory(records))

	case "rerun":
		id, ok := h.parseID(chatID, rest)
		if !ok {
			return
		}
		ch, err := h.app.RerunHistory(ctx, id)
		if err != nil {
			h.sendError(chatID, h.describeError(err))
			return
		}
		h.sendMessage(chatID, fmt.Sprintf("🔄 Re-running search #%d...", id))
		h.awaitOutcome(chatID, func() {
			outcome := <-ch
			if outcome.Err != nil {
				h.sendError(chatID, h.describeError(outcome.Err))
				return
			}
			title := fmt.Sprintf("Results for history #%d", id)
			h.setResults(chatID, &resultSet{title: title, videos: outcome.Value})
			h.sendMarkdown(chatID, FormatResults(title, outcome.Value, h.preview))
		})

	case "delete":
		id, ok := h.parseID(chatID, rest)
		if !ok {
			return
		}
		deleted, err := history.DeleteHistory(ctx, id)
		if err != nil {
			h.log.Error().Err(err).Uint("id", id).Msg("Failed to delete history")
			h.sendError(chatID, "Failed to delete history. Please try again.")
			return
		}
		if !deleted {
			h.sendError(chatID, fmt.Sprintf("History record not found: %d", id))
			return
		}
		h.sendMessage(chatID, fmt.Sprintf("✅ History #%d deleted", id))

	case "clear":
		n, err := history.ClearHistory(ctx)
		if err != nil {
			h.log.Error().Err(err).Msg("Failed to clear history")
			h.sendError(chatID, "Failed to clear history. Please try again.")
			return
		}
		h.sendMessage(chatID, fmt.Sprintf("✅ Cleared %d history records", n))

	default:
		h.sendError(chatID, "Usage: /history [find keyword|rerun id|delete id|clear]")
	}
}

func (h *Handler) handleSort(chatID int64, args string) {
	rs := h.getResults(chatID)
	if rs == nil {
		h.sendError(chatID, "No results yet. Run /search first.")
		return
	}

	key, descending, err := ParseSortArgs(args)
	if err != nil {
		h.sendError(chatID, err.Error())
		return
	}

	sorted, _ := search.SortBy(rs.videos, key, descending)
	title := fmt.Sprintf("%s, sorted by %s", rs.title, key)
	h.setResults(chatID, &resultSet{title: rs.title, videos: sorted})
	h.sendMarkdown(chatID, FormatResults(title, sorted, h.preview))
}

func (h *Handler) handleFilter(chatID int64, args string) {
	rs := h.getResults(chatID)
	if rs == nil {
		h.sendError(chatID, "No results yet. Run /search first.")
		return
	}

	f, err := ParseFilterArgs(args)
	if err != nil {
		h.sendError(chatID, err.Error())
		return
	}

	filtered := search.FilterByViewCount(rs.videos, f.Min, f.Max)
	filtered = search.FilterByVideoType(filtered, f.Type)
	h.setResults(chatID, &resultSet{title: rs.title, videos: filtered})
	h.sendMarkdown(chatID, FormatResults(rs.title+", filtered", filtered, h.preview))
}

func (h *Handler) handleExport(ctx context.Context, chatID int64, args string) {
	rs := h.getResults(chatID)
	if rs == nil || len(rs.videos) == 0 {
		h.sendError(chatID, "No results to export. Run /search first.")
		return
	}

	format, rest := splitFirst(args)
	req := app.ExportRequest{Format: app.FormatXLSX}
	switch strings.ToLower(format) {
	case "", app.FormatXLSX:
		req.Path = fmt.Sprintf("youtube_videos_%d_%s.xlsx", chatID, time.Now().Format("20060102_150405"))
	case app.FormatSheets:
		if rest == "" {
			h.sendError(chatID, "Usage: /export sheets spreadsheet name")
			return
		}
		req.Format = app.FormatSheets
		req.SpreadsheetName = rest
	default:
		h.sendError(chatID, "Usage: /export [xlsx|sheets name]")
		return
	}

	ch, err := h.app.StartExport(ctx, rs.videos, req)
	if err != nil {
		h.sendError(chatID, h.describeError(err))
		return
	}

	h.sendMessage(chatID, fmt.Sprintf("🔄 Exporting %d videos...", len(rs.videos)))
	h.awaitOutcome(chatID, func() {
		outcome := <-ch
		if outcome.Err != nil {
			h.log.Error().Err(outcome.Err).Int64("chatID", chatID).Msg("Export failed")
			h.sendError(chatID, h.describeError(outcome.Err))
			return
		}

		result := outcome.Value
		if result.Format == app.FormatSheets {
			h.sendMessage(chatID, fmt.Sprintf("✅ Exported %d videos: %s", result.Count, result.Location))
			return
		}
		caption := fmt.Sprintf("%d videos", result.Count)
		if err := h.telegram.SendDocument(chatID, result.Location, caption); err != nil {
			h.log.Error().Err(err).Int64("chatID", chatID).Str("path", result.Location).Msg("Failed to send workbook")
			h.sendError(chatID, "Export finished but the file could not be sent.")
		}
		if err := os.Remove(result.Location); err != nil {
			h.log.Warn().Err(err).Str("path", result.Location).Msg("Failed to remove sent workbook")
		}
	})
}

func (h *Handler) handleStatus(chatID int64) {
	state := "idle"
	if current := h.app.Runner().Current(); current != "" {
		state = "running " + string(current)
	}

	count := 0
	if rs := h.getResults(chatID); rs != nil {
		count = len(rs.videos)
	}

	lines := []string{
		"📊 *Bot Status*\n",
		fmt.Sprintf("⚙️ Task: %s", EscapeMarkdown(state)),
		fmt.Sprintf("🎬 Results in this chat: %d", count),
		fmt.Sprintf("⏱ Uptime: %s", EscapeMarkdown(formatUptime(time.Since(h.startTime)))),
		fmt.Sprintf("🕐 Started: %s", EscapeMarkdown(h.startTime.Format("2006-01-02 15:04:05"))),
	}
	h.sendMarkdown(chatID, strings.Join(lines, "\n"))
}

// awaitOutcome runs fn on a tracked goroutine
func (h *Handler) awaitOutcome(chatID int64, fn func()) {
	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		defer func() {
			if p := recover(); p != nil {
				h.log.Error().Interface("panic", p).Int64("chatID", chatID).Msg("Reply goroutine panicked")
			}
		}()
		fn()
	}()
}

func (h *Handler) setResults(chatID int64, rs *resultSet) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.results[chatID] = rs
}

func (h *Handler) getResults(chatID int64) *resultSet {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.results[chatID]
}

func (h *Handler) parseID(chatID int64, s string) (uint, bool) {
	id, err := strconv.ParseUint(strings.TrimPrefix(strings.TrimSpace(s), "#"), 10, 32)
	if err != nil || id == 0 {
		h.sendError(chatID, "Please provide a history id, e.g. /history rerun 12")
		return 0, false
	}
	return uint(id), true
}

// describeError turns an error into a reply for the user
func (h *Handler) describeError(err error) string {
	var validationErr *model.ValidationError
	var providerErr *search.ProviderError
	switch {
	case errors.Is(err, task.ErrBusy):
		return "Another search or export is running. Please wait for it to finish."
	case errors.As(err, &validationErr):
		return validationErr.Error()
	case errors.As(err, &providerErr):
		return "YouTube request failed: " + providerErr.Err.Error()
	default:
		return err.Error()
	}
}

func (h *Handler) sendMessage(chatID int64, text string) {
	if err := h.telegram.SendMessage(chatID, text); err != nil {
		h.log.Error().Err(err).Int64("chatID", chatID).Msg("Failed to send message")
	}
}

func (h *Handler) sendMarkdown(chatID int64, text string) {
	if err := h.telegram.SendMarkdown(chatID, text); err != nil {
		h.log.Error().Err(err).Int64("chatID", chatID).Msg("Failed to send markdown message")
	}
}

// sendError sends an error message to a chat
func (h *Handler) sendError(chatID int64, message string) {
	if err := h.telegram.SendMessage(chatID, "❌ "+message); err != nil {
		h.log.Error().Err(err).Int64("chatID", chatID).Msg("Failed to send error message")
	}
}

func splitFirst(s string) (first, rest string) {
	s = strings.TrimSpace(s)
	first, rest, _ = strings.Cut(s, " ")
	return first, strings.TrimSpace(rest)
}
