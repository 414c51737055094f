package ui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"bandroom/internal/lyrics"
	"bandroom/internal/models"
	"bandroom/internal/notes"
	"bandroom/internal/services"
	"bandroom/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	CollectionListView ViewState = iota
	SongListView
	LyricsView
	FetchView
)

// Model represents the TUI application state.
type Model struct {
	ctx    context.Context
	view   ViewState
	engine *tasks.Engine
	user   services.Identity

	width  int
	height int

	collectionList list.Model
	songList       list.Model

	collection *models.Collection
	song       *models.Song
	cursor     *notes.Cursor
	highlight  notes.Highlight

	progressChan chan tasks.ProgressUpdate
	progress     tasks.ProgressUpdate
	fetchResult  *tasks.FetchResult
	fetchErr     error

	err  error
	help help.Model
	keys keyMap
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, engine *tasks.Engine, user services.Identity) *Model {
	return &Model{
		ctx:    ctx,
		view:   CollectionListView,
		engine: engine,
		user:   user,
		help:   help.New(),
		keys:   newKeyMap(),
	}
}

// Init initializes the TUI by loading the user's collections.
func (m *Model) Init() tea.Cmd {
	return m.loadCollections()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.collectionList.Width() == 0 {
			m.collectionList.SetSize(msg.Width-4, msg.Height-8)
		}
		if m.songList.Width() == 0 {
			m.songList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case CollectionListView:
			return m.handleCollectionListKeys(msg)
		case SongListView:
			return m.handleSongListKeys(msg)
		case LyricsView:
			return m.handleLyricsKeys(msg)
		case FetchView:
			return m.handleFetchKeys(msg)
		}

	case collectionsLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		items := make([]list.Item, len(msg.collections))
		for i, collection := range msg.collections {
			items[i] = collectionItem{collection: collection}
		}
		m.collectionList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.collectionList.Title = "Collections"
		m.collectionList.SetSize(m.width-4, m.height-8)
		return m, nil

	case songsLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.view = CollectionListView
			return m, nil
		}
		m.collection = msg.collection
		items := make([]list.Item, len(msg.songs))
		for i, song := range msg.songs {
			items[i] = songItem{song: song}
		}
		m.songList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.songList.Title = fmt.Sprintf("Songs in '%s'", msg.collection.Name)
		m.songList.SetSize(m.width-4, m.height-8)
		m.view = SongListView
		return m, nil

	case songLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			m.view = SongListView
			return m, nil
		}
		m.song = msg.song
		m.cursor = notes.NewCursor(msg.song.Notes)
		m.highlight = notes.Highlight{}
		m.view = LyricsView
		return m, nil

	case fetchProgressMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case fetchCompleteMsg:
		m.fetchResult = msg.result
		m.fetchErr = msg.err
		if m.progressChan != nil {
			m.progressChan = nil
		}
		return m, nil

	case highlightExpiredMsg:
		// Dwell elapsed; the render pass drops the highlight on its own.
		return m, nil
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != FetchView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case CollectionListView:
		return m.renderCollectionList()
	case SongListView:
		return m.renderSongList()
	case LyricsView:
		return m.renderLyrics()
	case FetchView:
		return m.renderFetch()
	default:
		return ""
	}
}

func (m *Model) handleCollectionListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter":
		selected := m.collectionList.SelectedItem()
		if selected != nil {
			if item, ok := selected.(collectionItem); ok {
				return m, m.loadSongs(item.collection.ID)
			}
		}
	}

	var cmd tea.Cmd
	m.collectionList, cmd = m.collectionList.Update(msg)
	return m, cmd
}

func (m *Model) handleSongListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = CollectionListView
		return m, m.loadCollections()
	case "f":
		m.view = FetchView
		m.fetchResult = nil
		m.fetchErr = nil
		return m, m.startFetch()
	case "enter":
		selected := m.songList.SelectedItem()
		if selected != nil {
			if item, ok := selected.(songItem); ok {
				return m, m.loadSong(item.song.ID)
			}
		}
	}

	var cmd tea.Cmd
	m.songList, cmd = m.songList.Update(msg)
	return m, cmd
}

func (m *Model) handleLyricsKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.song = nil
		m.cursor = nil
		m.view = SongListView
		return m, nil
	case "n", "j", "down":
		m.cursor.Navigate(1)
		return m, m.lightCurrentNote()
	case "p", "k", "up":
		m.cursor.Navigate(-1)
		return m, m.lightCurrentNote()
	case "g":
		m.cursor.JumpToEdge(notes.EdgeFirst)
		return m, m.lightCurrentNote()
	case "G":
		m.cursor.JumpToEdge(notes.EdgeLast)
		return m, m.lightCurrentNote()
	}
	return m, nil
}

func (m *Model) handleFetchKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc", "enter":
		if m.progressChan != nil {
			// Fetch still running; stay put.
			return m, nil
		}
		return m, m.loadSongs(m.collection.ID)
	}
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case CollectionListView:
		m.collectionList, cmd = m.collectionList.Update(msg)
	case SongListView:
		m.songList, cmd = m.songList.Update(msg)
	}
	return m, cmd
}

func (m *Model) loadCollections() tea.Cmd {
	return func() tea.Msg {
		if _, err := m.engine.GetOrCreatePersonal(m.ctx, m.user.UID); err != nil {
			return collectionsLoadedMsg{err: err}
		}
		collections, err := m.engine.ListCollections(m.ctx, m.user.UID)
		return collectionsLoadedMsg{collections: collections, err: err}
	}
}

func (m *Model) loadSongs(collectionID string) tea.Cmd {
	return func() tea.Msg {
		collection, err := m.engine.GetCollection(m.ctx, collectionID, m.user.UID)
		if err != nil {
			return songsLoadedMsg{err: err}
		}
		songs, err := m.engine.ListSongs(m.ctx, collectionID, m.user.UID)
		return songsLoadedMsg{collection: collection, songs: songs, err: err}
	}
}

func (m *Model) loadSong(songID string) tea.Cmd {
	return func() tea.Msg {
		song, err := m.engine.GetSong(m.ctx, m.collection.ID, songID, m.user.UID)
		return songLoadedMsg{song: song, err: err}
	}
}

func (m *Model) startFetch() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)
	progressChan := m.progressChan

	go func() {
		result, err := m.engine.FetchPending(m.ctx, progressChan, m.collection.ID, m.user.UID)
		m.fetchResult = result
		m.fetchErr = err
		close(progressChan)
	}()

	return m.waitForProgress()
}

func (m *Model) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		if m.progressChan == nil {
			return fetchCompleteMsg{result: m.fetchResult, err: m.fetchErr}
		}

		update, ok := <-m.progressChan
		if !ok {
			return fetchCompleteMsg{result: m.fetchResult, err: m.fetchErr}
		}
		return fetchProgressMsg(update)
	}
}

// lightCurrentNote resolves the cursor's note into a line highlight and
// schedules its expiry.
func (m *Model) lightCurrentNote() tea.Cmd {
	highlight, ok := m.cursor.Highlight(m.song.LyricsNumbered)
	if !ok {
		return nil
	}
	m.highlight = highlight
	return tea.Tick(notes.HighlightDwell, func(t time.Time) tea.Msg {
		return highlightExpiredMsg(t)
	})
}

func (m *Model) renderCollectionList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.collectionList.View(), helpView)
}

func (m *Model) renderSongList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.fetch, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.songList.View(), helpView)
}

func (m *Model) renderLyrics() string {
	title := styles.title.Render(fmt.Sprintf("%s - %s", m.song.Artist, m.song.Title))

	var header string
	if m.song.TempoStatus == models.TempoFound {
		header = styles.warn.Render(fmt.Sprintf("%d bpm", m.song.Tempo))
	}

	var body string
	switch m.song.LyricsStatus {
	case models.LyricsFetched:
		body = m.renderLyricLines()
	case models.LyricsFailed:
		body = styles.warn.Render("Lyrics could not be found.")
	default:
		body = styles.help.Render("Lyrics not fetched yet.")
	}

	var noteLine string
	if note, ok := m.cursor.Current(); ok && m.highlight.Active(time.Now()) {
		noteLine = styles.ok.Render(fmt.Sprintf("♪ %s", note.Content))
	} else if m.cursor.Len() > 0 {
		noteLine = styles.help.Render(fmt.Sprintf("%d anchored notes, n/p to step through", m.cursor.Len()))
	}

	helpKeys := []key.Binding{m.keys.next, m.keys.prev, m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s %s\n\n%s\n\n%s\n%s", title, header, body, noteLine, helpView)
}

// renderLyricLines renders the numbered lyric sheet, lighting the highlighted
// note's line span while its dwell lasts.
func (m *Model) renderLyricLines() string {
	lit := m.highlight.Active(time.Now())
	lines := strings.Split(m.song.LyricsNumbered, "\n")
	rendered := make([]string, len(lines))

	for i, line := range lines {
		if lit {
			if num, ok := lyrics.LineNumber(line); ok && num >= m.highlight.LineStart && num <= m.highlight.LineEnd {
				rendered[i] = styles.hot.Render(line)
				continue
			}
		}
		rendered[i] = line
	}

	return strings.Join(rendered, "\n")
}

func (m *Model) renderFetch() string {
	title := styles.title.Render(fmt.Sprintf("Fetching lyrics and tempos for '%s'", m.collection.Name))

	if m.progressChan != nil {
		var phase string
		switch m.progress.Phase {
		case tasks.FetchLyrics:
			phase = fmt.Sprintf("Lyrics (%d/%d)", m.progress.Step, m.progress.Total)
		case tasks.FetchTempo:
			phase = fmt.Sprintf("Tempo (%d/%d)", m.progress.Step, m.progress.Total)
		default:
			phase = "Starting..."
		}
		return fmt.Sprintf("%s\n\n%s\n%s", title, phase, m.progress.Message)
	}

	if m.fetchErr != nil {
		return fmt.Sprintf("%s\n\n%s\n\n%s", title,
			styles.err.Render(fmt.Sprintf("Fetch failed: %v", m.fetchErr)),
			styles.help.Render("esc to go back, q to quit"))
	}

	if m.fetchResult == nil {
		return fmt.Sprintf("%s\n\n%s", title, styles.help.Render("No result available"))
	}

	summary := fmt.Sprintf(
		"Lyrics fetched: %d (failed: %d)\nTempos found: %d (missing: %d)\nSkipped: %d",
		m.fetchResult.LyricsFetched, m.fetchResult.LyricsFailed,
		m.fetchResult.TempoFound, m.fetchResult.TempoMissing,
		m.fetchResult.Skipped,
	)

	return fmt.Sprintf("%s\n\n%s\n%s\n\n%s", title,
		styles.ok.Render("✓ Fetch complete"),
		summary,
		styles.help.Render("esc to go back, q to quit"))
}
