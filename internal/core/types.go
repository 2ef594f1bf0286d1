package core

import (
	"context"
)

type MediaKind int

const (
	// MediaAudio requests an MP3 re-encode of the source's best audio stream
	MediaAudio MediaKind = iota
	// MediaVideo requests the best available combined stream
	MediaVideo
)

func (k MediaKind) String() string {
	if k == MediaVideo {
		return "video"
	}
	return "audio"
}

// Candidate is one search result before it is bound to a pending reference.
type Candidate struct {
	Title string
	URL   string
	Rank  int // 0-based position in the provider's result order
}

// Asset is a downloaded media file in scratch storage. Ownership is exclusive
// to the flow invocation that created it; the path is unique per fetch.
type Asset struct {
	Title string
	Path  string
	Kind  MediaKind
}

type TargetKind int

const (
	// TargetURL references a source URL to fetch
	TargetURL TargetKind = iota
	// TargetTitle references a display title to re-feed into search
	TargetTitle
)

// Target is the resolvable referent behind a pending reference token.
type Target struct {
	Kind  TargetKind
	Value string
}

// Session carries per-user state through a single flow invocation.
type Session struct {
	ChatID   int64
	UserID   int64
	Language string
}

// Callback identifies an inline button press to be answered and whose
// carrying message can be edited or deleted.
type Callback struct {
	ID        string
	MessageID int
}

// Menu is a transport-neutral inline keyboard.
type Menu struct {
	Rows [][]Button
}

type Button struct {
	Label string
	Data  string
}

// Extractor turns queries into candidates and URLs into local files.
type Extractor interface {
	Search(ctx context.Context, query string, limit int) ([]Candidate, error)
	Fetch(ctx context.Context, url string, kind MediaKind) (*Asset, error)
	Probe(ctx context.Context, url string) (string, error)
}

// RefStore correlates short opaque tokens with pending targets. Resolve
// consumes the entry so a token resolves at most once.
type RefStore interface {
	Put(target Target) string
	Resolve(token string) (Target, bool)
	Len() int
}

// FileIDCache remembers transport file IDs of already uploaded assets.
type FileIDCache interface {
	Get(key string) (string, bool)
	Add(key, fileID string)
}

// FetchPool bounds the number of concurrently running fetches.
type FetchPool interface {
	TrySubmit(job func()) error
}

// ChatClient is the outbound chat transport boundary.
type ChatClient interface {
	SendText(ctx context.Context, chatID int64, text string) (int, error)
	EditText(ctx context.Context, chatID int64, messageID int, text string) error
	EditMenu(ctx context.Context, chatID int64, messageID int, text string, menu *Menu) error
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error
	SendAudio(ctx context.Context, chatID int64, path, caption string) (string, error)
	SendAudioByID(ctx context.Context, chatID int64, fileID, caption string) error
	SendVideo(ctx context.Context, chatID int64, path, caption string, menu *Menu) error
	AnswerCallback(ctx context.Context, callbackID, text string) error
}

// Recorder receives flow metrics. Implemented by the HTTP server.
type Recorder interface {
	RecordQuery(mode string)
	RecordSearch(status string)
	RecordFetch(kind, status string)
	RecordFetchDuration(kind string, seconds float64)
	RecordStaleRef()
	RecordCacheHit()
	SetPendingRefs(n int)
}
