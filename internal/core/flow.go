package core

import (
	"context"
	"os"
	"time"

	"go.uber.org/zap"

	"tunegrab/internal/i18n"
	"tunegrab/pkg/fuzzy"
	"tunegrab/pkg/text"
)

const (
	modeDirectLink = "direct_link"
	modeSearch     = "search"
)

// Flow is the request-to-asset delivery orchestrator. It classifies incoming
// queries, presents selection menus, resolves pending references and ships
// fetched assets back through the chat transport. Every failure is recovered
// here; nothing below the handler boundary crashes the process.
type Flow struct {
	config     *Config
	chat       ChatClient
	extractor  Extractor
	refs       RefStore
	fileIDs    FileIDCache
	pool       FetchPool
	metrics    Recorder
	normalizer *fuzzy.Normalizer
	logger     *zap.Logger
}

func NewFlow(
	config *Config,
	chat ChatClient,
	extractor Extractor,
	refs RefStore,
	fileIDs FileIDCache,
	pool FetchPool,
	metrics Recorder,
	logger *zap.Logger,
) *Flow {
	return &Flow{
		config:     config,
		chat:       chat,
		extractor:  extractor,
		refs:       refs,
		fileIDs:    fileIDs,
		pool:       pool,
		metrics:    metrics,
		normalizer: fuzzy.NewNormalizer(),
		logger:     logger,
	}
}

// HandleQuery dispatches a raw text message: a URL-scheme prefix selects the
// direct-link path, anything else the search path.
func (f *Flow) HandleQuery(ctx context.Context, sess *Session, query string) {
	query = text.Normalize(query)
	if query == "" {
		return
	}

	loc := i18n.NewLocalizer(sess.Language)

	if text.IsDirectLink(query) {
		f.recordQuery(modeDirectLink)
		f.deliverVideo(ctx, sess, loc, text.CleanURL(query))
		return
	}

	f.recordQuery(modeSearch)
	f.searchAndPresent(ctx, sess, loc, query)
}

// HandleDownload resolves a download token and delivers the audio asset.
// An absent token only yields a stale-selection notice; no fetch is attempted.
func (f *Flow) HandleDownload(ctx context.Context, sess *Session, cb Callback, token string) {
	loc := i18n.NewLocalizer(sess.Language)

	target, ok := f.refs.Resolve(token)
	if !ok || target.Kind != TargetURL {
		f.recordStaleRef()
		f.answerCallback(ctx, cb.ID, loc.T("error.stale"))
		return
	}
	f.answerCallback(ctx, cb.ID, "")

	f.editText(ctx, sess.ChatID, cb.MessageID, loc.T("status.converting"))

	if f.deliverCachedAudio(ctx, sess, loc, cb, target.Value) {
		return
	}

	asset, err := f.fetch(ctx, target.Value, MediaAudio)
	if err != nil {
		f.logger.Warn("Audio fetch failed",
			zap.String("url", target.Value),
			zap.Error(err))
		f.editText(ctx, sess.ChatID, cb.MessageID, loc.T(MessageKey(err)))
		return
	}
	defer f.removeAsset(asset)

	fileID, err := f.chat.SendAudio(ctx, sess.ChatID, asset.Path, loc.T("caption.audio", asset.Title))
	if err != nil {
		f.logger.Error("Failed to send audio", zap.Error(err))
		f.editText(ctx, sess.ChatID, cb.MessageID, loc.T("error.generic"))
		return
	}
	if f.fileIDs != nil && fileID != "" {
		f.fileIDs.Add(cacheKey(target.Value, MediaAudio), fileID)
	}

	f.deleteMessage(ctx, sess.ChatID, cb.MessageID)
}

// HandleFindFull resolves a stored video title and re-enters the search path
// with it as a synthetic query. The token is bound to the title, not the
// original URL: "find full song" searches the catalog by name.
func (f *Flow) HandleFindFull(ctx context.Context, sess *Session, cb Callback, token string) {
	loc := i18n.NewLocalizer(sess.Language)

	target, ok := f.refs.Resolve(token)
	if !ok || target.Kind != TargetTitle {
		f.recordStaleRef()
		f.answerCallback(ctx, cb.ID, loc.T("error.stale"))
		return
	}
	f.answerCallback(ctx, cb.ID, "")

	query := f.normalizer.NormalizeTitle(target.Value)
	if query == "" {
		query = target.Value
	}

	if _, err := f.chat.SendText(ctx, sess.ChatID, loc.T("status.find_full", target.Value)); err != nil {
		f.logger.Error("Failed to announce find-full search", zap.Error(err))
	}

	f.recordQuery(modeSearch)
	f.searchAndPresent(ctx, sess, loc, query)
}

func (f *Flow) deliverVideo(ctx context.Context, sess *Session, loc *i18n.Localizer, url string) {
	statusID, err := f.chat.SendText(ctx, sess.ChatID, loc.T("status.downloading_video"))
	if err != nil {
		f.logger.Error("Failed to send status message", zap.Error(err))
		return
	}

	title, err := f.extractor.Probe(ctx, url)
	if err != nil {
		f.logger.Warn("Probe failed", zap.String("url", url), zap.Error(err))
		f.editText(ctx, sess.ChatID, statusID, loc.T(MessageKey(err)))
		return
	}

	asset, err := f.fetch(ctx, url, MediaVideo)
	if err != nil {
		f.logger.Warn("Video fetch failed", zap.String("url", url), zap.Error(err))
		f.editText(ctx, sess.ChatID, statusID, loc.T(MessageKey(err)))
		return
	}
	// Unconditional scratch cleanup, also when the send below fails.
	defer f.removeAsset(asset)

	token := f.refs.Put(Target{Kind: TargetTitle, Value: title})
	menu := &Menu{Rows: [][]Button{{
		{Label: loc.T("button.find_full"), Data: FindFullPrefix + token},
	}}}

	caption := loc.T("caption.video", asset.Title)
	if err := f.chat.SendVideo(ctx, sess.ChatID, asset.Path, caption, menu); err != nil {
		f.logger.Error("Failed to send video", zap.Error(err))
		f.editText(ctx, sess.ChatID, statusID, loc.T("error.generic"))
		return
	}

	f.deleteMessage(ctx, sess.ChatID, statusID)
}

func (f *Flow) searchAndPresent(ctx context.Context, sess *Session, loc *i18n.Localizer, query string) {
	statusID, err := f.chat.SendText(ctx, sess.ChatID, loc.T("status.searching", query))
	if err != nil {
		f.logger.Error("Failed to send status message", zap.Error(err))
		return
	}

	limit := ClampLimit(f.config.Extract.SearchLimit)
	candidates, err := f.extractor.Search(ctx, query, limit)
	if err != nil {
		f.logger.Warn("Search failed", zap.String("query", query), zap.Error(err))
		f.recordSearch("error")
		f.editText(ctx, sess.ChatID, statusID, loc.T("error.search"))
		return
	}
	if len(candidates) == 0 {
		f.recordSearch("empty")
		f.editText(ctx, sess.ChatID, statusID, loc.T("error.not_found"))
		return
	}
	f.recordSearch("ok")

	body, menu, err := BuildMenu(
		loc.T("menu.header"), candidates, f.refs, f.config.App.MenuWidth, f.config.App.TitleBudget)
	if err != nil {
		f.logger.Error("Failed to build selection menu", zap.Error(err))
		f.editText(ctx, sess.ChatID, statusID, loc.T("error.generic"))
		return
	}

	if err := f.chat.EditMenu(ctx, sess.ChatID, statusID, body, menu); err != nil {
		f.logger.Error("Failed to present selection menu", zap.Error(err))
	}
}

// deliverCachedAudio reuses a previously uploaded file ID for the URL. It
// reports true only when the cached copy was actually delivered; a dead file
// ID falls back to a fresh fetch.
func (f *Flow) deliverCachedAudio(ctx context.Context, sess *Session, loc *i18n.Localizer, cb Callback, url string) bool {
	if f.fileIDs == nil {
		return false
	}
	fileID, ok := f.fileIDs.Get(cacheKey(url, MediaAudio))
	if !ok {
		return false
	}
	if err := f.chat.SendAudioByID(ctx, sess.ChatID, fileID, ""); err != nil {
		f.logger.Debug("Cached file ID rejected, refetching",
			zap.String("url", url),
			zap.Error(err))
		return false
	}
	if f.metrics != nil {
		f.metrics.RecordCacheHit()
	}
	f.deleteMessage(ctx, sess.ChatID, cb.MessageID)
	return true
}

// fetch runs the blocking download through the bounded worker pool so a slow
// extraction never stalls other users' updates.
func (f *Flow) fetch(ctx context.Context, url string, kind MediaKind) (*Asset, error) {
	type result struct {
		asset *Asset
		err   error
	}
	done := make(chan result, 1)

	start := time.Now()
	if err := f.pool.TrySubmit(func() {
		asset, err := f.extractor.Fetch(ctx, url, kind)
		done <- result{asset: asset, err: err}
	}); err != nil {
		f.recordFetch(kind, "rejected")
		return nil, err
	}

	select {
	case r := <-done:
		if f.metrics != nil {
			f.metrics.RecordFetchDuration(kind.String(), time.Since(start).Seconds())
		}
		if r.err != nil {
			f.recordFetch(kind, "error")
			return nil, r.err
		}
		f.recordFetch(kind, "ok")
		return r.asset, nil
	case <-ctx.Done():
		f.recordFetch(kind, "canceled")
		return nil, ctx.Err()
	}
}

func (f *Flow) removeAsset(asset *Asset) {
	if err := os.Remove(asset.Path); err != nil && !os.IsNotExist(err) {
		f.logger.Warn("Failed to remove scratch file",
			zap.String("path", asset.Path),
			zap.Error(err))
	}
}

func (f *Flow) editText(ctx context.Context, chatID int64, messageID int, body string) {
	if err := f.chat.EditText(ctx, chatID, messageID, body); err != nil {
		f.logger.Debug("Failed to edit status message", zap.Error(err))
	}
}

func (f *Flow) deleteMessage(ctx context.Context, chatID int64, messageID int) {
	if err := f.chat.DeleteMessage(ctx, chatID, messageID); err != nil {
		f.logger.Debug("Failed to delete message", zap.Error(err))
	}
}

func (f *Flow) answerCallback(ctx context.Context, callbackID, notice string) {
	if err := f.chat.AnswerCallback(ctx, callbackID, notice); err != nil {
		f.logger.Debug("Failed to answer callback query", zap.Error(err))
	}
}

func (f *Flow) recordQuery(mode string) {
	if f.metrics != nil {
		f.metrics.RecordQuery(mode)
	}
}

func (f *Flow) recordSearch(status string) {
	if f.metrics != nil {
		f.metrics.RecordSearch(status)
	}
}

func (f *Flow) recordFetch(kind MediaKind, status string) {
	if f.metrics != nil {
		f.metrics.RecordFetch(kind.String(), status)
	}
}

func (f *Flow) recordStaleRef() {
	if f.metrics != nil {
		f.metrics.RecordStaleRef()
	}
}

func cacheKey(url string, kind MediaKind) string {
	return kind.String() + ":" + url
}
