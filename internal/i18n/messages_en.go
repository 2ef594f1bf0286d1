package i18n

var englishMessages = map[string]string{
	"start.welcome": "✨ Send me a song name or a video link!",

	"status.searching":         "🔍 Searching: %s...",
	"status.downloading_video": "⏳ Downloading video...",
	"status.converting":        "📥 Converting to MP3...",
	"status.find_full":         "🔎 Looking for the full version of: %s",

	"menu.header": "🎶 Which one should I download?",

	"button.find_full": "🔍 Find full song",

	"caption.video": "✅ %s",
	"caption.audio": "🎶 %s",

	"error.not_found":          "❌ Nothing found.",
	"error.search":             "❌ Search failed.",
	"error.generic":            "❌ Download failed.",
	"error.stale":              "This selection has expired. Send your search again.",
	"error.source_unavailable": "❌ The source is unavailable or restricted.",
	"error.unsupported_url":    "❌ I can't download from this link.",
	"error.transcode":          "❌ Audio conversion failed.",
	"error.rate_limited":       "❌ The source is throttling us. Try again in a minute.",
	"error.busy":               "⌛ Too many downloads right now. Try again shortly.",
	"error.flooded":            "✋ Slow down a little, please.",

	"gate.join": "🔒 Please join %s to use this bot.",

	"lang.prompt": "🌍 Select language / Выберите язык",
	"lang.set":    "✅ Language set to English.",
}
