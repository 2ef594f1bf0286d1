package i18n

var russianMessages = map[string]string{
	"start.welcome": "✨ Пришли название песни или ссылку на видео!",

	"status.searching":         "🔍 Ищу: %s...",
	"status.downloading_video": "⏳ Загружаю видео...",
	"status.converting":        "📥 Конвертирую в MP3...",
	"status.find_full":         "🔎 Ищу полную версию для: %s",

	"menu.header": "🎶 Что именно скачать?",

	"button.find_full": "🔍 Найти полную песню",

	"caption.video": "✅ %s",
	"caption.audio": "🎶 %s",

	"error.not_found":          "❌ Не найдено.",
	"error.search":             "❌ Ошибка поиска.",
	"error.generic":            "❌ Ошибка загрузки.",
	"error.stale":              "Кнопка устарела. Отправь запрос ещё раз.",
	"error.source_unavailable": "❌ Источник недоступен или ограничен.",
	"error.unsupported_url":    "❌ Не могу скачать по этой ссылке.",
	"error.transcode":          "❌ Ошибка конвертации аудио.",
	"error.rate_limited":       "❌ Источник ограничивает запросы. Попробуй через минуту.",
	"error.busy":               "⌛ Слишком много загрузок. Попробуй чуть позже.",
	"error.flooded":            "✋ Помедленнее, пожалуйста.",

	"gate.join": "🔒 Подпишись на %s, чтобы пользоваться ботом.",

	"lang.prompt": "🌍 Select language / Выберите язык",
	"lang.set":    "✅ Язык переключён на русский.",
}
